package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/cli/commands"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&commands.Globals{})
}

func newRootCmd(globals *commands.Globals) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recipes",
		Short: "Recipes - AI-powered personalized recipe generator",
		Long: `Recipes CLI - Turn the ingredients you have into a recipe.

Sign in, generate recipes from your pantry, keep favorites and
get ingredient suggestions based on what you usually cook.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&globals.Headless, "headless", false,
		"Run without an interactive session: no keyring, no sign-in prompts")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recipes version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd(globals))
	rootCmd.AddCommand(commands.NewRegisterCmd(globals))
	rootCmd.AddCommand(commands.NewLogoutCmd(globals))
	rootCmd.AddCommand(commands.NewStatusCmd(globals))
	rootCmd.AddCommand(commands.NewGenerateCmd(globals))
	rootCmd.AddCommand(commands.NewRecipesCmd(globals))
	rootCmd.AddCommand(commands.NewShowCmd(globals))
	rootCmd.AddCommand(commands.NewFavoriteCmd(globals))
	rootCmd.AddCommand(commands.NewHistoryCmd(globals))
	rootCmd.AddCommand(commands.NewProfileCmd(globals))
	rootCmd.AddCommand(commands.NewRecommendationsCmd(globals))
	rootCmd.AddCommand(commands.NewLanguageCmd(os.Stdout))

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	globals := &commands.Globals{}
	if err := newRootCmd(globals).ExecuteContext(ctx); err != nil {
		if globals.ShouldReport(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
