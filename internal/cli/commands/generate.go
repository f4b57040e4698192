package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/cli/userconfig"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd(g *Globals) *cobra.Command {
	var req api.RecipeRequest

	cmd := &cobra.Command{
		Use:   "generate <ingredient>...",
		Short: "Generate a recipe from the ingredients you have",
		Example: `  recipes generate eggs rice "spring onion"
  recipes generate eggs,rice --diet vegetarian --servings 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Ingredients = splitIngredients(args)
			if req.Language == "" {
				lang, err := userconfig.GetLanguage()
				if err != nil {
					return err
				}
				req.Language = lang
			}

			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runGenerate(cmd.Context(), env, req)
		},
	}

	cmd.Flags().StringSliceVar(&req.DietPreferences, "diet", nil, "Diet preferences, e.g. vegetarian,gluten-free")
	cmd.Flags().StringSliceVar(&req.ExcludeIngredients, "exclude", nil, "Ingredients to leave out")
	cmd.Flags().StringVar(&req.Cuisine, "cuisine", "", "Preferred cuisine")
	cmd.Flags().IntVar(&req.Servings, "servings", 0, "Number of servings")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Free-form notes for the generator")
	cmd.Flags().StringVar(&req.Language, "language", "", "Recipe language (defaults to 'recipes language')")

	return cmd
}

func runGenerate(ctx context.Context, env *Env, req api.RecipeRequest) error {
	resp, err := unwrap(env.API.GenerateRecipe(ctx, req, env.token(ctx)))
	if err != nil {
		return fmt.Errorf("failed to generate recipe: %w", err)
	}

	printRecipe(env.Out, resp.Recipe)
	if resp.SavedRecipeID != "" {
		fmt.Fprintf(env.Out, "\n✓ Saved as %s\n", resp.SavedRecipeID)
	}
	return nil
}

// splitIngredients accepts both separate arguments and comma separated lists
func splitIngredients(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
