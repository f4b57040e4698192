package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecommendationsCmd creates the recommendations command
func NewRecommendationsCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "recommendations",
		Short: "Suggest ingredients based on your history",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runRecommendations(cmd.Context(), env)
		},
	}
}

func runRecommendations(ctx context.Context, env *Env) error {
	resp, err := unwrap(env.API.GetRecommendations(ctx, env.token(ctx)))
	if err != nil {
		return err
	}

	if len(resp.Suggestions) == 0 {
		fmt.Fprintln(env.Out, "No suggestions yet. Generate a few recipes first.")
		return nil
	}

	fmt.Fprintln(env.Out, "You often cook with:")
	for _, s := range resp.Suggestions {
		fmt.Fprintf(env.Out, "  - %s\n", s)
	}
	return nil
}
