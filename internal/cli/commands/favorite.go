package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

// NewFavoriteCmd creates the favorite command
func NewFavoriteCmd(g *Globals) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "favorite <recipe-id>",
		Short: "Mark a recipe as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			action := api.FavoriteAdd
			if remove {
				action = api.FavoriteRemove
			}
			return runFavorite(cmd.Context(), env, args[0], action)
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the recipe from favorites instead")

	return cmd
}

func runFavorite(ctx context.Context, env *Env, recipeID string, action api.FavoriteAction) error {
	if _, err := unwrap(env.API.ToggleFavorite(ctx, recipeID, action, env.token(ctx))); err != nil {
		return err
	}

	if action == api.FavoriteRemove {
		fmt.Fprintf(env.Out, "✓ Removed %s from favorites\n", recipeID)
	} else {
		fmt.Fprintf(env.Out, "✓ Added %s to favorites\n", recipeID)
	}
	return nil
}
