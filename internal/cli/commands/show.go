package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/cli/recipeselect"
)

// NewShowCmd creates the show command
func NewShowCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show [recipe-id]",
		Short: "Show a saved recipe (pick one interactively if no ID is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runShow(cmd.Context(), env, args, nil)
		},
	}
}

func runShow(ctx context.Context, env *Env, args []string, prompt recipeselect.Prompter) error {
	token := env.token(ctx)

	var recipes []api.Recipe
	if len(args) == 0 {
		list, err := unwrap(env.API.ListRecipes(ctx, api.ListParams{Scope: api.ScopeMine}, token))
		if err != nil {
			return fmt.Errorf("failed to list recipes: %w", err)
		}
		recipes = list.Recipes
	}

	id, err := recipeselect.ResolveRecipe(args, recipes, prompt)
	if err != nil {
		return err
	}

	resp, err := unwrap(env.API.FetchRecipe(ctx, id, token))
	if err != nil {
		return fmt.Errorf("recipe %s: %w", id, err)
	}

	printRecipe(env.Out, resp.Recipe)
	return nil
}
