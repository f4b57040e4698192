package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

// NewRecipesCmd creates the recipes command
func NewRecipesCmd(g *Globals) *cobra.Command {
	var scope string
	var limit int

	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"ls"},
		Short:   "List saved recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runRecipes(cmd.Context(), env, api.ListParams{Scope: api.Scope(scope), Limit: limit})
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Which recipes to list: mine, public or favorites")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of recipes (1-50)")

	return cmd
}

func runRecipes(ctx context.Context, env *Env, params api.ListParams) error {
	resp, err := unwrap(env.API.ListRecipes(ctx, params, env.token(ctx)))
	if err != nil {
		return err
	}

	if len(resp.Recipes) == 0 {
		fmt.Fprintln(env.Out, "No recipes found.")
		fmt.Fprintln(env.Out, "\nGenerate one with: recipes generate <ingredient>...")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSERVINGS\tFAVORITE\tCREATED AT")
	fmt.Fprintln(w, "──\t─────\t────────\t────────\t──────────")

	for _, r := range resp.Recipes {
		fav := ""
		if r.IsFavorite {
			fav = "★"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Title, r.Servings, fav, r.CreatedAt)
	}

	return w.Flush()
}
