package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(g *Globals) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List your past generation requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runHistory(cmd.Context(), env, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries")

	return cmd
}

func runHistory(ctx context.Context, env *Env, limit int) error {
	resp, err := unwrap(env.API.ListHistory(ctx, limit, env.token(ctx)))
	if err != nil {
		return err
	}

	if len(resp.History) == 0 {
		fmt.Fprintln(env.Out, "No history yet.")
		return nil
	}

	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED AT\tINGREDIENTS\tRECIPE")
	for _, h := range resp.History {
		ingredients := strings.Join(h.Ingredients, ", ")
		if ingredients == "" {
			ingredients = h.Query
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", h.CreatedAt, ingredients, h.GeneratedRecipeID)
	}
	return w.Flush()
}
