package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/identity"
)

// NewStatusCmd creates the status command
func NewStatusCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who you are signed in as",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), env)
		},
	}
}

func runStatus(ctx context.Context, env *Env) error {
	sess, ok := env.Store.Current()
	if !ok {
		fmt.Fprintln(env.Out, "Not signed in")
		fmt.Fprintln(env.Out, "\nSign in with: recipes login --email <address>")
		return nil
	}

	fmt.Fprintf(env.Out, "Signed in as %s\n", sess.User.Email)
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(env.Out, "  Session expires: %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}

	token := env.token(ctx)
	if env.Users != nil {
		u, err := env.Users.GetUser(ctx, token)
		switch {
		case err == nil:
			fmt.Fprintf(env.Out, "  Identity provider: %s (%s)\n", u.Email, u.ID)
		case errors.Is(err, identity.ErrNotConfigured):
		default:
			fmt.Fprintf(env.Out, "  Identity provider: session rejected (%v)\n", err)
		}
	}

	status, err := unwrap(env.API.CheckAuthStatus(ctx, token))
	if err != nil {
		return err
	}
	if status.IsLoggedIn {
		fmt.Fprintln(env.Out, "  Backend: session accepted")
	} else {
		fmt.Fprintln(env.Out, "  Backend: session not recognized")
	}
	return nil
}
