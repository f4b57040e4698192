package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runLogout(cmd.Context(), env)
		},
	}
}

func runLogout(ctx context.Context, env *Env) error {
	_, signedIn := env.Store.Current()

	if err := env.Store.SignOut(ctx); err != nil {
		env.Log.Warn().Err(err).Msg("Identity provider sign-out failed; local session cleared")
	}

	// The backend endpoint only clears server-side cookies
	if _, err := env.API.BackendLogout(ctx); err != nil {
		env.Log.Debug().Err(err).Msg("Backend logout failed")
	}

	if signedIn {
		fmt.Fprintln(env.Out, "✓ Signed out")
	} else {
		fmt.Fprintln(env.Out, "Not signed in")
	}
	return nil
}
