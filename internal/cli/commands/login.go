package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd(g *Globals) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your recipe account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = os.Getenv("RECIPES_EMAIL")
			}
			if password == "" {
				password = os.Getenv("RECIPES_PASSWORD")
			}
			if email == "" {
				return fmt.Errorf("email is required (use --email flag or RECIPES_EMAIL env var)")
			}
			if password == "" {
				p, err := promptSecret("Password: ")
				if err != nil {
					return err
				}
				password = p
			}

			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runLogin(cmd.Context(), env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set RECIPES_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set RECIPES_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, password string) error {
	sess, err := env.Store.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintln(env.Out, "✓ Login successful!")
	name := sess.User.DisplayName
	if name == "" {
		name = sess.User.Email
	}
	fmt.Fprintf(env.Out, "  User: %s (%s)\n", name, sess.User.Email)
	return nil
}

// promptSecret reads a line without echo. It refuses to run when stdin is piped.
func promptSecret(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or RECIPES_PASSWORD env var)")
	}

	fmt.Print(label)
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}
