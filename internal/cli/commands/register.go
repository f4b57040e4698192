package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd(g *Globals) *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a recipe account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" {
				return fmt.Errorf("email is required (use --email flag)")
			}
			if req.Password == "" {
				p, err := promptSecret("Password: ")
				if err != nil {
					return err
				}
				req.Password = p
			}
			if req.ConfirmPassword == "" {
				p, err := promptSecret("Confirm password: ")
				if err != nil {
					return err
				}
				req.ConfirmPassword = p
			}

			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}
			return runRegister(cmd.Context(), env, req)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "Password confirmation (will prompt if not provided)")

	return cmd
}

func runRegister(ctx context.Context, env *Env, req api.RegisterRequest) error {
	resp, err := unwrap(env.API.RegisterUser(ctx, req))
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Fprintf(env.Out, "✓ %s\n", resp.Message)
	fmt.Fprintln(env.Out, "\nSign in with: recipes login --email", req.Email)
	return nil
}
