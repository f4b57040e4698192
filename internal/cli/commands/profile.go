package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

// NewProfileCmd creates the profile command. Without flags it shows the
// profile; any flag turns it into an update of just those fields.
func NewProfileCmd(g *Globals) *cobra.Command {
	var (
		displayName   string
		avatarURL     string
		diet          []string
		allergens     []string
		calorieTarget int
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := g.Env(cmd.Context())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var update api.ProfileUpdate
			changed := false
			if flags.Changed("display-name") {
				update.DisplayName = &displayName
				changed = true
			}
			if flags.Changed("avatar-url") {
				update.AvatarURL = &avatarURL
				changed = true
			}
			if flags.Changed("diet") {
				update.DietPreferences = diet
				changed = true
			}
			if flags.Changed("allergen") {
				update.Allergens = allergens
				changed = true
			}
			if flags.Changed("calorie-target") {
				update.CalorieTarget = &calorieTarget
				changed = true
			}

			if !changed {
				return runProfileShow(cmd.Context(), env)
			}
			return runProfileUpdate(cmd.Context(), env, update)
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "Name shown on your recipes")
	cmd.Flags().StringVar(&avatarURL, "avatar-url", "", "Avatar image URL")
	cmd.Flags().StringSliceVar(&diet, "diet", nil, "Diet preferences")
	cmd.Flags().StringSliceVar(&allergens, "allergen", nil, "Ingredients you are allergic to")
	cmd.Flags().IntVar(&calorieTarget, "calorie-target", 0, "Daily calorie target")

	return cmd
}

func runProfileShow(ctx context.Context, env *Env) error {
	resp, err := unwrap(env.API.GetProfile(ctx, env.token(ctx)))
	if err != nil {
		return err
	}
	if resp.Profile == nil {
		fmt.Fprintln(env.Out, "No profile saved yet.")
		fmt.Fprintln(env.Out, "\nSet one with: recipes profile --display-name <name> --diet <preference>")
		return nil
	}
	printProfile(env, resp.Profile)
	return nil
}

func runProfileUpdate(ctx context.Context, env *Env, update api.ProfileUpdate) error {
	resp, err := unwrap(env.API.UpdateProfile(ctx, update, env.token(ctx)))
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	fmt.Fprintln(env.Out, "✓ Profile updated")
	if resp.Profile != nil {
		printProfile(env, resp.Profile)
	}
	return nil
}

func printProfile(env *Env, p *api.Profile) {
	orNone := func(values []string) string {
		if len(values) == 0 {
			return "none"
		}
		return strings.Join(values, ", ")
	}

	fmt.Fprintf(env.Out, "Display name:  %s\n", p.DisplayName)
	fmt.Fprintf(env.Out, "Diet:          %s\n", orNone(p.DietPreferences))
	fmt.Fprintf(env.Out, "Allergens:     %s\n", orNone(p.Allergens))
	if p.CalorieTarget != nil {
		fmt.Fprintf(env.Out, "Calorie target: %d\n", *p.CalorieTarget)
	}
	if p.AvatarURL != "" {
		fmt.Fprintf(env.Out, "Avatar:        %s\n", p.AvatarURL)
	}
}
