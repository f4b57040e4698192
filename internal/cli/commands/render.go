package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

func printRecipe(w io.Writer, r api.Recipe) {
	fmt.Fprintf(w, "%s\n", r.Title)
	fmt.Fprintln(w, strings.Repeat("─", len([]rune(r.Title))))
	if r.Description != "" {
		fmt.Fprintf(w, "%s\n", r.Description)
	}

	var facts []string
	if r.Servings > 0 {
		facts = append(facts, fmt.Sprintf("serves %d", r.Servings))
	}
	if r.PrepTimeMinutes > 0 {
		facts = append(facts, fmt.Sprintf("prep %d min", r.PrepTimeMinutes))
	}
	if r.CookTimeMinutes > 0 {
		facts = append(facts, fmt.Sprintf("cook %d min", r.CookTimeMinutes))
	}
	if len(facts) > 0 {
		fmt.Fprintf(w, "%s\n", strings.Join(facts, " · "))
	}

	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients:")
		for _, ing := range r.Ingredients {
			if ing.Quantity != "" {
				fmt.Fprintf(w, "  - %s %s\n", ing.Quantity, ing.Name)
			} else {
				fmt.Fprintf(w, "  - %s\n", ing.Name)
			}
		}
	}

	if len(r.Instructions) > 0 {
		fmt.Fprintln(w, "\nInstructions:")
		for _, step := range r.Instructions {
			fmt.Fprintf(w, "  %d. %s\n", step.Step, step.Description)
		}
	}

	if len(r.Nutrition) > 0 {
		keys := make([]string, 0, len(r.Nutrition))
		for k := range r.Nutrition {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(w, "\nNutrition:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %g\n", k, r.Nutrition[k])
		}
	}

	if len(r.ShoppingList) > 0 {
		fmt.Fprintf(w, "\nShopping list: %s\n", strings.Join(r.ShoppingList, ", "))
	}
	if r.ID != "" {
		fmt.Fprintf(w, "\nID: %s\n", r.ID)
	}
}
