package recipeselect

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

// ErrNoRecipes is returned when there is nothing to choose from
var ErrNoRecipes = errors.New("no saved recipes to choose from")

// Prompter picks one of labels and returns its index
type Prompter func(label string, items []string) (int, error)

// ResolveRecipe determines which recipe ID to use:
// 1. If an ID argument is provided, use it as is
// 2. If only one recipe is available, use it
// 3. Otherwise, prompt the user to pick one
func ResolveRecipe(args []string, recipes []api.Recipe, prompt Prompter) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}

	if len(recipes) == 0 {
		return "", ErrNoRecipes
	}
	if len(recipes) == 1 {
		return recipes[0].ID, nil
	}

	if prompt == nil {
		prompt = PromptSelection
	}

	labels := make([]string, len(recipes))
	for i, r := range recipes {
		labels[i] = Label(r)
	}

	index, err := prompt("Select a recipe", labels)
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(recipes) {
		return "", fmt.Errorf("selection %d out of range", index)
	}
	return recipes[index].ID, nil
}

// Label renders a recipe as a single picker line
func Label(r api.Recipe) string {
	label := r.Title
	if r.IsFavorite {
		label = "★ " + label
	}
	if r.CreatedAt != "" {
		label = fmt.Sprintf("%s (%s)", label, r.CreatedAt)
	}
	return label
}

// PromptSelection shows an interactive prompt for the user to pick an item
func PromptSelection(label string, items []string) (int, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return -1, fmt.Errorf("recipe selection cancelled: %w", err)
	}
	return index, nil
}
