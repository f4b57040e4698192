package stub

import (
	"fmt"
	"strings"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

const (
	defaultServings     = 2
	templateModel       = "llm-unavailable"
	templateDescription = "A comforting dish generated offline because the AI model is unavailable."
)

// pantryStaples are never put on a shopping list
var pantryStaples = map[string]bool{"salt": true, "pepper": true}

// SuggestionRequest represents a recipe generation request
type SuggestionRequest struct {
	Ingredients        []string `json:"ingredients" binding:"required,min=1,dive,required"`
	DietPreferences    []string `json:"diet_preferences"`
	ExcludeIngredients []string `json:"exclude_ingredients"`
	Cuisine            string   `json:"cuisine"`
	Servings           int      `json:"servings" binding:"omitempty,min=1"`
	Notes              string   `json:"notes"`
	Language           string   `json:"language"`
}

// Generator turns a request into a recipe
type Generator interface {
	Generate(req SuggestionRequest) Recipe
}

// TemplateGenerator builds a deterministic recipe from the ingredient list.
// It is what the real backend falls back to when no model is reachable.
type TemplateGenerator struct{}

// Generate implements Generator
func (TemplateGenerator) Generate(req SuggestionRequest) Recipe {
	title := "AI Pantry Bowl"
	if n := min(len(req.Ingredients), 2); n > 0 {
		title = fmt.Sprintf("Creative %s Bowl", strings.Join(req.Ingredients[:n], ", "))
	}

	servings := req.Servings
	if servings == 0 {
		servings = defaultServings
	}

	ingredients := make([]api.Ingredient, 0, len(req.Ingredients))
	var shopping []string
	for _, name := range req.Ingredients {
		ingredients = append(ingredients, api.Ingredient{Name: name, Quantity: "as needed"})
		if !pantryStaples[strings.ToLower(name)] {
			shopping = append(shopping, name)
		}
	}

	return Recipe{
		Title:           title,
		Description:     templateDescription,
		Servings:        servings,
		PrepTimeMinutes: 15,
		CookTimeMinutes: 20,
		Ingredients:     ingredients,
		Instructions: []api.Instruction{
			{Step: 1, Description: "Prep all ingredients by chopping into bite-sized pieces."},
			{Step: 2, Description: "Sauté aromatics, add remaining ingredients, and cook until tender."},
			{Step: 3, Description: "Season to taste, plate, and garnish with herbs or seeds."},
		},
		Nutrition: map[string]float64{
			"calories":  450,
			"protein_g": 24,
			"carbs_g":   40,
			"fats_g":    18,
		},
		ShoppingList: shopping,
		Source:       "ai",
		ModelVersion: templateModel,
	}
}
