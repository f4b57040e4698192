package api

// RecipeRequest is the payload sent to generate a recipe
type RecipeRequest struct {
	Ingredients        []string `json:"ingredients" validate:"required,min=1,dive,required"`
	DietPreferences    []string `json:"diet_preferences,omitempty"`
	ExcludeIngredients []string `json:"exclude_ingredients,omitempty"`
	Cuisine            string   `json:"cuisine,omitempty"`
	Servings           int      `json:"servings,omitempty" validate:"omitempty,min=1"`
	Notes              string   `json:"notes,omitempty"`
	Language           string   `json:"language,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// Ingredient is one line of a recipe's ingredient list
type Ingredient struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity,omitempty"`
}

// Instruction is one numbered preparation step
type Instruction struct {
	Step        int    `json:"step" validate:"min=1"`
	Description string `json:"description" validate:"required"`
}

// Recipe represents a generated or saved recipe
type Recipe struct {
	ID              string             `json:"id,omitempty"`
	Title           string             `json:"title" validate:"required"`
	Description     string             `json:"description"`
	Servings        int                `json:"servings"`
	PrepTimeMinutes int                `json:"prep_time_minutes"`
	CookTimeMinutes int                `json:"cook_time_minutes"`
	Ingredients     []Ingredient       `json:"ingredients" validate:"dive"`
	Instructions    []Instruction      `json:"instructions" validate:"dive"`
	Nutrition       map[string]float64 `json:"nutrition,omitempty"`
	ShoppingList    []string           `json:"shopping_list,omitempty"`
	ImageURL        string             `json:"image_url,omitempty"`
	Source          string             `json:"source,omitempty"`
	ModelVersion    string             `json:"model_version,omitempty"`
	CreatedBy       string             `json:"created_by,omitempty"`
	CreatedAt       string             `json:"created_at,omitempty"`
	IsFavorite      bool               `json:"is_favorite,omitempty"`
}

// GenerateResponse is returned by the suggestions endpoint
type GenerateResponse struct {
	Recipe         Recipe `json:"recipe"`
	SavedRecipeID  string `json:"saved_recipe_id,omitempty"`
	HistoryEntryID string `json:"history_entry_id,omitempty"`
	Supabase       string `json:"supabase,omitempty"` // storage status reported by the backend
}

// Scope selects a subset of saved recipes
type Scope string

const (
	ScopeMine      Scope = "mine"
	ScopePublic    Scope = "public"
	ScopeFavorites Scope = "favorites"
)

// ListParams filters the saved recipe listing
type ListParams struct {
	Scope Scope `json:"scope,omitempty" validate:"omitempty,oneof=mine public favorites"`
	Limit int   `json:"limit,omitempty" validate:"omitempty,min=1,max=50"`
}

// RecipeListResponse is returned by the recipe listing
type RecipeListResponse struct {
	Recipes []Recipe `json:"recipes" validate:"required,dive"`
}

// RecipeResponse wraps a single recipe
type RecipeResponse struct {
	Recipe Recipe `json:"recipe"`
}

// HistoryEntry is one past generation request
type HistoryEntry struct {
	ID                string   `json:"id"`
	Query             string   `json:"query"`
	Ingredients       []string `json:"ingredients,omitempty"`
	DietPreferences   []string `json:"diet_preferences,omitempty"`
	GeneratedRecipeID string   `json:"generated_recipe_id,omitempty"`
	CreatedAt         string   `json:"created_at,omitempty"`
}

// HistoryResponse is returned by the history endpoint
type HistoryResponse struct {
	History []HistoryEntry `json:"history" validate:"required,dive"`
}

// FavoriteAction adds or removes a favorite
type FavoriteAction string

const (
	FavoriteAdd    FavoriteAction = "add"
	FavoriteRemove FavoriteAction = "remove"
)

// FavoriteRequest is the body of a favorite toggle
type FavoriteRequest struct {
	RecipeID string         `json:"recipe_id" validate:"required"`
	Action   FavoriteAction `json:"action" validate:"required,oneof=add remove"`
}

// StatusResponse carries a short status word
type StatusResponse struct {
	Status string `json:"status" validate:"required"`
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// MessageResponse carries a human readable message
type MessageResponse struct {
	Message string `json:"message" validate:"required"`
}

// Profile holds a user's preferences
type Profile struct {
	ID              string   `json:"id,omitempty"`
	DisplayName     string   `json:"display_name,omitempty"`
	AvatarURL       string   `json:"avatar_url,omitempty"`
	DietPreferences []string `json:"diet_preferences,omitempty"`
	Allergens       []string `json:"allergens,omitempty"`
	CalorieTarget   *int     `json:"calorie_target,omitempty"`
}

// ProfileResponse wraps a profile; Profile is nil when none was saved yet
type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

// ProfileUpdate lists the fields to change; nil fields are left as they are
type ProfileUpdate struct {
	DisplayName     *string  `json:"display_name,omitempty"`
	AvatarURL       *string  `json:"avatar_url,omitempty" validate:"omitempty,url"`
	DietPreferences []string `json:"diet_preferences,omitempty"`
	Allergens       []string `json:"allergens,omitempty"`
	CalorieTarget   *int     `json:"calorie_target,omitempty" validate:"omitempty,min=0"`
}

// RecommendationsResponse lists suggested ingredients
type RecommendationsResponse struct {
	Suggestions []string `json:"suggestions" validate:"required"`
}

// AuthStatusResponse reports whether the token was accepted
type AuthStatusResponse struct {
	IsLoggedIn bool `json:"isLoggedIn"`
}
