package stub

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

// BaseModel provides common fields and an auto-generated ULID
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User is an identity provider account. IDs are UUIDs like the provider's.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// BeforeCreate generates a UUID for the user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken is a single-use refresh grant
type RefreshToken struct {
	Token     string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"index;not null"`
	Revoked   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// Recipe is a generated recipe saved for later
type Recipe struct {
	BaseModel
	Title           string `gorm:"not null"`
	Description     string
	Servings        int
	PrepTimeMinutes int
	CookTimeMinutes int
	Ingredients     []api.Ingredient   `gorm:"serializer:json"`
	Instructions    []api.Instruction  `gorm:"serializer:json"`
	Nutrition       map[string]float64 `gorm:"serializer:json"`
	ShoppingList    []string           `gorm:"serializer:json"`
	ImageURL        string
	Source          string
	ModelVersion    string
	CreatedByID     *string `gorm:"index"`
}

// BeforeCreate generates a UUID for the recipe
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// toAPI converts the row to its wire shape
func (r *Recipe) toAPI(favorite bool) api.Recipe {
	out := api.Recipe{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Servings:        r.Servings,
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
		Ingredients:     r.Ingredients,
		Instructions:    r.Instructions,
		Nutrition:       r.Nutrition,
		ShoppingList:    r.ShoppingList,
		ImageURL:        r.ImageURL,
		Source:          r.Source,
		ModelVersion:    r.ModelVersion,
		IsFavorite:      favorite,
	}
	if r.CreatedByID != nil {
		out.CreatedBy = *r.CreatedByID
	}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// Favorite links a user to a recipe they starred
type Favorite struct {
	UserID    string `gorm:"primaryKey;type:varchar(36)"`
	RecipeID  string `gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time
}

// HistoryEntry records one generation request
type HistoryEntry struct {
	BaseModel
	UserID            string `gorm:"index;not null"`
	Query             string
	Ingredients       []string `gorm:"serializer:json"`
	DietPreferences   []string `gorm:"serializer:json"`
	GeneratedRecipeID string
}

func (h *HistoryEntry) toAPI() api.HistoryEntry {
	return api.HistoryEntry{
		ID:                h.ID,
		Query:             h.Query,
		Ingredients:       h.Ingredients,
		DietPreferences:   h.DietPreferences,
		GeneratedRecipeID: h.GeneratedRecipeID,
		CreatedAt:         h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Profile holds a user's saved preferences
type Profile struct {
	UserID          string `gorm:"primaryKey;type:varchar(36)"`
	DisplayName     string
	AvatarURL       string
	DietPreferences []string `gorm:"serializer:json"`
	Allergens       []string `gorm:"serializer:json"`
	CalorieTarget   *int
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (p *Profile) toAPI() *api.Profile {
	return &api.Profile{
		ID:              p.UserID,
		DisplayName:     p.DisplayName,
		AvatarURL:       p.AvatarURL,
		DietPreferences: p.DietPreferences,
		Allergens:       p.Allergens,
		CalorieTarget:   p.CalorieTarget,
	}
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&User{}, &RefreshToken{}, &Recipe{}, &Favorite{}, &HistoryEntry{}, &Profile{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
