package stub

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

const (
	defaultListLimit   = 20
	recommendationSize = 10
	recommendationScan = 100
)

// ListQuery filters the recipe listing
type ListQuery struct {
	Scope string `form:"scope" binding:"omitempty,oneof=mine public favorites"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// HistoryQuery bounds the history listing
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// FavoriteRequest represents a favorite toggle
type FavoriteRequest struct {
	RecipeID string `json:"recipe_id" binding:"required,uuid"`
	Action   string `json:"action" binding:"required,oneof=add remove"`
}

func (s *Server) internalError(c *gin.Context, err error, message string) {
	s.logger.Error().Err(err).Msg(message)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": message})
}

func (s *Server) createSuggestion(c *gin.Context) {
	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := currentUser(c)
	recipe := s.generator.Generate(req)
	if user != nil {
		recipe.CreatedByID = &user.ID
	}

	var entry *HistoryEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		// Anonymous requests are not tracked
		if user == nil {
			return nil
		}

		query := req.Notes
		if query == "" {
			query = strings.Join(req.Ingredients, ", ")
		}
		entry = &HistoryEntry{
			UserID:            user.ID,
			Query:             query,
			Ingredients:       req.Ingredients,
			DietPreferences:   req.DietPreferences,
			GeneratedRecipeID: recipe.ID,
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		s.internalError(c, err, "Failed to save recipe")
		return
	}

	resp := api.GenerateResponse{
		Recipe:        recipe.toAPI(false),
		Supabase:      "connected",
		SavedRecipeID: recipe.ID,
	}
	if entry != nil {
		resp.HistoryEntryID = entry.ID
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) listRecipes(c *gin.Context) {
	user := currentUser(c)

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultListLimit
	}

	query := s.db.Model(&Recipe{}).Select("recipes.*").Order("recipes.created_at DESC").Limit(q.Limit)
	switch api.Scope(q.Scope) {
	case api.ScopePublic:
	case api.ScopeFavorites:
		query = query.Joins("JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", user.ID)
	default:
		query = query.Where("recipes.created_by_id = ?", user.ID)
	}

	var rows []Recipe
	if err := query.Find(&rows).Error; err != nil {
		s.internalError(c, err, "Failed to list recipes")
		return
	}

	favorites, err := s.favoriteSet(user.ID)
	if err != nil {
		s.internalError(c, err, "Failed to list recipes")
		return
	}

	recipes := make([]api.Recipe, 0, len(rows))
	for i := range rows {
		recipes = append(recipes, rows[i].toAPI(favorites[rows[i].ID]))
	}
	c.JSON(http.StatusOK, api.RecipeListResponse{Recipes: recipes})
}

func (s *Server) getRecipe(c *gin.Context) {
	user := currentUser(c)

	var recipe Recipe
	if err := FindByID(s.db, c.Param("id"), &recipe); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found."})
			return
		}
		s.internalError(c, err, "Failed to load recipe")
		return
	}

	favorites, err := s.favoriteSet(user.ID)
	if err != nil {
		s.internalError(c, err, "Failed to load recipe")
		return
	}

	c.JSON(http.StatusOK, api.RecipeResponse{Recipe: recipe.toAPI(favorites[recipe.ID])})
}

func (s *Server) favoriteSet(userID string) (map[string]bool, error) {
	var ids []string
	if err := s.db.Model(&Favorite{}).Where("user_id = ?", userID).Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *Server) toggleFavorite(c *gin.Context) {
	user := currentUser(c)

	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fav := Favorite{UserID: user.ID, RecipeID: req.RecipeID}
	if req.Action == string(api.FavoriteRemove) {
		if err := s.db.Where("user_id = ? AND recipe_id = ?", user.ID, req.RecipeID).Delete(&Favorite{}).Error; err != nil {
			s.internalError(c, err, "Failed to update favorites")
			return
		}
		c.JSON(http.StatusOK, api.StatusResponse{Status: "removed"})
		return
	}

	var count int64
	if err := s.db.Model(&Recipe{}).Where("id = ?", req.RecipeID).Count(&count).Error; err != nil {
		s.internalError(c, err, "Failed to update favorites")
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found."})
		return
	}

	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		s.internalError(c, err, "Failed to update favorites")
		return
	}
	c.JSON(http.StatusOK, api.StatusResponse{Status: "added"})
}

func (s *Server) loadHistory(userID string, limit int) ([]HistoryEntry, error) {
	var rows []HistoryEntry
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (s *Server) listHistory(c *gin.Context) {
	user := currentUser(c)

	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultListLimit
	}

	rows, err := s.loadHistory(user.ID, q.Limit)
	if err != nil {
		s.internalError(c, err, "Failed to list history")
		return
	}

	history := make([]api.HistoryEntry, 0, len(rows))
	for i := range rows {
		history = append(history, rows[i].toAPI())
	}
	c.JSON(http.StatusOK, api.HistoryResponse{History: history})
}

func (s *Server) recommendations(c *gin.Context) {
	user := currentUser(c)

	rows, err := s.loadHistory(user.ID, recommendationScan)
	if err != nil {
		s.internalError(c, err, "Failed to build recommendations")
		return
	}

	c.JSON(http.StatusOK, api.RecommendationsResponse{Suggestions: topIngredients(rows, recommendationSize)})
}

// topIngredients ranks ingredients by how often they appear. Ties keep the
// order in which they were first seen.
func topIngredients(history []HistoryEntry, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, h := range history {
		for _, ing := range h.Ingredients {
			key := strings.ToLower(strings.TrimSpace(ing))
			if key == "" {
				continue
			}
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		order = []string{}
	}
	return order
}
