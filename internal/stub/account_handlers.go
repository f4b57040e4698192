package stub

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
)

// RegisterRequest represents an account creation request
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,min=8,eqfield=Password"`
}

// ProfileUpdateRequest lists the fields to change; absent fields stay as they are
type ProfileUpdateRequest struct {
	DisplayName     *string  `json:"display_name" binding:"omitempty,max=120"`
	AvatarURL       *string  `json:"avatar_url" binding:"omitempty,url"`
	DietPreferences []string `json:"diet_preferences"`
	Allergens       []string `json:"allergens"`
	CalorieTarget   *int     `json:"calorie_target" binding:"omitempty,min=0"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}

func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	email := strings.ToLower(req.Email)
	domain := email[strings.LastIndex(email, "@")+1:]
	if len(s.config.AllowedEmailDomains) > 0 && !slices.Contains(s.config.AllowedEmailDomains, domain) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email domain is not allowed. Please use a trusted provider."})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create account"})
		return
	}

	user := &User{Email: email, PasswordHash: string(passwordHash)}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to create account: User already registered"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create account"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	c.JSON(http.StatusCreated, api.MessageResponse{Message: "Account created. Please check your inbox to confirm email."})
}

// logout is stateless; the client clears its own session
func (s *Server) logout(c *gin.Context) {
	c.JSON(http.StatusOK, api.StatusResponse{Status: "ok"})
}

func (s *Server) authStatus(c *gin.Context) {
	c.JSON(http.StatusOK, api.AuthStatusResponse{IsLoggedIn: currentUser(c) != nil})
}

func (s *Server) getProfile(c *gin.Context) {
	user := currentUser(c)

	var profile Profile
	err := s.db.Where("user_id = ?", user.ID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, api.ProfileResponse{})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, api.ProfileResponse{Profile: profile.toAPI()})
}

func (s *Server) updateProfile(c *gin.Context) {
	user := currentUser(c)

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var profile Profile
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(Profile{UserID: user.ID}).FirstOrInit(&profile).Error; err != nil {
			return err
		}

		if req.DisplayName != nil {
			profile.DisplayName = *req.DisplayName
		}
		if req.AvatarURL != nil {
			profile.AvatarURL = *req.AvatarURL
		}
		if req.DietPreferences != nil {
			profile.DietPreferences = req.DietPreferences
		}
		if req.Allergens != nil {
			profile.Allergens = req.Allergens
		}
		if req.CalorieTarget != nil {
			profile.CalorieTarget = req.CalorieTarget
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&profile).Error; err != nil {
			return err
		}

		// Issued tokens carry the display name
		if req.DisplayName != nil {
			return tx.Model(user).Update("display_name", *req.DisplayName).Error
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save profile")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, api.ProfileResponse{Profile: profile.toAPI()})
}
