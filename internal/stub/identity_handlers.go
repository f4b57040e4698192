package stub

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenRequest covers both grant types
type TokenRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse matches the identity provider's session payload
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// UserResponse is the provider's user object
type UserResponse struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	UserMetadata userMetadata `json:"user_metadata"`
}

func userResponse(u *User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Role:         "authenticated",
		UserMetadata: userMetadata{DisplayName: u.DisplayName},
	}
}

var (
	errInvalidCredentials  = errors.New("invalid login credentials")
	errInvalidRefreshToken = errors.New("refresh token not found")
)

func invalidGrant(c *gin.Context, err error) {
	description := "Invalid login credentials"
	if errors.Is(err, errInvalidRefreshToken) {
		description = "Invalid Refresh Token: Refresh Token Not Found"
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant", "error_description": description})
}

func (s *Server) issueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": err.Error()})
		return
	}

	var user *User
	var err error
	switch grant := c.Query("grant_type"); grant {
	case "password":
		user, err = s.passwordGrant(req)
	case "refresh_token":
		user, err = s.refreshGrant(req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "unsupported_grant_type",
			"error_description": "grant_type must be password or refresh_token",
		})
		return
	}
	if err != nil {
		invalidGrant(c, err)
		return
	}

	resp, err := s.newSession(user)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to issue session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Failed to issue session"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Str("grant_type", c.Query("grant_type")).Msg("Session issued")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) passwordGrant(req TokenRequest) (*User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errInvalidCredentials
	}

	var user User
	if err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	return &user, nil
}

// refreshGrant consumes a refresh token. Each token works once.
func (s *Server) refreshGrant(req TokenRequest) (*User, error) {
	var user User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&RefreshToken{}).
			Where("token = ? AND revoked = ?", req.RefreshToken, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInvalidRefreshToken
		}

		var rt RefreshToken
		if err := tx.Where("token = ?", req.RefreshToken).First(&rt).Error; err != nil {
			return err
		}
		return FindByID(tx, rt.UserID, &user)
	})
	if err != nil {
		return nil, errInvalidRefreshToken
	}
	return &user, nil
}

func (s *Server) newSession(user *User) (*TokenResponse, error) {
	access, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	refresh := RefreshToken{Token: uuid.NewString(), UserID: user.ID}
	if err := s.db.Create(&refresh).Error; err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.ttl.Seconds()),
		ExpiresAt:    expiresAt.Unix(),
		RefreshToken: refresh.Token,
		User:         userResponse(user),
	}, nil
}

// providerUser resolves the bearer token for identity endpoints
func (s *Server) providerUser(c *gin.Context) (*User, bool) {
	token, err := extractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "This endpoint requires a Bearer token"})
		return nil, false
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid JWT: " + err.Error()})
		return nil, false
	}

	var user User
	if err := FindByID(s.db, claims.Subject, &user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return nil, false
	}
	return &user, true
}

// revokeSession invalidates every refresh token of the caller
func (s *Server) revokeSession(c *gin.Context) {
	user, ok := s.providerUser(c)
	if !ok {
		return
	}

	if err := s.db.Model(&RefreshToken{}).Where("user_id = ?", user.ID).Update("revoked", true).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to revoke refresh tokens")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Failed to sign out"})
		return
	}

	s.logger.Info().Str("user_id", user.ID).Msg("Session revoked")
	c.Status(http.StatusNoContent)
}

func (s *Server) getUser(c *gin.Context) {
	user, ok := s.providerUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}
