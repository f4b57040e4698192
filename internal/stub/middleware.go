package stub

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	bearerScheme = "bearer"

	codeAuthRequired        = "auth_required"
	codeInvalidAuthHeader   = "invalid_authorization_header"
	contextUserKey          = "user"
	detailNoCredentials     = "Authentication credentials were not provided."
	detailInvalidAuthHeader = "Invalid Authorization header."
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrOtherScheme       = errors.New("not a bearer token")
)

func setUser(c *gin.Context, user *User) {
	c.Set(contextUserKey, user)
}

// currentUser returns the authenticated user, or nil for anonymous callers
func currentUser(c *gin.Context) *User {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, _ := v.(*User)
	return user
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 {
		return "", ErrInvalidAuthFormat
	}
	if !strings.EqualFold(parts[0], bearerScheme) {
		return "", ErrOtherScheme
	}
	return parts[1], nil
}

// rejectAuth answers with the signal that sends the client back to sign-in
func (s *Server) rejectAuth(c *gin.Context, code, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":      code,
		"detail":    detail,
		"login_url": s.loginURL,
	})
}

// authMiddleware resolves the bearer token to a user. When required is
// false, requests without credentials pass through anonymously.
func (s *Server) authMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		switch {
		case errors.Is(err, ErrInvalidAuthFormat):
			s.rejectAuth(c, codeInvalidAuthHeader, detailInvalidAuthHeader)
			return
		case err != nil:
			if required {
				s.rejectAuth(c, codeAuthRequired, detailNoCredentials)
				return
			}
			c.Next()
			return
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			s.logger.Debug().Err(err).Msg("Rejected access token")
			s.rejectAuth(c, codeAuthRequired, "Invalid or expired token.")
			return
		}

		var user User
		if err := FindByID(s.db, claims.Subject, &user); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error().Err(err).Str("user_id", claims.Subject).Msg("Failed to load user")
			}
			s.rejectAuth(c, codeAuthRequired, "User not found.")
			return
		}

		setUser(c, &user)
		c.Next()
	}
}

// requireAPIKey rejects identity calls without a project key
func requireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("apikey") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No API key found in request"})
			return
		}
		c.Next()
	}
}
