// Package session holds the signed in user's session and the auth-redirect
// recovery run when the backend rejects it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSession is returned when an operation needs a signed in user
	ErrNoSession = errors.New("not signed in")

	// ErrNoRefreshToken is returned when the session cannot be renewed
	ErrNoRefreshToken = errors.New("session has no refresh token")

	errMissingSubject = errors.New("access token has no subject")
)

// User identifies the signed in account
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session is an access token plus the identity it was issued to
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	User         User      `json:"user"`
}

// Expired reports whether the session is past its expiry, or will be within skew.
// Sessions without an expiry never expire.
func (s Session) Expired(now time.Time, skew time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(s.ExpiresAt)
}

type tokenClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		DisplayName string `json:"display_name"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// FromToken builds a session from a bare access token by reading its claims.
// The signature is not verified; the backend does that on every request.
func FromToken(token string) (Session, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.Subject == "" {
		return Session{}, errMissingSubject
	}

	s := Session{
		AccessToken: token,
		User: User{
			ID:          claims.Subject,
			Email:       claims.Email,
			DisplayName: claims.UserMetadata.DisplayName,
		},
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// Provider is the external identity service sessions come from
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProviderSource hands out the process-wide identity provider
type ProviderSource interface {
	Provider() (Provider, error)
}
