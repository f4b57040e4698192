package identity

import (
	"context"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/session"
)

// Disabled stands in for the provider where there is no interactive
// context. Every call fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) SignInWithPassword(context.Context, string, string) (session.Session, error) {
	return session.Session{}, ErrNotConfigured
}

func (Disabled) RefreshSession(context.Context, string) (session.Session, error) {
	return session.Session{}, ErrNotConfigured
}

func (Disabled) SignOut(context.Context, string) error {
	return ErrNotConfigured
}

// GetUser returns an unauthenticated (empty) user
func (Disabled) GetUser(context.Context, string) (session.User, error) {
	return session.User{}, ErrNotConfigured
}
