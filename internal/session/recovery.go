package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/config"
)

// Navigator sends the user to the login surface. It only exists in
// interactive contexts.
type Navigator interface {
	Navigate(loginURL string) error
}

type signOuter interface {
	SignOut(ctx context.Context) error
}

// Recovery purges the session and sends the user to sign in again.
// It is idempotent; concurrent calls are harmless.
type Recovery struct {
	store     signOuter
	navigator Navigator
	logger    zerolog.Logger
}

// NewRecovery creates a recovery over store. A nil navigator skips navigation.
func NewRecovery(store *Store, navigator Navigator, log zerolog.Logger) *Recovery {
	return &Recovery{store: store, navigator: navigator, logger: log}
}

// Recover signs out best-effort, then navigates to loginURL. Sign-out
// failures are logged and never prevent navigation.
func (r *Recovery) Recover(ctx context.Context, loginURL string) {
	if loginURL == "" {
		loginURL = config.DefaultLoginURL
	}

	if err := r.store.SignOut(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to clear identity session")
	}

	if r.navigator == nil {
		return
	}
	if err := r.navigator.Navigate(loginURL); err != nil {
		r.logger.Error().Err(err).Str("login_url", loginURL).Msg("Failed to navigate to login")
	}
}
