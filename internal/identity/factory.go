package identity

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/config"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/session"
)

// Client is the full provider handle: the session operations plus user lookup
type Client interface {
	session.Provider
	GetUser(ctx context.Context, accessToken string) (session.User, error)
}

// Factory builds the identity client on first use and returns the same
// handle afterwards. It is safe for concurrent use.
type Factory struct {
	cfg        config.IdentityConfig
	httpClient *http.Client

	once   sync.Once
	client Client
	err    error
}

// NewFactory returns a factory for cfg. A nil httpClient uses the default.
func NewFactory(cfg config.IdentityConfig, httpClient *http.Client) *Factory {
	return &Factory{cfg: cfg, httpClient: httpClient}
}

// Client returns the memoized handle. Headless configurations get the
// Disabled stand-in; interactive ones without URL or key get an error.
func (f *Factory) Client() (Client, error) {
	f.once.Do(func() {
		f.client, f.err = f.build()
	})
	return f.client, f.err
}

// Provider satisfies session.ProviderSource
func (f *Factory) Provider() (session.Provider, error) {
	c, err := f.Client()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (f *Factory) build() (Client, error) {
	if f.cfg.Headless {
		return Disabled{}, nil
	}
	if f.cfg.URL == "" || f.cfg.AnonKey == "" {
		return nil, fmt.Errorf("%w: set SUPABASE_URL and SUPABASE_ANON_KEY", ErrNotConfigured)
	}
	return NewSupabase(f.cfg.URL, f.cfg.AnonKey, f.httpClient), nil
}
