package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/api"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/config"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/identity"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/logger"
	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/session"
)

// refreshSkew renews tokens that expire within this window before a call
const refreshSkew = 30 * time.Second

// UserLookup asks the identity provider who a token belongs to
type UserLookup interface {
	GetUser(ctx context.Context, accessToken string) (session.User, error)
}

// Env is everything a command needs to talk to the backend
type Env struct {
	Config *config.Config
	Store  *session.Store
	API    *api.Client
	Users  UserLookup // nil when the provider cannot be built
	Out    io.Writer
	Log    zerolog.Logger
}

// Globals carries the persistent flags and the lazily built Env
type Globals struct {
	Headless bool

	env *Env
}

// Env returns the command environment, building it on first use
func (g *Globals) Env(ctx context.Context) (*Env, error) {
	if g.env != nil {
		return g.env, nil
	}
	env, err := Bootstrap(ctx, g.Headless)
	if err != nil {
		return nil, err
	}
	g.env = env
	return env, nil
}

// ShouldReport tells whether err still has to be printed. In interactive
// runs an auth-required failure was already explained by the navigator.
func (g *Globals) ShouldReport(err error) bool {
	if !errors.Is(err, api.ErrReauthRequired) {
		return true
	}
	return g.env == nil || g.env.Config == nil || g.env.Config.Identity.Headless
}

// Bootstrap loads configuration and wires the session store, the recovery
// path and the API client together.
func Bootstrap(ctx context.Context, headless bool) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if headless {
		cfg.Identity.Headless = true
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	factory := identity.NewFactory(cfg.Identity, nil)

	var persister session.Persister
	if cfg.Identity.Headless {
		persister = session.NewMemoryPersister()
	} else {
		persister = session.NewKeyringPersister(cfg.Identity.URL)
	}
	store := session.NewStore(factory, persister, log)
	logSessionEvents(store, log)

	if cfg.Identity.AccessToken != "" {
		sess, err := session.FromToken(cfg.Identity.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("RECIPES_ACCESS_TOKEN is not usable: %w", err)
		}
		store.Adopt(sess)
	} else if _, err := store.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("Ignoring stored session")
	}

	var nav session.Navigator
	if !cfg.Identity.Headless {
		nav = NewTerminalNavigator(os.Stderr, cfg.API.SiteURL)
	}
	recovery := session.NewRecovery(store, nav, log)

	client := api.New(cfg.API.BaseURL,
		api.WithRecovery(recovery),
		api.WithLoginURL(cfg.API.LoginURL),
		api.WithLogger(log),
	)

	env := &Env{Config: cfg, Store: store, API: client, Out: os.Stdout, Log: log}
	if users, err := factory.Client(); err == nil {
		env.Users = users
	}
	return env, nil
}

// logSessionEvents records every session change at debug level
func logSessionEvents(store *session.Store, log zerolog.Logger) func() {
	return store.Subscribe(func(evt session.Event) {
		e := log.Debug().Str("event", evt.Type.String())
		if evt.Session != nil {
			e = e.Str("user_id", evt.Session.User.ID)
		}
		e.Msg("Session changed")
	})
}

// token returns a fresh access token, or empty when signed out. The backend
// decides what an anonymous call may do.
func (e *Env) token(ctx context.Context) string {
	sess, err := e.Store.EnsureFresh(ctx, refreshSkew)
	if errors.Is(err, session.ErrNoSession) {
		return ""
	}
	if err != nil {
		e.Log.Warn().Err(err).Msg("Failed to refresh session, using current token")
		return e.Store.Token()
	}
	return sess.AccessToken
}

// unwrap turns a call outcome into a value or a user-facing error
func unwrap[T any](res api.Result[T], err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}

	switch res.Kind() {
	case api.KindOK:
		return res.Value(), nil
	case api.KindReauthRequired:
		return zero, fmt.Errorf("%w: sign in again with 'recipes login'", api.ErrReauthRequired)
	}

	apiErr := res.APIError()
	switch {
	case apiErr == nil:
		return zero, api.ErrNoResult
	case apiErr.NotFound():
		return zero, fmt.Errorf("not found: %w", apiErr)
	case apiErr.Unavailable():
		return zero, fmt.Errorf("the recipe service is temporarily unavailable: %w", apiErr)
	}
	return zero, apiErr
}
