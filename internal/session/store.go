package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType describes a session change
type EventType int

const (
	EventSignedIn EventType = iota
	EventRefreshed
	EventSignedOut
)

func (t EventType) String() string {
	switch t {
	case EventSignedIn:
		return "signed_in"
	case EventRefreshed:
		return "refreshed"
	case EventSignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the session changes.
// Session is nil for EventSignedOut.
type Event struct {
	Type    EventType
	Session *Session
}

// Store holds the current session. Readers get copies; only sign-in,
// refresh and sign-out change it.
type Store struct {
	source    ProviderSource
	persister Persister
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	current *Session

	listenersMu sync.Mutex
	listeners   map[int]func(Event)
	nextID      int
}

// NewStore creates a store backed by the identity provider from source.
// A nil persister keeps the session in memory only.
func NewStore(source ProviderSource, persister Persister, log zerolog.Logger) *Store {
	if persister == nil {
		persister = NewMemoryPersister()
	}
	return &Store{
		source:    source,
		persister: persister,
		logger:    log,
		now:       time.Now,
		listeners: make(map[int]func(Event)),
	}
}

// Current returns a copy of the session, if any
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token returns the current access token, or "" when signed out
func (s *Store) Token() string {
	current, ok := s.Current()
	if !ok {
		return ""
	}
	return current.AccessToken
}

// Subscribe registers fn for session changes and returns a function that
// removes it. fn runs synchronously on the goroutine that changed the session.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			defer s.listenersMu.Unlock()
			delete(s.listeners, id)
		})
	}
}

func (s *Store) notify(evt Event) {
	s.listenersMu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}

func (s *Store) set(sess Session, evtType EventType) {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	copied := sess
	s.notify(Event{Type: evtType, Session: &copied})
}

func (s *Store) provider() (Provider, error) {
	if s.source == nil {
		return nil, errors.New("no identity provider configured")
	}
	return s.source.Provider()
}

// SignIn authenticates with the identity provider and stores the new session
func (s *Store) SignIn(ctx context.Context, email, password string) (Session, error) {
	p, err := s.provider()
	if err != nil {
		return Session{}, err
	}

	sess, err := p.SignInWithPassword(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	if err := s.persister.Save(sess); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist session")
	}
	s.set(sess, EventSignedIn)

	s.logger.Info().Str("user_id", sess.User.ID).Msg("Signed in")
	return sess, nil
}

// Adopt makes sess the current session without contacting the provider or
// persisting it. Used for explicitly supplied tokens.
func (s *Store) Adopt(sess Session) {
	s.set(sess, EventSignedIn)
}

// Restore loads a previously persisted session. It reports whether one was found.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	sess, err := s.persister.Load()
	if err != nil {
		return false, fmt.Errorf("failed to restore session: %w", err)
	}
	if sess == nil {
		return false, nil
	}

	s.set(*sess, EventSignedIn)
	return true, nil
}

// Refresh exchanges the refresh token for a new session
func (s *Store) Refresh(ctx context.Context) (Session, error) {
	current, ok := s.Current()
	if !ok {
		return Session{}, ErrNoSession
	}
	if current.RefreshToken == "" {
		return Session{}, ErrNoRefreshToken
	}

	p, err := s.provider()
	if err != nil {
		return Session{}, err
	}

	sess, err := p.RefreshSession(ctx, current.RefreshToken)
	if err != nil {
		return Session{}, fmt.Errorf("failed to refresh session: %w", err)
	}

	if err := s.persister.Save(sess); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist refreshed session")
	}
	s.set(sess, EventRefreshed)
	return sess, nil
}

// EnsureFresh returns the current session, refreshing it first when it is
// expired or expires within skew.
func (s *Store) EnsureFresh(ctx context.Context, skew time.Duration) (Session, error) {
	current, ok := s.Current()
	if !ok {
		return Session{}, ErrNoSession
	}
	if !current.Expired(s.now(), skew) {
		return current, nil
	}
	if current.RefreshToken == "" {
		// Nothing to renew with; let the backend decide
		return current, nil
	}
	return s.Refresh(ctx)
}

// SignOut ends the session at the identity provider and purges every local
// copy. Local state is cleared even when the provider call fails; the
// provider error is returned.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	var errs []error

	if current != nil && current.AccessToken != "" {
		if p, err := s.provider(); err != nil {
			errs = append(errs, err)
		} else if err := p.SignOut(ctx, current.AccessToken); err != nil {
			errs = append(errs, fmt.Errorf("failed to sign out: %w", err))
		}
	}

	if err := s.persister.Delete(); err != nil {
		errs = append(errs, err)
	}

	if current != nil {
		s.notify(Event{Type: EventSignedOut})
	}

	return errors.Join(errs...)
}
