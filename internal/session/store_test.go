package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is an in-memory identity provider
type fakeProvider struct {
	mu          sync.Mutex
	session     Session
	signInErr   error
	refreshed   Session
	signOutErr  error
	signOutWith []string
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, email, password string) (Session, error) {
	if f.signInErr != nil {
		return Session{}, f.signInErr
	}
	return f.session, nil
}

func (f *fakeProvider) RefreshSession(_ context.Context, refreshToken string) (Session, error) {
	if refreshToken != f.session.RefreshToken {
		return Session{}, errors.New("invalid refresh token")
	}
	return f.refreshed, nil
}

func (f *fakeProvider) SignOut(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutWith = append(f.signOutWith, accessToken)
	return f.signOutErr
}

func (f *fakeProvider) SignOuts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.signOutWith...)
}

// staticSource always returns the same provider
type staticSource struct {
	provider Provider
	err      error
}

func (s staticSource) Provider() (Provider, error) {
	return s.provider, s.err
}

func testSession() Session {
	return Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         User{ID: "user-1", Email: "cook@example.com"},
	}
}

func TestStore_SignInNotifiesAndPersists(t *testing.T) {
	provider := &fakeProvider{session: testSession()}
	persister := NewMemoryPersister()
	store := NewStore(staticSource{provider: provider}, persister, zerolog.Nop())

	var events []Event
	unsubscribe := store.Subscribe(func(evt Event) { events = append(events, evt) })
	defer unsubscribe()

	sess, err := store.SignIn(context.Background(), "cook@example.com", "password1")
	require.NoError(t, err)

	assert.Equal(t, "access-1", sess.AccessToken)
	assert.Equal(t, "access-1", store.Token())

	require.Len(t, events, 1)
	assert.Equal(t, EventSignedIn, events[0].Type)
	assert.Equal(t, "user-1", events[0].Session.User.ID)

	stored, err := persister.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "access-1", stored.AccessToken)
}

func TestStore_SignInFailureLeavesStateUntouched(t *testing.T) {
	provider := &fakeProvider{signInErr: errors.New("Invalid login credentials")}
	store := NewStore(staticSource{provider: provider}, nil, zerolog.Nop())

	_, err := store.SignIn(context.Background(), "cook@example.com", "wrong")
	require.Error(t, err)

	_, ok := store.Current()
	assert.False(t, ok)
	assert.Empty(t, store.Token())
}

func TestStore_SignOutClearsEvenWhenProviderFails(t *testing.T) {
	provider := &fakeProvider{session: testSession(), signOutErr: errors.New("network down")}
	persister := NewMemoryPersister()
	store := NewStore(staticSource{provider: provider}, persister, zerolog.Nop())

	_, err := store.SignIn(context.Background(), "cook@example.com", "password1")
	require.NoError(t, err)

	var signedOut int
	store.Subscribe(func(evt Event) {
		if evt.Type == EventSignedOut {
			signedOut++
			assert.Nil(t, evt.Session)
		}
	})

	err = store.SignOut(context.Background())
	assert.ErrorContains(t, err, "network down")

	_, ok := store.Current()
	assert.False(t, ok)
	stored, _ := persister.Load()
	assert.Nil(t, stored)
	assert.Equal(t, []string{"access-1"}, provider.SignOuts())
	assert.Equal(t, 1, signedOut)

	// Second sign out is a no-op
	require.NoError(t, store.SignOut(context.Background()))
	assert.Len(t, provider.SignOuts(), 1)
	assert.Equal(t, 1, signedOut)
}

func TestStore_Unsubscribe(t *testing.T) {
	store := NewStore(staticSource{provider: &fakeProvider{}}, nil, zerolog.Nop())

	var calls int
	unsubscribe := store.Subscribe(func(Event) { calls++ })

	store.Adopt(testSession())
	unsubscribe()
	unsubscribe()
	store.Adopt(testSession())

	assert.Equal(t, 1, calls)
}

func TestStore_Refresh(t *testing.T) {
	refreshed := testSession()
	refreshed.AccessToken = "access-2"
	refreshed.RefreshToken = "refresh-2"

	provider := &fakeProvider{session: testSession(), refreshed: refreshed}
	store := NewStore(staticSource{provider: provider}, nil, zerolog.Nop())

	_, err := store.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	store.Adopt(testSession())

	var got EventType = -1
	store.Subscribe(func(evt Event) { got = evt.Type })

	sess, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", sess.AccessToken)
	assert.Equal(t, "access-2", store.Token())
	assert.Equal(t, EventRefreshed, got)
}

func TestStore_EnsureFresh(t *testing.T) {
	refreshed := testSession()
	refreshed.AccessToken = "access-2"

	expiring := testSession()
	expiring.ExpiresAt = time.Now().Add(30 * time.Second)

	provider := &fakeProvider{session: expiring, refreshed: refreshed}
	store := NewStore(staticSource{provider: provider}, nil, zerolog.Nop())

	_, err := store.EnsureFresh(context.Background(), time.Minute)
	assert.ErrorIs(t, err, ErrNoSession)

	store.Adopt(expiring)

	// Still valid for the given skew
	sess, err := store.EnsureFresh(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "access-1", sess.AccessToken)

	sess, err = store.EnsureFresh(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "access-2", sess.AccessToken)
}

func TestStore_Restore(t *testing.T) {
	persister := NewMemoryPersister()
	store := NewStore(staticSource{provider: &fakeProvider{}}, persister, zerolog.Nop())

	found, err := store.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, persister.Save(testSession()))

	found, err = store.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "access-1", store.Token())
}

func TestStore_ProviderUnavailable(t *testing.T) {
	store := NewStore(staticSource{err: errors.New("identity not configured")}, nil, zerolog.Nop())

	_, err := store.SignIn(context.Background(), "cook@example.com", "password1")
	assert.ErrorContains(t, err, "identity not configured")

	store.Adopt(testSession())
	err = store.SignOut(context.Background())
	assert.ErrorContains(t, err, "identity not configured")
	_, ok := store.Current()
	assert.False(t, ok)
}

func TestFromToken(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := jwt.MapClaims{
		"sub":           "user-42",
		"email":         "cook@example.com",
		"exp":           expires.Unix(),
		"user_metadata": map[string]any{"display_name": "Chef"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	sess, err := FromToken(token)
	require.NoError(t, err)

	assert.Equal(t, token, sess.AccessToken)
	assert.Equal(t, User{ID: "user-42", Email: "cook@example.com", DisplayName: "Chef"}, sess.User)
	assert.True(t, sess.ExpiresAt.Equal(expires))
	assert.False(t, sess.Expired(time.Now(), 0))
	assert.True(t, sess.Expired(time.Now(), 2*time.Hour))
}

func TestFromToken_Invalid(t *testing.T) {
	_, err := FromToken("not-a-jwt")
	assert.Error(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "x@y.z"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = FromToken(noSubject)
	assert.ErrorIs(t, err, errMissingSubject)
}

func TestSession_NoExpiry(t *testing.T) {
	assert.False(t, Session{AccessToken: "tok"}.Expired(time.Now(), time.Hour))
}
