// Package identity talks to the external identity provider (Supabase auth)
// and hands out the process-wide provider handle.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/session"
)

// ErrNotConfigured is returned when no identity provider is available
var ErrNotConfigured = errors.New("identity provider is not configured")

// ProviderError is a rejection from the identity provider
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider error (status %d): %s", e.StatusCode, e.Message)
}

// errorResponse covers both the legacy and current GoTrue error shapes
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, candidate := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func newProviderError(status int, body []byte) *ProviderError {
	message := strings.TrimSpace(string(body))
	var parsed errorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.text() != "" {
		message = parsed.text()
	}
	return &ProviderError{StatusCode: status, Message: message}
}

// callTransport binds one auth client call to ctx. The auth client reports
// rejections as plain text, so the transport keeps the status and body.
type callTransport struct {
	ctx       context.Context
	base      http.RoundTripper
	rejection *ProviderError
}

func (t *callTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req.WithContext(t.ctx))
	if err != nil || resp.StatusCode < http.StatusMultipleChoices {
		return resp, err
	}

	data, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr == nil {
		t.rejection = newProviderError(resp.StatusCode, data)
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

// Supabase adapts the GoTrue auth client to the session provider contract
type Supabase struct {
	client     auth.Client
	httpClient *http.Client
}

// NewSupabase creates a client for the project at projectURL
func NewSupabase(projectURL, anonKey string, httpClient *http.Client) *Supabase {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	authURL := strings.TrimRight(projectURL, "/") + "/auth/v1"
	return &Supabase{
		client:     auth.New("", anonKey).WithCustomAuthURL(authURL),
		httpClient: httpClient,
	}
}

// call runs fn on a client scoped to ctx and, when given, accessToken
func (s *Supabase) call(ctx context.Context, accessToken string, fn func(auth.Client) error) error {
	base := s.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	transport := &callTransport{ctx: ctx, base: base}

	httpClient := *s.httpClient
	httpClient.Transport = transport

	client := s.client.WithClient(httpClient)
	if accessToken != "" {
		client = client.WithToken(accessToken)
	}

	if err := fn(client); err != nil {
		if transport.rejection != nil {
			return transport.rejection
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("identity provider request cancelled: %w", ctxErr)
		}
		return fmt.Errorf("identity provider request failed: %w", err)
	}
	return nil
}

func toUser(u types.User) session.User {
	out := session.User{Email: u.Email}
	if u.ID != uuid.Nil {
		out.ID = u.ID.String()
	}
	if name, ok := u.UserMetadata["display_name"].(string); ok {
		out.DisplayName = name
	}
	return out
}

func toSession(resp *types.TokenResponse) (session.Session, error) {
	if resp == nil || resp.AccessToken == "" {
		return session.Session{}, errors.New("identity provider returned no access token")
	}

	sess := session.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         toUser(resp.User),
	}
	switch {
	case resp.ExpiresAt > 0:
		sess.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		sess.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	// Older servers omit the user; the token carries it
	if sess.User.ID == "" {
		if fromToken, err := session.FromToken(resp.AccessToken); err == nil {
			sess.User = fromToken.User
		}
	}
	return sess, nil
}

// SignInWithPassword exchanges email and password for a session
func (s *Supabase) SignInWithPassword(ctx context.Context, email, password string) (session.Session, error) {
	var resp *types.TokenResponse
	err := s.call(ctx, "", func(c auth.Client) error {
		var err error
		resp, err = c.SignInWithEmailPassword(email, password)
		return err
	})
	if err != nil {
		return session.Session{}, err
	}
	return toSession(resp)
}

// RefreshSession exchanges a refresh token for a new session
func (s *Supabase) RefreshSession(ctx context.Context, refreshToken string) (session.Session, error) {
	var resp *types.TokenResponse
	err := s.call(ctx, "", func(c auth.Client) error {
		var err error
		resp, err = c.RefreshToken(refreshToken)
		return err
	})
	if err != nil {
		return session.Session{}, err
	}
	return toSession(resp)
}

// SignOut revokes the session at the provider
func (s *Supabase) SignOut(ctx context.Context, accessToken string) error {
	return s.call(ctx, accessToken, func(c auth.Client) error {
		return c.Logout()
	})
}

// GetUser returns the user the token belongs to
func (s *Supabase) GetUser(ctx context.Context, accessToken string) (session.User, error) {
	var resp *types.UserResponse
	err := s.call(ctx, accessToken, func(c auth.Client) error {
		var err error
		resp, err = c.GetUser()
		return err
	})
	if err != nil {
		return session.User{}, err
	}
	return toUser(resp.User), nil
}
