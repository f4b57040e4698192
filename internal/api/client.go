package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/config"
)

const (
	bearerPrefix     = "Bearer "
	authRequiredCode = "auth_required"
)

// Reauthenticator runs the auth-redirect recovery when the backend asks for
// a new sign-in.
type Reauthenticator interface {
	Recover(ctx context.Context, loginURL string)
}

// Client represents an HTTP client for the recipe backend.
// It holds no session state and is safe for concurrent use.
type Client struct {
	baseURL    string
	loginURL   string
	httpClient *http.Client
	recovery   Reauthenticator
	validate   *validator.Validate
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP transport
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRecovery sets the procedure run on an auth-required 401
func WithRecovery(r Reauthenticator) Option {
	return func(c *Client) { c.recovery = r }
}

// WithLoginURL sets the login URL used when a 401 payload carries none
func WithLoginURL(loginURL string) Option {
	return func(c *Client) {
		if loginURL != "" {
			c.loginURL = loginURL
		}
	}
}

// WithLogger sets the client logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// New creates a new API client. An empty baseURL is accepted; every call on
// such a client fails with a ConfigError.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		loginURL:   config.DefaultLoginURL,
		httpClient: &http.Client{},
		validate:   newValidator(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// Request describes one call to the backend
type Request struct {
	Path   string
	Method string // defaults to GET
	Body   any    // JSON encoded when non-nil
	Header http.Header
	Token  string // sent as a bearer token when non-empty
}

type authSignal struct {
	Code     string `json:"code"`
	LoginURL string `json:"login_url"`
}

// Do performs one HTTP call and decodes a 2xx body into T.
//
// HTTP outcomes are reported through the Result. The error return is reserved
// for failures around the exchange: missing configuration, transport errors,
// and bodies that do not match T's schema.
func Do[T any](ctx context.Context, c *Client, req Request) (Result[T], error) {
	if req.Path == "" {
		return Result[T]{}, ErrEmptyPath
	}
	if c.baseURL == "" {
		return Result[T]{}, &ConfigError{Key: "RECIPES_API_BASE_URL", Err: ErrBaseURLNotConfigured}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return Result[T]{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", bearerPrefix+req.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Msg("API request")

	raw, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized && readErr == nil {
		var signal authSignal
		if err := json.Unmarshal(raw, &signal); err == nil {
			if signal.Code == authRequiredCode {
				loginURL := signal.LoginURL
				if loginURL == "" {
					loginURL = c.loginURL
				}
				if c.recovery != nil {
					c.recovery.Recover(ctx, loginURL)
				}
				return Reauth[T](loginURL), nil
			}
			return Failed[T](&ApiError{StatusCode: resp.StatusCode, RawBody: string(raw)}), nil
		}
		// Not JSON: handled like any other error status below
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody := string(raw)
		if readErr != nil {
			errorBody = fmt.Sprintf("Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return Failed[T](&ApiError{StatusCode: resp.StatusCode, RawBody: errorBody}), nil
	}

	if readErr != nil {
		return Result[T]{}, fmt.Errorf("failed to read response: %w", readErr)
	}

	var out T
	if resp.StatusCode == http.StatusNoContent && len(bytes.TrimSpace(raw)) == 0 {
		return Ok(out), nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result[T]{}, &SchemaError{Path: req.Path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if isStruct(out) {
		if err := c.validate.Struct(out); err != nil {
			return Result[T]{}, &SchemaError{Path: req.Path, Err: err}
		}
	}

	return Ok(out), nil
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	return t != nil && t.Kind() == reflect.Struct
}

// checkPayload validates a request payload before dispatch
func (c *Client) checkPayload(payload any) error {
	if err := c.validate.Struct(payload); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func newValidator() *validator.Validate {
	validate := validator.New()

	// Report JSON field names so errors match the wire format
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}
