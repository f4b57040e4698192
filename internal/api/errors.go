package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyPath is returned when a request is built without a path.
	ErrEmptyPath = errors.New("request path is empty")

	// ErrBaseURLNotConfigured is wrapped by the ConfigError returned when the
	// client has no backend base URL.
	ErrBaseURLNotConfigured = errors.New("api base url is not configured")

	// ErrReauthRequired is returned by Result.Unwrap when the backend asked for
	// a new sign-in.
	ErrReauthRequired = errors.New("authentication required")

	// ErrNoResult is returned by Result.Unwrap on the zero Result, which
	// accompanies every error returned by Do and the endpoint methods.
	ErrNoResult = errors.New("request did not complete")

	errMissingRecipeID = errors.New("recipe id is required")
)

// ConfigError reports missing configuration. It is fatal: the call is
// rejected before any network attempt.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s is not configured: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ApiError is any non-2xx response other than the auth-required signal.
type ApiError struct {
	StatusCode int
	RawBody    string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.RawBody)
}

// NotFound reports whether the backend answered 404.
func (e *ApiError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Unavailable reports whether the backend answered 503.
func (e *ApiError) Unavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

// SchemaError is returned when a 2xx body does not match the endpoint schema.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a request payload is rejected before dispatch.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
