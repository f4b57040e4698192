package api

import "fmt"

// Kind discriminates the outcome of a request.
type Kind int

const (
	// KindInvalid is the zero Result returned alongside a non-nil error
	KindInvalid Kind = iota
	KindOK
	KindError
	KindReauthRequired
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindOK:
		return "ok"
	case KindError:
		return "error"
	case KindReauthRequired:
		return "reauth_required"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of an HTTP exchange with the backend: the decoded
// body, an ApiError, or a request to sign in again at LoginURL.
type Result[T any] struct {
	kind     Kind
	value    T
	apiErr   *ApiError
	loginURL string
}

// Ok wraps a decoded body.
func Ok[T any](value T) Result[T] {
	return Result[T]{kind: KindOK, value: value}
}

// Failed wraps an ApiError.
func Failed[T any](err *ApiError) Result[T] {
	return Result[T]{kind: KindError, apiErr: err}
}

// Reauth signals that the session was purged and the user sent to loginURL.
func Reauth[T any](loginURL string) Result[T] {
	return Result[T]{kind: KindReauthRequired, loginURL: loginURL}
}

func (r Result[T]) Kind() Kind { return r.kind }

// OK reports whether the request succeeded.
func (r Result[T]) OK() bool { return r.kind == KindOK }

// Value returns the decoded body; the zero value unless Kind is KindOK.
func (r Result[T]) Value() T { return r.value }

// APIError returns the error response; nil unless Kind is KindError.
func (r Result[T]) APIError() *ApiError { return r.apiErr }

// LoginURL returns the login target; empty unless Kind is KindReauthRequired.
func (r Result[T]) LoginURL() string { return r.loginURL }

// Unwrap converts the result to the (value, error) convention. KindError
// yields the *ApiError, KindReauthRequired an error wrapping ErrReauthRequired.
func (r Result[T]) Unwrap() (T, error) {
	var zero T
	switch r.kind {
	case KindOK:
		return r.value, nil
	case KindError:
		return zero, r.apiErr
	case KindReauthRequired:
		return zero, fmt.Errorf("%w: redirecting to %s", ErrReauthRequired, r.loginURL)
	case KindInvalid:
		return zero, ErrNoResult
	default:
		return zero, fmt.Errorf("unknown result kind %s", r.kind)
	}
}
