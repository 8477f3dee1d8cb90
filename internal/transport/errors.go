package transport

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels for errors.Is
var (
	ErrTransport   = errors.New("transport error")
	ErrRateLimited = errors.New("rate limited")
	ErrAuth        = errors.New("authentication failed")
	ErrRestricted  = errors.New("action restricted")
	ErrAPI         = errors.New("api error")
)

// ErrorKind classifies an ok=false error code
type ErrorKind int

const (
	KindAPI ErrorKind = iota
	KindAuth
	KindRestricted
)

// String returns the string representation of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindRestricted:
		return "restricted"
	default:
		return "api"
	}
}

// Classify maps a server error code to its kind. Unrecognized codes are KindAPI.
func Classify(code string) ErrorKind {
	switch code {
	case "not_authed", "invalid_auth", "account_inactive":
		return KindAuth
	case "restricted_action", "user_is_bot", "user_is_restricted":
		return KindRestricted
	default:
		return KindAPI
	}
}

// APIError is an ok=false response
type APIError struct {
	Method string
	Code   string
	Kind   ErrorKind
}

// NewAPIError classifies code into an APIError
func NewAPIError(method, code string) *APIError {
	return &APIError{Method: method, Code: code, Kind: Classify(code)}
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s returned an error code: %s", e.Method, e.Code)
}

// Is matches the sentinel of the error's kind
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrRestricted:
		return e.Kind == KindRestricted
	case ErrAPI:
		return e.Kind == KindAPI
	}
	return false
}

// RateLimitedError is returned while a server-imposed window is active
type RateLimitedError struct {
	Method  string
	RetryAt time.Time
}

// Error implements the error interface
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("slack: %s rate limited until %s", e.Method, e.RetryAt.Format(time.RFC3339))
}

// Is matches ErrRateLimited
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// RetryAfter returns the wait remaining at now
func (e *RateLimitedError) RetryAfter(now time.Time) time.Duration {
	if d := e.RetryAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// TransportError is an I/O failure or an HTTP error status
type TransportError struct {
	Method string
	// StatusCode is zero when no response was received
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("slack: %s: HTTP %d", e.Method, e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("slack: %s: HTTP %d: %v", e.Method, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("slack: %s: %v", e.Method, e.Cause)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is matches ErrTransport
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
