package summarize

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAuth means the API rejected the credential (HTTP 401/403).
	ErrAuth = errors.New("credential rejected by summarization service")
	// ErrRateLimited means the API answered 429. Callers may retry later.
	ErrRateLimited = errors.New("summarization service rate limit reached")
	// ErrNetwork covers transport failures and server-side (5xx) errors.
	ErrNetwork = errors.New("summarization service unreachable")
	// ErrMalformedResponse means the reply could not be turned into a summary.
	ErrMalformedResponse = errors.New("malformed response from summarization service")
)

// StatusError carries the HTTP status and API message behind a sentinel error.
type StatusError struct {
	Kind       error
	StatusCode int
	Message    string
	// RetryAfter is parsed from the Retry-After header on 429 responses.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%v (HTTP %d)", e.Kind, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.Kind
}

// classifyStatus maps an HTTP status code to one of the sentinel errors.
func classifyStatus(code int) error {
	switch {
	case code == 401 || code == 403:
		return ErrAuth
	case code == 429:
		return ErrRateLimited
	case code >= 500:
		return ErrNetwork
	default:
		return ErrMalformedResponse
	}
}
