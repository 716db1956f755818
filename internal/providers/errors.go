package providers

import (
	"errors"
	"fmt"
	"time"
)

// ErrSourceUnavailable reports a provider that cannot serve requests at
// all (nil client, missing credentials).
var ErrSourceUnavailable = errors.New("provider unavailable")

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Source     string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// UpstreamError captures a non-2xx response from an upstream provider.
type UpstreamError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Source, e.StatusCode, e.Body)
}

// IsRetryable reports whether an upstream error is worth retrying within
// the same call (server-side errors and rate limits; client errors are
// permanent).
func (e *UpstreamError) IsRetryable() bool {
	return e.StatusCode >= 500
}
