package providers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"esports-matches-service/internal/logging"
)

const (
	defaultMaxRetries      = 2
	defaultInitialInterval = 500 * time.Millisecond
)

// Doer abstracts *http.Client so tests can stub transport behavior.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// retryingDoer wraps a Doer with exponential backoff on transient
// failures. Only bodyless requests are retried; retries honor the
// request's context through the backoff policy.
type retryingDoer struct {
	next       Doer
	maxRetries uint64
	logger     *slog.Logger
}

// NewRetryingDoer wraps next with up to maxRetries retries on network
// errors and retryable upstream statuses (5xx, 429).
func NewRetryingDoer(next Doer, maxRetries int, logger *slog.Logger) Doer {
	if next == nil {
		next = http.DefaultClient
	}
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	return &retryingDoer{
		next:       next,
		maxRetries: uint64(maxRetries),
		logger:     logger,
	}
}

func (d *retryingDoer) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		return d.next.Do(req)
	}

	var resp, last *http.Response
	attempt := 0
	operation := func() error {
		attempt++
		r, err := d.next.Do(req)
		if err != nil {
			logging.Warn(d.logger, "upstream request failed, retrying",
				slog.String(logging.FieldPath, req.URL.Path),
				slog.Int("attempt", attempt),
				"error", err,
			)
			return err
		}
		if r.StatusCode == http.StatusTooManyRequests || r.StatusCode >= 500 {
			if last != nil {
				last.Body.Close()
			}
			last = r
			logging.Warn(d.logger, "upstream returned retryable status",
				slog.String(logging.FieldPath, req.URL.Path),
				slog.Int(logging.FieldStatusCode, r.StatusCode),
				slog.Int("attempt", attempt),
			)
			return &UpstreamError{StatusCode: r.StatusCode}
		}
		resp = r
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = defaultInitialInterval
	wrapped := backoff.WithContext(backoff.WithMaxRetries(policy, d.maxRetries), req.Context())

	if err := backoff.Retry(operation, wrapped); err != nil {
		if last != nil {
			// Retries exhausted on a retryable status: hand the final
			// response back so callers can inspect it (e.g. Retry-After).
			return last, nil
		}
		return nil, err
	}
	if last != nil {
		last.Body.Close()
	}
	return resp, nil
}
