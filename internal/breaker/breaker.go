package breaker

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/logging"
)

// Config controls when a source's circuit opens and how long it stays open.
type Config struct {
	// Failures is the consecutive-failure count that trips the circuit.
	Failures uint32
	// Cooldown is how long an open circuit waits before allowing one
	// trial call (half-open).
	Cooldown time.Duration
}

const (
	defaultFailures = 5
	defaultCooldown = 60 * time.Second
)

// ErrUnknownSource reports a breaker lookup for an unregistered source.
var ErrUnknownSource = errors.New("breaker: unknown source")

// Snapshot is a read-only view of one source's circuit state.
type Snapshot struct {
	Source              string    `json:"source"`
	State               string    `json:"state"`
	ConsecutiveFailures uint32    `json:"consecutiveFailures"`
	LastFailure         time.Time `json:"lastFailure"`
	OpenedAt            time.Time `json:"openedAt"`
}

type entry struct {
	mu          sync.Mutex
	cb          *gobreaker.CircuitBreaker[[]domain.Match]
	lastFailure time.Time
	openedAt    time.Time
}

// Registry keeps one independent circuit breaker per source. The set of
// sources is fixed at construction; a breaker tripping for one source
// never blocks calls to any other.
type Registry struct {
	cfg    Config
	logger *slog.Logger

	// The map itself is immutable after New; each entry carries its own
	// lock so unrelated sources never contend.
	entries map[string]*entry
}

// NewRegistry builds one breaker per source name.
func NewRegistry(cfg Config, names []string, logger *slog.Logger) *Registry {
	if cfg.Failures == 0 {
		cfg.Failures = defaultFailures
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	r := &Registry{
		cfg:     cfg,
		logger:  logger,
		entries: make(map[string]*entry, len(names)),
	}
	for _, name := range names {
		e := &entry{}
		e.cb = r.newBreaker(name, e)
		r.entries[name] = e
	}
	return r
}

func (r *Registry) newBreaker(name string, e *entry) *gobreaker.CircuitBreaker[[]domain.Match] {
	return gobreaker.NewCircuitBreaker[[]domain.Match](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1, // exactly one trial call while half-open
		Timeout:     r.cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= r.cfg.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.mu.Lock()
			if to == gobreaker.StateOpen {
				e.openedAt = time.Now()
			} else {
				e.openedAt = time.Time{}
			}
			e.mu.Unlock()
			logging.Info(r.logger, "breaker state change",
				slog.String(logging.FieldSource, name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// Do executes fn under the source's breaker. When the circuit is open the
// call fails fast without invoking fn; IsRejection distinguishes that
// outcome from a genuine adapter failure.
func (r *Registry) Do(source string, fn func() ([]domain.Match, error)) ([]domain.Match, error) {
	e, ok := r.entries[source]
	if !ok {
		return nil, ErrUnknownSource
	}
	e.mu.Lock()
	cb := e.cb
	e.mu.Unlock()
	matches, err := cb.Execute(fn)
	if err != nil && !IsRejection(err) {
		e.mu.Lock()
		e.lastFailure = time.Now()
		e.mu.Unlock()
	}
	return matches, err
}

// Allows reports whether a call to the source would currently be forwarded.
func (r *Registry) Allows(source string) bool {
	e, ok := r.entries[source]
	if !ok {
		return false
	}
	e.mu.Lock()
	cb := e.cb
	e.mu.Unlock()
	return cb.State() != gobreaker.StateOpen
}

// Reset forces the source's circuit back to closed with a zeroed failure
// counter by swapping in a fresh breaker. Administrative use only.
func (r *Registry) Reset(source string) error {
	e, ok := r.entries[source]
	if !ok {
		return ErrUnknownSource
	}
	e.mu.Lock()
	e.cb = r.newBreaker(source, e)
	e.lastFailure = time.Time{}
	e.openedAt = time.Time{}
	e.mu.Unlock()
	logging.Info(r.logger, "breaker reset", slog.String(logging.FieldSource, source))
	return nil
}

// Snapshot returns the current circuit state for one source.
func (r *Registry) Snapshot(source string) (Snapshot, error) {
	e, ok := r.entries[source]
	if !ok {
		return Snapshot{}, ErrUnknownSource
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Source:              source,
		State:               e.cb.State().String(),
		ConsecutiveFailures: e.cb.Counts().ConsecutiveFailures,
		LastFailure:         e.lastFailure,
		OpenedAt:            e.openedAt,
	}, nil
}

// IsRejection reports whether err means the breaker refused the call
// without invoking the adapter.
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
