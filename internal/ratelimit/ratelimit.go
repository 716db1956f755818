package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultInterval = time.Second

// Snapshot is a read-only view of one source's limiter state.
type Snapshot struct {
	Source      string        `json:"source"`
	MinInterval time.Duration `json:"minInterval"`
	LastAllowed time.Time     `json:"lastAllowed"`
}

type entry struct {
	limiter *rate.Limiter
	min     time.Duration

	mu          sync.Mutex
	lastAllowed time.Time
}

// Registry enforces a minimum interval between calls per source. Admission
// is non-blocking: a denied source is simply skipped for the current fetch
// cycle, it is never queued or retried within the cycle.
type Registry struct {
	// Immutable after New; each entry locks independently.
	entries map[string]*entry
}

// Interval describes one source's configured minimum spacing.
type Interval struct {
	Source      string
	MinInterval time.Duration
}

// NewRegistry builds one limiter per source. A non-positive interval falls
// back to one second.
func NewRegistry(intervals []Interval) *Registry {
	r := &Registry{entries: make(map[string]*entry, len(intervals))}
	for _, iv := range intervals {
		min := iv.MinInterval
		if min <= 0 {
			min = defaultInterval
		}
		r.entries[iv.Source] = &entry{
			limiter: rate.NewLimiter(rate.Every(min), 1),
			min:     min,
		}
	}
	return r
}

// Allow reports whether the source may be called now, consuming the slot
// when it may. Unknown sources are denied.
func (r *Registry) Allow(source string) bool {
	e, ok := r.entries[source]
	if !ok {
		return false
	}
	if !e.limiter.Allow() {
		return false
	}
	e.mu.Lock()
	e.lastAllowed = time.Now()
	e.mu.Unlock()
	return true
}

// Snapshot returns the limiter state for one source.
func (r *Registry) Snapshot(source string) (Snapshot, bool) {
	e, ok := r.entries[source]
	if !ok {
		return Snapshot{}, false
	}
	e.mu.Lock()
	last := e.lastAllowed
	e.mu.Unlock()
	return Snapshot{Source: source, MinInterval: e.min, LastAllowed: last}, true
}
