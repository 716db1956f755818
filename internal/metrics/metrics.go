package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	attempts        int
	errors          int
	breakerRejected int
	limiterSkipped  int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about source calls and
// aggregate fetches. It is intentionally simple so tests can assert on it
// directly; OpenTelemetry export piggybacks on the same calls.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*sourceStats
	cacheHits   int
	cacheMisses int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*sourceStats),
		otel:  otel,
	}
}

// RecordSourceAttempt counts a forwarded adapter call and its outcome.
func (r *Recorder) RecordSourceAttempt(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	stats := r.ensureStats(source)
	r.mu.Lock()
	stats.attempts++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordSourceAttempt(source, duration, err)
	}
}

// RecordBreakerRejection counts a call refused by an open circuit.
func (r *Recorder) RecordBreakerRejection(source string) {
	if r == nil {
		return
	}
	stats := r.ensureStats(source)
	r.mu.Lock()
	stats.breakerRejected++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordBreakerRejection(source)
	}
}

// RecordLimiterSkip counts a source omitted from a cycle by rate limiting.
func (r *Recorder) RecordLimiterSkip(source string) {
	if r == nil {
		return
	}
	stats := r.ensureStats(source)
	r.mu.Lock()
	stats.limiterSkipped++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordLimiterSkip(source)
	}
}

// RecordCacheLookup tracks aggregate cache hit/miss counts.
func (r *Recorder) RecordCacheLookup(game string, hit bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if hit {
		r.cacheHits++
	} else {
		r.cacheMisses++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCacheLookup(game, hit)
	}
}

// RecordMerge tracks how many candidates one fetch cycle collapsed.
func (r *Recorder) RecordMerge(game string, candidates, merged int) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordMerge(game, candidates, merged)
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks poller cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// Snapshot is a copy of the current stats for one source.
type Snapshot struct {
	Attempts        int
	Errors          int
	BreakerRejected int
	LimiterSkipped  int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[source]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Attempts:        stats.attempts,
		Errors:          stats.errors,
		BreakerRejected: stats.breakerRejected,
		LimiterSkipped:  stats.limiterSkipped,
		LastCallLatency: stats.lastCallLatency,
	}
}

// SourceAttempts returns the total forwarded calls recorded for a source.
func (r *Recorder) SourceAttempts(source string) int {
	return r.Snapshot(source).Attempts
}

// SourceErrors returns the total failed calls recorded for a source.
func (r *Recorder) SourceErrors(source string) int {
	return r.Snapshot(source).Errors
}

// CacheHits returns aggregate cache hits since start.
func (r *Recorder) CacheHits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheHits
}

// CacheMisses returns aggregate cache misses since start.
func (r *Recorder) CacheMisses() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheMisses
}

func (r *Recorder) ensureStats(source string) *sourceStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.stats[source]
	if !ok {
		stats = &sourceStats{}
		r.stats[source] = stats
	}
	return stats
}
