// Package aggregator fans requests out to every eligible source for a
// game, gated per source by a circuit breaker and a rate limiter, and
// collapses the surviving results into one deduplicated feed.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"esports-matches-service/internal/breaker"
	"esports-matches-service/internal/cache"
	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/logging"
	"esports-matches-service/internal/merge"
	"esports-matches-service/internal/metrics"
	"esports-matches-service/internal/ratelimit"
	"esports-matches-service/internal/sources"
)

const defaultSourceTimeout = 10 * time.Second

// drainGrace bounds how long an expired caller waits for the in-flight
// refresh to hand over the results it collected before the deadline.
const drainGrace = 50 * time.Millisecond

// ErrNoSources reports a game no registered source can serve. This is the
// only per-game failure surfaced to callers; individual source outages are
// absorbed into partial results.
var ErrNoSources = errors.New("aggregator: no sources registered for game")

// ErrBadStatusFilter reports an unrecognized status filter value.
var ErrBadStatusFilter = errors.New("aggregator: invalid status filter")

// Result is the outcome of one aggregate fetch. Partial is true when at
// least one eligible source did not contribute this cycle.
type Result struct {
	Matches []domain.Match
	Partial bool
}

// Config carries the orchestrator's tunables.
type Config struct {
	SourceTimeout time.Duration
	MergeWindow   time.Duration
}

// Aggregator coordinates cache, limiter, breaker, fan-out and merge for
// aggregate fetches. All fields are set at construction.
type Aggregator struct {
	registry *sources.Registry
	breakers *breaker.Registry
	limits   *ratelimit.Registry
	cache    *cache.Cache
	logger   *slog.Logger
	metrics  *metrics.Recorder

	sourceTimeout time.Duration
	mergeWindow   time.Duration

	flight singleflight.Group
}

// New constructs an Aggregator.
func New(registry *sources.Registry, breakers *breaker.Registry, limits *ratelimit.Registry, c *cache.Cache, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Aggregator {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = defaultSourceTimeout
	}
	if cfg.MergeWindow <= 0 {
		cfg.MergeWindow = merge.DefaultWindow
	}
	return &Aggregator{
		registry:      registry,
		breakers:      breakers,
		limits:        limits,
		cache:         c,
		logger:        logger,
		metrics:       recorder,
		sourceTimeout: cfg.SourceTimeout,
		mergeWindow:   cfg.MergeWindow,
	}
}

// Fetch returns the merged feed for game, optionally filtered by status.
// Cache hits return immediately; concurrent misses for the same key share
// a single upstream fan-out. Source failures never fail the request: the
// result is best-effort with Partial set. Fetch returns an error only when
// the request itself is invalid (no source covers the game, or the filter
// is not a known status).
func (a *Aggregator) Fetch(ctx context.Context, game, statusFilter string) (Result, error) {
	if !validFilter(statusFilter) {
		return Result{}, fmt.Errorf("%w: %q", ErrBadStatusFilter, statusFilter)
	}
	eligible := a.registry.Eligible(game)
	if len(eligible) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNoSources, game)
	}

	key := cache.AggregateKey(game, statusFilter)
	if v, ok := a.cache.Get(key); ok {
		a.metrics.RecordCacheLookup(game, true)
		return Result{Matches: v.Matches, Partial: v.Partial}, nil
	}
	a.metrics.RecordCacheLookup(game, false)

	ch := a.flight.DoChan(key.String(), func() (any, error) {
		return a.refresh(ctx, game, statusFilter, eligible, key), nil
	})

	select {
	case res := <-ch:
		v := res.Val.(cache.Value)
		return Result{Matches: v.Matches, Partial: v.Partial}, nil
	case <-ctx.Done():
		// The collect loop inside refresh is bounded by this same context
		// and resolves just after the deadline with whatever the sources
		// delivered in time. Wait briefly for that value so completed
		// results are not thrown away at the deadline.
		grace := time.NewTimer(drainGrace)
		defer grace.Stop()
		select {
		case res := <-ch:
			v := res.Val.(cache.Value)
			return Result{Matches: v.Matches, Partial: v.Partial}, nil
		case <-grace.C:
			return Result{Partial: true}, nil
		}
	}
}

type outcome struct {
	source  string
	matches []domain.Match
	err     error
}

// refresh performs one fan-out cycle and caches what it assembled. The
// collection loop is bounded by the caller's deadline; adapter calls run
// detached with their own per-source timeout so a call abandoned at the
// aggregate deadline still settles its breaker bookkeeping when it
// eventually resolves.
func (a *Aggregator) refresh(ctx context.Context, game, statusFilter string, eligible []sources.Source, key cache.Key) cache.Value {
	results := make(chan outcome, len(eligible))
	launched := 0

	for _, src := range eligible {
		if !a.breakers.Allows(src.Name) {
			a.metrics.RecordBreakerRejection(src.Name)
			logging.Warn(a.logger, "source circuit open, skipping",
				slog.String(logging.FieldSource, src.Name),
				slog.String(logging.FieldGame, game),
			)
			continue
		}
		if !a.limits.Allow(src.Name) {
			a.metrics.RecordLimiterSkip(src.Name)
			logging.Info(a.logger, "source rate limited, skipping",
				slog.String(logging.FieldSource, src.Name),
				slog.String(logging.FieldGame, game),
			)
			continue
		}

		launched++
		go a.callSource(ctx, src, game, results)
	}

	bySource := make(map[string][]domain.Match, launched)
collect:
	for i := 0; i < launched; i++ {
		select {
		case o := <-results:
			if o.err != nil {
				if !breaker.IsRejection(o.err) {
					logging.Warn(a.logger, "source fetch failed",
						slog.String(logging.FieldSource, o.source),
						slog.String(logging.FieldGame, game),
						"error", o.err,
					)
				}
				continue
			}
			bySource[o.source] = o.matches
		case <-ctx.Done():
			logging.Warn(a.logger, "aggregate deadline hit, returning partial results",
				slog.String(logging.FieldGame, game),
				slog.Int("outstanding", launched-i),
			)
			break collect
		}
	}

	// Concatenate in eligibility order so the merge sees candidates in a
	// deterministic priority-then-registration order regardless of which
	// goroutine finished first.
	rank := make(map[string]int, len(eligible))
	var candidates []domain.Match
	for i, src := range eligible {
		rank[src.Name] = i
		candidates = append(candidates, bySource[src.Name]...)
	}

	merged := merge.Merge(candidates, func(source string) int {
		if r, ok := rank[source]; ok {
			return r
		}
		return len(eligible)
	}, a.mergeWindow)
	a.metrics.RecordMerge(game, len(candidates), len(merged))

	if statusFilter != "" {
		merged = filterByStatus(merged, domain.MatchStatus(statusFilter))
	}

	v := cache.Value{
		Matches: merged,
		Partial: len(bySource) < len(eligible),
	}
	a.cache.Put(key, v)
	return v
}

// callSource runs one adapter call under the source's breaker. The call is
// detached from the aggregate context on purpose: timeouts are enforced
// per source, and a late resolution must still count for or against the
// breaker.
func (a *Aggregator) callSource(ctx context.Context, src sources.Source, game string, results chan<- outcome) {
	start := time.Now()
	matches, err := a.breakers.Do(src.Name, func() ([]domain.Match, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.sourceTimeout)
		defer cancel()
		return src.Adapter.FetchMatches(callCtx, game)
	})
	if breaker.IsRejection(err) {
		a.metrics.RecordBreakerRejection(src.Name)
	} else {
		a.metrics.RecordSourceAttempt(src.Name, time.Since(start), err)
	}
	results <- outcome{source: src.Name, matches: matches, err: err}
}

func filterByStatus(matches []domain.Match, status domain.MatchStatus) []domain.Match {
	out := make([]domain.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out
}

func validFilter(filter string) bool {
	switch domain.MatchStatus(filter) {
	case "", domain.StatusLive, domain.StatusUpcoming, domain.StatusFinished:
		return true
	default:
		return false
	}
}
