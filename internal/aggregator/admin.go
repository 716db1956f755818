package aggregator

import (
	"esports-matches-service/internal/breaker"
	"esports-matches-service/internal/ratelimit"
)

// SourceState is the operator-facing view of one source's gating state.
type SourceState struct {
	Source  string              `json:"source"`
	Breaker breaker.Snapshot    `json:"breaker"`
	Limiter ratelimit.Snapshot  `json:"limiter"`
	Games   map[string]string   `json:"games"`
	Metrics SourceStateCounters `json:"metrics"`
}

// SourceStateCounters summarizes recorded call counters for one source.
type SourceStateCounters struct {
	Attempts        int `json:"attempts"`
	Errors          int `json:"errors"`
	BreakerRejected int `json:"breakerRejected"`
	LimiterSkipped  int `json:"limiterSkipped"`
}

// InvalidateGame drops every cached entry for the game and returns how
// many entries were removed.
func (a *Aggregator) InvalidateGame(game string) int {
	return a.cache.InvalidateGame(game)
}

// ResetSource forces the named source's circuit back to closed.
func (a *Aggregator) ResetSource(name string) error {
	return a.breakers.Reset(name)
}

// SourceStates returns a read-only snapshot of every registered source's
// breaker and limiter state, in registration order.
func (a *Aggregator) SourceStates() []SourceState {
	names := a.registry.Names()
	out := make([]SourceState, 0, len(names))
	for _, name := range names {
		state := SourceState{Source: name}
		if snap, err := a.breakers.Snapshot(name); err == nil {
			state.Breaker = snap
		}
		if snap, ok := a.limits.Snapshot(name); ok {
			state.Limiter = snap
		}
		if src, ok := a.registry.Lookup(name); ok {
			state.Games = make(map[string]string, len(src.Games))
			for game, prio := range src.Games {
				state.Games[game] = prio.String()
			}
		}
		rec := a.metrics.Snapshot(name)
		state.Metrics = SourceStateCounters{
			Attempts:        rec.Attempts,
			Errors:          rec.Errors,
			BreakerRejected: rec.BreakerRejected,
			LimiterSkipped:  rec.LimiterSkipped,
		}
		out = append(out, state)
	}
	return out
}
