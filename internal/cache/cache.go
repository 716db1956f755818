package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"esports-matches-service/internal/domain"
)

// Key identifies one cached feed. Scope is either a source name or the
// aggregate scope; Filter is the requested status filter or "all".
type Key struct {
	Scope  string
	Game   string
	Filter string
}

// AggregateScope marks entries holding the merged cross-source feed.
const AggregateScope = "aggregate"

// AggregateKey builds the cache key for a merged fetch.
func AggregateKey(game, statusFilter string) Key {
	if statusFilter == "" {
		statusFilter = "all"
	}
	return Key{Scope: AggregateScope, Game: game, Filter: statusFilter}
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.Scope, k.Game, k.Filter)
}

// Value is the cached payload plus the partial flag it was produced with.
type Value struct {
	Matches []domain.Match
	Partial bool
}

// TTLBands maps freshness tiers to lifetimes. Live data expires fastest.
type TTLBands struct {
	Live     time.Duration
	Upcoming time.Duration
	Finished time.Duration
}

type entry struct {
	value    Value
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a freshness-tiered TTL cache. Entries are immutable once
// written; Put replaces the whole entry atomically so readers never see a
// half-written value. The tier is derived from the payload itself, not
// configured per call.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	bands   TTLBands
	now     func() time.Time
}

// New constructs an empty cache with the given TTL bands.
func New(bands TTLBands) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		bands:   bands,
		now:     time.Now,
	}
}

// WithClock overrides the time source; intended for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached value for key if present and fresh.
func (c *Cache) Get(key Key) (Value, bool) {
	c.mu.RLock()
	e, ok := c.entries[key.String()]
	c.mu.RUnlock()
	if !ok {
		return Value{}, false
	}
	if c.now().Sub(e.storedAt) >= e.ttl {
		return Value{}, false
	}
	return e.value, true
}

// Put stores value under key, always overwriting. The TTL follows the
// dominant status of the payload.
func (c *Cache) Put(key Key, value Value) {
	e := entry{
		value:    value,
		storedAt: c.now(),
		ttl:      c.ttlFor(value.Matches),
	}
	c.mu.Lock()
	c.entries[key.String()] = e
	c.mu.Unlock()
}

// InvalidateGame drops every entry for the given game, across scopes and
// filters.
func (c *Cache) InvalidateGame(game string) int {
	needle := ":" + game + ":"
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k := range c.entries {
		if strings.Contains(k, needle) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) ttlFor(matches []domain.Match) time.Duration {
	switch dominantStatus(matches) {
	case domain.StatusLive:
		return c.bands.Live
	case domain.StatusFinished:
		return c.bands.Finished
	default:
		return c.bands.Upcoming
	}
}

// dominantStatus picks the most frequent status in the payload; ties go to
// the more current status. An empty payload counts as live so empty
// results are retried quickly.
func dominantStatus(matches []domain.Match) domain.MatchStatus {
	if len(matches) == 0 {
		return domain.StatusLive
	}
	counts := make(map[domain.MatchStatus]int, 3)
	for _, m := range matches {
		counts[m.Status]++
	}
	best := matches[0].Status
	for _, s := range []domain.MatchStatus{domain.StatusLive, domain.StatusFinished, domain.StatusUpcoming} {
		if counts[s] > counts[best] || (counts[s] == counts[best] && domain.MoreCurrent(s, best)) {
			best = s
		}
	}
	return best
}
