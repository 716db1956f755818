package sources

import (
	"context"
	"fmt"
	"sort"
	"time"

	"esports-matches-service/internal/domain"
)

// Priority ranks a source for a given game; lower is preferred.
type Priority int

const (
	Primary Priority = iota + 1
	Secondary
	Tertiary
)

func (p Priority) String() string {
	switch p {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Tertiary:
		return "tertiary"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Adapter fetches candidate matches for one game from one upstream
// provider. Implementations must be safe for concurrent use and must
// honor the supplied context deadline.
type Adapter interface {
	FetchMatches(ctx context.Context, game string) ([]domain.Match, error)
}

// Source pairs an adapter with its declared capabilities. Games maps each
// supported game to the source's priority for that game. MinInterval is
// the minimum spacing between calls the rate limiter enforces.
type Source struct {
	Name        string
	Games       map[string]Priority
	MinInterval time.Duration
	Adapter     Adapter
}

// Registry holds the fixed set of sources. It is populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	ordered []Source
	byName  map[string]Source
}

// NewRegistry builds a registry from the given sources. Registration
// order is preserved and used as the deterministic tie-break between
// sources of equal priority.
func NewRegistry(srcs ...Source) (*Registry, error) {
	r := &Registry{byName: make(map[string]Source, len(srcs))}
	for _, s := range srcs {
		if s.Name == "" {
			return nil, fmt.Errorf("sources: source with empty name")
		}
		if s.Adapter == nil {
			return nil, fmt.Errorf("sources: %s has no adapter", s.Name)
		}
		if len(s.Games) == 0 {
			return nil, fmt.Errorf("sources: %s declares no games", s.Name)
		}
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("sources: duplicate source %s", s.Name)
		}
		r.byName[s.Name] = s
		r.ordered = append(r.ordered, s)
	}
	return r, nil
}

// Eligible returns the sources capable of serving game, ordered by
// priority and then by registration order.
func (r *Registry) Eligible(game string) []Source {
	out := make([]Source, 0, len(r.ordered))
	for _, s := range r.ordered {
		if _, ok := s.Games[game]; ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Games[game] < out[j].Games[game]
	})
	return out
}

// Lookup returns the source registered under name.
func (r *Registry) Lookup(name string) (Source, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names returns all source names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ordered))
	for _, s := range r.ordered {
		names = append(names, s.Name)
	}
	return names
}

// PriorityFor returns the source's priority for game. Sources unknown to
// the registry or without the capability sort last.
func (r *Registry) PriorityFor(name, game string) Priority {
	if s, ok := r.byName[name]; ok {
		if p, ok := s.Games[game]; ok {
			return p
		}
	}
	return Priority(int(Tertiary) + 1)
}
