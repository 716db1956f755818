// Package store persists merged canonical matches. Stores only ever see
// the aggregator's merged output, never raw provider records.
package store

import (
	"context"
	"fmt"

	"esports-matches-service/internal/domain"
)

// Store is the contract for persisting and retrieving merged matches.
type Store interface {
	// SetMatches replaces the stored feed for one game atomically.
	SetMatches(ctx context.Context, game string, matches []domain.Match) error
	// ListMatches returns the stored feed for one game.
	ListMatches(ctx context.Context, game string) ([]domain.Match, error)
	// GetMatch retrieves a match by ID across games.
	GetMatch(ctx context.Context, id string) (domain.Match, bool, error)
	Close() error
}

// Config selects and configures a store backend.
type Config struct {
	Backend string // "memory" or "sqlite"
	Path    string // sqlite file path
}

// Open constructs the configured backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
