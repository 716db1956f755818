package store

import (
	"context"
	"sync"

	"esports-matches-service/internal/domain"
)

// MemoryStore keeps a thread-safe snapshot of merged matches in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	byGame map[string][]domain.Match
	byID   map[string]domain.Match
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byGame: make(map[string][]domain.Match),
		byID:   make(map[string]domain.Match),
	}
}

// SetMatches replaces the feed for one game with a new snapshot.
func (s *MemoryStore) SetMatches(_ context.Context, game string, matches []domain.Match) error {
	snapshot := make([]domain.Match, len(matches))
	copy(snapshot, matches)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, old := range s.byGame[game] {
		delete(s.byID, old.ID)
	}
	s.byGame[game] = snapshot
	for _, m := range snapshot {
		s.byID[m.ID] = m
	}
	return nil
}

// ListMatches returns a copy of the stored feed for one game.
func (s *MemoryStore) ListMatches(_ context.Context, game string) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.byGame[game]
	result := make([]domain.Match, len(stored))
	copy(result, stored)
	return result, nil
}

// GetMatch retrieves a match by ID.
func (s *MemoryStore) GetMatch(_ context.Context, id string) (domain.Match, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.byID[id]
	return m, ok, nil
}

// Close is a no-op for the in-memory backend.
func (s *MemoryStore) Close() error { return nil }
