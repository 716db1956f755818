package matches

import (
	"context"

	"esports-matches-service/internal/domain"
)

// Store defines the contract for persisting and retrieving matches.
type Store interface {
	SetMatches(ctx context.Context, game string, matches []domain.Match) error
	ListMatches(ctx context.Context, game string) ([]domain.Match, error)
	GetMatch(ctx context.Context, id string) (domain.Match, bool, error)
}

// Service coordinates match persistence operations using a Store.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Matches returns the persisted matches for a game.
func (s *Service) Matches(ctx context.Context, game string) ([]domain.Match, error) {
	return s.store.ListMatches(ctx, game)
}

// MatchByID returns a single match if present.
func (s *Service) MatchByID(ctx context.Context, id string) (domain.Match, bool, error) {
	return s.store.GetMatch(ctx, id)
}

// ReplaceMatches swaps the stored matches for a game with a new snapshot.
func (s *Service) ReplaceMatches(ctx context.Context, game string, matches []domain.Match) error {
	return s.store.SetMatches(ctx, game, matches)
}
