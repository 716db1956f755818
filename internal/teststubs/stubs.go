// Package teststubs provides shared test doubles for the source and
// snapshot interfaces.
package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"esports-matches-service/internal/domain"
)

// StubAdapter is a test double for sources.Adapter.
type StubAdapter struct {
	Matches []domain.Match
	Err     error
	Calls   atomic.Int32
	// Block, when set, delays each call until the channel is closed or
	// the context expires.
	Block chan struct{}
}

// FetchMatches returns the configured matches and error while tracking calls.
func (s *StubAdapter) FetchMatches(ctx context.Context, game string) ([]domain.Match, error) {
	s.Calls.Add(1)
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]domain.Match, len(s.Matches))
	copy(out, s.Matches)
	return out, nil
}

// FlakyAdapter fails a fixed number of calls before succeeding.
type FlakyAdapter struct {
	FailFirst int
	Matches   []domain.Match
	Calls     atomic.Int32
}

// FetchMatches fails until FailFirst calls have been made.
func (f *FlakyAdapter) FetchMatches(ctx context.Context, game string) ([]domain.Match, error) {
	_ = ctx
	_ = game
	n := f.Calls.Add(1)
	if int(n) <= f.FailFirst {
		return nil, errors.New("upstream unavailable")
	}
	return f.Matches, nil
}

// StubSnapshotStore is a test double for snapshots.Store.
type StubSnapshotStore struct {
	Feeds   map[string]domain.MatchesResponse // keyed by game
	LoadErr error
}

// LoadFeed returns the feed for the given game if present.
func (s *StubSnapshotStore) LoadFeed(game string) (domain.MatchesResponse, error) {
	if s.LoadErr != nil {
		return domain.MatchesResponse{}, s.LoadErr
	}
	feed, ok := s.Feeds[game]
	if !ok {
		return domain.MatchesResponse{}, errors.New("snapshot not found")
	}
	return feed, nil
}

// StubSnapshotWriter is a test double for poller.SnapshotWriter.
type StubSnapshotWriter struct {
	mu      sync.Mutex
	Written map[string]domain.MatchesResponse // keyed by game
	Err     error
}

// WriteFeed records the feed for verification in tests.
func (w *StubSnapshotWriter) WriteFeed(game string, feed domain.MatchesResponse) error {
	if w.Err != nil {
		return w.Err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.Written == nil {
		w.Written = make(map[string]domain.MatchesResponse)
	}
	w.Written[game] = feed
	return nil
}

// Feed returns the recorded feed for a game.
func (w *StubSnapshotWriter) Feed(game string) (domain.MatchesResponse, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	feed, ok := w.Written[game]
	return feed, ok
}
