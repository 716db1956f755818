// Package snapshots keeps on-disk copies of merged per-game feeds so the
// service can keep serving when every upstream is down.
package snapshots

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"esports-matches-service/internal/domain"
)

// FeedPath builds the path to the snapshot for a given game.
func FeedPath(basePath, game string) string {
	return filepath.Join(basePath, "feeds", fmt.Sprintf("%s.json", game))
}

// Writer persists merged feed snapshots atomically.
type Writer struct {
	basePath string
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteFeed writes the merged feed for one game, replacing the previous
// snapshot atomically via rename. Identical payloads are left untouched.
func (w *Writer) WriteFeed(game string, feed domain.MatchesResponse) error {
	if w == nil {
		return errors.New("snapshot writer not configured")
	}
	if game == "" {
		return errors.New("game required")
	}
	if feed.Game == "" {
		feed.Game = game
	}

	target := FeedPath(w.basePath, game)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Store defines how feed snapshots are loaded.
type Store interface {
	LoadFeed(game string) (domain.MatchesResponse, error)
}

// FSStore loads snapshots from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadFeed reads the snapshot for one game from disk. Files live at
// {basePath}/feeds/{game}.json with a MatchesResponse payload.
func (s *FSStore) LoadFeed(game string) (domain.MatchesResponse, error) {
	if s == nil {
		return domain.MatchesResponse{}, errors.New("snapshot store not configured")
	}
	if game == "" {
		return domain.MatchesResponse{}, errors.New("game required")
	}

	f, err := os.Open(FeedPath(s.basePath, game))
	if err != nil {
		return domain.MatchesResponse{}, err
	}
	defer f.Close()

	var payload domain.MatchesResponse
	if err := json.NewDecoder(f).Decode(&payload); err != nil {
		return domain.MatchesResponse{}, err
	}
	if payload.Game == "" {
		payload.Game = game
	}
	return payload, nil
}
