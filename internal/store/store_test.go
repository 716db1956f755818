package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/testutil"
)

var feedTime = time.Date(2025, 6, 14, 17, 0, 0, 0, time.UTC)

// exerciseStore runs the shared Store contract against a backend.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	matches, err := s.ListMatches(ctx, "lol")
	if err != nil {
		t.Fatalf("ListMatches on empty store failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("empty store returned %d matches", len(matches))
	}

	feed := []domain.Match{
		testutil.SampleMatch("m-1", "lol", "pandascore", feedTime),
		testutil.SampleMatch("m-2", "lol", "pandascore", feedTime.Add(2*time.Hour)),
	}
	if err := s.SetMatches(ctx, "lol", feed); err != nil {
		t.Fatalf("SetMatches failed: %v", err)
	}

	matches, err = s.ListMatches(ctx, "lol")
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	got, ok, err := s.GetMatch(ctx, "m-2")
	if err != nil || !ok {
		t.Fatalf("GetMatch = (%v, %v, %v)", got, ok, err)
	}
	if got.ID != "m-2" || !got.ScheduledAt.Equal(feedTime.Add(2*time.Hour)) {
		t.Errorf("GetMatch returned %+v", got)
	}

	if _, ok, err := s.GetMatch(ctx, "nope"); err != nil || ok {
		t.Errorf("missing match = (ok=%v, err=%v), want absent without error", ok, err)
	}

	// Replacing the feed drops records no longer present.
	if err := s.SetMatches(ctx, "lol", feed[1:]); err != nil {
		t.Fatalf("replacement SetMatches failed: %v", err)
	}
	if _, ok, _ := s.GetMatch(ctx, "m-1"); ok {
		t.Error("m-1 should be gone after replacement")
	}
	matches, _ = s.ListMatches(ctx, "lol")
	if len(matches) != 1 || matches[0].ID != "m-2" {
		t.Errorf("replaced feed = %+v", matches)
	}

	// Games are isolated.
	if err := s.SetMatches(ctx, "csgo", []domain.Match{testutil.SampleMatch("c-1", "csgo", "hltv", feedTime)}); err != nil {
		t.Fatalf("SetMatches for csgo failed: %v", err)
	}
	matches, _ = s.ListMatches(ctx, "lol")
	if len(matches) != 1 {
		t.Errorf("csgo write disturbed the lol feed: %+v", matches)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopiesSnapshots(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	feed := []domain.Match{testutil.SampleMatch("m-1", "lol", "pandascore", feedTime)}
	if err := s.SetMatches(ctx, "lol", feed); err != nil {
		t.Fatalf("SetMatches failed: %v", err)
	}
	feed[0].ID = "mutated"

	matches, _ := s.ListMatches(ctx, "lol")
	if matches[0].ID != "m-1" {
		t.Error("store aliases the caller's slice")
	}
	matches[0].ID = "mutated-again"
	matches, _ = s.ListMatches(ctx, "lol")
	if matches[0].ID != "m-1" {
		t.Error("store returns its internal slice")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStoreListOrdersBySchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	feed := []domain.Match{
		testutil.SampleMatch("late", "lol", "pandascore", feedTime.Add(4*time.Hour)),
		testutil.SampleMatch("early", "lol", "pandascore", feedTime),
	}
	if err := s.SetMatches(ctx, "lol", feed); err != nil {
		t.Fatalf("SetMatches failed: %v", err)
	}
	matches, err := s.ListMatches(ctx, "lol")
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if matches[0].ID != "early" || matches[1].ID != "late" {
		t.Errorf("list order = %v, %v", matches[0].ID, matches[1].ID)
	}
}

func TestOpenDispatchesBackends(t *testing.T) {
	s, err := Open(Config{Backend: "memory"})
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("backend = %T, want *MemoryStore", s)
	}

	s, err = Open(Config{})
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("default backend = %T, want *MemoryStore", s)
	}

	s, err = Open(Config{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "m.db")})
	if err != nil {
		t.Fatalf("sqlite backend: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("sqlite backend = %T, want *SQLiteStore", s)
	}

	if _, err := Open(Config{Backend: "redis"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
