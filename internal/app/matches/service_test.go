package matches

import (
	"context"
	"testing"
	"time"

	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/store"
	"esports-matches-service/internal/testutil"
)

func TestServiceReplaceAndList(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	ctx := context.Background()
	kickoff := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	matches, err := svc.Matches(ctx, "lol")
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}

	in := []domain.Match{
		testutil.SampleMatch("m-1", "lol", "pandascore", kickoff),
		testutil.SampleMatch("m-2", "lol", "pandascore", kickoff.Add(time.Hour)),
	}
	if err := svc.ReplaceMatches(ctx, "lol", in); err != nil {
		t.Fatalf("ReplaceMatches failed: %v", err)
	}

	matches, err = svc.Matches(ctx, "lol")
	if err != nil {
		t.Fatalf("Matches failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	if err := svc.ReplaceMatches(ctx, "lol", in[:1]); err != nil {
		t.Fatalf("ReplaceMatches failed: %v", err)
	}
	matches, _ = svc.Matches(ctx, "lol")
	if len(matches) != 1 || matches[0].ID != "m-1" {
		t.Errorf("replacement should keep only m-1, got %v", matches)
	}
}

func TestServiceMatchByID(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	ctx := context.Background()
	kickoff := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	if err := svc.ReplaceMatches(ctx, "csgo", []domain.Match{testutil.SampleMatch("m-7", "csgo", "hltv", kickoff)}); err != nil {
		t.Fatalf("ReplaceMatches failed: %v", err)
	}

	m, ok, err := svc.MatchByID(ctx, "m-7")
	if err != nil {
		t.Fatalf("MatchByID failed: %v", err)
	}
	if !ok {
		t.Fatal("expected m-7 to be found")
	}
	if m.Game != "csgo" {
		t.Errorf("game = %q, want csgo", m.Game)
	}

	_, ok, err = svc.MatchByID(ctx, "missing")
	if err != nil {
		t.Fatalf("MatchByID failed: %v", err)
	}
	if ok {
		t.Error("missing id should not be found")
	}
}
