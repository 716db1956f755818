package poller

import (
	"context"
	"testing"
	"time"

	"esports-matches-service/internal/aggregator"
	"esports-matches-service/internal/breaker"
	"esports-matches-service/internal/cache"
	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/ratelimit"
	"esports-matches-service/internal/sources"
	"esports-matches-service/internal/store"
	"esports-matches-service/internal/teststubs"
	"esports-matches-service/internal/testutil"
)

func newTestAggregator(t *testing.T, srcs ...sources.Source) *aggregator.Aggregator {
	t.Helper()
	registry, err := sources.NewRegistry(srcs...)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	names := make([]string, 0, len(srcs))
	intervals := make([]ratelimit.Interval, 0, len(srcs))
	for _, s := range srcs {
		names = append(names, s.Name)
		intervals = append(intervals, ratelimit.Interval{Source: s.Name, MinInterval: time.Nanosecond})
	}
	breakers := breaker.NewRegistry(breaker.Config{Failures: 5, Cooldown: time.Minute}, names, nil)
	limits := ratelimit.NewRegistry(intervals)
	c := cache.New(cache.TTLBands{Live: time.Minute, Upcoming: time.Minute, Finished: time.Minute})
	return aggregator.New(registry, breakers, limits, c, nil, nil, aggregator.Config{
		SourceTimeout: time.Second,
		MergeWindow:   30 * time.Minute,
	})
}

func adapterSource(name, game string, adapter sources.Adapter) sources.Source {
	return sources.Source{
		Name:        name,
		Games:       map[string]sources.Priority{game: sources.Primary},
		MinInterval: time.Nanosecond,
		Adapter:     adapter,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestPollerRefreshesStoreAndSnapshots(t *testing.T) {
	kickoff := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	adapter := &teststubs.StubAdapter{Matches: []domain.Match{testutil.SampleMatch("p-1", "lol", "primary", kickoff)}}
	agg := newTestAggregator(t, adapterSource("primary", "lol", adapter))
	st := store.NewMemoryStore()
	writer := &teststubs.StubSnapshotWriter{}

	p := New(agg, st, writer, []string{"lol"}, nil, nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop(context.Background())

	waitFor(t, 2*time.Second, func() bool {
		_, ok := writer.Feed("lol")
		return ok
	})

	stored, err := st.ListMatches(context.Background(), "lol")
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored match, got %d", len(stored))
	}
	if stored[0].ID != "p-1" {
		t.Errorf("stored match ID = %q, want p-1", stored[0].ID)
	}

	feed, ok := writer.Feed("lol")
	if !ok {
		t.Fatal("expected a snapshot feed for lol")
	}
	if feed.Game != "lol" {
		t.Errorf("feed game = %q, want lol", feed.Game)
	}
	if len(feed.Matches) != 1 {
		t.Errorf("feed has %d matches, want 1", len(feed.Matches))
	}
	if feed.Partial {
		t.Error("feed should not be partial")
	}

	status := p.Status()
	if !status.IsReady() {
		t.Errorf("poller should be ready after a successful cycle, status %+v", status)
	}
	if status.ConsecutiveFailures != 0 {
		t.Errorf("ConsecutiveFailures = %d, want 0", status.ConsecutiveFailures)
	}
	if status.LastAttempt.IsZero() || status.LastSuccess.IsZero() {
		t.Error("expected LastAttempt and LastSuccess to be set")
	}
}

func TestPollerRecordsFailures(t *testing.T) {
	p := New(newTestAggregator(t), nil, nil, []string{"lol"}, nil, nil, time.Hour)

	// No sources cover lol, so every refresh fails.
	p.refreshAll(context.Background())
	p.refreshAll(context.Background())

	status := p.Status()
	if status.ConsecutiveFailures != 2 {
		t.Errorf("ConsecutiveFailures = %d, want 2", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Error("expected LastError to be set")
	}
	if !status.LastSuccess.IsZero() {
		t.Error("LastSuccess should stay zero without a successful cycle")
	}
	if status.IsReady() {
		t.Error("poller should not report ready")
	}
}

func TestPollerRecoversAfterFailure(t *testing.T) {
	kickoff := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	adapter := &teststubs.FlakyAdapter{
		FailFirst: 1,
		Matches:   []domain.Match{testutil.SampleMatch("p-1", "lol", "primary", kickoff)},
	}
	agg := newTestAggregator(t, adapterSource("primary", "lol", adapter))
	p := New(agg, store.NewMemoryStore(), nil, []string{"lol"}, nil, nil, time.Hour)

	p.refreshAll(context.Background())
	if got := p.Status().ConsecutiveFailures; got != 0 {
		// A single failing source still yields a partial result, which the
		// poller records as success.
		t.Errorf("ConsecutiveFailures after partial cycle = %d, want 0", got)
	}

	agg.InvalidateGame("lol")
	p.refreshAll(context.Background())

	status := p.Status()
	if status.ConsecutiveFailures != 0 {
		t.Errorf("ConsecutiveFailures = %d, want 0", status.ConsecutiveFailures)
	}
	if !status.IsReady() {
		t.Errorf("poller should be ready, status %+v", status)
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	agg := newTestAggregator(t, adapterSource("primary", "lol", &teststubs.StubAdapter{}))
	p := New(agg, nil, nil, []string{"lol"}, nil, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	p.Start(ctx)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop failed: %v", err)
	}
}

func TestPollerStatusIsReady(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		status Status
		want   bool
	}{
		{"never succeeded", Status{}, false},
		{"recent success", Status{LastSuccess: now}, true},
		{"some failures", Status{LastSuccess: now, ConsecutiveFailures: 2}, true},
		{"too many failures", Status{LastSuccess: now, ConsecutiveFailures: 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.status.IsReady(); got != tc.want {
				t.Errorf("IsReady() = %v, want %v", got, tc.want)
			}
		})
	}
}
