package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"esports-matches-service/internal/config"
	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/metrics"
)

func testConfig() config.Config {
	return config.Config{
		Port:          "0",
		Games:         []string{"lol", "csgo"},
		PollInterval:  time.Hour,
		SourceTimeout: time.Second,
		MergeWindow:   30 * time.Minute,
		AdminToken:    "sekret",
		Breaker: config.BreakerConfig{
			Failures: 5,
			Cooldown: time.Minute,
		},
		Cache: config.CacheConfig{
			TTLLive:     30 * time.Second,
			TTLUpcoming: 5 * time.Minute,
			TTLFinished: 30 * time.Minute,
		},
		Sources: config.SourcesConfig{Fixture: true},
		Store:   config.StoreConfig{Backend: "memory"},
		Metrics: config.MetricsConfig{Enabled: false},
	}
}

func TestNewServesFixtureFeed(t *testing.T) {
	srv, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/matches?game=lol", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp domain.MatchesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Game != "lol" {
		t.Errorf("game = %q, want lol", resp.Game)
	}
	if len(resp.Matches) == 0 {
		t.Error("expected fixture matches")
	}
	if resp.Partial {
		t.Error("fixture feed should not be partial")
	}
}

func TestNewMountsAdminWhenTokenSet(t *testing.T) {
	srv, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate?game=lol", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authorized invalidate status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate?game=lol", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated invalidate status = %d, want 401", w.Code)
	}
}

func TestNewSkipsAdminWithoutToken(t *testing.T) {
	cfg := testConfig()
	cfg.AdminToken = ""
	srv, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate?game=lol", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when admin surface is disabled", w.Code)
	}
}

func TestNewRejectsBadStoreBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "redis"
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected an error for an unknown store backend")
	}
}

func TestBuildMetricsFallsBackOnSetupError(t *testing.T) {
	orig := metricsSetup
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("exporter unavailable")
	}
	defer func() { metricsSetup = orig }()

	cfg := testConfig()
	cfg.Metrics.Enabled = true
	rec, metricsSrv, shutdown := buildMetrics(cfg, nil, nil)
	if rec == nil {
		t.Fatal("expected a fallback recorder")
	}
	if metricsSrv != nil {
		t.Error("expected no metrics server after setup failure")
	}
	if shutdown != nil {
		t.Error("expected no shutdown hook after setup failure")
	}
}

func TestBuildMetricsReusesInjectedRecorder(t *testing.T) {
	rec := metrics.NewRecorder()
	got, metricsSrv, shutdown := buildMetrics(testConfig(), nil, rec)
	if got != rec {
		t.Error("expected the injected recorder to be returned")
	}
	if metricsSrv != nil || shutdown != nil {
		t.Error("injected recorder should not spawn a metrics server")
	}
}

func TestRunShutsDownOnContextCancel(t *testing.T) {
	srv, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	origTimeout := shutdownTimeout
	shutdownTimeout = time.Second
	defer func() { shutdownTimeout = origTimeout }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
