package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"esports-matches-service/internal/metrics"
)

func TestLoggingPassesThroughRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	handler := Logging(nil, nil, next)
	req := httptest.NewRequest(http.MethodGet, "/matches?game=lol", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if seen != "req-abc-123" {
		t.Errorf("context request ID = %q, want req-abc-123", seen)
	}
	if got := w.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Errorf("response header = %q, want req-abc-123", got)
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

func TestLoggingGeneratesRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	handler := Logging(nil, nil, next)

	cases := []struct {
		name   string
		header string
	}{
		{"absent", ""},
		{"contains spaces", "bad id"},
		{"contains slash", "a/b"},
		{"too long", strings.Repeat("a", 80)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/matches", nil)
			if tc.header != "" {
				req.Header.Set("X-Request-ID", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if seen == "" {
				t.Fatal("expected a generated request ID")
			}
			if seen == tc.header {
				t.Errorf("invalid incoming ID %q should have been replaced", tc.header)
			}
			if got := w.Header().Get("X-Request-ID"); got != seen {
				t.Errorf("header ID %q does not match context ID %q", got, seen)
			}
		})
	}
}

func TestLoggingRecordsMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := Logging(nil, rec, next)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/matches/m-1", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestLoggingDefaultsStatusToOK(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hi"))
	})
	handler := Logging(nil, nil, next)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRequestIDFromContextMissing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty ID, got %q", got)
	}
	var nilCtx context.Context
	if got := RequestIDFromContext(nilCtx); got != "" {
		t.Errorf("expected empty ID for nil context, got %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/matches", "/matches"},
		{"", "/matches"},
		{"/matches/m-1", "/matches/:id"},
		{"/matches/some%20id", "/matches/:id"},
		{"/admin/sources/pandascore/reset", "/admin/sources/:name/reset"},
		{"/health", "/health"},
		{"/ready", "/ready"},
		{"/sources", "/sources"},
		{"/admin/cache/invalidate", "/admin/cache/invalidate"},
	}
	for _, tc := range cases {
		if got := normalizePath(tc.path); got != tc.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	w := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
	ww.WriteHeader(http.StatusTeapot)
	if ww.status != http.StatusTeapot {
		t.Errorf("status = %d, want 418", ww.status)
	}
}
