package requestutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeRequestID(t *testing.T) {
	valid := []string{"abc", "req-1_2-3", strings.Repeat("a", 64), "UUID-like-0f"}
	for _, id := range valid {
		if got := SanitizeRequestID(id); got != id {
			t.Errorf("SanitizeRequestID(%q) = %q, want unchanged", id, got)
		}
	}

	invalid := []string{"", "has space", "a/b", "tab\tid", strings.Repeat("a", 65), "idé"}
	for _, id := range invalid {
		got := SanitizeRequestID(id)
		if got == id || got == "" {
			t.Errorf("SanitizeRequestID(%q) = %q, want a fresh ID", id, got)
		}
	}
}

func TestNewRequestIDIsUnique(t *testing.T) {
	a, b := NewRequestID(), NewRequestID()
	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected distinct IDs")
	}
}

func TestClientIP(t *testing.T) {
	t.Run("remote addr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		if got := ClientIP(r); got != "10.0.0.1:1234" {
			t.Errorf("ClientIP = %q, want remote addr", got)
		}
	})

	t.Run("forwarded for", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		if got := ClientIP(r); got != "203.0.113.9" {
			t.Errorf("ClientIP = %q, want first forwarded entry", got)
		}
	})

	t.Run("nil request", func(t *testing.T) {
		if got := ClientIP(nil); got != "" {
			t.Errorf("ClientIP(nil) = %q, want empty", got)
		}
	})
}
