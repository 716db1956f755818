// Package handlers wires HTTP routes to the aggregator and the match
// store.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"esports-matches-service/internal/aggregator"
	"esports-matches-service/internal/app/matches"
	"esports-matches-service/internal/domain"
	"esports-matches-service/internal/logging"
	"esports-matches-service/internal/poller"
	"esports-matches-service/internal/snapshots"
)

type nowFunc func() time.Time

// Handler wires HTTP routes to the aggregator and persistence layers.
type Handler struct {
	agg      *aggregator.Aggregator
	svc      *matches.Service
	snaps    snapshots.Store
	logger   *slog.Logger
	now      nowFunc
	statusFn func() poller.Status
}

// NewHandler constructs a Handler with defaults. The snapshot store and
// status function are optional.
func NewHandler(agg *aggregator.Aggregator, svc *matches.Service, snaps snapshots.Store, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		agg:      agg,
		svc:      svc,
		snaps:    snaps,
		logger:   logger,
		now:      time.Now,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if h.statusFn().IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := h.statusFn().LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Matches returns the merged feed for one game, optionally filtered by
// status. Source outages degrade to a partial feed; when every source is
// down an on-disk snapshot is served as a last resort.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)

	game := strings.TrimSpace(r.URL.Query().Get("game"))
	if game == "" {
		writeError(w, r, http.StatusBadRequest, "game query parameter required", logger)
		return
	}
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	result, err := h.agg.Fetch(r.Context(), game, status)
	switch {
	case errors.Is(err, aggregator.ErrBadStatusFilter):
		writeError(w, r, http.StatusBadRequest, "invalid status filter (expected live, upcoming or finished)", logger)
		return
	case errors.Is(err, aggregator.ErrNoSources):
		writeError(w, r, http.StatusBadRequest, "no sources configured for game", logger)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "failed to fetch matches", logger)
		return
	}

	if len(result.Matches) == 0 && result.Partial {
		if snap, snapErr := h.loadSnapshot(game); snapErr == nil && len(snap.Matches) > 0 {
			logging.Info(logger, "served snapshot feed",
				slog.String(logging.FieldGame, game),
				slog.Int(logging.FieldCount, len(snap.Matches)),
			)
			writeJSON(w, http.StatusOK, snap, logger)
			return
		}
	}

	payload := domain.NewMatchesResponse(game, result.Matches, result.Partial, h.now().UTC())
	writeJSON(w, http.StatusOK, payload, logger)
}

// MatchByID returns a specific stored match if present.
func (h *Handler) MatchByID(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	// Expect path: /matches/{id}
	path := strings.TrimPrefix(r.URL.Path, "/matches")
	if path == "" || path == "/" {
		writeError(w, r, http.StatusBadRequest, "invalid match id", h.logger)
		return
	}

	idRaw := strings.TrimPrefix(path, "/")
	id, err := url.PathUnescape(idRaw)
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, http.StatusBadRequest, "invalid match id", h.logger)
		return
	}

	match, ok, err := h.svc.MatchByID(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to load match", h.logger)
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "match not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, match, h.logger)
}

// Sources returns a read-only snapshot of every source's breaker and
// limiter state.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": h.agg.SourceStates()}, h.logger)
}

func (h *Handler) loadSnapshot(game string) (domain.MatchesResponse, error) {
	if h.snaps == nil {
		return domain.MatchesResponse{}, errors.New("snapshot store not configured")
	}
	return h.snaps.LoadFeed(game)
}
