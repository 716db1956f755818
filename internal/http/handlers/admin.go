package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"esports-matches-service/internal/aggregator"
	"esports-matches-service/internal/http/requestutil"
	"esports-matches-service/internal/logging"
)

// AdminHandler exposes admin-only operational endpoints.
type AdminHandler struct {
	agg    *aggregator.Aggregator
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(agg *aggregator.Aggregator, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		agg:    agg,
		token:  token,
		logger: logger,
	}
}

// InvalidateCache drops every cached feed entry for the requested game.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		h.logUnauthorized(r)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	game := strings.TrimSpace(r.URL.Query().Get("game"))
	if game == "" {
		writeError(w, r, http.StatusBadRequest, "game query parameter required", logger)
		return
	}

	removed := h.agg.InvalidateGame(game)
	logging.Info(logger, "admin cache invalidated",
		slog.String(logging.FieldGame, game),
		slog.Int(logging.FieldCount, removed),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"game":    game,
		"removed": removed,
		"status":  "ok",
	}, logger)
}

// ResetSource forces the named source's circuit breaker back to closed.
// Expects path: /admin/sources/{name}/reset.
func (h *AdminHandler) ResetSource(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		h.logUnauthorized(r)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	name := sourceNameFromPath(r.URL.Path)
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "invalid source name", logger)
		return
	}

	if err := h.agg.ResetSource(name); err != nil {
		logging.Warn(logger, "admin breaker reset failed",
			slog.String(logging.FieldSource, name),
			slog.Any("err", err),
		)
		writeError(w, r, http.StatusNotFound, "unknown source", logger)
		return
	}
	logging.Info(logger, "admin breaker reset",
		slog.String(logging.FieldSource, name),
	)
	writeJSON(w, http.StatusOK, map[string]string{
		"source": name,
		"status": "ok",
	}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}

func (h *AdminHandler) logUnauthorized(r *http.Request) {
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
}

func sourceNameFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/admin/sources/")
	name, ok := strings.CutSuffix(trimmed, "/reset")
	if !ok || name == "" || strings.Contains(name, "/") {
		return ""
	}
	return name
}
