// Package http assembles the service's HTTP routes.
package http

import (
	nethttp "net/http"

	"esports-matches-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/matches", handler.Matches)
	mux.HandleFunc("/matches/", handler.MatchByID)
	mux.HandleFunc("/sources", handler.Sources)
	if admin != nil {
		mux.HandleFunc("/admin/cache/invalidate", admin.InvalidateCache)
		mux.HandleFunc("/admin/sources/", admin.ResetSource)
	}
	return mux
}
