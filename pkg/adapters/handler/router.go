package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-link-directory/pkg/config"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, log zerolog.Logger, linkService ports.LinkService, authService ports.AuthService, db Pinger) http.Handler {
	metrics := NewMetrics()
	mw := NewMiddleware(authService, cfg.SessionCookieName, log)

	h := NewLinkHandler(linkService, metrics, cfg.BaseURL)
	authHandler := NewAuthHandler(cfg, authService, mw)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /{alias}", h.Redirect)

	mux.HandleFunc("GET /api/auth", authHandler.Status)
	mux.HandleFunc("POST /api/auth", authHandler.Login)
	mux.HandleFunc("DELETE /api/auth", authHandler.Logout)

	if authHandler.GoogleEnabled() {
		mux.HandleFunc("GET /auth/google/login", authHandler.GoogleLogin)
		mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleCallback)
	}

	// Protected Routes
	mux.Handle("GET /api/links", mw.RequireSession(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/links", mw.RequireSession(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/links/{id}", mw.RequireSession(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/links/{id}", mw.RequireSession(http.HandlerFunc(h.Delete)))

	// Outermost first: request id, logging, panic recovery, then metrics
	// right on the mux so r.Pattern is visible after routing.
	return mw.RequestID(mw.Logger(mw.Recover(metrics.Instrument(mux))))
}
