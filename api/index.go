package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/repository"
	"github.com/wadjakorntonsri/go-link-directory/pkg/config"
	"github.com/wadjakorntonsri/go-link-directory/pkg/core/services"
	"github.com/wadjakorntonsri/go-link-directory/pkg/logger"
)

var mux http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	// On Vercel a file: DATABASE_URL is ephemeral; point it at libsql or postgres.
	// Connections live as long as the function instance, so nothing is closed here.
	repo, _, err := repository.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}

	mux = handler.NewRouter(cfg, log, services.NewLinkService(repo), services.NewAuthService(cfg), repo)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
