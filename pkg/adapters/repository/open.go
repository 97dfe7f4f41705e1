// Package repository selects and assembles link storage from configuration.
package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/cache"
	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/repository/memory"
	"github.com/wadjakorntonsri/go-link-directory/pkg/adapters/repository/sqlrepo"
	"github.com/wadjakorntonsri/go-link-directory/pkg/config"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

// MemoryURL selects the map-backed store instead of a database.
const MemoryURL = "memory"

// Open picks the storage from DATABASE_URL and, when REDIS_URL is set, puts
// the alias cache in front of it. The returned func releases everything Open
// acquired.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.LinkRepository, func(), error) {
	var (
		repo    ports.LinkRepository
		closers []func() error
	)

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Error().Err(err).Msg("closing storage")
			}
		}
	}

	if cfg.DatabaseURL == MemoryURL {
		log.Warn().Msg("using in-memory storage, links are lost on restart")
		repo = memory.NewRepository()
	} else {
		db, err := sqlrepo.NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		repo = db
		closers = append(closers, db.Close)
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		log.Info().Dur("ttl", cfg.CacheTTL).Msg("alias cache enabled")
		repo = cache.NewLinkCache(repo, client, cfg.CacheTTL, log)
		closers = append(closers, client.Close)
	}

	return repo, closeAll, nil
}
