// Package cache keeps alias lookups in Redis in front of the link repository.
//
// Reads go through the cache; every write to the repository drops the keys
// of the aliases it touched, so a stale entry lives at most until the next
// write or the TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-link-directory/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-directory/pkg/ports"
)

const keyPrefix = "link:alias:"

// RedisClient is the subset of *redis.Client the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type LinkCache struct {
	ports.LinkRepository
	client RedisClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewLinkCache(repo ports.LinkRepository, client RedisClient, ttl time.Duration, log zerolog.Logger) *LinkCache {
	return &LinkCache{
		LinkRepository: repo,
		client:         client,
		ttl:            ttl,
		log:            log.With().Str("component", "cache").Logger(),
	}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func key(alias string) string {
	return keyPrefix + alias
}

func (c *LinkCache) GetByAlias(ctx context.Context, alias string) (*domain.Link, error) {
	raw, err := c.client.Get(ctx, key(alias)).Bytes()
	switch {
	case err == nil:
		var link domain.Link
		if err := json.Unmarshal(raw, &link); err == nil {
			return &link, nil
		}
		c.log.Warn().Str("alias", alias).Msg("dropping undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("alias", alias).Msg("cache read failed")
	}

	link, err := c.LinkRepository.GetByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(link); err == nil {
		if err := c.client.Set(ctx, key(alias), payload, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("alias", alias).Msg("cache write failed")
		}
	}
	return link, nil
}

func (c *LinkCache) Create(ctx context.Context, link *domain.Link) error {
	if err := c.LinkRepository.Create(ctx, link); err != nil {
		return err
	}
	c.invalidate(ctx, link.Alias)
	return nil
}

func (c *LinkCache) Update(ctx context.Context, link *domain.Link) error {
	aliases := []string{link.Alias}
	if old, err := c.LinkRepository.GetByID(ctx, link.ID); err == nil && old.Alias != link.Alias {
		aliases = append(aliases, old.Alias)
	}

	if err := c.LinkRepository.Update(ctx, link); err != nil {
		return err
	}
	c.invalidate(ctx, aliases...)
	return nil
}

func (c *LinkCache) Delete(ctx context.Context, id int64) error {
	old, err := c.LinkRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := c.LinkRepository.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, old.Alias)
	return nil
}

func (c *LinkCache) invalidate(ctx context.Context, aliases ...string) {
	keys := make([]string, 0, len(aliases))
	for _, a := range aliases {
		keys = append(keys, key(a))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("aliases", aliases).Msg("cache invalidation failed")
	}
}

var _ ports.LinkRepository = (*LinkCache)(nil)
