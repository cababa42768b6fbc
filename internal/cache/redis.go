package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-stevedore/internal/config"
	"github.com/MKhiriev/go-stevedore/internal/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "stevedore:"

// redisCache implements Cache on top of a go-redis client. Keys are
// namespaced with keyPrefix.
type redisCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisCache connects to cfg.Addr and pings it.
func NewRedisCache(ctx context.Context, cfg config.Cache, log *logger.Logger) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisCache").Str("addr", cfg.Addr).Msg("failed to ping redis")
		_ = client.Close()
		return nil, fmt.Errorf("%w: %w", ErrCacheConnection, err)
	}
	log.Info().Str("func", "NewRedisCache").Str("addr", cfg.Addr).Msg("redis cache initialized")

	return newRedisCache(client, log), nil
}

func newRedisCache(client *redis.Client, log *logger.Logger) *redisCache {
	return &redisCache{client: client, logger: log}
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheConnection, err)
	}
	return nil
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheConnection, err)
	}
	return val, nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheConnection, err)
	}
	return nil
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
