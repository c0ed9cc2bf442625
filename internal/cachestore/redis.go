package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/goodsections"
	"github.com/gridwatch/goodsections/internal/redis"
)

// Compile-time interface compliance check.
var _ Store = (*RedisStore)(nil)

const redisKeyPrefix = "goodsections:cache:"

// RedisStore keeps each series' cache rows as a JSON list under a single key.
type RedisStore struct {
	log   logrus.FieldLogger
	cfg   Config
	redis redis.Client
}

// NewRedisStore creates a Redis-backed cache store. The Redis client is
// shared infrastructure; its lifecycle is managed by the caller.
func NewRedisStore(log logrus.FieldLogger, cfg Config, redisClient redis.Client) *RedisStore {
	return &RedisStore{
		log:   log.WithField("component", "cachestore_redis"),
		cfg:   cfg,
		redis: redisClient,
	}
}

// Start verifies Redis connectivity.
func (s *RedisStore) Start(ctx context.Context) error {
	if err := s.redis.Ping(ctx); err != nil {
		return fmt.Errorf("cache store redis ping: %w", err)
	}

	s.log.Info("Cache store started")

	return nil
}

// Stop is a no-op; the shared Redis client is stopped by its owner.
func (s *RedisStore) Stop() error {
	s.log.Info("Cache store stopped")

	return nil
}

// SaveRows replaces the cached rows for a series.
func (s *RedisStore) SaveRows(ctx context.Context, series string, rows []goodsections.CacheRow) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal cache rows for %s: %w", series, err)
	}

	if err := s.redis.Set(ctx, redisKeyPrefix+series, string(data), s.cfg.TTL); err != nil {
		return fmt.Errorf("store cache rows for %s: %w", series, err)
	}

	s.log.WithFields(logrus.Fields{
		"series": series,
		"rows":   len(rows),
	}).Debug("Saved cache rows")

	return nil
}

// LoadRows returns the cached rows for a series in saved order. A series with
// no cached rows yields an empty slice, not an error.
func (s *RedisStore) LoadRows(ctx context.Context, series string) ([]goodsections.CacheRow, error) {
	data, err := s.redis.Get(ctx, redisKeyPrefix+series)
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return []goodsections.CacheRow{}, nil
		}

		return nil, fmt.Errorf("load cache rows for %s: %w", series, err)
	}

	var rows []goodsections.CacheRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("unmarshal cache rows for %s: %w", series, err)
	}

	return rows, nil
}

// DeleteRows drops the cached rows for a series.
func (s *RedisStore) DeleteRows(ctx context.Context, series string) error {
	if err := s.redis.Del(ctx, redisKeyPrefix+series); err != nil {
		return fmt.Errorf("delete cache rows for %s: %w", series, err)
	}

	return nil
}
