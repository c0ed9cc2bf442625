package cachestore

//go:generate mockgen -package mocks -destination mocks/mock_store.go github.com/gridwatch/goodsections/internal/cachestore Store

import (
	"context"
	"fmt"
	"time"

	"github.com/gridwatch/goodsections/internal/goodsections"
)

// Backend names accepted by Config.Backend.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Store persists the flat section-cache table, one entry per series. The rows
// keep their export order; LoadRows must return them exactly as saved.
type Store interface {
	Start(ctx context.Context) error
	Stop() error
	SaveRows(ctx context.Context, series string, rows []goodsections.CacheRow) error
	LoadRows(ctx context.Context, series string) ([]goodsections.CacheRow, error)
	DeleteRows(ctx context.Context, series string) error
}

// Config selects and tunes the cache store backend.
type Config struct {
	Backend    string        `yaml:"backend"`     // "redis" or "sqlite"
	TTL        time.Duration `yaml:"ttl"`         // Redis expiry for cached rows (0 = keep forever)
	SQLitePath string        `yaml:"sqlite_path"` // Database file for the sqlite backend
}

// Validate sets defaults and checks the backend selection.
func (c *Config) Validate() error {
	if c.Backend == "" {
		c.Backend = BackendRedis
	}

	switch c.Backend {
	case BackendRedis:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Backend)
	}

	if c.TTL < 0 {
		return fmt.Errorf("ttl must not be negative, got %v", c.TTL)
	}

	return nil
}
