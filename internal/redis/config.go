package redis

import "time"

// Config holds Redis client configuration. The one client is shared by
// leader election, the rate limiter, and the redis cache store backend.
type Config struct {
	Address      string
	Password     string //nolint:gosec // Config field, not a hardcoded secret.
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
}
