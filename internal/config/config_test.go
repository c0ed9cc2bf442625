package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridwatch/goodsections/internal/cachestore"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			LogLevel:        "info",
		},
		Redis: RedisConfig{
			Address:     "localhost:6379",
			DialTimeout: 5 * time.Second,
			PoolSize:    10,
		},
		Leader: LeaderConfig{
			LockKey:       "goodsections:leader",
			LockTTL:       15 * time.Second,
			RenewInterval: 5 * time.Second,
			RetryInterval: 5 * time.Second,
		},
		Sections: SectionsConfig{
			MaxSamplePeriod:  4 * time.Second,
			SnapshotInterval: 30 * time.Second,
		},
		Cache: cachestore.Config{
			Backend: cachestore.BackendRedis,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(cfg *Config)
		expectError   bool
		errorContains string
	}{
		{
			name:   "valid config passes",
			mutate: func(cfg *Config) {},
		},
		{
			name:          "invalid port",
			mutate:        func(cfg *Config) { cfg.Server.Port = 0 },
			expectError:   true,
			errorContains: "port",
		},
		{
			name:          "empty host",
			mutate:        func(cfg *Config) { cfg.Server.Host = "" },
			expectError:   true,
			errorContains: "host",
		},
		{
			name:          "invalid log level",
			mutate:        func(cfg *Config) { cfg.Server.LogLevel = "loud" },
			expectError:   true,
			errorContains: "log level",
		},
		{
			name:          "missing redis address",
			mutate:        func(cfg *Config) { cfg.Redis.Address = "" },
			expectError:   true,
			errorContains: "redis.address",
		},
		{
			name:          "missing leader lock key",
			mutate:        func(cfg *Config) { cfg.Leader.LockKey = "" },
			expectError:   true,
			errorContains: "lock_key",
		},
		{
			name:          "negative max sample period",
			mutate:        func(cfg *Config) { cfg.Sections.MaxSamplePeriod = -time.Second },
			expectError:   true,
			errorContains: "max_sample_period",
		},
		{
			name:          "snapshot interval too small",
			mutate:        func(cfg *Config) { cfg.Sections.SnapshotInterval = time.Second },
			expectError:   true,
			errorContains: "snapshot_interval",
		},
		{
			name:          "sqlite backend without path",
			mutate:        func(cfg *Config) { cfg.Cache.Backend = cachestore.BackendSQLite },
			expectError:   true,
			errorContains: "sqlite_path",
		},
		{
			name: "rate limiting with bad failure mode",
			mutate: func(cfg *Config) {
				cfg.RateLimiting.Enabled = true
				cfg.RateLimiting.FailureMode = "explode"
			},
			expectError:   true,
			errorContains: "failure_mode",
		},
		{
			name: "rate limiting with invalid regex",
			mutate: func(cfg *Config) {
				cfg.RateLimiting.Enabled = true
				cfg.RateLimiting.FailureMode = "fail_open"
				cfg.RateLimiting.Rules = []RateLimitRule{
					{Name: "api", PathPattern: "([", Limit: 10, Window: time.Minute},
				}
			},
			expectError:   true,
			errorContains: "regex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestSectionsConfig_ValidateDefaults(t *testing.T) {
	cfg := SectionsConfig{}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4*time.Second, cfg.MaxSamplePeriod)
	assert.Equal(t, 30*time.Second, cfg.SnapshotInterval)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
server:
  port: 9090
  host: localhost
  read_timeout: 10s
  write_timeout: 10s
  shutdown_timeout: 5s
  log_level: debug
redis:
  address: localhost:6379
  dial_timeout: 5s
  pool_size: 10
leader:
  lock_key: goodsections:leader
  lock_ttl: 15s
  renew_interval: 5s
  retry_interval: 5s
sections:
  max_sample_period: 3s
  snapshot_interval: 1m
cache:
  backend: sqlite
  sqlite_path: /var/lib/goodsections/cache.db
`

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Sections.MaxSamplePeriod)
	assert.Equal(t, time.Minute, cfg.Sections.SnapshotInterval)
	assert.Equal(t, cachestore.BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, "/var/lib/goodsections/cache.db", cfg.Cache.SQLitePath)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
