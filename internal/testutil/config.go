package testutil

import (
	"time"

	"github.com/gridwatch/goodsections/internal/cachestore"
	"github.com/gridwatch/goodsections/internal/config"
)

// NewTestConfig returns a minimal valid config for testing.
func NewTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Sections: config.SectionsConfig{
			MaxSamplePeriod:  4 * time.Second,
			SnapshotInterval: 30 * time.Second,
		},
		Cache: cachestore.Config{
			Backend: cachestore.BackendRedis,
		},
	}
}
