//nolint:tagliatelle // superior snake-case yo.
package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gridwatch/goodsections/internal/cachestore"
)

// Config represents the complete application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Redis        RedisConfig        `yaml:"redis"`
	Leader       LeaderConfig       `yaml:"leader"`
	Sections     SectionsConfig     `yaml:"sections"`
	Cache        cachestore.Config  `yaml:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
}

// RedisConfig holds Redis client configuration.
type RedisConfig struct {
	Address      string        `yaml:"address"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PoolSize     int           `yaml:"pool_size"`
}

// LeaderConfig holds leader election configuration.
type LeaderConfig struct {
	LockKey       string        `yaml:"lock_key"`
	LockTTL       time.Duration `yaml:"lock_ttl"`
	RenewInterval time.Duration `yaml:"renew_interval"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

// SectionsConfig holds sections service configuration.
type SectionsConfig struct {
	MaxSamplePeriod  time.Duration `yaml:"max_sample_period"` // Adjacency tolerance for cross-chunk merging
	SnapshotInterval time.Duration `yaml:"snapshot_interval"` // How often the leader persists cache snapshots
}

// RateLimitingConfig holds rate limiting configuration.
type RateLimitingConfig struct {
	Enabled     bool            `yaml:"enabled"`
	FailureMode string          `yaml:"failure_mode"` // "fail_open" or "fail_closed"
	ExemptIPs   []string        `yaml:"exempt_ips"`   // CIDR ranges to whitelist
	Rules       []RateLimitRule `yaml:"rules"`
}

// RateLimitRule defines a single rate limit rule.
type RateLimitRule struct {
	Name        string        `yaml:"name"`
	PathPattern string        `yaml:"path_pattern"` // Regex pattern
	Limit       int           `yaml:"limit"`        // Max requests
	Window      time.Duration `yaml:"window"`       // Time window
}

// Validate validates the sections configuration and sets defaults.
func (c *SectionsConfig) Validate() error {
	if c.MaxSamplePeriod == 0 {
		c.MaxSamplePeriod = 4 * time.Second
	}

	if c.SnapshotInterval == 0 {
		c.SnapshotInterval = 30 * time.Second
	}

	if c.MaxSamplePeriod < 0 {
		return fmt.Errorf("max_sample_period must not be negative, got %v", c.MaxSamplePeriod)
	}

	if c.SnapshotInterval < 5*time.Second {
		return fmt.Errorf(
			"snapshot_interval must be at least 5 seconds, got %v",
			c.SnapshotInterval,
		)
	}

	return nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive")
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[c.Server.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.Server.LogLevel)
	}

	// Redis is mandatory infrastructure
	if c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required")
	}

	if c.Redis.DialTimeout <= 0 {
		return fmt.Errorf("redis.dial_timeout must be positive")
	}

	if c.Redis.PoolSize <= 0 {
		return fmt.Errorf("redis.pool_size must be positive")
	}

	// Leader election is mandatory infrastructure
	if c.Leader.LockKey == "" {
		return fmt.Errorf("leader.lock_key is required")
	}

	if c.Leader.LockTTL <= 0 {
		return fmt.Errorf("leader.lock_ttl must be positive")
	}

	if c.Leader.RenewInterval <= 0 {
		return fmt.Errorf("leader.renew_interval must be positive")
	}

	if c.Leader.RetryInterval <= 0 {
		return fmt.Errorf("leader.retry_interval must be positive")
	}

	if err := c.Sections.Validate(); err != nil {
		return fmt.Errorf("sections: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if c.RateLimiting.Enabled {
		if err := c.validateRateLimiting(); err != nil {
			return fmt.Errorf("rate_limiting: %w", err)
		}
	}

	return nil
}

func (c *Config) validateRateLimiting() error {
	if c.RateLimiting.FailureMode != "fail_open" && c.RateLimiting.FailureMode != "fail_closed" {
		return fmt.Errorf("failure_mode must be 'fail_open' or 'fail_closed'")
	}

	if len(c.RateLimiting.Rules) == 0 {
		return fmt.Errorf("rules must have at least one rule")
	}

	for i, rule := range c.RateLimiting.Rules {
		if rule.Name == "" {
			return fmt.Errorf("rules[%d].name is required", i)
		}

		if rule.PathPattern == "" {
			return fmt.Errorf("rules[%d].path_pattern is required", i)
		}

		if rule.Limit <= 0 {
			return fmt.Errorf("rules[%d].limit must be positive", i)
		}

		if rule.Window <= 0 {
			return fmt.Errorf("rules[%d].window must be positive", i)
		}

		if _, err := regexp.Compile(rule.PathPattern); err != nil {
			return fmt.Errorf("rules[%d].path_pattern invalid regex: %w", i, err)
		}
	}

	for i, cidr := range c.RateLimiting.ExemptIPs {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			// Try parsing as single IP
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("exempt_ips[%d] invalid IP or CIDR: %s", i, cidr)
			}
		}
	}

	return nil
}
