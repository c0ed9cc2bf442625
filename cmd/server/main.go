package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/cachestore"
	"github.com/gridwatch/goodsections/internal/config"
	"github.com/gridwatch/goodsections/internal/leader"
	"github.com/gridwatch/goodsections/internal/ratelimit"
	"github.com/gridwatch/goodsections/internal/redis"
	"github.com/gridwatch/goodsections/internal/sections"
	"github.com/gridwatch/goodsections/internal/server"
	"github.com/gridwatch/goodsections/internal/version"
)

// infrastructure holds core infrastructure components.
type infrastructure struct {
	redisClient redis.Client
	elector     leader.Elector
}

// services holds application services.
type services struct {
	store            cachestore.Store
	sectionsProvider sections.Provider
	limiter          ratelimit.Service
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Setup logger
	logger := setupLogger()

	// Create application context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load and validate configuration
	cfg, err := loadAndValidateConfig(logger, *configPath)
	if err != nil {
		logger.WithError(err).Fatal("Configuration error")
	}

	// Setup infrastructure (redis, leader election)
	infra, err := setupInfrastructure(ctx, logger, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Infrastructure setup failed")
	}

	// Setup services (cache store, sections)
	svc, err := setupServices(ctx, logger, cfg, infra)
	if err != nil {
		logger.WithError(err).Fatal("Service setup failed")
	}

	// Start HTTP server
	srv, err := startServer(cfg, logger, svc)
	if err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	logger.WithField("signal", sig.String()).Info("Received shutdown signal")

	// Cancel application context to signal all services to stop
	cancel()

	// Perform graceful shutdown
	shutdownGracefully(logger, cfg, srv, svc, infra)
}

// setupLogger creates and configures the application logger.
func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})

	logger.WithFields(logrus.Fields{
		"version":    version.Short(),
		"git_commit": version.GitCommit,
		"build_date": version.BuildDate,
	}).Info("Starting...")

	return logger
}

// loadAndValidateConfig loads the configuration file and validates it.
func loadAndValidateConfig(
	logger *logrus.Logger,
	configPath string,
) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Set log level from config
	level, parseErr := logrus.ParseLevel(cfg.Server.LogLevel)
	if parseErr != nil {
		logger.WithError(parseErr).Warn("Invalid log level, using info")

		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"port":          cfg.Server.Port,
		"log_level":     cfg.Server.LogLevel,
		"cache_backend": cfg.Cache.Backend,
	}).Info("Configuration loaded")

	return cfg, nil
}

// setupInfrastructure initializes Redis and leader election.
func setupInfrastructure(
	ctx context.Context,
	logger *logrus.Logger,
	cfg *config.Config,
) (*infrastructure, error) {
	// Initialize Redis client
	redisClient := redis.NewClient(logger, redis.Config{
		Address:      cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})

	if err := redisClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start Redis client: %w", err)
	}

	// Initialize leader election
	elector := leader.NewElector(logger, leader.Config{
		LockKey:       cfg.Leader.LockKey,
		LockTTL:       cfg.Leader.LockTTL,
		RenewInterval: cfg.Leader.RenewInterval,
		RetryInterval: cfg.Leader.RetryInterval,
	}, redisClient)

	if err := elector.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start leader election: %w", err)
	}

	return &infrastructure{
		redisClient: redisClient,
		elector:     elector,
	}, nil
}

// setupServices initializes the cache store and the sections service.
func setupServices(
	ctx context.Context,
	logger *logrus.Logger,
	cfg *config.Config,
	infra *infrastructure,
) (*services, error) {
	svc := &services{}

	// Select the snapshot backend
	switch cfg.Cache.Backend {
	case cachestore.BackendSQLite:
		svc.store = cachestore.NewSQLiteStore(logger, cfg.Cache)
	default:
		svc.store = cachestore.NewRedisStore(logger, cfg.Cache, infra.redisClient)
	}

	if err := svc.store.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start cache store: %w", err)
	}

	logger.WithField("backend", cfg.Cache.Backend).Info("Cache store started")

	// Create the sections service
	svc.sectionsProvider = sections.New(logger, sections.Config{
		MaxSamplePeriod:  cfg.Sections.MaxSamplePeriod,
		SnapshotInterval: cfg.Sections.SnapshotInterval,
	}, svc.store, infra.elector)

	if err := svc.sectionsProvider.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start sections service: %w", err)
	}

	logger.Info("Sections service started")

	// Rate limiter shares the infrastructure Redis client
	if cfg.RateLimiting.Enabled {
		svc.limiter = ratelimit.NewService(logger, infra.redisClient.GetClient(), cfg.RateLimiting.FailureMode)

		if err := svc.limiter.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start rate limiter: %w", err)
		}
	}

	return svc, nil
}

// startServer creates and starts the HTTP server.
func startServer(
	cfg *config.Config,
	logger *logrus.Logger,
	svc *services,
) (*server.Server, error) {
	srv, err := server.New(logger, cfg, svc.sectionsProvider, svc.limiter)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	// Start server in goroutine
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server starting")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	return srv, nil
}

// shutdownGracefully performs graceful shutdown of all services.
// Shutdown order:
// 1. HTTP server (stop accepting requests).
// 2. Sections service (flush final snapshot while still leader).
// 3. Cache store (close connections).
// 4. Leader election (release leadership lock).
// 5. Redis client (close connections).
func shutdownGracefully(
	logger *logrus.Logger,
	cfg *config.Config,
	srv *server.Server,
	svc *services,
	infra *infrastructure,
) {
	logger.Info("Initiating graceful shutdown...")

	// Create a timeout context for the shutdown process
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Stop HTTP server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Error during server shutdown")
	}

	// Stop sections service (flushes final snapshot on the leader)
	if svc.sectionsProvider != nil {
		if err := svc.sectionsProvider.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping sections service")
		}
	}

	// Stop rate limiter
	if svc.limiter != nil {
		if err := svc.limiter.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping rate limiter")
		}
	}

	// Stop cache store
	if svc.store != nil {
		if err := svc.store.Stop(); err != nil {
			logger.WithError(err).Error("Error stopping cache store")
		}
	}

	// Stop leader election (releases lock)
	if err := infra.elector.Stop(); err != nil {
		logger.WithError(err).Error("Error stopping leader election")
	}

	// Stop Redis client (closes connections)
	if err := infra.redisClient.Stop(); err != nil {
		logger.WithError(err).Error("Error stopping Redis client")
	}

	logger.Info("Server stopped gracefully")
}
