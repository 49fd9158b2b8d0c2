// Package main is the entry point for the Azkar Hub API server.
//
// Startup order:
//   - configuration and logging
//   - PostgreSQL pool and migrations
//   - optional Redis catalog cache
//   - application handlers and the assistant gateway
//   - HTTP server with graceful shutdown on SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/azkar-hub/azkar-hub/config"

	// Application layer
	"github.com/azkar-hub/azkar-hub/internal/application/assistant"
	"github.com/azkar-hub/azkar-hub/internal/application/command"
	"github.com/azkar-hub/azkar-hub/internal/application/query"
	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"

	// Infrastructure layer
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/auth"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/external/openai"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/metrics"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/persistence/postgres"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/persistence/redis"
	"github.com/azkar-hub/azkar-hub/pkg/circuitbreaker"

	// Interface layer
	httpserver "github.com/azkar-hub/azkar-hub/internal/interface/http"
	"github.com/azkar-hub/azkar-hub/internal/interface/http/handlers"

	"github.com/azkar-hub/azkar-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	defer func() { _ = log.Sync() }()

	log.Info("starting Azkar Hub API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	db, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL, postgres.PoolOptions{
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		db.Close()
	}()

	if cfg.Database.AutoMigrate {
		applied, err := postgres.NewMigrator(db).Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed", logger.Int("applied", applied))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS CATALOG CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var cache *redis.Cache
	if !cfg.Redis.Disabled {
		cache, err = redis.NewCache(ctx, redisConfig(cfg.Redis))
		if err != nil {
			log.Warn("redis unavailable, continuing without catalog cache", logger.Err(err))
			cache = nil
		} else {
			defer func() { _ = cache.Close() }()
			log.Info("redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	var catalog azkar.Repository = postgres.NewAzkarRepository(db)
	var uowOpts []postgres.UnitOfWorkOption
	if cache != nil {
		cached := redis.NewCachedCatalog(catalog, cache, cfg.Redis.CatalogTTL, log)
		catalog = cached
		uowOpts = append(uowOpts, postgres.WithCatalogDecorator(cached.Wrap))
	}
	uow := postgres.NewUnitOfWork(db, uowOpts...)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	aggregator := command.NewRecomputeDailyHandler(uow, nil)

	var m *metrics.Metrics
	if cfg.Observability.MetricsEnabled {
		m = metrics.New()
	}

	deps := httpserver.Dependencies{
		ListAzkar:        query.NewListAzkarHandler(catalog),
		SearchAzkar:      query.NewSearchAzkarHandler(catalog),
		GetZikr:          query.NewGetZikrHandler(catalog),
		GetUserProgress:  query.NewGetUserProgressHandler(postgres.NewProgressRepository(db)),
		GetDailyStats:    query.NewGetDailyStatsHandler(postgres.NewDailyStatsRepository(db)),
		RecordCompletion: command.NewRecordCompletionHandler(uow, aggregator, nil, log),
		Identity:         auth.NewJWTResolver(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Metrics:          m,
		Logger:           log,
	}

	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	checker.AddCheck("postgres", handlers.NewPingCheck(db))
	if cache != nil {
		checker.AddOptionalCheck("redis", handlers.NewPingCheck(cache))
	}
	deps.HealthChecker = checker

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ASSISTANT GATEWAY (optional)
	// ─────────────────────────────────────────────────────────────────────────
	if !cfg.Assistant.Disabled {
		client := openai.NewClient(openai.ClientConfig{
			BaseURL:           cfg.Assistant.BaseURL,
			APIKey:            cfg.Assistant.APIKey,
			Timeout:           cfg.Assistant.RequestTimeout,
			MaxRetries:        cfg.Assistant.MaxRetries,
			RetryBaseDelay:    cfg.Assistant.RetryBaseDelay,
			RetryMaxDelay:     cfg.Assistant.RetryMaxDelay,
			BreakerThreshold:  cfg.Assistant.CircuitBreakerThreshold,
			BreakerTimeout:    cfg.Assistant.CircuitBreakerTimeout,
			RequestsPerSecond: 5,
			Burst:             10,
			Logger:            log,
		})

		opts := []assistant.Option{assistant.WithLogger(log)}
		if m != nil {
			opts = append(opts, assistant.WithObserver(m))
		}
		deps.Assistant = assistant.NewGateway(
			client,
			postgres.NewQuestionRepository(db),
			assistant.Config{Model: cfg.Assistant.Model},
			opts...,
		)

		checker.AddOptionalCheck("assistant", func(context.Context) error {
			if client.BreakerState() == circuitbreaker.StateOpen {
				return circuitbreaker.ErrCircuitOpen
			}
			return nil
		})
	} else {
		log.Info("assistant disabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	srvCfg := httpserver.DefaultConfig()
	srvCfg.Port = cfg.HTTP.Port
	srvCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	srvCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	srvCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	srvCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	srvCfg.TrustedProxies = cfg.HTTP.TrustedProxies
	srvCfg.RateLimitPerSec = cfg.HTTP.RateLimitPerSec
	srvCfg.RateLimitBurst = cfg.HTTP.RateLimitBurst
	srvCfg.Version = cfg.App.Version

	server := httpserver.NewServer(srvCfg, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. WAIT FOR SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("graceful shutdown failed", logger.Err(err))
		return err
	}

	log.Info("server stopped", logger.Duration("shutdown_budget", cfg.App.ShutdownTimeout))
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func setupLogger(cfg *config.Config) *logger.Logger {
	level := logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		level = logger.LevelDebug
	}
	format := cfg.Observability.LogFormat
	if cfg.IsDevelopment() && format == "" {
		format = "console"
	}

	return logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     level,
		Format:    format,
		AddCaller: !cfg.IsProduction(),
	}).With(logger.String("service", cfg.App.Name))
}

func redisConfig(c config.RedisConfig) redis.Config {
	rc := redis.DefaultConfig()
	rc.URL = c.URL
	rc.Host = c.Host
	rc.Port = c.Port
	rc.Password = c.Password
	rc.DB = c.DB
	if c.PoolSize > 0 {
		rc.PoolSize = c.PoolSize
	}
	if c.MinIdleConns > 0 {
		rc.MinIdleConns = c.MinIdleConns
	}
	if c.DialTimeout > 0 {
		rc.DialTimeout = c.DialTimeout
	}
	if c.ReadTimeout > 0 {
		rc.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		rc.WriteTimeout = c.WriteTimeout
	}
	return rc
}
