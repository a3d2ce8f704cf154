// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Kigo HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the document store (PostgreSQL with migrations, or in-memory).
//  4. Build the token verifier and the generation rate limiter.
//  5. Wire domain services and HTTP handlers.
//  6. Start background workers (retention sweep, IP limiter eviction).
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/kigo/internal/api"
	"github.com/taibuivan/kigo/internal/content/generate"
	"github.com/taibuivan/kigo/internal/content/haiku"
	"github.com/taibuivan/kigo/internal/library/collection"
	"github.com/taibuivan/kigo/internal/platform/config"
	"github.com/taibuivan/kigo/internal/platform/constants"
	"github.com/taibuivan/kigo/internal/platform/memstore"
	"github.com/taibuivan/kigo/internal/platform/middleware"
	"github.com/taibuivan/kigo/internal/platform/migration"
	pgstore "github.com/taibuivan/kigo/internal/platform/postgres"
	"github.com/taibuivan/kigo/internal/platform/ratelimit"
	redisstore "github.com/taibuivan/kigo/internal/platform/redis"
	"github.com/taibuivan/kigo/internal/platform/sec"
	"github.com/taibuivan/kigo/internal/platform/txn"
	"github.com/taibuivan/kigo/internal/social/engagement"
	"github.com/taibuivan/kigo/internal/users/account"
	"github.com/taibuivan/kigo/internal/users/username"
)

// repositories is the storage backend chosen by STORE_DRIVER.
type repositories struct {
	accounts    account.Repository
	usernames   username.Repository
	haikus      haiku.Repository
	likes       engagement.LikeRepository
	follows     engagement.FollowRepository
	collections collection.Repository
	transactor  txn.Transactor
	checks      []api.HealthCheck
}

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	level := slog.LevelInfo
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})).
			With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
		slog.String("rate_limit_backend", cfg.RateLimitBackend),
	)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Document Store ─────────────────────────────────────────────────
	var repos repositories
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		repos = repositories{
			accounts:    account.NewPostgresRepository(pool),
			usernames:   username.NewPostgresRepository(pool),
			haikus:      haiku.NewPostgresRepository(pool),
			likes:       engagement.NewPostgresLikeRepository(pool),
			follows:     engagement.NewPostgresFollowRepository(pool),
			collections: collection.NewPostgresRepository(pool),
			transactor:  pgstore.NewTxManager(pool, cfg.TxMaxAttempts, log),
			checks: []api.HealthCheck{{
				Name:  "postgres",
				Check: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
			}},
		}

	default:
		store := memstore.New()
		log.Warn("memory_store_enabled", slog.String("note", "data is lost on restart"))
		repos = repositories{
			accounts:    store.Accounts(),
			usernames:   store.Usernames(),
			haikus:      store.Haikus(),
			likes:       store.Likes(),
			follows:     store.Follows(),
			collections: store.Collections(),
			transactor:  store,
		}
	}

	// ── 4. Identity and Throttling ────────────────────────────────────────
	var verifier middleware.TokenVerifier
	if cfg.JWKSURL != "" {
		verifier, err = sec.NewJWKSVerifier(rootCtx, cfg.JWKSURL, cfg.AuthIssuer, log)
		must(log, err, "initialize jwks verifier")
	} else {
		verifier, err = sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, cfg.AuthIssuer)
		must(log, err, "initialize jwt service")
	}

	limiterOptions := ratelimit.Options{Window: cfg.RateLimitWindow, Max: cfg.RateLimitMax}
	var limiter ratelimit.Limiter = ratelimit.NewFixedWindow(limiterOptions)
	if cfg.RateLimitBackend == config.RateLimitBackendRedis {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		limiter = ratelimit.NewRedisFixedWindow(rdb, constants.RateLimitScopeGenerate, limiterOptions)
		repos.checks = append(repos.checks, api.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
		})
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	registry := username.NewRegistry(repos.usernames, repos.accounts, repos.transactor, log)
	accountService := account.NewService(repos.accounts, registry, repos.transactor, log)
	haikuService := haiku.NewService(repos.haikus, repos.accounts, repos.transactor, log)
	engagementService := engagement.NewService(repos.likes, repos.follows, repos.haikus, repos.accounts, repos.transactor, log)
	collectionService := collection.NewService(repos.collections, repos.haikus, repos.transactor, log)
	generateService := generate.NewService(limiter, generate.NewAnthropicModel(cfg.ClaudeAPIKey, cfg.ClaudeModel), log)

	liveness, readiness := api.NewHealthHandlers(repos.checks, log)

	// ── 6. Background Workers ─────────────────────────────────────────────
	sweeper := haiku.NewSweeper(repos.haikus, repos.transactor, cfg.HaikuRetention, cfg.SweepInterval, log)
	go sweeper.Run(rootCtx)

	ipLimiter := middleware.NewIPLimiter(constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)
	go ipLimiter.Run(rootCtx)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(api.Options{
		Port:     cfg.ServerPort,
		CORS:     cfg,
		Verifier: verifier,
		Limiter:  ipLimiter,
	}, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Domains: []api.RouteRegistrar{
			account.NewHandler(accountService),
			username.NewHandler(registry),
			generate.NewHandler(generateService),
			haiku.NewHandler(haikuService),
			engagement.NewHandler(engagementService),
			collection.NewHandler(collectionService),
		},
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	stop()

	log.Info("server_shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// It is limited to startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
