package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/yuwenzhijiao/showcase/internal/auth"
	"github.com/yuwenzhijiao/showcase/internal/config"
	"github.com/yuwenzhijiao/showcase/internal/db"
	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
	httpx "github.com/yuwenzhijiao/showcase/internal/http"
	"github.com/yuwenzhijiao/showcase/internal/llm"
	"github.com/yuwenzhijiao/showcase/internal/observability"
	"github.com/yuwenzhijiao/showcase/internal/ratelimit"
	"github.com/yuwenzhijiao/showcase/internal/redisclient"
	"github.com/yuwenzhijiao/showcase/internal/repo/memory"
	"github.com/yuwenzhijiao/showcase/internal/repo/postgres"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, "yuwen-showcase", cfg.Env, cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	var shuttingDown atomic.Bool

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	deps := httpx.Deps{
		JWT:          auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute),
		Prom:         prom,
		Gatherer:     reg,
		ShuttingDown: shuttingDown.Load,
	}

	closeStore, err := wireStore(ctx, cfg, log, prom, &deps)
	if err != nil {
		return err
	}
	defer closeStore()

	closeLimiter := wireChat(ctx, cfg, log, &deps)
	defer closeLimiter()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, deps)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// chat calls may take up to ChatTimeout
		WriteTimeout: cfg.ChatTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.Store)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	shuttingDown.Store(true)

	sctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// wireStore fills the repositories for the configured backend.
func wireStore(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom, deps *httpx.Deps) (func(), error) {
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")

		deps.Users = memory.NewUsersRepo()
		deps.Resources = memory.NewResourcesRepo(resource.Samples()...)
		deps.Stats = memory.NewStatsRepo()
		return func() {}, nil

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("db connect failed: %w", err)
		}

		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info("migrations applied")
		}

		if cfg.SeedSamples {
			n, err := db.SeedResources(ctx, pool, resource.Samples())
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("seed resources: %w", err)
			}
			log.Info("sample resources seeded", "count", n)
		}

		deps.Users = postgres.NewUsersRepo(pool, prom)
		deps.Resources = postgres.NewResourcesRepo(pool, prom)
		deps.Stats = postgres.NewStatsRepo(pool, prom)
		deps.Ping = func() error {
			pctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return pool.Ping(pctx)
		}
		return pool.Close, nil

	default:
		return nil, fmt.Errorf("unknown STORE %q", cfg.Store)
	}
}

// wireChat builds the protected Gemini generator and the chat rate limiter.
func wireChat(ctx context.Context, cfg config.Config, log *slog.Logger, deps *httpx.Deps) func() {
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set; /api/chat will answer 500")
	}

	gemini := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.ChatTimeout,
	})
	deps.Chat = llm.NewProtectedGenerator(gemini, llm.ProtectedConfig{
		Timeout:          cfg.ChatTimeout,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		HalfOpenMaxCalls: 1,
	})

	if cfg.ChatRateLimit <= 0 {
		return func() {}
	}

	if cfg.RedisAddr == "" {
		deps.ChatLimiter = ratelimit.NewMemoryStore(cfg.ChatRateLimit, time.Minute)
		return func() {}
	}

	rc := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rc.Ping(pctx); err != nil {
		log.Warn("redis unreachable; chat rate limit falls back to memory", "addr", cfg.RedisAddr, "err", err)
		_ = rc.Close()
		deps.ChatLimiter = ratelimit.NewMemoryStore(cfg.ChatRateLimit, time.Minute)
		return func() {}
	}

	deps.ChatLimiter = ratelimit.NewRedisStore(rc.Raw(), "yuwen:ratelimit:chat:", cfg.ChatRateLimit, time.Minute)
	return func() { _ = rc.Close() }
}
