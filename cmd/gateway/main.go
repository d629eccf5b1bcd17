package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/reelsmith/dashboard-go/api/routes"
	"github.com/reelsmith/dashboard-go/internal/audit"
	"github.com/reelsmith/dashboard-go/internal/dashboard"
	"github.com/reelsmith/dashboard-go/internal/projects"
	"github.com/reelsmith/dashboard-go/internal/querycache"
	"github.com/reelsmith/dashboard-go/internal/session"
	"github.com/reelsmith/dashboard-go/internal/steps"
	"github.com/reelsmith/dashboard-go/internal/users"
	"github.com/reelsmith/dashboard-go/pkg/config"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/metrics"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var store querycache.Store
	if cfg.Redis.Enabled() {
		redisStore, err := querycache.NewRedisStore(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis cache store", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		store = redisStore
	}

	cache := querycache.New(querycache.Options{
		Store:   store,
		Config:  cfg.Cache,
		Logger:  logg,
		Metrics: metrics.NewQueryCacheMetrics(registry),
	})

	manager := session.NewManager(session.ManagerOptions{
		Cache:  cache,
		Stores: []session.TokenStore{session.NewFileStore(cfg.Session.TokenFile)},
		Logger: logg,
	})

	client, err := platform.NewClient(cfg.Platform, manager, logg, metrics.NewUpstreamMetrics(registry))
	if err != nil {
		logg.Error(context.Background(), "failed to create platform client", err)
		os.Exit(1)
	}
	manager.AttachClient(client)

	if err := manager.Hydrate(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to hydrate session", err)
	}

	svcs := routes.Services{
		Session:   manager,
		Gate:      session.NewGate(cfg.Guard),
		Projects:  projects.NewService(client, cache, logg),
		Steps:     steps.NewService(client, cache),
		Audit:     audit.NewService(client, cache),
		Dashboard: dashboard.NewService(client, cache),
		Users:     users.NewService(client, cache),
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Platform.BaseURL,
	})
	logg.Info(ctx, "starting gateway")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, svcs, registry),
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "gateway stopped unexpectedly", err)
			os.Exit(1)
		}
	}()

	<-shutdown
	logg.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
}
