package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vintagegrove/backend/api/routes"
	"github.com/vintagegrove/backend/internal/cart"
	"github.com/vintagegrove/backend/internal/catalog"
	"github.com/vintagegrove/backend/internal/tracking"
	"github.com/vintagegrove/backend/pkg/cache"
	"github.com/vintagegrove/backend/pkg/config"
	"github.com/vintagegrove/backend/pkg/db"
	"github.com/vintagegrove/backend/pkg/logger"
	"github.com/vintagegrove/backend/pkg/meta"
	"github.com/vintagegrove/backend/pkg/metrics"
	"github.com/vintagegrove/backend/pkg/migrate"
	"github.com/vintagegrove/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	trackingMetrics := metrics.NewTrackingMetrics(registry)

	productCache := cache.New(cache.SystemClock())
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go productCache.Run(sweepCtx, cfg.Cache.SweepInterval)

	catalogService := catalog.NewService(catalog.NewRepository(dbClient.DB()), productCache, cfg.Cache)
	cartService := cart.NewService(cart.NewRedisStorage(redisClient, cfg.Cart.SnapshotTTL), catalogService, logg)

	var conversions *meta.Client
	if cfg.Meta.Configured() {
		conversions, err = meta.NewClient(cfg.Meta.PixelID, cfg.Meta.AccessToken,
			meta.WithAPIVersion(cfg.Meta.APIVersion),
			meta.WithTestEventCode(cfg.Meta.TestEventCode),
		)
		if err != nil {
			logg.Error(context.Background(), "failed to build conversions client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "meta conversions api not configured, server leg disabled")
	}

	var pixel tracking.PixelDispatcher
	if cfg.Meta.PixelEnabled && cfg.Meta.PixelID != "" {
		pixel, err = tracking.NewHTTPPixel(cfg.Meta.PixelID)
		if err != nil {
			logg.Error(context.Background(), "failed to build pixel dispatcher", err)
			os.Exit(1)
		}
	}

	var trackingService tracking.Service
	if conversions != nil {
		trackingService = tracking.NewService(conversions, pixel, trackingMetrics, logg)
	} else {
		trackingService = tracking.NewService(nil, pixel, trackingMetrics, logg)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg,
			dbClient, redisClient,
			catalogService, cartService, trackingService,
			registry,
		),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received, draining")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "shutdown did not complete cleanly", err)
		}
	}
}
