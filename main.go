// Package main provides the main entry point for the outreach hub service
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sequipment/outreach-hub/app/handlers"
	"github.com/sequipment/outreach-hub/app/router"
	businessflow "github.com/sequipment/outreach-hub/business_flow"
	"github.com/sequipment/outreach-hub/config"
	"github.com/sequipment/outreach-hub/logger"
	"github.com/sequipment/outreach-hub/repository"
	"go.uber.org/zap"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	logger    *zap.Logger
	stopFuncs []func()
}

func main() {
	log.Println("Starting outreach hub application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	_ = app.logger.Sync()
	log.Println("Server stopped")
}

func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startMetricsServer serves Prometheus metrics on a separate port. The
// returned function shuts the server down.
func startMetricsServer(cfg config.MetricsConfig) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()
	log.Printf("Metrics server listening on :%d%s", cfg.Port, cfg.Path)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	zlog := logger.New(cfg.Logging)

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize the call log store: shared workbook first, local fallback
	sheetBackend := repository.NewSheetBackend(cfg.Sheet.Path, cfg.Sheet.Worksheet, cfg.Sheet.CheckTTL, zlog)
	localBackend := repository.NewLocalBackend(cfg.LocalStore.Path, zlog)
	store := repository.NewCallLogStore(sheetBackend, localBackend, zlog)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store.Initialize(initCtx)
	initCancel()

	datasets := repository.NewCSVDatasetRepository(cfg.Datasets.Dir, zlog)

	// Initialize business flows
	callLogFlow := businessflow.NewCallLogFlow(store, zlog)
	campaignFlow := businessflow.NewCampaignFlow(store, datasets, zlog)
	dashboardFlow := businessflow.NewDashboardFlow(store, datasets, rc, cfg.Cache.DefaultTTL, cfg.Cache.RedisPrefix, zlog)
	exportFlow := businessflow.NewExportFlow(store, zlog)

	// Initialize handlers
	callLogHandler := handlers.NewCallLogHandler(callLogFlow, exportFlow)
	campaignHandler := handlers.NewCampaignHandler(campaignFlow)
	dashboardHandler := handlers.NewDashboardHandler(dashboardFlow)

	r := router.NewFiberRouter(callLogHandler, campaignHandler, dashboardHandler, cfg.Security.AllowedOrigins)

	if cfg.Metrics.Enabled {
		stopFuncs = append(stopFuncs, startMetricsServer(cfg.Metrics))
	}

	return &Application{
		router:    r,
		config:    cfg,
		logger:    zlog,
		stopFuncs: stopFuncs,
	}, nil
}
