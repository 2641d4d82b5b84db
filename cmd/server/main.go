/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the rewards engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration (.env supported)
  2. Initialize the zap logger
  3. Open the SQLite progress store
  4. Load reward/challenge catalogs (fatal if malformed)
  5. Construct the engine with its collaborators
  6. Start the rollover scheduler and HTTP server

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler and close the database
  4. Exit

ENVIRONMENT:
  PORT, DB_PATH, LOG_LEVEL, CATALOG_PATH, CORS_ORIGINS,
  SCHEDULER_INTERVAL, SCHEDULER_ENABLED. See config/config.go.

SEE ALSO:
  - api/server.go: Router configuration
  - engine/engine.go: Core semantics
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/rewards-engine/api"
	"github.com/warp/rewards-engine/catalog"
	"github.com/warp/rewards-engine/config"
	"github.com/warp/rewards-engine/engine"
	"github.com/warp/rewards-engine/leveling"
	"github.com/warp/rewards-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	cats, err := loadCatalogs(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load catalogs", zap.Error(err))
	}

	eng, err := engine.New(engine.Options{
		Store:      store,
		Curve:      leveling.Default(),
		Catalog:    cats.Rewards,
		Challenges: cats.Challenges,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to construct engine", zap.Error(err))
	}

	handler := api.NewHandler(eng, logger)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	scheduler := api.NewRolloverScheduler(eng, logger, cfg.SchedulerInterval)
	scheduler.Enabled = cfg.SchedulerEnabled
	if err := scheduler.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("db_path", cfg.DBPath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// loadCatalogs uses the configured catalog file, or the built-in seed
// catalogs when none is set.
func loadCatalogs(path string) (*catalog.Catalogs, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.ParseFile(path)
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
