package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mlbschedule/ingestion/internal/api"
	"mlbschedule/ingestion/internal/cache"
	"mlbschedule/ingestion/internal/client"
	"mlbschedule/ingestion/internal/config"
	"mlbschedule/ingestion/internal/metrics"
	"mlbschedule/ingestion/internal/reconcile"
	"mlbschedule/ingestion/internal/repository"
	"mlbschedule/ingestion/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting MLB Schedule Ingestion Worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("team", cfg.TeamFullName).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize MLB Stats API client
	feed := client.NewClient(cfg.MLBAPIBaseURL, cfg.MLBAPITimeout)
	log.Info().Str("base_url", cfg.MLBAPIBaseURL).Msg("MLB Stats API client initialized")

	// Initialize database connection
	dbConfig := repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	}

	db, err := repository.NewDatabase(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize Redis cache. The worker runs without it.
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, time.Duration(cfg.CacheTTLSchedule)*time.Second)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
		log.Info().Msg("Redis cache connected")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(ctx, cfg.MetricsPort, db)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Build the reconciliation driver over the repository store
	driver := reconcile.NewDriver(feed, repository.NewStore(db), reconcile.Options{
		TeamID:           cfg.TeamID,
		TeamAbbreviation: cfg.TeamAbbreviation,
		TeamFullName:     cfg.TeamFullName,
	})
	runner := &invalidatingRunner{driver: driver, cache: redisCache}

	// Start schedule display API server
	apiServer := api.NewServer(cfg.APIPort, db.Games, cacheOrNil(redisCache))
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server failed")
		}
	}()

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, runner)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial seed if enabled: full-season window into an empty or
	// partial schedule, then standings for win/loss records.
	if cfg.InitialSeedEnabled {
		log.Info().Msg("Running initial schedule seed...")
		if err := runner.RunPass(ctx, false); err != nil {
			log.Error().Err(err).Msg("Initial seed failed, continuing anyway...")
		} else {
			log.Info().Msg("Initial seed completed successfully")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}

	log.Info().Msg("Worker shutdown complete")
}

// invalidatingRunner wraps the reconciliation driver so jobs that can
// change stored games also drop the cached schedule payload.
type invalidatingRunner struct {
	driver *reconcile.Driver
	cache  *cache.RedisCache
}

func (r *invalidatingRunner) RunPass(ctx context.Context, remainingOnly bool) error {
	err := r.driver.RunPass(ctx, remainingOnly)
	if err == nil && r.cache != nil {
		r.cache.InvalidateSchedule(ctx)
	}
	return err
}

func (r *invalidatingRunner) UpdateTeamRecords(ctx context.Context) error {
	err := r.driver.UpdateTeamRecords(ctx)
	if err == nil && r.cache != nil {
		r.cache.InvalidateSchedule(ctx)
	}
	return err
}

func (r *invalidatingRunner) RefreshPromotions(ctx context.Context) error {
	err := r.driver.RefreshPromotions(ctx)
	if err == nil && r.cache != nil {
		r.cache.InvalidateSchedule(ctx)
	}
	return err
}

// cacheOrNil keeps a nil *RedisCache from becoming a non-nil interface.
func cacheOrNil(c *cache.RedisCache) api.ScheduleCache {
	if c == nil {
		return nil
	}
	return c
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(ctx context.Context, port int, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
