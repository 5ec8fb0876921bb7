package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/event-planner-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/event-planner-service/internal/adapter/kafka"
	redisadapter "github.com/couchcryptid/event-planner-service/internal/adapter/redis"
	"github.com/couchcryptid/event-planner-service/internal/adapter/visualcrossing"
	"github.com/couchcryptid/event-planner-service/internal/config"
	"github.com/couchcryptid/event-planner-service/internal/domain"
	"github.com/couchcryptid/event-planner-service/internal/observability"
	"github.com/couchcryptid/event-planner-service/internal/planner"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize forecast provider (feature-flagged via WEATHER_ENABLED / WEATHER_API_KEY).
	var provider domain.WeatherProvider
	if cfg.WeatherEnabled {
		client := visualcrossing.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL, cfg.WeatherTimeout, metrics, logger)
		provider = visualcrossing.NewCachedProvider(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, clockwork.NewRealClock(), metrics)
		logger.Info("weather lookups enabled", "cache_size", cfg.WeatherCacheSize, "cache_ttl", cfg.WeatherCacheTTL, "timeout", cfg.WeatherTimeout)
	} else {
		logger.Info("weather lookups disabled")
	}

	var opts []planner.Option

	var closers []func() error
	if cfg.RedisEnabled() {
		rdb := redisadapter.NewClient(cfg)
		closers = append(closers, rdb.Close)
		opts = append(opts, planner.WithTaskStateRepository(redisadapter.NewTaskStateRepository(rdb, cfg.SessionTTL, logger)))
		logger.Info("durable task state enabled", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	}
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewPlanWriter(cfg, logger)
		closers = append(closers, writer.Close)
		opts = append(opts, planner.WithPublisher(writer))
		logger.Info("plan publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaPlanTopic)
	}

	p := planner.New(provider, logger, metrics, cfg.SessionTTL, opts...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start session sweeper.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("session sweeper error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
