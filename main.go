package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"nickel-advisor/config"
	httpLayer "nickel-advisor/http"
	"nickel-advisor/logger"
	"nickel-advisor/metrics"
	"nickel-advisor/repository"
	"nickel-advisor/service"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Stage, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	cache := newCache(cfg, zlog)
	defer func() {
		if err := cache.Close(); err != nil {
			zlog.Warn("failed to close quote cache", zap.Error(err))
		}
	}()

	roundingService := service.NewRoundingService(cache, cfg.Redis.TTL, m, zlog)
	roundingHandler := httpLayer.NewRoundingHandler(roundingService, zlog)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpLayer.NewRouter(roundingHandler, rateLimiter, m, reg, zlog),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("stage", cfg.Stage),
			zap.Bool("redis_enabled", cfg.Redis.Enabled),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		zlog.Error("server failed", zap.Error(err))
		return
	case <-quit:
		zlog.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Error("error during server shutdown", zap.Error(err))
	}

	zlog.Info("server exited")
}

type closableCache interface {
	repository.CacheRepository
	Close() error
}

// newCache prefers Redis when enabled and reachable, otherwise keeps
// quotes in process memory.
func newCache(cfg *config.Config, zlog *zap.Logger) closableCache {
	if !cfg.Redis.Enabled {
		return repository.NewMemoryCache()
	}

	redisCache := repository.NewRedisCache(cfg.Redis, zlog)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	defer cancel()

	if err := redisCache.Ping(ctx); err != nil {
		zlog.Warn("redis unavailable, using in-memory cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		if closeErr := redisCache.Close(); closeErr != nil {
			zlog.Warn("failed to close redis client", zap.Error(closeErr))
		}
		return repository.NewMemoryCache()
	}
	return redisCache
}
