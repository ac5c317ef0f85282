package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleet-admin/internal/core/cache"
	"fleet-admin/internal/core/config"
	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/core/metrics"

	"go.uber.org/zap"
)

const (
	sweepInterval   = 5 * time.Minute
	clientIdleAfter = 30 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// @title Fleet Admin API
// @version 1.0
// @description Session-based admin API in front of the fleet management backend.
// @contact.name API Support
// @host localhost:8080
// @BasePath /api
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("backend", cfg.FleetAPI.URL),
	)

	metrics.Init()

	// Session storage must be reachable before accepting sign-ins.
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer redisCache.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = redisCache.Ping(pingCtx)
	cancelPing()
	if err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	srv, sessions := newApp(cfg, redisCache)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.RunSweeper(ctx, sweepInterval, clientIdleAfter)

	go func() {
		<-ctx.Done()
		l.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Error("Graceful shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
