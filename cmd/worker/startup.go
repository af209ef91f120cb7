package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	infraCache "cashonrails-backend/internal/infrastructure/cache"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	redis *infraCache.RedisClient
}

// startServices checks redis before the worker starts consuming and
// exposes a health endpoint for the orchestrator.
func startServices(cfg *Config) (*http.Server, error) {
	log.Info().Msg("CashOnRails payment worker starting")

	checker := &HealthChecker{
		redis: infraCache.NewRedisClient(cfg.Redis),
	}

	if err := checker.checkAll(); err != nil {
		_ = checker.redis.Close()
		return nil, err
	}

	return startHealthCheckServer(cfg.HealthPort, checker), nil
}

// checkAll runs all health checks
func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"Redis Connection", h.checkRedis},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			log.Error().Err(err).Str("check", check.name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		log.Info().Str("check", check.name).Msg("Health check OK")
	}

	return nil
}

func (h *HealthChecker) checkRedis() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return h.redis.HealthCheck(ctx)
}

// startHealthCheckServer serves /health (liveness) and /ready (redis reachable)
func startHealthCheckServer(port string, checker *HealthChecker) *http.Server {
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "cashonrails-worker"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := checker.redis.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", port).Msg("[Health] Starting health check server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("[Health] Failed to start")
		}
	}()

	return srv
}
