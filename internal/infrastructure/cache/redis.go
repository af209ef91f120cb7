package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cashonrails-backend/internal/config"
	"cashonrails-backend/pkg/logger"
)

const (
	connectTimeout = 5 * time.Second
	healthTimeout  = 2 * time.Second
)

// ErrRedisNotInitialized is returned by checks on a client that was closed
// or never built.
var ErrRedisNotInitialized = errors.New("redis client is not initialized")

// RedisClient is the connection shared by the confirmation lock and the
// health endpoints. The task queue opens its own through asynq.
type RedisClient struct {
	Client *redis.Client
}

func NewRedisClient(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.Host,
			Password: cfg.Password,
			DB:       cfg.DB,
			// Lock traffic is a handful of SET NX / EVAL calls per payment.
			PoolSize:     4,
			MinIdleConns: 1,
			MaxRetries:   2,
			DialTimeout:  connectTimeout,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		}),
	}
}

// Connect fails when redis cannot be reached within connectTimeout. The
// caller decides whether to fall back to the in-process lock.
func (r *RedisClient) Connect(ctx context.Context) error {
	if err := r.ping(ctx, connectTimeout); err != nil {
		return err
	}

	opts := r.Client.Options()
	logger.Info("redis connected", map[string]interface{}{
		"addr":      opts.Addr,
		"db":        opts.DB,
		"pool_size": opts.PoolSize,
	})
	return nil
}

// HealthCheck backs the readiness endpoints of the API and the worker
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.ping(ctx, healthTimeout); err != nil {
		return err
	}

	if stats := r.Client.PoolStats(); stats.Timeouts > 0 {
		logger.Warn("redis pool timeouts observed", map[string]interface{}{
			"timeouts":    stats.Timeouts,
			"total_conns": stats.TotalConns,
		})
	}
	return nil
}

// Locker returns a confirmation lock that uses this connection
func (r *RedisClient) Locker() *RedisLocker {
	return NewRedisLocker(r.Client)
}

func (r *RedisClient) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	err := r.Client.Close()
	r.Client = nil
	return err
}

func (r *RedisClient) ping(ctx context.Context, timeout time.Duration) error {
	if r == nil || r.Client == nil {
		return ErrRedisNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s failed: %w", r.Client.Options().Addr, err)
	}
	return nil
}
