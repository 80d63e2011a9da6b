// Package redis provides the Redis connection and the cache manager
// built on it. With a single address the client runs in standalone
// mode; multiple addresses switch it to cluster mode.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// RedisConnection wraps the universal client with health reporting.
type RedisConnection struct {
	client redis.UniversalClient
	cfg    *config.RedisConfig
	logger logger.Logger
}

// NewRedisConnection connects to Redis and verifies connectivity.
func NewRedisConnection(ctx context.Context, cfg *config.RedisConfig, log logger.Logger) (*RedisConnection, error) {
	if cfg == nil {
		return nil, errors.ErrInternal.WithMessage("redis configuration is nil")
	}
	log = log.WithComponent("redis")

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        cfg.Addresses,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Error(pingCtx, "Redis ping failed", err)
		_ = client.Close()
		return nil, errors.ErrCache.WithError(err)
	}

	log.Info(ctx, "Redis connection established",
		logger.Any("addresses", cfg.Addresses),
		logger.Int("pool_size", cfg.PoolSize),
	)
	return &RedisConnection{
		client: client,
		cfg:    cfg,
		logger: log,
	}, nil
}

// GetClient returns the underlying universal client.
func (c *RedisConnection) GetClient() redis.UniversalClient {
	return c.client
}

// Ping verifies connectivity.
func (c *RedisConnection) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.client.Ping(pingCtx).Err(); err != nil {
		return errors.ErrCache.WithError(err)
	}
	return nil
}

// HealthCheck reports connectivity and pool statistics.
func (c *RedisConnection) HealthCheck(ctx context.Context) (map[string]interface{}, error) {
	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := c.client.Ping(pingCtx).Err(); err != nil {
		return map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}, errors.ErrCache.WithError(err)
	}

	stats := c.client.PoolStats()
	return map[string]interface{}{
		"status":      "healthy",
		"latency_ms":  time.Since(start).Milliseconds(),
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
	}, nil
}

// Close shuts down the client.
func (c *RedisConnection) Close() error {
	if err := c.client.Close(); err != nil {
		c.logger.Error(context.Background(), "Failed to close redis connection", err)
		return errors.ErrCache.WithError(err)
	}
	c.logger.Info(context.Background(), "Redis connection closed")
	return nil
}
