package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// OpRecorder observes cache operations. The Prometheus metrics
// collector satisfies it; a nil recorder disables observation.
type OpRecorder interface {
	RecordCacheOperation(operation string, hit bool)
}

// CacheManager implements the byte cache contract on Redis. Dashboard
// snapshots and export blobs go through here.
type CacheManager struct {
	client  redis.UniversalClient
	metrics OpRecorder
	logger  logger.Logger
}

// NewCacheManager creates a Redis-backed cache manager.
func NewCacheManager(client redis.UniversalClient, metrics OpRecorder, log logger.Logger) service.CacheService {
	return &CacheManager{
		client:  client,
		metrics: metrics,
		logger:  log.WithComponent("cache"),
	}
}

// Get returns the cached value, or (nil, false, nil) on a miss.
func (m *CacheManager) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		m.record("get", false)
		return nil, false, nil
	}
	if err != nil {
		m.logger.Warn(ctx, "Cache get failed", logger.String("key", key), logger.Error(err))
		return nil, false, errors.ErrCache.WithError(err)
	}
	m.record("get", true)
	return value, true, nil
}

// Set stores a value under key for the given TTL.
func (m *CacheManager) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := m.client.Set(ctx, key, value, ttl).Err(); err != nil {
		m.logger.Warn(ctx, "Cache set failed", logger.String("key", key), logger.Error(err))
		return errors.ErrCache.WithError(err)
	}
	m.record("set", true)
	return nil
}

// Delete drops the given keys. Missing keys are not an error.
func (m *CacheManager) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := m.client.Del(ctx, keys...).Err(); err != nil {
		m.logger.Warn(ctx, "Cache delete failed", logger.Int("keys", len(keys)), logger.Error(err))
		return errors.ErrCache.WithError(err)
	}
	m.record("delete", true)
	return nil
}

func (m *CacheManager) record(operation string, hit bool) {
	if m.metrics != nil {
		m.metrics.RecordCacheOperation(operation, hit)
	}
}
