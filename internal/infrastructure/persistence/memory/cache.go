// Package memory provides the in-process cache used when Redis is
// disabled, typically in single-node and development deployments.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rosverk/rosreg/internal/domain/service"
)

// Cache implements the byte cache contract on patrickmn/go-cache.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates an in-process cache with background expiry sweeps.
func NewCache() service.CacheService {
	return &Cache{
		store: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return bytes, true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, value, ttl)
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.store.Delete(key)
	}
	return nil
}
