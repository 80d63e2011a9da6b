// Package ratelimit provides distributed request throttling on Redis.
//
// The limiter counts requests per client in fixed one-minute windows. A
// single Lua script keeps the increment and the window expiry atomic, so
// concurrent requests across instances never race the counter.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

const fixedWindowScript = `
local current = redis.call('INCR', KEYS[1])
if current == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {current, ttl}
`

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	RetryAfter time.Duration
}

// FixedWindowLimiter throttles clients to a fixed allowance per window.
type FixedWindowLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
	logger logger.Logger
}

// NewFixedWindowLimiter builds a limiter from the rate-limit config. The
// per-window allowance is the configured requests-per-minute plus the
// burst headroom.
func NewFixedWindowLimiter(client redis.UniversalClient, cfg *config.RateLimitConfig, log logger.Logger) *FixedWindowLimiter {
	limit := int64(cfg.DefaultRPM)
	if limit <= 0 {
		limit = 300
	}
	limit += int64(cfg.BurstSize)

	return &FixedWindowLimiter{
		client: client,
		limit:  limit,
		window: time.Minute,
		logger: log.WithComponent("ratelimit"),
	}
}

// Allow counts one request for key and reports whether it fits in the
// current window. Key is typically the client IP.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (*Decision, error) {
	redisKey := constants.CacheKeyRateLimitPrefix + key

	result, err := l.client.Eval(ctx, fixedWindowScript, []string{redisKey}, l.window.Milliseconds()).Result()
	if err != nil {
		return nil, errors.ErrCache.WithError(err).WithMessage("rate limit check failed")
	}

	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return nil, errors.ErrCache.WithMessagef("unexpected rate limit script result %T", result)
	}
	current, _ := values[0].(int64)
	ttlMs, _ := values[1].(int64)

	decision := &Decision{
		Allowed:   current <= l.limit,
		Limit:     l.limit,
		Remaining: l.limit - current,
	}
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}
	if !decision.Allowed && ttlMs > 0 {
		decision.RetryAfter = time.Duration(ttlMs) * time.Millisecond
	}
	return decision, nil
}

// Reset clears the current window for key. Used by operators to unblock
// a client without waiting for expiry.
func (l *FixedWindowLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, constants.CacheKeyRateLimitPrefix+key).Err(); err != nil {
		return errors.ErrCache.WithError(err).WithMessagef("resetting rate limit for %s", key)
	}
	return nil
}
