package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/infrastructure/ratelimit"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// Limiter decides whether a request fits the client's allowance.
type Limiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Decision, error)
}

// RateLimit throttles clients by IP. Limiter store failures fail open:
// serving traffic beats throttling it when Redis is down.
func RateLimit(limiter Limiter, cfg *config.RateLimitConfig, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || limiter == nil {
			c.Next()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warn(c.Request.Context(), "rate limiter unavailable, failing open", logger.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(decision.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			retryAfter := int(decision.RetryAfter.Round(time.Second) / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			dto.SendError(c, errors.ErrRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
