// Package middleware provides the cross-cutting gin middleware chain:
// request identity, tracing, metrics, access logging, and throttling.
package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/logger"
)

// RequestContext injects the correlation id and the audit actor into the
// request context. Callers may supply their own X-Request-ID so the id
// survives proxy hops; otherwise one is issued here. The actor header is
// free text; when absent, writes are attributed to "system".
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		if actor := c.GetHeader(constants.HeaderActor); actor != "" {
			ctx = context.WithValue(ctx, constants.ContextKeyActor, actor)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(constants.HeaderRequestID, requestID)
		c.Next()
	}
}

// RequestLogger emits one structured access log line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}
		if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
			fields = append(fields, logger.String("request_id", requestID))
		}
		log.Info(ctx, "request completed", fields...)
	}
}
