// Package handlers contains the gin handlers for the HTTP API. Handlers
// bind and hand off to the application services; every response goes
// through the shared dto envelope.
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosverk/rosreg/internal/infrastructure/audit"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/redis"
	"github.com/rosverk/rosreg/pkg/logger"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db    *postgres.Database
	redis *redis.RedisConnection
	kafka *audit.KafkaProducer
	log   logger.Logger
}

// NewHealthHandler wires the probes. redis and kafka may be nil when the
// deployment runs without them; their checks are then skipped.
func NewHealthHandler(db *postgres.Database, redisConn *redis.RedisConnection, kafka *audit.KafkaProducer, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisConn,
		kafka: kafka,
		log:   log.WithComponent("health"),
	}
}

// Liveness reports 200 as long as the process serves requests. It must
// not touch any dependency, or a store outage would get the pod killed.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// Readiness checks the backing stores concurrently and reports 503 when
// any of them fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := h.performChecks(c.Request.Context())

	status := "ready"
	httpStatus := http.StatusOK
	for name, result := range checks {
		if result != "ok" {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			h.log.Warn(c.Request.Context(), "Readiness check failed",
				logger.String("check", name),
				logger.String("result", result))
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	})
}

func (h *HealthHandler) performChecks(ctx context.Context) map[string]string {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	checkers := map[string]func(context.Context) error{
		"database": h.db.Ping,
	}
	if h.redis != nil {
		checkers["redis"] = h.redis.Ping
	}
	if h.kafka != nil {
		checkers["kafka"] = h.kafka.Ping
	}

	var wg sync.WaitGroup
	mu := &sync.Mutex{}
	checks := make(map[string]string, len(checkers))

	wg.Add(len(checkers))
	for name, check := range checkers {
		go func(name string, check func(context.Context) error) {
			defer wg.Done()
			result := "ok"
			if err := check(checkCtx); err != nil {
				result = "error: " + err.Error()
			}
			mu.Lock()
			checks[name] = result
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return checks
}
