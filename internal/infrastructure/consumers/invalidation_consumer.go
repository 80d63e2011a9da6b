// Package consumers holds the Kafka consumers that run inside the
// server process.
package consumers

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/logger"
)

// InvalidationConsumer tails the audit topic and drops cached projections
// when another process mutates the register. The writing process already
// invalidates its own cache inline; this is the fan-in for every other
// instance, so per-process catalog caches and dashboard snapshots stop
// serving stale data before their TTL runs out.
type InvalidationConsumer struct {
	reader  *kafka.Reader
	cache   service.CacheService
	catalog service.CatalogSource
	logger  logger.Logger
	stop    chan struct{}
}

// NewInvalidationConsumer creates a consumer on the audit topic. Each
// instance forms its own consumer group: the work is dropping local
// keys, so every instance must see every event.
func NewInvalidationConsumer(cfg *config.KafkaConfig, cache service.CacheService, catalog service.CatalogSource, log logger.Logger) *InvalidationConsumer {
	group := "rosreg-invalidation"
	if host, err := os.Hostname(); err == nil && host != "" {
		group += "-" + host
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: group,
		// Invalidations must land promptly, so no batching on the fetch
		// side.
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})

	return &InvalidationConsumer{
		reader:  reader,
		cache:   cache,
		catalog: catalog,
		logger:  log.WithComponent("invalidation_consumer"),
		stop:    make(chan struct{}),
	}
}

// Start runs the consumer loop until Stop is called. It blocks and
// should be run in a goroutine.
func (c *InvalidationConsumer) Start(ctx context.Context) {
	c.logger.Info(ctx, "Starting audit invalidation consumer")
	for {
		select {
		case <-c.stop:
			c.logger.Info(ctx, "Stopping audit invalidation consumer")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Warn(ctx, "Failed to fetch audit event", logger.Error(err))
				continue
			}

			var entry models.AuditLog
			if err := json.Unmarshal(msg.Value, &entry); err != nil {
				c.logger.Error(ctx, "Failed to decode audit event", err,
					logger.String("key", string(msg.Key)))
				// Commit the poison pill; re-reading it cannot succeed.
				_ = c.reader.CommitMessages(ctx, msg)
				continue
			}

			if err := c.apply(ctx, &entry); err != nil {
				c.logger.Error(ctx, "Failed to apply cache invalidation", err,
					logger.String("event_type", string(entry.EventType)))
				// Left uncommitted so the event is retried.
				continue
			}
			_ = c.reader.CommitMessages(ctx, msg)
		}
	}
}

// Stop shuts the consumer down and releases the reader.
func (c *InvalidationConsumer) Stop() {
	close(c.stop)
	if err := c.reader.Close(); err != nil {
		c.logger.Error(context.Background(), "Failed to close kafka reader", err)
	}
}

// apply drops the caches one event makes stale. Unknown event types fall
// through to the register default, so new events invalidate conservatively
// until this switch learns about them.
func (c *InvalidationConsumer) apply(ctx context.Context, entry *models.AuditLog) error {
	switch entry.EventType {
	case constants.EventTypeCatalogSeeded:
		c.catalog.Invalidate(ctx)
		return c.dropDashboard(ctx)
	case constants.EventTypeExportGenerated:
		// Export blobs are keyed by export id; nothing goes stale.
		return nil
	default:
		return c.dropDashboard(ctx)
	}
}

func (c *InvalidationConsumer) dropDashboard(ctx context.Context) error {
	return c.cache.Delete(ctx,
		constants.CacheKeyDashboardSummary,
		constants.CacheKeyMatrixPrefix+string(service.MatrixViewCurrent),
		constants.CacheKeyMatrixPrefix+string(service.MatrixViewTarget),
		constants.CacheKeyDistribution,
	)
}
