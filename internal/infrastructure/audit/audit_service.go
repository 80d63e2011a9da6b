// Package audit records compliance-relevant events. Every entry lands
// in the database; when Kafka is enabled the entry is also published
// for external consumers. Recording never fails the operation that
// produced the event.
package audit

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/logger"
)

// EventRecorder observes recorded audit events. The Prometheus metrics
// collector satisfies it; a nil recorder disables observation.
type EventRecorder interface {
	RecordAuditEvent(eventType string)
}

// AuditServiceImpl implements the audit contract on a repository plus
// an optional broker publisher.
type AuditServiceImpl struct {
	store     repository.AuditRepository
	publisher Publisher
	metrics   EventRecorder
	logger    logger.Logger
}

// NewAuditService creates the audit recorder. publisher may be nil when
// Kafka is disabled.
func NewAuditService(store repository.AuditRepository, publisher Publisher, metrics EventRecorder, log logger.Logger) service.AuditService {
	return &AuditServiceImpl{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		logger:    log.WithComponent("audit"),
	}
}

// LogEvent records one event. Storage or publish failures are logged
// and swallowed; the business operation already happened and must not
// be rolled back by its own paper trail.
func (s *AuditServiceImpl) LogEvent(ctx context.Context, entry *models.AuditLog) {
	if entry == nil {
		return
	}

	if entry.TraceID == "" {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			entry.TraceID = sc.TraceID().String()
		}
	}

	if err := s.store.Save(ctx, entry); err != nil {
		s.logger.Error(ctx, "Failed to persist audit event", err,
			logger.String("event_type", string(entry.EventType)),
			logger.String("actor", entry.Actor),
		)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, entry); err != nil {
			s.logger.Warn(ctx, "Failed to publish audit event",
				logger.String("event_type", string(entry.EventType)),
				logger.Error(err),
			)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordAuditEvent(string(entry.EventType))
	}
}
