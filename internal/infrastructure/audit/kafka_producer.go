package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// Publisher fans audit events out to a message broker so external
// systems (SIEM, archiving) can consume the trail.
type Publisher interface {
	Publish(ctx context.Context, entry *models.AuditLog) error
	Close() error
}

// KafkaProducer publishes audit events to a Kafka topic.
type KafkaProducer struct {
	writer  *kafka.Writer
	brokers []string
	logger  logger.Logger
}

// NewKafkaProducer creates a producer for the configured audit topic.
func NewKafkaProducer(cfg *config.KafkaConfig, log logger.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
	}
	return &KafkaProducer{
		writer:  writer,
		brokers: cfg.Brokers,
		logger:  log.WithComponent("kafka_producer"),
	}
}

// Publish writes one audit event to the topic. Events with a subject
// are keyed on the subject id, so consumers see per-subject order.
func (p *KafkaProducer) Publish(ctx context.Context, entry *models.AuditLog) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.ErrInternal.WithError(err)
	}

	key := entry.EventID.String()
	if entry.SubjectID != nil {
		key = entry.SubjectID.String()
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  entry.Timestamp,
	})
	if err != nil {
		return errors.ErrInternal.WithError(err)
	}
	return nil
}

// Ping dials the first broker to verify the cluster is reachable. The
// writer itself connects lazily, so this is the only connectivity probe.
func (p *KafkaProducer) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.ErrInternal.WithMessage("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return errors.ErrServiceUnavailable.WithError(err)
	}
	return conn.Close()
}

// Close flushes and shuts down the writer.
func (p *KafkaProducer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error(context.Background(), "Failed to close kafka writer", err)
		return err
	}
	return nil
}
