// Package fakes holds in-memory stand-ins for external infrastructure,
// shared by the integration and e2e suites.
package fakes

import (
	"context"
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/infrastructure/audit"
)

// CapturingPublisher is an audit.Publisher that parks published events in
// a buffered channel so tests can assert on the outgoing stream.
type CapturingPublisher struct {
	ch chan models.AuditLog
}

// NewCapturingPublisher creates a publisher buffering up to buf events.
func NewCapturingPublisher(buf int) *CapturingPublisher {
	return &CapturingPublisher{ch: make(chan models.AuditLog, buf)}
}

// Publish records the event. Publishing past the buffer blocks, which in
// a test means an assertion is missing a DrainOne.
func (p *CapturingPublisher) Publish(ctx context.Context, entry *models.AuditLog) error {
	p.ch <- *entry
	return nil
}

// DrainOne retrieves one published event, or fails after timeout.
func (p *CapturingPublisher) DrainOne(ctx context.Context, timeout time.Duration) (*models.AuditLog, error) {
	select {
	case m := <-p.ch:
		return &m, nil
	case <-time.After(timeout):
		return nil, context.DeadlineExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain discards everything currently buffered. Suites call it after
// setup so seeding noise does not leak into assertions.
func (p *CapturingPublisher) Drain() {
	for {
		select {
		case <-p.ch:
		default:
			return
		}
	}
}

// Close is a no-op.
func (p *CapturingPublisher) Close() error {
	return nil
}

var _ audit.Publisher = (*CapturingPublisher)(nil)
