package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// AuditFilter narrows audit trail queries. Nil fields are ignored.
type AuditFilter struct {
	EventType   *constants.AuditEventType
	Actor       *string
	SubjectType *constants.SubjectType
	SubjectID   *uuid.UUID
	From        *time.Time
	To          *time.Time
}

//go:generate mockery --name AuditRepository --output ../repository/mocks --filename audit_repository.go
type AuditRepository interface {
	// Save appends one entry to the audit trail.
	Save(ctx context.Context, entry *models.AuditLog) error

	// List returns a filtered page of audit entries, newest first, plus
	// the total match count.
	List(ctx context.Context, filter AuditFilter, limit, offset int) ([]*models.AuditLog, int64, error)
}
