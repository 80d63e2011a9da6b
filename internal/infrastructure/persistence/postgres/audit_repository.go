package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// AuditRepoImpl implements AuditRepository on GORM. The audit trail is
// append-only; there is no update or delete path.
type AuditRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewAuditRepository creates the database-backed audit repository.
func NewAuditRepository(db *gorm.DB, log logger.Logger) repository.AuditRepository {
	return &AuditRepoImpl{
		db:     db,
		logger: log.WithComponent("audit_repository"),
	}
}

// Save appends one entry to the audit trail.
func (r *AuditRepoImpl) Save(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(newAuditLogDBM(entry)).Error; err != nil {
		r.logger.Error(ctx, "Failed to save audit entry", err,
			logger.String("event_type", string(entry.EventType)),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

// List returns a filtered page of audit entries, newest first.
func (r *AuditRepoImpl) List(ctx context.Context, filter repository.AuditFilter, limit, offset int) ([]*models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&auditLogDBM{})
	if filter.EventType != nil {
		query = query.Where("event_type = ?", string(*filter.EventType))
	}
	if filter.Actor != nil {
		query = query.Where("actor = ?", *filter.Actor)
	}
	if filter.SubjectType != nil {
		query = query.Where("subject_type = ?", string(*filter.SubjectType))
	}
	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error(ctx, "Failed to count audit entries", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	var rows []auditLogDBM
	err := query.
		Order("timestamp DESC, event_id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list audit entries", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	entries := make([]*models.AuditLog, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].toDomain())
	}
	return entries, total, nil
}
