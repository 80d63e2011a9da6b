package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// RiskRepoImpl implements RiskRepository on GORM.
type RiskRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewRiskRepository creates the database-backed risk repository.
func NewRiskRepository(db *gorm.DB, log logger.Logger) repository.RiskRepository {
	return &RiskRepoImpl{
		db:     db,
		logger: log.WithComponent("risk_repository"),
	}
}

// Create persists a new risk.
func (r *RiskRepoImpl) Create(ctx context.Context, risk *models.Risk) error {
	if err := r.db.WithContext(ctx).Create(newRiskDBM(risk)).Error; err != nil {
		r.logger.Error(ctx, "Failed to create risk", err,
			logger.String("risk_id", risk.ID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	r.logger.Debug(ctx, "Risk created",
		logger.String("risk_id", risk.ID.String()),
		logger.String("title", risk.Title),
	)
	return nil
}

// Update persists changes to an existing risk. Soft-deleted rows are
// not updatable. Select("*") makes Updates write zero and nil fields
// too, so a cleared target actually clears the columns.
func (r *RiskRepoImpl) Update(ctx context.Context, risk *models.Risk) error {
	result := r.db.WithContext(ctx).
		Model(&riskDBM{}).
		Where("id = ? AND deleted_at IS NULL", risk.ID).
		Select("*").
		Updates(newRiskDBM(risk))

	if result.Error != nil {
		r.logger.Error(ctx, "Failed to update risk", result.Error,
			logger.String("risk_id", risk.ID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("risk %s not found", risk.ID)
	}
	return nil
}

// GetByID returns one risk. Soft-deleted rows are not found.
func (r *RiskRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Risk, error) {
	var m riskDBM
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("risk %s not found", id)
		}
		r.logger.Error(ctx, "Failed to get risk", err, logger.String("risk_id", id.String()))
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// List returns a filtered page of risks, newest first, plus the total
// match count.
func (r *RiskRepoImpl) List(ctx context.Context, filter repository.RiskFilter, limit, offset int) ([]*models.Risk, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&riskDBM{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error(ctx, "Failed to count risks", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	var rows []riskDBM
	err := query.
		Order("created_at DESC, id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list risks", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	risks := make([]*models.Risk, 0, len(rows))
	for i := range rows {
		risks = append(risks, rows[i].toDomain())
	}
	return risks, total, nil
}

// ListLive returns every risk that is neither soft-deleted nor closed.
func (r *RiskRepoImpl) ListLive(ctx context.Context) ([]*models.Risk, error) {
	var rows []riskDBM
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL AND status <> ?", string(constants.RiskStatusClosed)).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list live risks", err)
		return nil, errors.ErrDatabase.WithError(err)
	}

	risks := make([]*models.Risk, 0, len(rows))
	for i := range rows {
		risks = append(risks, rows[i].toDomain())
	}
	return risks, nil
}

// SoftDelete marks a risk deleted without removing the row.
func (r *RiskRepoImpl) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&riskDBM{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		})

	if result.Error != nil {
		r.logger.Error(ctx, "Failed to soft delete risk", result.Error,
			logger.String("risk_id", id.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("risk %s not found", id)
	}
	r.logger.Info(ctx, "Risk soft deleted", logger.String("risk_id", id.String()))
	return nil
}

// CountByStatus returns live risk counts grouped by status.
func (r *RiskRepoImpl) CountByStatus(ctx context.Context) (map[constants.RiskStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&riskDBM{}).
		Select("status, COUNT(*) AS count").
		Where("deleted_at IS NULL AND status <> ?", string(constants.RiskStatusClosed)).
		Group("status").
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to count risks by status", err)
		return nil, errors.ErrDatabase.WithError(err)
	}

	counts := make(map[constants.RiskStatus]int64, len(rows))
	for _, row := range rows {
		counts[constants.RiskStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// applyFilter translates a RiskFilter into WHERE clauses. Score bounds
// run on the stored rating columns; the product is never persisted.
func (r *RiskRepoImpl) applyFilter(query *gorm.DB, filter repository.RiskFilter) *gorm.DB {
	query = query.Where("deleted_at IS NULL")
	if !filter.IncludeClosed {
		query = query.Where("status <> ?", string(constants.RiskStatusClosed))
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.MinScore != nil {
		query = query.Where("likelihood * consequence >= ?", *filter.MinScore)
	}
	if filter.MaxScore != nil {
		query = query.Where("likelihood * consequence <= ?", *filter.MaxScore)
	}
	return query
}
