package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// ActionRepoImpl implements ActionRepository on GORM.
type ActionRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewActionRepository creates the database-backed action repository.
func NewActionRepository(db *gorm.DB, log logger.Logger) repository.ActionRepository {
	return &ActionRepoImpl{
		db:     db,
		logger: log.WithComponent("action_repository"),
	}
}

// Create persists a new remediation action.
func (r *ActionRepoImpl) Create(ctx context.Context, action *models.Action) error {
	if err := r.db.WithContext(ctx).Create(newActionDBM(action)).Error; err != nil {
		r.logger.Error(ctx, "Failed to create action", err,
			logger.String("action_id", action.ID.String()),
			logger.String("risk_id", action.RiskID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

// Update persists changes to an existing action. Select("*") writes
// zero and nil fields too, so reopening an action clears completed_at.
func (r *ActionRepoImpl) Update(ctx context.Context, action *models.Action) error {
	result := r.db.WithContext(ctx).
		Model(&actionDBM{}).
		Where("id = ?", action.ID).
		Select("*").
		Updates(newActionDBM(action))

	if result.Error != nil {
		r.logger.Error(ctx, "Failed to update action", result.Error,
			logger.String("action_id", action.ID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("action %s not found", action.ID)
	}
	return nil
}

// GetByID returns one action.
func (r *ActionRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Action, error) {
	var m actionDBM
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("action %s not found", id)
		}
		r.logger.Error(ctx, "Failed to get action", err, logger.String("action_id", id.String()))
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// List returns a filtered page of actions, newest first, plus the total
// match count.
func (r *ActionRepoImpl) List(ctx context.Context, filter repository.ActionFilter, limit, offset int) ([]*models.Action, int64, error) {
	query := r.db.WithContext(ctx).Model(&actionDBM{})
	if filter.RiskID != nil {
		query = query.Where("risk_id = ?", *filter.RiskID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", string(*filter.Priority))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error(ctx, "Failed to count actions", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	var rows []actionDBM
	err := query.
		Order("created_at DESC, id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list actions", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	actions := make([]*models.Action, 0, len(rows))
	for i := range rows {
		actions = append(actions, rows[i].toDomain())
	}
	return actions, total, nil
}

// ListByRisk returns every action attached to a risk, oldest first.
func (r *ActionRepoImpl) ListByRisk(ctx context.Context, riskID uuid.UUID) ([]*models.Action, error) {
	var rows []actionDBM
	err := r.db.WithContext(ctx).
		Where("risk_id = ?", riskID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list actions for risk", err,
			logger.String("risk_id", riskID.String()),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}

	actions := make([]*models.Action, 0, len(rows))
	for i := range rows {
		actions = append(actions, rows[i].toDomain())
	}
	return actions, nil
}

// ListAll returns every action.
func (r *ActionRepoImpl) ListAll(ctx context.Context) ([]*models.Action, error) {
	var rows []actionDBM
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list all actions", err)
		return nil, errors.ErrDatabase.WithError(err)
	}

	actions := make([]*models.Action, 0, len(rows))
	for i := range rows {
		actions = append(actions, rows[i].toDomain())
	}
	return actions, nil
}

// Delete removes an action together with its reference mappings.
func (r *ActionRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("action_id = ?", id).Delete(&actionMappingDBM{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&actionDBM{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.ErrNotFound.WithMessagef("action %s not found", id)
		}
		return nil
	})
	if err != nil {
		if errors.IsNotFound(err) {
			return err
		}
		r.logger.Error(ctx, "Failed to delete action", err, logger.String("action_id", id.String()))
		return errors.ErrDatabase.WithError(err)
	}
	r.logger.Info(ctx, "Action deleted", logger.String("action_id", id.String()))
	return nil
}
