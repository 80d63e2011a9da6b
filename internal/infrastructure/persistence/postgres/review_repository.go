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

// ReviewRepoImpl implements ReviewRepository on GORM.
type ReviewRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewReviewRepository creates the database-backed review repository.
func NewReviewRepository(db *gorm.DB, log logger.Logger) repository.ReviewRepository {
	return &ReviewRepoImpl{
		db:     db,
		logger: log.WithComponent("review_repository"),
	}
}

func (r *ReviewRepoImpl) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(newReviewDBM(review)).Error; err != nil {
		r.logger.Error(ctx, "Failed to create review", err,
			logger.String("review_id", review.ID.String()),
			logger.String("risk_id", review.RiskID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

func (r *ReviewRepoImpl) Update(ctx context.Context, review *models.Review) error {
	result := r.db.WithContext(ctx).
		Model(&reviewDBM{}).
		Where("id = ?", review.ID).
		Select("*").
		Updates(newReviewDBM(review))

	if result.Error != nil {
		r.logger.Error(ctx, "Failed to update review", result.Error,
			logger.String("review_id", review.ID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("review %s not found", review.ID)
	}
	return nil
}

func (r *ReviewRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var m reviewDBM
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("review %s not found", id)
		}
		r.logger.Error(ctx, "Failed to get review", err, logger.String("review_id", id.String()))
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// ListByRisk returns every review of a risk, newest schedule first.
func (r *ReviewRepoImpl) ListByRisk(ctx context.Context, riskID uuid.UUID) ([]*models.Review, error) {
	var rows []reviewDBM
	err := r.db.WithContext(ctx).
		Where("risk_id = ?", riskID).
		Order("scheduled_date DESC, id").
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list reviews for risk", err,
			logger.String("risk_id", riskID.String()),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}

	reviews := make([]*models.Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, rows[i].toDomain())
	}
	return reviews, nil
}

// ListPending returns every review not yet conducted, oldest schedule
// first, so the longest-overdue reviews surface at the top.
func (r *ReviewRepoImpl) ListPending(ctx context.Context) ([]*models.Review, error) {
	var rows []reviewDBM
	err := r.db.WithContext(ctx).
		Where("conducted_date IS NULL").
		Order("scheduled_date, id").
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list pending reviews", err)
		return nil, errors.ErrDatabase.WithError(err)
	}

	reviews := make([]*models.Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, rows[i].toDomain())
	}
	return reviews, nil
}

func (r *ReviewRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&reviewDBM{})
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to delete review", result.Error,
			logger.String("review_id", id.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("review %s not found", id)
	}
	return nil
}
