package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
)

//go:generate mockery --name ReviewRepository --output ../repository/mocks --filename review_repository.go
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)

	// ListByRisk returns every review of a risk, newest schedule first.
	ListByRisk(ctx context.Context, riskID uuid.UUID) ([]*models.Review, error)

	// ListPending returns every review not yet conducted, oldest schedule
	// first. Alert evaluation runs over this set.
	ListPending(ctx context.Context) ([]*models.Review, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
