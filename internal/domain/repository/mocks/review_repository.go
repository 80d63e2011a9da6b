package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	var review *models.Review
	if args.Get(0) != nil {
		review = args.Get(0).(*models.Review)
	}
	return review, args.Error(1)
}

func (m *MockReviewRepository) ListByRisk(ctx context.Context, riskID uuid.UUID) ([]*models.Review, error) {
	args := m.Called(ctx, riskID)
	var reviews []*models.Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]*models.Review)
	}
	return reviews, args.Error(1)
}

func (m *MockReviewRepository) ListPending(ctx context.Context) ([]*models.Review, error) {
	args := m.Called(ctx)
	var reviews []*models.Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]*models.Review)
	}
	return reviews, args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
