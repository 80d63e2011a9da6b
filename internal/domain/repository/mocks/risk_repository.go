package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/constants"
)

type MockRiskRepository struct {
	mock.Mock
}

func (m *MockRiskRepository) Create(ctx context.Context, risk *models.Risk) error {
	args := m.Called(ctx, risk)
	return args.Error(0)
}

func (m *MockRiskRepository) Update(ctx context.Context, risk *models.Risk) error {
	args := m.Called(ctx, risk)
	return args.Error(0)
}

func (m *MockRiskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Risk, error) {
	args := m.Called(ctx, id)
	var risk *models.Risk
	if args.Get(0) != nil {
		risk = args.Get(0).(*models.Risk)
	}
	return risk, args.Error(1)
}

func (m *MockRiskRepository) List(ctx context.Context, filter repository.RiskFilter, limit, offset int) ([]*models.Risk, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	var risks []*models.Risk
	if args.Get(0) != nil {
		risks = args.Get(0).([]*models.Risk)
	}
	return risks, args.Get(1).(int64), args.Error(2)
}

func (m *MockRiskRepository) ListLive(ctx context.Context) ([]*models.Risk, error) {
	args := m.Called(ctx)
	var risks []*models.Risk
	if args.Get(0) != nil {
		risks = args.Get(0).([]*models.Risk)
	}
	return risks, args.Error(1)
}

func (m *MockRiskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRiskRepository) CountByStatus(ctx context.Context) (map[constants.RiskStatus]int64, error) {
	args := m.Called(ctx)
	var counts map[constants.RiskStatus]int64
	if args.Get(0) != nil {
		counts = args.Get(0).(map[constants.RiskStatus]int64)
	}
	return counts, args.Error(1)
}
