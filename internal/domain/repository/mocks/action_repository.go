package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
)

type MockActionRepository struct {
	mock.Mock
}

func (m *MockActionRepository) Create(ctx context.Context, action *models.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockActionRepository) Update(ctx context.Context, action *models.Action) error {
	args := m.Called(ctx, action)
	return args.Error(0)
}

func (m *MockActionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Action, error) {
	args := m.Called(ctx, id)
	var action *models.Action
	if args.Get(0) != nil {
		action = args.Get(0).(*models.Action)
	}
	return action, args.Error(1)
}

func (m *MockActionRepository) List(ctx context.Context, filter repository.ActionFilter, limit, offset int) ([]*models.Action, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	var actions []*models.Action
	if args.Get(0) != nil {
		actions = args.Get(0).([]*models.Action)
	}
	return actions, args.Get(1).(int64), args.Error(2)
}

func (m *MockActionRepository) ListByRisk(ctx context.Context, riskID uuid.UUID) ([]*models.Action, error) {
	args := m.Called(ctx, riskID)
	var actions []*models.Action
	if args.Get(0) != nil {
		actions = args.Get(0).([]*models.Action)
	}
	return actions, args.Error(1)
}

func (m *MockActionRepository) ListAll(ctx context.Context) ([]*models.Action, error) {
	args := m.Called(ctx)
	var actions []*models.Action
	if args.Get(0) != nil {
		actions = args.Get(0).([]*models.Action)
	}
	return actions, args.Error(1)
}

func (m *MockActionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
