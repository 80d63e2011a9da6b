package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	var project *models.Project
	if args.Get(0) != nil {
		project = args.Get(0).(*models.Project)
	}
	return project, args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, limit, offset int) ([]*models.Project, int64, error) {
	args := m.Called(ctx, limit, offset)
	var projects []*models.Project
	if args.Get(0) != nil {
		projects = args.Get(0).([]*models.Project)
	}
	return projects, args.Get(1).(int64), args.Error(2)
}

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) Update(ctx context.Context, asset *models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	args := m.Called(ctx, id)
	var asset *models.Asset
	if args.Get(0) != nil {
		asset = args.Get(0).(*models.Asset)
	}
	return asset, args.Error(1)
}

func (m *MockAssetRepository) List(ctx context.Context, projectID *uuid.UUID, limit, offset int) ([]*models.Asset, int64, error) {
	args := m.Called(ctx, projectID, limit, offset)
	var assets []*models.Asset
	if args.Get(0) != nil {
		assets = args.Get(0).([]*models.Asset)
	}
	return assets, args.Get(1).(int64), args.Error(2)
}
