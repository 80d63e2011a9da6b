package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) UpsertCatalog(ctx context.Context, items []*models.ReferenceItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockReferenceRepository) ListByFramework(ctx context.Context, framework constants.Framework) ([]*models.ReferenceItem, error) {
	args := m.Called(ctx, framework)
	var items []*models.ReferenceItem
	if args.Get(0) != nil {
		items = args.Get(0).([]*models.ReferenceItem)
	}
	return items, args.Error(1)
}

func (m *MockReferenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReferenceItem, error) {
	args := m.Called(ctx, id)
	var item *models.ReferenceItem
	if args.Get(0) != nil {
		item = args.Get(0).(*models.ReferenceItem)
	}
	return item, args.Error(1)
}

func (m *MockReferenceRepository) GetByCode(ctx context.Context, framework constants.Framework, code string) (*models.ReferenceItem, error) {
	args := m.Called(ctx, framework, code)
	var item *models.ReferenceItem
	if args.Get(0) != nil {
		item = args.Get(0).(*models.ReferenceItem)
	}
	return item, args.Error(1)
}

func (m *MockReferenceRepository) MapRisk(ctx context.Context, mapping *models.RiskMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockReferenceRepository) UnmapRisk(ctx context.Context, referenceID, riskID uuid.UUID) error {
	args := m.Called(ctx, referenceID, riskID)
	return args.Error(0)
}

func (m *MockReferenceRepository) MapAction(ctx context.Context, mapping *models.ActionMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockReferenceRepository) UnmapAction(ctx context.Context, referenceID, actionID uuid.UUID) error {
	args := m.Called(ctx, referenceID, actionID)
	return args.Error(0)
}

func (m *MockReferenceRepository) ListMappingsForRisk(ctx context.Context, riskID uuid.UUID) ([]*models.RiskMapping, error) {
	args := m.Called(ctx, riskID)
	var mappings []*models.RiskMapping
	if args.Get(0) != nil {
		mappings = args.Get(0).([]*models.RiskMapping)
	}
	return mappings, args.Error(1)
}

func (m *MockReferenceRepository) ListMappingsForReference(ctx context.Context, referenceID uuid.UUID) ([]*models.RiskMapping, error) {
	args := m.Called(ctx, referenceID)
	var mappings []*models.RiskMapping
	if args.Get(0) != nil {
		mappings = args.Get(0).([]*models.RiskMapping)
	}
	return mappings, args.Error(1)
}

func (m *MockReferenceRepository) LiveMappedReferenceIDs(ctx context.Context, framework constants.Framework) (map[uuid.UUID]struct{}, error) {
	args := m.Called(ctx, framework)
	var ids map[uuid.UUID]struct{}
	if args.Get(0) != nil {
		ids = args.Get(0).(map[uuid.UUID]struct{})
	}
	return ids, args.Error(1)
}
