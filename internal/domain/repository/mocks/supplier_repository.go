package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
)

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	var supplier *models.Supplier
	if args.Get(0) != nil {
		supplier = args.Get(0).(*models.Supplier)
	}
	return supplier, args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context, limit, offset int) ([]*models.Supplier, int64, error) {
	args := m.Called(ctx, limit, offset)
	var suppliers []*models.Supplier
	if args.Get(0) != nil {
		suppliers = args.Get(0).([]*models.Supplier)
	}
	return suppliers, args.Get(1).(int64), args.Error(2)
}

func (m *MockSupplierRepository) ListAll(ctx context.Context) ([]*models.Supplier, error) {
	args := m.Called(ctx)
	var suppliers []*models.Supplier
	if args.Get(0) != nil {
		suppliers = args.Get(0).([]*models.Supplier)
	}
	return suppliers, args.Error(1)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
