package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Save(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, filter repository.AuditFilter, limit, offset int) ([]*models.AuditLog, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	var entries []*models.AuditLog
	if args.Get(0) != nil {
		entries = args.Get(0).([]*models.AuditLog)
	}
	return entries, args.Get(1).(int64), args.Error(2)
}
