package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogEvent(ctx context.Context, entry *models.AuditLog) {
	m.Called(ctx, entry)
}
