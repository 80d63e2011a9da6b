package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) GetCatalog(ctx context.Context, framework constants.Framework) ([]*models.ReferenceItem, error) {
	args := m.Called(ctx, framework)
	var items []*models.ReferenceItem
	if args.Get(0) != nil {
		items = args.Get(0).([]*models.ReferenceItem)
	}
	return items, args.Error(1)
}

func (m *MockCatalogSource) Invalidate(ctx context.Context, frameworks ...constants.Framework) {
	callArgs := make([]interface{}, 0, len(frameworks)+1)
	callArgs = append(callArgs, ctx)
	for _, framework := range frameworks {
		callArgs = append(callArgs, framework)
	}
	m.Called(callArgs...)
}
