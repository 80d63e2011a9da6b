package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
)

//go:generate mockery --name SupplierRepository --output ../repository/mocks --filename supplier_repository.go
type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)

	// List returns a page of suppliers ordered by name plus the total count.
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, int64, error)

	// ListAll returns every supplier. Alert evaluation runs over this set.
	ListAll(ctx context.Context) ([]*models.Supplier, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
