package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// SupplierRepoImpl implements SupplierRepository on GORM.
type SupplierRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewSupplierRepository creates the database-backed supplier repository.
func NewSupplierRepository(db *gorm.DB, log logger.Logger) repository.SupplierRepository {
	return &SupplierRepoImpl{
		db:     db,
		logger: log.WithComponent("supplier_repository"),
	}
}

func (r *SupplierRepoImpl) Create(ctx context.Context, supplier *models.Supplier) error {
	if err := r.db.WithContext(ctx).Create(newSupplierDBM(supplier)).Error; err != nil {
		r.logger.Error(ctx, "Failed to create supplier", err,
			logger.String("supplier_id", supplier.ID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

// Update persists changes to a supplier. Select("*") writes nil fields
// too, so clearing the contract expiry persists.
func (r *SupplierRepoImpl) Update(ctx context.Context, supplier *models.Supplier) error {
	result := r.db.WithContext(ctx).
		Model(&supplierDBM{}).
		Where("id = ?", supplier.ID).
		Select("*").
		Updates(newSupplierDBM(supplier))

	if result.Error != nil {
		r.logger.Error(ctx, "Failed to update supplier", result.Error,
			logger.String("supplier_id", supplier.ID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("supplier %s not found", supplier.ID)
	}
	return nil
}

func (r *SupplierRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var m supplierDBM
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("supplier %s not found", id)
		}
		r.logger.Error(ctx, "Failed to get supplier", err, logger.String("supplier_id", id.String()))
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// List returns a page of suppliers ordered by name plus the total count.
func (r *SupplierRepoImpl) List(ctx context.Context, limit, offset int) ([]*models.Supplier, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&supplierDBM{}).Count(&total).Error; err != nil {
		r.logger.Error(ctx, "Failed to count suppliers", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	var rows []supplierDBM
	err := r.db.WithContext(ctx).
		Order("name, id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list suppliers", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	suppliers := make([]*models.Supplier, 0, len(rows))
	for i := range rows {
		suppliers = append(suppliers, rows[i].toDomain())
	}
	return suppliers, total, nil
}

// ListAll returns every supplier in name order.
func (r *SupplierRepoImpl) ListAll(ctx context.Context) ([]*models.Supplier, error) {
	var rows []supplierDBM
	err := r.db.WithContext(ctx).Order("name, id").Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list all suppliers", err)
		return nil, errors.ErrDatabase.WithError(err)
	}

	suppliers := make([]*models.Supplier, 0, len(rows))
	for i := range rows {
		suppliers = append(suppliers, rows[i].toDomain())
	}
	return suppliers, nil
}

func (r *SupplierRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&supplierDBM{})
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to delete supplier", result.Error,
			logger.String("supplier_id", id.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("supplier %s not found", id)
	}
	r.logger.Info(ctx, "Supplier deleted", logger.String("supplier_id", id.String()))
	return nil
}
