package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/internal/application/dto"
	appservice "github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/internal/domain/models"
	repoMocks "github.com/rosverk/rosreg/internal/domain/repository/mocks"
	serviceMocks "github.com/rosverk/rosreg/internal/domain/service/mocks"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

type supplierServiceFixture struct {
	supplierRepo *repoMocks.MockSupplierRepository
	audit        *serviceMocks.MockAuditService
	cache        *serviceMocks.MockCacheService
	sut          appservice.SupplierAppService
}

func newSupplierServiceFixture() *supplierServiceFixture {
	f := &supplierServiceFixture{
		supplierRepo: new(repoMocks.MockSupplierRepository),
		audit:        new(serviceMocks.MockAuditService),
		cache:        new(serviceMocks.MockCacheService),
	}
	f.sut = appservice.NewSupplierAppService(f.supplierRepo, f.audit, f.cache, logger.NewNoopLogger())
	return f
}

func (f *supplierServiceFixture) expectWriteSideEffects() {
	f.cache.On("Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()
}

func TestSupplierAppServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a supplier with a contract expiry", func(t *testing.T) {
		f := newSupplierServiceFixture()
		f.expectWriteSideEffects()
		f.supplierRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Supplier")).Return(nil)

		expiry := time.Now().UTC().Add(90 * 24 * time.Hour).Truncate(time.Second)
		resp, err := f.sut.CreateSupplier(ctx, &dto.CreateSupplierRequest{
			Name:           "Nordlys Fiber AS",
			Service:        "dark fiber, Tromsø ring",
			Criticality:    4,
			ContractExpiry: &expiry,
			Contact:        "drift@nordlysfiber.no",
		})
		require.NoError(t, err)

		assert.Equal(t, "Nordlys Fiber AS", resp.Name)
		assert.Equal(t, 4, resp.Criticality)
		require.NotNil(t, resp.ContractExpiry)
		assert.True(t, resp.ContractExpiry.Equal(expiry))

		// Contract expiry feeds the expiring-contract alert, so the
		// dashboard cache is invalidated on create.
		f.cache.AssertNumberOfCalls(t, "Delete", 1)
		f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	})

	t.Run("rejects criticality outside the scale", func(t *testing.T) {
		f := newSupplierServiceFixture()

		_, err := f.sut.CreateSupplier(ctx, &dto.CreateSupplierRequest{
			Name:        "Ugyldig Leverandør AS",
			Service:     "testing",
			Criticality: 7,
		})
		assertAppErrorCode(t, err, constants.ErrCodeValidation)
		f.supplierRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSupplierAppServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("clear expiry removes the contract date", func(t *testing.T) {
		f := newSupplierServiceFixture()
		f.expectWriteSideEffects()

		supplier := models.NewSupplier("Fjellnett Drift AS", "site maintenance", 3)
		expiry := time.Now().UTC().Add(20 * 24 * time.Hour)
		supplier.ContractExpiry = &expiry

		f.supplierRepo.On("GetByID", mock.Anything, supplier.ID).Return(supplier, nil)
		f.supplierRepo.On("Update", mock.Anything, supplier).Return(nil)

		resp, err := f.sut.UpdateSupplier(ctx, supplier.ID.String(), &dto.UpdateSupplierRequest{ClearExpiry: true})
		require.NoError(t, err)

		assert.Nil(t, resp.ContractExpiry)
		assert.Nil(t, supplier.ContractExpiry)
	})

	t.Run("unknown supplier is not found", func(t *testing.T) {
		f := newSupplierServiceFixture()
		id := uuid.New()
		f.supplierRepo.On("GetByID", mock.Anything, id).Return(nil, errors.ErrNotFound)

		name := "Nytt Navn AS"
		_, err := f.sut.UpdateSupplier(ctx, id.String(), &dto.UpdateSupplierRequest{Name: &name})
		assertAppErrorCode(t, err, constants.ErrCodeNotFound)
	})
}

func TestSupplierAppServiceDelete(t *testing.T) {
	ctx := context.Background()

	f := newSupplierServiceFixture()
	f.expectWriteSideEffects()

	supplier := models.NewSupplier("Utgått Leverandør AS", "legacy copper", 1)
	f.supplierRepo.On("GetByID", mock.Anything, supplier.ID).Return(supplier, nil)
	f.supplierRepo.On("Delete", mock.Anything, supplier.ID).Return(nil)

	require.NoError(t, f.sut.DeleteSupplier(ctx, supplier.ID.String()))

	f.supplierRepo.AssertCalled(t, "Delete", mock.Anything, supplier.ID)
	f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	f.cache.AssertNumberOfCalls(t, "Delete", 1)
}

func TestSupplierAppServiceListExpiringContracts(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	soon := models.NewSupplier("Nordfiber AS", "dark fiber", 4)
	inTenDays := now.Add(10 * 24 * time.Hour)
	soon.ContractExpiry = &inTenDays

	later := models.NewSupplier("Kystkraft AS", "site power", 3)
	inFortyDays := now.Add(40 * 24 * time.Hour)
	later.ContractExpiry = &inFortyDays

	expired := models.NewSupplier("Utgått Leverandør AS", "legacy copper", 1)
	lastMonth := now.Add(-30 * 24 * time.Hour)
	expired.ContractExpiry = &lastMonth

	openEnded := models.NewSupplier("Evig Drift AS", "facility services", 2)

	all := []*models.Supplier{later, openEnded, soon, expired}

	t.Run("filters to the window and sorts by expiry", func(t *testing.T) {
		f := newSupplierServiceFixture()
		f.supplierRepo.On("ListAll", mock.Anything).Return(all, nil)

		resp, err := f.sut.ListExpiringContracts(ctx, 30)
		require.NoError(t, err)

		require.Len(t, resp.Suppliers, 1)
		assert.Equal(t, "Nordfiber AS", resp.Suppliers[0].Name)
	})

	t.Run("defaults to a 90 day window", func(t *testing.T) {
		f := newSupplierServiceFixture()
		f.supplierRepo.On("ListAll", mock.Anything).Return(all, nil)

		resp, err := f.sut.ListExpiringContracts(ctx, 0)
		require.NoError(t, err)

		// Already-expired and open-ended contracts stay out of the list.
		require.Len(t, resp.Suppliers, 2)
		assert.Equal(t, "Nordfiber AS", resp.Suppliers[0].Name)
		assert.Equal(t, "Kystkraft AS", resp.Suppliers[1].Name)
	})
}
