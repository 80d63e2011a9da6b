package service_test

import (
	"context"
	"fmt"
	"testing"

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

type complianceServiceFixture struct {
	referenceRepo *repoMocks.MockReferenceRepository
	riskRepo      *repoMocks.MockRiskRepository
	actionRepo    *repoMocks.MockActionRepository
	catalog       *serviceMocks.MockCatalogSource
	audit         *serviceMocks.MockAuditService
	sut           appservice.ComplianceAppService
}

func newComplianceServiceFixture() *complianceServiceFixture {
	f := &complianceServiceFixture{
		referenceRepo: new(repoMocks.MockReferenceRepository),
		riskRepo:      new(repoMocks.MockRiskRepository),
		actionRepo:    new(repoMocks.MockActionRepository),
		catalog:       new(serviceMocks.MockCatalogSource),
		audit:         new(serviceMocks.MockAuditService),
	}
	f.sut = appservice.NewComplianceAppService(
		f.referenceRepo, f.riskRepo, f.actionRepo, f.catalog, f.audit, logger.NewNoopLogger(),
	)
	return f
}

func testCatalog(framework constants.Framework, n int) []*models.ReferenceItem {
	items := make([]*models.ReferenceItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, &models.ReferenceItem{
			ID:        uuid.New(),
			Framework: framework,
			Code:      fmt.Sprintf("%d.%d", i/10+1, i%10+1),
			Title:     fmt.Sprintf("Principle %d", i+1),
			Version:   "2.0",
		})
	}
	return items
}

func TestComplianceAppServiceCoverage(t *testing.T) {
	ctx := context.Background()

	t.Run("three of ten mapped is 30 percent with seven unmapped", func(t *testing.T) {
		f := newComplianceServiceFixture()
		catalog := testCatalog(constants.FrameworkNSM, 10)
		mapped := map[uuid.UUID]struct{}{
			catalog[0].ID: {},
			catalog[4].ID: {},
			catalog[9].ID: {},
		}
		f.catalog.On("GetCatalog", mock.Anything, constants.FrameworkNSM).Return(catalog, nil)
		f.referenceRepo.On("LiveMappedReferenceIDs", mock.Anything, constants.FrameworkNSM).Return(mapped, nil)

		resp, err := f.sut.GetCoverage(ctx, "nsm")
		require.NoError(t, err)

		assert.Equal(t, 10, resp.Total)
		assert.Equal(t, 3, resp.Mapped)
		assert.InDelta(t, 30.0, resp.CoveragePercent, 0.001)
		assert.Len(t, resp.Unmapped, 7)
		assert.Len(t, resp.Items, 10)
	})

	t.Run("unknown framework is rejected before any lookup", func(t *testing.T) {
		f := newComplianceServiceFixture()

		_, err := f.sut.GetCoverage(ctx, "iso27001")
		assertAppErrorCode(t, err, constants.ErrCodeInvalidRequest)
		f.catalog.AssertNotCalled(t, "GetCatalog", mock.Anything, mock.Anything)
	})

	t.Run("empty catalog reports zero coverage", func(t *testing.T) {
		f := newComplianceServiceFixture()
		f.catalog.On("GetCatalog", mock.Anything, constants.FrameworkEkom).Return([]*models.ReferenceItem{}, nil)
		f.referenceRepo.On("LiveMappedReferenceIDs", mock.Anything, constants.FrameworkEkom).
			Return(map[uuid.UUID]struct{}{}, nil)

		resp, err := f.sut.GetCoverage(ctx, "ekom")
		require.NoError(t, err)
		assert.Zero(t, resp.Total)
		assert.Zero(t, resp.CoveragePercent)
	})
}

func TestComplianceAppServiceCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("catalog keeps code order and carries the version", func(t *testing.T) {
		f := newComplianceServiceFixture()
		catalog := testCatalog(constants.FrameworkNSM, 4)
		f.catalog.On("GetCatalog", mock.Anything, constants.FrameworkNSM).Return(catalog, nil)

		resp, err := f.sut.GetCatalog(ctx, "nsm")
		require.NoError(t, err)

		assert.Equal(t, "nsm", resp.Framework)
		assert.Equal(t, "2.0", resp.Version)
		require.Len(t, resp.Items, 4)
		assert.Equal(t, catalog[0].Code, resp.Items[0].Code)
		assert.Equal(t, catalog[3].Code, resp.Items[3].Code)
	})
}

func TestComplianceAppServiceMapping(t *testing.T) {
	ctx := context.Background()

	t.Run("maps a reference to a risk and audits", func(t *testing.T) {
		f := newComplianceServiceFixture()
		reference := testCatalog(constants.FrameworkNSM, 1)[0]
		risk := models.NewRisk(uuid.New(), "Unpatched management plane", constants.RiskTypeTechnical,
			models.Assessment{Likelihood: 3, Consequence: 4})
		f.referenceRepo.On("GetByID", mock.Anything, reference.ID).Return(reference, nil)
		f.riskRepo.On("GetByID", mock.Anything, risk.ID).Return(risk, nil)
		f.referenceRepo.On("MapRisk", mock.Anything, mock.AnythingOfType("*models.RiskMapping")).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		mapping, err := f.sut.MapRisk(ctx, &dto.MapRiskRequest{
			ReferenceID: reference.ID.String(),
			RiskID:      risk.ID.String(),
			Note:        "covers patching of management interfaces",
		})
		require.NoError(t, err)

		assert.Equal(t, reference.ID.String(), mapping.ReferenceID)
		assert.Equal(t, risk.ID.String(), mapping.RiskID)
		f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	})

	t.Run("duplicate mapping surfaces as a conflict", func(t *testing.T) {
		f := newComplianceServiceFixture()
		reference := testCatalog(constants.FrameworkNSM, 1)[0]
		risk := models.NewRisk(uuid.New(), "Duplicate mapping target", constants.RiskTypeTechnical,
			models.Assessment{Likelihood: 2, Consequence: 3})
		f.referenceRepo.On("GetByID", mock.Anything, reference.ID).Return(reference, nil)
		f.riskRepo.On("GetByID", mock.Anything, risk.ID).Return(risk, nil)
		f.referenceRepo.On("MapRisk", mock.Anything, mock.Anything).Return(errors.ErrDuplicateMapping)

		_, err := f.sut.MapRisk(ctx, &dto.MapRiskRequest{
			ReferenceID: reference.ID.String(),
			RiskID:      risk.ID.String(),
		})
		assertAppErrorCode(t, err, constants.ErrCodeDuplicateMapping)
	})

	t.Run("mapping an unknown reference is not found", func(t *testing.T) {
		f := newComplianceServiceFixture()
		referenceID := uuid.New()
		f.referenceRepo.On("GetByID", mock.Anything, referenceID).Return(nil, errors.ErrNotFound)

		_, err := f.sut.MapRisk(ctx, &dto.MapRiskRequest{
			ReferenceID: referenceID.String(),
			RiskID:      uuid.New().String(),
		})
		assertAppErrorCode(t, err, constants.ErrCodeNotFound)
		f.referenceRepo.AssertNotCalled(t, "MapRisk", mock.Anything, mock.Anything)
	})

	t.Run("unmap removes the pair", func(t *testing.T) {
		f := newComplianceServiceFixture()
		referenceID, riskID := uuid.New(), uuid.New()
		f.referenceRepo.On("UnmapRisk", mock.Anything, referenceID, riskID).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		require.NoError(t, f.sut.UnmapRisk(ctx, referenceID.String(), riskID.String()))
		f.referenceRepo.AssertExpectations(t)
	})
}

func TestComplianceAppServiceSummary(t *testing.T) {
	ctx := context.Background()

	f := newComplianceServiceFixture()
	nsmCatalog := testCatalog(constants.FrameworkNSM, 4)
	ekomCatalog := testCatalog(constants.FrameworkEkom, 10)

	f.catalog.On("GetCatalog", mock.Anything, constants.FrameworkNSM).Return(nsmCatalog, nil)
	f.catalog.On("GetCatalog", mock.Anything, constants.FrameworkEkom).Return(ekomCatalog, nil)
	f.referenceRepo.On("LiveMappedReferenceIDs", mock.Anything, constants.FrameworkNSM).
		Return(map[uuid.UUID]struct{}{nsmCatalog[0].ID: {}, nsmCatalog[1].ID: {}}, nil)
	f.referenceRepo.On("LiveMappedReferenceIDs", mock.Anything, constants.FrameworkEkom).
		Return(map[uuid.UUID]struct{}{}, nil)

	resp, err := f.sut.GetSummary(ctx)
	require.NoError(t, err)

	require.Len(t, resp.Frameworks, 2)
	assert.Equal(t, "nsm", resp.Frameworks[0].Framework)
	assert.Equal(t, 4, resp.Frameworks[0].Total)
	assert.Equal(t, 2, resp.Frameworks[0].Mapped)
	assert.InDelta(t, 50.0, resp.Frameworks[0].CoveragePercent, 0.001)

	assert.Equal(t, "ekom", resp.Frameworks[1].Framework)
	assert.Zero(t, resp.Frameworks[1].Mapped)
	assert.Zero(t, resp.Frameworks[1].CoveragePercent)
}
