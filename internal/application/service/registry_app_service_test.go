package service_test

import (
	"context"
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

type registryServiceFixture struct {
	projectRepo *repoMocks.MockProjectRepository
	assetRepo   *repoMocks.MockAssetRepository
	audit       *serviceMocks.MockAuditService
	sut         appservice.RegistryAppService
}

func newRegistryServiceFixture() *registryServiceFixture {
	f := &registryServiceFixture{
		projectRepo: new(repoMocks.MockProjectRepository),
		assetRepo:   new(repoMocks.MockAssetRepository),
		audit:       new(serviceMocks.MockAuditService),
	}
	f.sut = appservice.NewRegistryAppService(f.projectRepo, f.assetRepo, f.audit, logger.NewNoopLogger())
	return f
}

func TestRegistryAppServiceProjects(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a project and audits it", func(t *testing.T) {
		f := newRegistryServiceFixture()
		f.projectRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Project")).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		resp, err := f.sut.CreateProject(ctx, &dto.CreateProjectRequest{
			Name:        "ROS 2026 kjernenett",
			Description: "Annual assessment of the core network",
			Owner:       "network security",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "ROS 2026 kjernenett", resp.Name)
		assert.Equal(t, "network security", resp.Owner)
		f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	})

	t.Run("rejects a too-short name", func(t *testing.T) {
		f := newRegistryServiceFixture()

		_, err := f.sut.CreateProject(ctx, &dto.CreateProjectRequest{Name: "X"})
		assertAppErrorCode(t, err, constants.ErrCodeValidation)
		f.projectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("update changes only the provided fields", func(t *testing.T) {
		f := newRegistryServiceFixture()
		project := models.NewProject("ROS transportnett", "original", "transport")
		f.projectRepo.On("GetByID", mock.Anything, project.ID).Return(project, nil)
		f.projectRepo.On("Update", mock.Anything, project).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		owner := "infrastructure"
		resp, err := f.sut.UpdateProject(ctx, project.ID.String(), &dto.UpdateProjectRequest{Owner: &owner})
		require.NoError(t, err)

		assert.Equal(t, "infrastructure", resp.Owner)
		assert.Equal(t, "ROS transportnett", resp.Name)
		assert.Equal(t, "original", resp.Description)
	})

	t.Run("list pages with the default size", func(t *testing.T) {
		f := newRegistryServiceFixture()
		f.projectRepo.On("List", mock.Anything, constants.DefaultPageSize, 0).
			Return([]*models.Project{models.NewProject("ROS radionett", "", "")}, int64(1), nil)

		resp, err := f.sut.ListProjects(ctx, 0, 0)
		require.NoError(t, err)

		require.Len(t, resp.Projects, 1)
		assert.Equal(t, 1, resp.Pagination.Page)
		assert.Equal(t, int64(1), resp.Pagination.Total)
	})
}

func TestRegistryAppServiceAssets(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an asset under an existing project", func(t *testing.T) {
		f := newRegistryServiceFixture()
		project := models.NewProject("ROS 2026 kjernenett", "", "network security")
		f.projectRepo.On("GetByID", mock.Anything, project.ID).Return(project, nil)
		f.assetRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Asset")).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		resp, err := f.sut.CreateAsset(ctx, &dto.CreateAssetRequest{
			ProjectID:   project.ID.String(),
			Name:        "HLR/HSS cluster",
			Category:    "core_network",
			Criticality: 5,
			Location:    "Oslo DC1",
		})
		require.NoError(t, err)

		assert.Equal(t, project.ID.String(), resp.ProjectID)
		assert.Equal(t, "core_network", resp.Category)
		assert.Equal(t, 5, resp.Criticality)
	})

	t.Run("refuses an asset for an unknown project", func(t *testing.T) {
		f := newRegistryServiceFixture()
		projectID := uuid.New()
		f.projectRepo.On("GetByID", mock.Anything, projectID).Return(nil, errors.ErrNotFound)

		_, err := f.sut.CreateAsset(ctx, &dto.CreateAssetRequest{
			ProjectID:   projectID.String(),
			Name:        "Orphan asset",
			Category:    "transport",
			Criticality: 2,
		})
		assertAppErrorCode(t, err, constants.ErrCodeNotFound)
		f.assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("list filters by project when one is given", func(t *testing.T) {
		f := newRegistryServiceFixture()
		projectID := uuid.New()
		asset := models.NewAsset(projectID, "Regional transport ring", constants.AssetCategoryTransport, 4)
		f.assetRepo.On("List", mock.Anything,
			mock.MatchedBy(func(filter *uuid.UUID) bool { return filter != nil && *filter == projectID }),
			constants.DefaultPageSize, 0).
			Return([]*models.Asset{asset}, int64(1), nil)

		resp, err := f.sut.ListAssets(ctx, projectID.String(), 1, 0)
		require.NoError(t, err)
		require.Len(t, resp.Assets, 1)
		assert.Equal(t, asset.ID.String(), resp.Assets[0].ID)
	})

	t.Run("list without a project sees everything", func(t *testing.T) {
		f := newRegistryServiceFixture()
		f.assetRepo.On("List", mock.Anything,
			mock.MatchedBy(func(filter *uuid.UUID) bool { return filter == nil }),
			constants.DefaultPageSize, 0).
			Return([]*models.Asset{}, int64(0), nil)

		resp, err := f.sut.ListAssets(ctx, "", 1, 0)
		require.NoError(t, err)
		assert.Empty(t, resp.Assets)
	})
}
