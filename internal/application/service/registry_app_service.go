package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
	"github.com/rosverk/rosreg/pkg/utils"
)

// RegistryAppService manages assessment projects and the assets risks are
// recorded against. Projects and assets are never deleted; risks keep
// referring to them for as long as the register exists.
type RegistryAppService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, page, pageSize int) (*dto.ProjectListResponse, error)
	UpdateProject(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)

	CreateAsset(ctx context.Context, req *dto.CreateAssetRequest) (*dto.AssetResponse, error)
	GetAsset(ctx context.Context, id string) (*dto.AssetResponse, error)
	ListAssets(ctx context.Context, projectID string, page, pageSize int) (*dto.AssetListResponse, error)
	UpdateAsset(ctx context.Context, id string, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error)
}

type registryAppServiceImpl struct {
	projectRepo repository.ProjectRepository
	assetRepo   repository.AssetRepository
	audit       service.AuditService
	logger      logger.Logger
}

// NewRegistryAppService creates the registry application service.
func NewRegistryAppService(
	projectRepo repository.ProjectRepository,
	assetRepo repository.AssetRepository,
	audit service.AuditService,
	log logger.Logger,
) RegistryAppService {
	return &registryAppServiceImpl{
		projectRepo: projectRepo,
		assetRepo:   assetRepo,
		audit:       audit,
		logger:      log.WithComponent("registry_service"),
	}
}

func (s *registryAppServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	project := models.NewProject(req.Name, req.Description, req.Owner)
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeProjectCreated, actorFromContext(ctx), "project created").
		WithSubject(constants.SubjectTypeProject, project.ID))

	s.logger.Info(ctx, "Project created",
		logger.String("project_id", project.ID.String()),
		logger.String("name", project.Name))

	return dto.NewProject(project), nil
}

func (s *registryAppServiceImpl) GetProject(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	projectID, err := parseUUID(id, "project_id")
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return dto.NewProject(project), nil
}

func (s *registryAppServiceImpl) ListProjects(ctx context.Context, page, pageSize int) (*dto.ProjectListResponse, error) {
	limit, offset := utils.NormalizePagination(page, pageSize)
	projects, total, err := s.projectRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		items = append(items, dto.NewProject(project))
	}
	return &dto.ProjectListResponse{
		Projects:   items,
		Pagination: dto.NewPagination(offset/limit+1, limit, total),
	}, nil
}

func (s *registryAppServiceImpl) UpdateProject(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	projectID, err := parseUUID(id, "project_id")
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Owner != nil {
		project.Owner = *req.Owner
	}
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeProjectUpdated, actorFromContext(ctx), "project updated").
		WithSubject(constants.SubjectTypeProject, project.ID))

	return dto.NewProject(project), nil
}

func (s *registryAppServiceImpl) CreateAsset(ctx context.Context, req *dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	projectID, err := parseUUID(req.ProjectID, "project_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessagef("project %s does not exist", projectID)
		}
		return nil, err
	}

	asset := models.NewAsset(projectID, req.Name, constants.AssetCategory(req.Category), req.Criticality)
	asset.Location = req.Location
	asset.Description = req.Description
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeAssetCreated, actorFromContext(ctx), "asset registered").
		WithSubject(constants.SubjectTypeAsset, asset.ID).
		WithMetadata(map[string]interface{}{"project_id": projectID.String()}))

	s.logger.Info(ctx, "Asset registered",
		logger.String("asset_id", asset.ID.String()),
		logger.String("project_id", projectID.String()),
		logger.String("category", string(asset.Category)))

	return dto.NewAsset(asset), nil
}

func (s *registryAppServiceImpl) GetAsset(ctx context.Context, id string) (*dto.AssetResponse, error) {
	assetID, err := parseUUID(id, "asset_id")
	if err != nil {
		return nil, err
	}
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return dto.NewAsset(asset), nil
}

func (s *registryAppServiceImpl) ListAssets(ctx context.Context, projectID string, page, pageSize int) (*dto.AssetListResponse, error) {
	var filter *uuid.UUID
	if projectID != "" {
		id, err := parseUUID(projectID, "project_id")
		if err != nil {
			return nil, err
		}
		filter = &id
	}

	limit, offset := utils.NormalizePagination(page, pageSize)
	assets, total, err := s.assetRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AssetResponse, 0, len(assets))
	for _, asset := range assets {
		items = append(items, dto.NewAsset(asset))
	}
	return &dto.AssetListResponse{
		Assets:     items,
		Pagination: dto.NewPagination(offset/limit+1, limit, total),
	}, nil
}

func (s *registryAppServiceImpl) UpdateAsset(ctx context.Context, id string, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	assetID, err := parseUUID(id, "asset_id")
	if err != nil {
		return nil, err
	}

	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Category != nil {
		asset.Category = constants.AssetCategory(*req.Category)
	}
	if req.Criticality != nil {
		asset.Criticality = *req.Criticality
	}
	if req.Location != nil {
		asset.Location = *req.Location
	}
	if req.Description != nil {
		asset.Description = *req.Description
	}
	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeAssetUpdated, actorFromContext(ctx), "asset updated").
		WithSubject(constants.SubjectTypeAsset, asset.ID))

	return dto.NewAsset(asset), nil
}
