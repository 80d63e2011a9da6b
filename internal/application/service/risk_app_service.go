package service

import (
	"context"
	"time"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
	"github.com/rosverk/rosreg/pkg/utils"
)

// RiskAppService implements the risk register use cases.
type RiskAppService interface {
	CreateRisk(ctx context.Context, req *dto.CreateRiskRequest) (*dto.RiskResponse, error)
	GetRisk(ctx context.Context, id string) (*dto.RiskResponse, error)
	ListRisks(ctx context.Context, query *dto.RiskListQuery) (*dto.RiskListResponse, error)
	UpdateRisk(ctx context.Context, id string, req *dto.UpdateRiskRequest) (*dto.RiskResponse, error)
	ReassessRisk(ctx context.Context, id string, req *dto.ReassessRiskRequest) (*dto.RiskResponse, error)
	SetTarget(ctx context.Context, id string, req *dto.SetTargetRequest) (*dto.RiskResponse, error)
	ClearTarget(ctx context.Context, id string) (*dto.RiskResponse, error)
	CloseRisk(ctx context.Context, id string) (*dto.RiskResponse, error)
	DeleteRisk(ctx context.Context, id string) error
}

type riskAppServiceImpl struct {
	riskRepo    repository.RiskRepository
	projectRepo repository.ProjectRepository
	assetRepo   repository.AssetRepository
	classifier  service.Classifier
	audit       service.AuditService
	cache       service.CacheService
	logger      logger.Logger
}

// NewRiskAppService creates the risk application service.
func NewRiskAppService(
	riskRepo repository.RiskRepository,
	projectRepo repository.ProjectRepository,
	assetRepo repository.AssetRepository,
	classifier service.Classifier,
	audit service.AuditService,
	cache service.CacheService,
	log logger.Logger,
) RiskAppService {
	return &riskAppServiceImpl{
		riskRepo:    riskRepo,
		projectRepo: projectRepo,
		assetRepo:   assetRepo,
		classifier:  classifier,
		audit:       audit,
		cache:       cache,
		logger:      log.WithComponent("risk_service"),
	}
}

func (s *riskAppServiceImpl) CreateRisk(ctx context.Context, req *dto.CreateRiskRequest) (*dto.RiskResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	// Classification rejects out-of-range ratings before anything is stored.
	if _, err := s.classifier.ClassifyAssessment(req.Current.ToAssessment()); err != nil {
		return nil, err
	}
	if req.Target != nil {
		if _, err := s.classifier.ClassifyAssessment(req.Target.ToAssessment()); err != nil {
			return nil, err
		}
	}

	projectID, err := parseUUID(req.ProjectID, "project_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessagef("project %s not found", req.ProjectID)
		}
		return nil, err
	}

	risk := models.NewRisk(projectID, req.Title, constants.RiskType(req.Type), req.Current.ToAssessment())
	risk.Description = req.Description
	risk.Owner = req.Owner
	if req.Target != nil {
		target := req.Target.ToAssessment()
		risk.Target = &target
	}

	if req.AssetID != nil {
		assetID, err := parseUUID(*req.AssetID, "asset_id")
		if err != nil {
			return nil, err
		}
		asset, err := s.assetRepo.GetByID(ctx, assetID)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.ErrNotFound.WithMessagef("asset %s not found", *req.AssetID)
			}
			return nil, err
		}
		if asset.ProjectID != projectID {
			return nil, errors.ErrInvalidRequest.WithMessage("asset belongs to a different project")
		}
		risk.AssetID = &assetID
	}

	if err := s.riskRepo.Create(ctx, risk); err != nil {
		s.logger.Error(ctx, "failed to create risk", err, logger.String("title", req.Title))
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeRiskCreated, actorFromContext(ctx), risk.Title).
		WithSubject(constants.SubjectTypeRisk, risk.ID).
		WithResult(constants.AuditResultSuccess))

	s.logger.Info(ctx, "risk created",
		logger.String("risk_id", risk.ID.String()),
		logger.Int("score", risk.Current.Score()))

	return s.toResponse(risk)
}

func (s *riskAppServiceImpl) GetRisk(ctx context.Context, id string) (*dto.RiskResponse, error) {
	riskID, err := parseUUID(id, "risk_id")
	if err != nil {
		return nil, err
	}
	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(risk)
}

func (s *riskAppServiceImpl) ListRisks(ctx context.Context, query *dto.RiskListQuery) (*dto.RiskListResponse, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}

	filter := repository.RiskFilter{IncludeClosed: query.IncludeClosed}
	if query.ProjectID != "" {
		id, err := parseUUID(query.ProjectID, "project_id")
		if err != nil {
			return nil, err
		}
		filter.ProjectID = &id
	}
	if query.AssetID != "" {
		id, err := parseUUID(query.AssetID, "asset_id")
		if err != nil {
			return nil, err
		}
		filter.AssetID = &id
	}
	if query.Status != "" {
		status := constants.RiskStatus(query.Status)
		filter.Status = &status
		filter.IncludeClosed = filter.IncludeClosed || status == constants.RiskStatusClosed
	}
	if query.Type != "" {
		riskType := constants.RiskType(query.Type)
		filter.Type = &riskType
	}
	if query.Level != "" {
		min, max, err := s.classifier.ScoreRange(constants.RiskLevel(query.Level))
		if err != nil {
			return nil, err
		}
		filter.MinScore = &min
		filter.MaxScore = &max
	}

	limit, offset := utils.NormalizePagination(query.Page, query.PageSize)
	risks, total, err := s.riskRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.RiskListResponse{
		Risks:      make([]*dto.RiskResponse, 0, len(risks)),
		Pagination: dto.NewPagination(offset/limit+1, limit, total),
	}
	for _, risk := range risks {
		converted, err := s.toResponse(risk)
		if err != nil {
			return nil, err
		}
		resp.Risks = append(resp.Risks, converted)
	}
	return resp, nil
}

func (s *riskAppServiceImpl) UpdateRisk(ctx context.Context, id string, req *dto.UpdateRiskRequest) (*dto.RiskResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	riskID, err := parseUUID(id, "risk_id")
	if err != nil {
		return nil, err
	}
	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	if risk.IsClosed() {
		return nil, errors.ErrConflict.WithMessage("closed risks cannot be updated")
	}

	if req.Title != nil {
		risk.Title = *req.Title
	}
	if req.Description != nil {
		risk.Description = *req.Description
	}
	if req.Type != nil {
		risk.Type = constants.RiskType(*req.Type)
	}
	if req.Status != nil {
		risk.Status = constants.RiskStatus(*req.Status)
	}
	if req.Owner != nil {
		risk.Owner = *req.Owner
	}
	risk.UpdatedAt = time.Now().UTC()

	if err := s.riskRepo.Update(ctx, risk); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeRiskUpdated, actorFromContext(ctx), risk.Title).
		WithSubject(constants.SubjectTypeRisk, risk.ID).
		WithResult(constants.AuditResultSuccess))

	return s.toResponse(risk)
}

func (s *riskAppServiceImpl) ReassessRisk(ctx context.Context, id string, req *dto.ReassessRiskRequest) (*dto.RiskResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.classifier.ClassifyAssessment(req.Current.ToAssessment()); err != nil {
		return nil, err
	}
	riskID, err := parseUUID(id, "risk_id")
	if err != nil {
		return nil, err
	}
	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	if risk.IsClosed() {
		return nil, errors.ErrConflict.WithMessage("closed risks cannot be reassessed")
	}

	previous := risk.Current
	risk.Reassess(req.Current.ToAssessment(), time.Now().UTC())
	if err := s.riskRepo.Update(ctx, risk); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeRiskReassessed, actorFromContext(ctx), risk.Title).
		WithSubject(constants.SubjectTypeRisk, risk.ID).
		WithResult(constants.AuditResultSuccess).
		WithMetadata(map[string]interface{}{
			"previous_score": previous.Score(),
			"new_score":      risk.Current.Score(),
		}))

	s.logger.Info(ctx, "risk reassessed",
		logger.String("risk_id", risk.ID.String()),
		logger.Int("previous_score", previous.Score()),
		logger.Int("new_score", risk.Current.Score()))

	return s.toResponse(risk)
}

func (s *riskAppServiceImpl) SetTarget(ctx context.Context, id string, req *dto.SetTargetRequest) (*dto.RiskResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := s.classifier.ClassifyAssessment(req.Target.ToAssessment()); err != nil {
		return nil, err
	}
	riskID, err := parseUUID(id, "risk_id")
	if err != nil {
		return nil, err
	}
	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	if risk.IsClosed() {
		return nil, errors.ErrConflict.WithMessage("closed risks cannot be updated")
	}

	risk.SetTarget(req.Target.ToAssessment(), time.Now().UTC())
	if err := s.riskRepo.Update(ctx, risk); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeRiskUpdated, actorFromContext(ctx), "target assessment set").
		WithSubject(constants.SubjectTypeRisk, risk.ID).
		WithResult(constants.AuditResultSuccess))

	return s.toResponse(risk)
}

func (s *riskAppServiceImpl) ClearTarget(ctx context.Context, id string) (*dto.RiskResponse, error) {
	riskID, err := parseUUID(id, "risk_id")
	if err != nil {
		return nil, err
	}
	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return nil, err
	}

	risk.ClearTarget(time.Now().UTC())
	if err := s.riskRepo.Update(ctx, risk); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeRiskUpdated, actorFromContext(ctx), "target assessment cleared").
		WithSubject(constants.SubjectTypeRisk, risk.ID).
		WithResult(constants.AuditResultSuccess))

	return s.toResponse(risk)
}

func (s *riskAppServiceImpl) CloseRisk(ctx context.Context, id string) (*dto.RiskResponse, error) {
	riskID, err := parseUUID(id, "risk_id")
	if err != nil {
		return nil, err
	}
	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return nil, err
	}
	if risk.IsClosed() {
		return nil, errors.ErrConflict.WithMessage("risk is already closed")
	}

	risk.Close(time.Now().UTC())
	if err := s.riskRepo.Update(ctx, risk); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeRiskClosed, actorFromContext(ctx), risk.Title).
		WithSubject(constants.SubjectTypeRisk, risk.ID).
		WithResult(constants.AuditResultSuccess))

	s.logger.Info(ctx, "risk closed", logger.String("risk_id", risk.ID.String()))
	return s.toResponse(risk)
}

func (s *riskAppServiceImpl) DeleteRisk(ctx context.Context, id string) error {
	riskID, err := parseUUID(id, "risk_id")
	if err != nil {
		return err
	}
	if _, err := s.riskRepo.GetByID(ctx, riskID); err != nil {
		return err
	}
	if err := s.riskRepo.SoftDelete(ctx, riskID); err != nil {
		return err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeRiskDeleted, actorFromContext(ctx), "risk soft-deleted").
		WithSubject(constants.SubjectTypeRisk, riskID).
		WithResult(constants.AuditResultSuccess))

	s.logger.Info(ctx, "risk deleted", logger.String("risk_id", riskID.String()))
	return nil
}

// toResponse converts a risk to its API shape, classifying the stored
// assessments on the way out.
func (s *riskAppServiceImpl) toResponse(risk *models.Risk) (*dto.RiskResponse, error) {
	currentCls, err := s.classifier.ClassifyAssessment(risk.Current)
	if err != nil {
		return nil, errors.ErrInternal.WithError(err).
			WithMessagef("risk %s carries an invalid stored assessment", risk.ID)
	}

	resp := &dto.RiskResponse{
		ID:             risk.ID.String(),
		ProjectID:      risk.ProjectID.String(),
		Title:          risk.Title,
		Description:    risk.Description,
		Type:           string(risk.Type),
		Status:         string(risk.Status),
		Owner:          risk.Owner,
		Current:        dto.NewClassifiedAssessment(risk.Current, currentCls),
		LastReviewedAt: risk.LastReviewedAt,
		CreatedAt:      risk.CreatedAt,
		UpdatedAt:      risk.UpdatedAt,
	}
	if risk.AssetID != nil {
		assetID := risk.AssetID.String()
		resp.AssetID = &assetID
	}
	if risk.Target != nil {
		targetCls, err := s.classifier.ClassifyAssessment(*risk.Target)
		if err != nil {
			return nil, errors.ErrInternal.WithError(err).
				WithMessagef("risk %s carries an invalid stored target", risk.ID)
		}
		target := dto.NewClassifiedAssessment(*risk.Target, targetCls)
		resp.Target = &target
	}
	return resp, nil
}
