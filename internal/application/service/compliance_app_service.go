package service

import (
	"context"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
	"github.com/rosverk/rosreg/pkg/utils"
)

// ComplianceAppService implements the reference catalog and gap-analysis
// use cases.
type ComplianceAppService interface {
	GetCatalog(ctx context.Context, framework string) (*dto.CatalogResponse, error)
	GetCoverage(ctx context.Context, framework string) (*dto.CoverageResponse, error)
	GetSummary(ctx context.Context) (*dto.ComplianceSummaryResponse, error)
	MapRisk(ctx context.Context, req *dto.MapRiskRequest) (*dto.RiskMappingDTO, error)
	UnmapRisk(ctx context.Context, referenceID, riskID string) error
	MapAction(ctx context.Context, req *dto.MapActionRequest) (*dto.ActionMappingDTO, error)
	UnmapAction(ctx context.Context, referenceID, actionID string) error
	ListMappingsForRisk(ctx context.Context, riskID string) (*dto.RiskMappingsResponse, error)
}

type complianceAppServiceImpl struct {
	referenceRepo repository.ReferenceRepository
	riskRepo      repository.RiskRepository
	actionRepo    repository.ActionRepository
	catalog       service.CatalogSource
	audit         service.AuditService
	logger        logger.Logger
}

// NewComplianceAppService creates the compliance application service.
func NewComplianceAppService(
	referenceRepo repository.ReferenceRepository,
	riskRepo repository.RiskRepository,
	actionRepo repository.ActionRepository,
	catalog service.CatalogSource,
	audit service.AuditService,
	log logger.Logger,
) ComplianceAppService {
	return &complianceAppServiceImpl{
		referenceRepo: referenceRepo,
		riskRepo:      riskRepo,
		actionRepo:    actionRepo,
		catalog:       catalog,
		audit:         audit,
		logger:        log.WithComponent("compliance_service"),
	}
}

// parseFramework validates a framework path parameter.
func parseFramework(value string) (constants.Framework, error) {
	framework := constants.Framework(value)
	for _, known := range constants.ValidFrameworks {
		if framework == known {
			return framework, nil
		}
	}
	return "", errors.ErrInvalidRequest.
		WithMessagef("unknown framework %q", value).
		WithDetails(map[string]string{"framework": "must be one of: nsm, ekom"})
}

func (s *complianceAppServiceImpl) GetCatalog(ctx context.Context, framework string) (*dto.CatalogResponse, error) {
	fw, err := parseFramework(framework)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.GetCatalog(ctx, fw)
	if err != nil {
		return nil, err
	}

	resp := &dto.CatalogResponse{
		Framework: string(fw),
		Items:     make([]*dto.ReferenceItemDTO, 0, len(items)),
	}
	if len(items) > 0 {
		resp.Version = items[0].Version
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.NewReferenceItem(item))
	}
	return resp, nil
}

func (s *complianceAppServiceImpl) GetCoverage(ctx context.Context, framework string) (*dto.CoverageResponse, error) {
	fw, err := parseFramework(framework)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetCatalog(ctx, fw)
	if err != nil {
		return nil, err
	}
	mapped, err := s.referenceRepo.LiveMappedReferenceIDs(ctx, fw)
	if err != nil {
		return nil, err
	}

	report := service.ComputeCoverage(fw, catalog, mapped)

	resp := &dto.CoverageResponse{
		Framework:       string(report.Framework),
		Total:           report.Total,
		Mapped:          report.Mapped,
		CoveragePercent: report.CoveragePercent,
		Items:           make([]*dto.CoverageItemDTO, 0, len(report.Items)),
		Unmapped:        make([]*dto.ReferenceItemDTO, 0, len(report.Unmapped)),
	}
	for _, item := range report.Items {
		resp.Items = append(resp.Items, &dto.CoverageItemDTO{
			ID:       item.Item.ID.String(),
			Code:     item.Item.Code,
			Title:    item.Item.Title,
			Category: item.Item.Category,
			Mapped:   item.Mapped,
		})
	}
	for _, item := range report.Unmapped {
		resp.Unmapped = append(resp.Unmapped, dto.NewReferenceItem(item))
	}

	s.logger.Debug(ctx, "coverage computed",
		logger.String("framework", string(fw)),
		logger.Float64("coverage_percent", report.CoveragePercent))

	return resp, nil
}

// GetSummary reports coverage for every framework side by side.
func (s *complianceAppServiceImpl) GetSummary(ctx context.Context) (*dto.ComplianceSummaryResponse, error) {
	resp := &dto.ComplianceSummaryResponse{
		Frameworks: make([]dto.CoverageSummaryDTO, 0, len(constants.ValidFrameworks)),
	}
	for _, fw := range constants.ValidFrameworks {
		catalog, err := s.catalog.GetCatalog(ctx, fw)
		if err != nil {
			return nil, err
		}
		mapped, err := s.referenceRepo.LiveMappedReferenceIDs(ctx, fw)
		if err != nil {
			return nil, err
		}
		report := service.ComputeCoverage(fw, catalog, mapped)
		resp.Frameworks = append(resp.Frameworks, dto.CoverageSummaryDTO{
			Framework:       string(fw),
			Total:           report.Total,
			Mapped:          report.Mapped,
			CoveragePercent: report.CoveragePercent,
		})
	}
	return resp, nil
}

func (s *complianceAppServiceImpl) MapRisk(ctx context.Context, req *dto.MapRiskRequest) (*dto.RiskMappingDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	referenceID, err := parseUUID(req.ReferenceID, "reference_id")
	if err != nil {
		return nil, err
	}
	riskID, err := parseUUID(req.RiskID, "risk_id")
	if err != nil {
		return nil, err
	}

	if _, err := s.referenceRepo.GetByID(ctx, referenceID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessagef("reference item %s not found", req.ReferenceID)
		}
		return nil, err
	}
	if _, err := s.riskRepo.GetByID(ctx, riskID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessagef("risk %s not found", req.RiskID)
		}
		return nil, err
	}

	mapping := models.NewRiskMapping(referenceID, riskID, req.Note)
	if err := s.referenceRepo.MapRisk(ctx, mapping); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeMappingAdded, actorFromContext(ctx), "reference mapped to risk").
		WithSubject(constants.SubjectTypeMapping, mapping.ID).
		WithResult(constants.AuditResultSuccess).
		WithMetadata(map[string]interface{}{
			"reference_id": referenceID.String(),
			"risk_id":      riskID.String(),
		}))

	return &dto.RiskMappingDTO{
		ID:          mapping.ID.String(),
		ReferenceID: mapping.ReferenceID.String(),
		RiskID:      mapping.RiskID.String(),
		Note:        mapping.Note,
		CreatedAt:   mapping.CreatedAt,
	}, nil
}

func (s *complianceAppServiceImpl) UnmapRisk(ctx context.Context, referenceID, riskID string) error {
	refID, err := parseUUID(referenceID, "reference_id")
	if err != nil {
		return err
	}
	rID, err := parseUUID(riskID, "risk_id")
	if err != nil {
		return err
	}
	if err := s.referenceRepo.UnmapRisk(ctx, refID, rID); err != nil {
		return err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeMappingRemoved, actorFromContext(ctx), "reference unmapped from risk").
		WithSubject(constants.SubjectTypeMapping, refID).
		WithResult(constants.AuditResultSuccess).
		WithMetadata(map[string]interface{}{
			"reference_id": refID.String(),
			"risk_id":      rID.String(),
		}))
	return nil
}

func (s *complianceAppServiceImpl) MapAction(ctx context.Context, req *dto.MapActionRequest) (*dto.ActionMappingDTO, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	referenceID, err := parseUUID(req.ReferenceID, "reference_id")
	if err != nil {
		return nil, err
	}
	actionID, err := parseUUID(req.ActionID, "action_id")
	if err != nil {
		return nil, err
	}

	if _, err := s.referenceRepo.GetByID(ctx, referenceID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessagef("reference item %s not found", req.ReferenceID)
		}
		return nil, err
	}
	if _, err := s.actionRepo.GetByID(ctx, actionID); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessagef("action %s not found", req.ActionID)
		}
		return nil, err
	}

	mapping := models.NewActionMapping(referenceID, actionID, req.Note)
	if err := s.referenceRepo.MapAction(ctx, mapping); err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeMappingAdded, actorFromContext(ctx), "reference mapped to action").
		WithSubject(constants.SubjectTypeMapping, mapping.ID).
		WithResult(constants.AuditResultSuccess).
		WithMetadata(map[string]interface{}{
			"reference_id": referenceID.String(),
			"action_id":    actionID.String(),
		}))

	return &dto.ActionMappingDTO{
		ID:          mapping.ID.String(),
		ReferenceID: mapping.ReferenceID.String(),
		ActionID:    mapping.ActionID.String(),
		Note:        mapping.Note,
		CreatedAt:   mapping.CreatedAt,
	}, nil
}

func (s *complianceAppServiceImpl) UnmapAction(ctx context.Context, referenceID, actionID string) error {
	refID, err := parseUUID(referenceID, "reference_id")
	if err != nil {
		return err
	}
	aID, err := parseUUID(actionID, "action_id")
	if err != nil {
		return err
	}
	if err := s.referenceRepo.UnmapAction(ctx, refID, aID); err != nil {
		return err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeMappingRemoved, actorFromContext(ctx), "reference unmapped from action").
		WithSubject(constants.SubjectTypeMapping, refID).
		WithResult(constants.AuditResultSuccess).
		WithMetadata(map[string]interface{}{
			"reference_id": refID.String(),
			"action_id":    aID.String(),
		}))
	return nil
}

func (s *complianceAppServiceImpl) ListMappingsForRisk(ctx context.Context, riskID string) (*dto.RiskMappingsResponse, error) {
	id, err := parseUUID(riskID, "risk_id")
	if err != nil {
		return nil, err
	}
	mappings, err := s.referenceRepo.ListMappingsForRisk(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &dto.RiskMappingsResponse{Mappings: make([]*dto.RiskMappingDTO, 0, len(mappings))}
	for _, m := range mappings {
		resp.Mappings = append(resp.Mappings, &dto.RiskMappingDTO{
			ID:          m.ID.String(),
			ReferenceID: m.ReferenceID.String(),
			RiskID:      m.RiskID.String(),
			Note:        m.Note,
			CreatedAt:   m.CreatedAt,
		})
	}
	return resp, nil
}
