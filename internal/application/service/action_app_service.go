package service

import (
	"context"
	"sort"
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

// ActionAppService implements the remediation action use cases.
type ActionAppService interface {
	CreateAction(ctx context.Context, req *dto.CreateActionRequest) (*dto.ActionResponse, error)
	GetAction(ctx context.Context, id string) (*dto.ActionResponse, error)
	ListActions(ctx context.Context, query *dto.ActionListQuery) (*dto.ActionListResponse, error)
	ListActionsForRisk(ctx context.Context, riskID string) (*dto.ActionListResponse, error)
	ListOverdueActions(ctx context.Context) (*dto.ActionListResponse, error)
	UpdateAction(ctx context.Context, id string, req *dto.UpdateActionRequest) (*dto.ActionResponse, error)
	SetActionStatus(ctx context.Context, id string, req *dto.ActionStatusRequest) (*dto.ActionResponse, error)
	DeleteAction(ctx context.Context, id string) error
}

type actionAppServiceImpl struct {
	actionRepo repository.ActionRepository
	riskRepo   repository.RiskRepository
	audit      service.AuditService
	cache      service.CacheService
	logger     logger.Logger
}

// NewActionAppService creates the action application service.
func NewActionAppService(
	actionRepo repository.ActionRepository,
	riskRepo repository.RiskRepository,
	audit service.AuditService,
	cache service.CacheService,
	log logger.Logger,
) ActionAppService {
	return &actionAppServiceImpl{
		actionRepo: actionRepo,
		riskRepo:   riskRepo,
		audit:      audit,
		cache:      cache,
		logger:     log.WithComponent("action_service"),
	}
}

func (s *actionAppServiceImpl) CreateAction(ctx context.Context, req *dto.CreateActionRequest) (*dto.ActionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	riskID, err := parseUUID(req.RiskID, "risk_id")
	if err != nil {
		return nil, err
	}
	risk, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessagef("risk %s not found", req.RiskID)
		}
		return nil, err
	}
	if risk.IsClosed() {
		return nil, errors.ErrConflict.WithMessage("actions cannot be added to a closed risk")
	}

	action := models.NewAction(riskID, req.Title, constants.ActionPriority(req.Priority), req.Responsible)
	action.Description = req.Description
	action.DueDate = req.DueDate

	if err := s.actionRepo.Create(ctx, action); err != nil {
		s.logger.Error(ctx, "failed to create action", err, logger.String("risk_id", req.RiskID))
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeActionCreated, actorFromContext(ctx), action.Title).
		WithSubject(constants.SubjectTypeAction, action.ID).
		WithResult(constants.AuditResultSuccess))

	s.logger.Info(ctx, "action created",
		logger.String("action_id", action.ID.String()),
		logger.String("risk_id", riskID.String()))

	return toActionResponse(action, time.Now().UTC()), nil
}

func (s *actionAppServiceImpl) GetAction(ctx context.Context, id string) (*dto.ActionResponse, error) {
	actionID, err := parseUUID(id, "action_id")
	if err != nil {
		return nil, err
	}
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	return toActionResponse(action, time.Now().UTC()), nil
}

func (s *actionAppServiceImpl) ListActions(ctx context.Context, query *dto.ActionListQuery) (*dto.ActionListResponse, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}

	filter := repository.ActionFilter{}
	if query.RiskID != "" {
		id, err := parseUUID(query.RiskID, "risk_id")
		if err != nil {
			return nil, err
		}
		filter.RiskID = &id
	}
	if query.Status != "" {
		status := constants.ActionStatus(query.Status)
		filter.Status = &status
	}
	if query.Priority != "" {
		priority := constants.ActionPriority(query.Priority)
		filter.Priority = &priority
	}

	limit, offset := utils.NormalizePagination(query.Page, query.PageSize)
	actions, total, err := s.actionRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.ActionListResponse{
		Actions:    make([]*dto.ActionResponse, 0, len(actions)),
		Pagination: dto.NewPagination(offset/limit+1, limit, total),
	}
	for _, action := range actions {
		resp.Actions = append(resp.Actions, toActionResponse(action, now))
	}
	return resp, nil
}

func (s *actionAppServiceImpl) ListActionsForRisk(ctx context.Context, riskID string) (*dto.ActionListResponse, error) {
	id, err := parseUUID(riskID, "risk_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.riskRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	actions, err := s.actionRepo.ListByRisk(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.ActionListResponse{
		Actions:    make([]*dto.ActionResponse, 0, len(actions)),
		Pagination: dto.NewPagination(1, len(actions), int64(len(actions))),
	}
	for _, action := range actions {
		resp.Actions = append(resp.Actions, toActionResponse(action, now))
	}
	return resp, nil
}

// ListOverdueActions returns every action past its due date and not yet
// done, longest overdue first.
func (s *actionAppServiceImpl) ListOverdueActions(ctx context.Context) (*dto.ActionListResponse, error) {
	actions, err := s.actionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	overdue := make([]*models.Action, 0)
	for _, action := range actions {
		if action.IsOverdue(now) {
			overdue = append(overdue, action)
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		if overdue[i].DueDate.Equal(*overdue[j].DueDate) {
			return overdue[i].CreatedAt.Before(overdue[j].CreatedAt)
		}
		return overdue[i].DueDate.Before(*overdue[j].DueDate)
	})

	resp := &dto.ActionListResponse{
		Actions:    make([]*dto.ActionResponse, 0, len(overdue)),
		Pagination: dto.NewPagination(1, len(overdue), int64(len(overdue))),
	}
	for _, action := range overdue {
		resp.Actions = append(resp.Actions, toActionResponse(action, now))
	}
	return resp, nil
}

func (s *actionAppServiceImpl) UpdateAction(ctx context.Context, id string, req *dto.UpdateActionRequest) (*dto.ActionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	actionID, err := parseUUID(id, "action_id")
	if err != nil {
		return nil, err
	}
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		action.Title = *req.Title
	}
	if req.Description != nil {
		action.Description = *req.Description
	}
	if req.Priority != nil {
		action.Priority = constants.ActionPriority(*req.Priority)
	}
	if req.Responsible != nil {
		action.Responsible = *req.Responsible
	}
	if req.ClearDue {
		action.DueDate = nil
	} else if req.DueDate != nil {
		action.DueDate = req.DueDate
	}
	action.UpdatedAt = time.Now().UTC()

	if err := s.actionRepo.Update(ctx, action); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeActionUpdated, actorFromContext(ctx), action.Title).
		WithSubject(constants.SubjectTypeAction, action.ID).
		WithResult(constants.AuditResultSuccess))

	return toActionResponse(action, time.Now().UTC()), nil
}

func (s *actionAppServiceImpl) SetActionStatus(ctx context.Context, id string, req *dto.ActionStatusRequest) (*dto.ActionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	actionID, err := parseUUID(id, "action_id")
	if err != nil {
		return nil, err
	}
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return nil, err
	}

	previous := action.Status
	action.SetStatus(constants.ActionStatus(req.Status), time.Now().UTC())
	if err := s.actionRepo.Update(ctx, action); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeActionStatusChanged, actorFromContext(ctx), action.Title).
		WithSubject(constants.SubjectTypeAction, action.ID).
		WithResult(constants.AuditResultSuccess).
		WithMetadata(map[string]interface{}{
			"previous_status": string(previous),
			"new_status":      string(action.Status),
		}))

	s.logger.Info(ctx, "action status changed",
		logger.String("action_id", action.ID.String()),
		logger.String("status", string(action.Status)))

	return toActionResponse(action, time.Now().UTC()), nil
}

func (s *actionAppServiceImpl) DeleteAction(ctx context.Context, id string) error {
	actionID, err := parseUUID(id, "action_id")
	if err != nil {
		return err
	}
	action, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return err
	}
	if err := s.actionRepo.Delete(ctx, actionID); err != nil {
		return err
	}

	invalidateDashboard(ctx, s.cache)
	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeActionDeleted, actorFromContext(ctx), action.Title).
		WithSubject(constants.SubjectTypeAction, actionID).
		WithResult(constants.AuditResultSuccess))

	return nil
}

// toActionResponse converts an action to its API shape, deriving the
// overdue flag at the given instant.
func toActionResponse(action *models.Action, now time.Time) *dto.ActionResponse {
	return &dto.ActionResponse{
		ID:          action.ID.String(),
		RiskID:      action.RiskID.String(),
		Title:       action.Title,
		Description: action.Description,
		Priority:    string(action.Priority),
		Responsible: action.Responsible,
		DueDate:     action.DueDate,
		Status:      string(action.Status),
		Overdue:     action.IsOverdue(now),
		CompletedAt: action.CompletedAt,
		CreatedAt:   action.CreatedAt,
		UpdatedAt:   action.UpdatedAt,
	}
}
