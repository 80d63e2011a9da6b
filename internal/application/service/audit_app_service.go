package service

import (
	"context"
	"time"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
	"github.com/rosverk/rosreg/pkg/utils"
)

// AuditQuery carries the audit trail list parameters after binding.
type AuditQuery struct {
	EventType   string `form:"event_type"`
	Actor       string `form:"actor"`
	SubjectType string `form:"subject_type"`
	SubjectID   string `form:"subject_id" validate:"omitempty,uuid"`
	From        string `form:"from"`
	To          string `form:"to"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

// AuditAppService exposes the audit trail read side. Writes go through
// the domain AuditService port and never through this service.
type AuditAppService interface {
	ListEvents(ctx context.Context, query *AuditQuery) (*dto.AuditListResponse, error)
}

type auditAppServiceImpl struct {
	auditRepo repository.AuditRepository
	logger    logger.Logger
}

// NewAuditAppService creates the audit trail application service.
func NewAuditAppService(auditRepo repository.AuditRepository, log logger.Logger) AuditAppService {
	return &auditAppServiceImpl{
		auditRepo: auditRepo,
		logger:    log.WithComponent("audit_service"),
	}
}

func (s *auditAppServiceImpl) ListEvents(ctx context.Context, query *AuditQuery) (*dto.AuditListResponse, error) {
	if err := utils.ValidateStruct(query); err != nil {
		return nil, err
	}

	filter, err := buildAuditFilter(query)
	if err != nil {
		return nil, err
	}

	limit, offset := utils.NormalizePagination(query.Page, query.PageSize)
	entries, total, err := s.auditRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toAuditEntry(entry))
	}
	return &dto.AuditListResponse{
		Entries:    items,
		Pagination: dto.NewPagination(offset/limit+1, limit, total),
	}, nil
}

func buildAuditFilter(query *AuditQuery) (repository.AuditFilter, error) {
	var filter repository.AuditFilter

	if query.EventType != "" {
		eventType := constants.AuditEventType(query.EventType)
		filter.EventType = &eventType
	}
	if query.Actor != "" {
		filter.Actor = &query.Actor
	}
	if query.SubjectType != "" {
		subjectType := constants.SubjectType(query.SubjectType)
		filter.SubjectType = &subjectType
	}
	if query.SubjectID != "" {
		id, err := parseUUID(query.SubjectID, "subject_id")
		if err != nil {
			return filter, err
		}
		filter.SubjectID = &id
	}
	if query.From != "" {
		from, err := time.Parse(time.RFC3339, query.From)
		if err != nil {
			return filter, errors.ErrInvalidRequest.
				WithMessage("from must be an RFC 3339 timestamp").
				WithError(err)
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse(time.RFC3339, query.To)
		if err != nil {
			return filter, errors.ErrInvalidRequest.
				WithMessage("to must be an RFC 3339 timestamp").
				WithError(err)
		}
		filter.To = &to
	}

	return filter, nil
}

func toAuditEntry(entry *models.AuditLog) *dto.AuditEntryResponse {
	resp := &dto.AuditEntryResponse{
		EventID:     entry.EventID.String(),
		EventType:   string(entry.EventType),
		Actor:       entry.Actor,
		SubjectType: string(entry.SubjectType),
		Result:      string(entry.Result),
		Message:     entry.Message,
		TraceID:     entry.TraceID,
		Timestamp:   entry.Timestamp,
	}
	if entry.SubjectID != nil {
		resp.SubjectID = entry.SubjectID.String()
	}
	return resp
}
