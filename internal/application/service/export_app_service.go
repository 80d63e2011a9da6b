package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
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

// ExportMetrics records export counters.
type ExportMetrics interface {
	RecordExport(format string)
}

// ExportAppService renders register exports and serves them back against
// short-lived download tokens. The rendered document is stored once; the
// token is a signed capability, so downloads need no session state.
type ExportAppService interface {
	RegisterExport(ctx context.Context, req *dto.ExportRequest) (*dto.ExportRegisterResponse, error)
	Download(ctx context.Context, token string) (*dto.ExportArtifact, error)
}

// exportClaims bind a download token to one stored blob. Subject carries
// the export ID; format and scope round-trip so Download can set headers
// without a second lookup.
type exportClaims struct {
	Format string `json:"fmt"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

type exportAppServiceImpl struct {
	riskRepo     repository.RiskRepository
	actionRepo   repository.ActionRepository
	supplierRepo repository.SupplierRepository
	classifier   service.Classifier
	audit        service.AuditService
	cache        service.CacheService
	metrics      ExportMetrics
	secret       []byte
	tokenTTL     time.Duration
	blobTTL      time.Duration
	logger       logger.Logger
}

// NewExportAppService creates the export application service. Non-positive
// TTLs fall back to the package defaults.
func NewExportAppService(
	riskRepo repository.RiskRepository,
	actionRepo repository.ActionRepository,
	supplierRepo repository.SupplierRepository,
	classifier service.Classifier,
	audit service.AuditService,
	cache service.CacheService,
	metrics ExportMetrics,
	tokenSecret string,
	tokenTTL, blobTTL time.Duration,
	log logger.Logger,
) ExportAppService {
	if tokenTTL <= 0 {
		tokenTTL = constants.ExportTokenTTL
	}
	if blobTTL <= 0 {
		blobTTL = constants.ExportBlobTTL
	}
	return &exportAppServiceImpl{
		riskRepo:     riskRepo,
		actionRepo:   actionRepo,
		supplierRepo: supplierRepo,
		classifier:   classifier,
		audit:        audit,
		cache:        cache,
		metrics:      metrics,
		secret:       []byte(tokenSecret),
		tokenTTL:     tokenTTL,
		blobTTL:      blobTTL,
		logger:       log.WithComponent("export_service"),
	}
}

func (s *exportAppServiceImpl) RegisterExport(ctx context.Context, req *dto.ExportRequest) (*dto.ExportRegisterResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	snap, err := s.buildSnapshot(ctx, req.Scope)
	if err != nil {
		return nil, err
	}
	content, err := renderExport(req.Format, snap)
	if err != nil {
		return nil, err
	}

	exportID := uuid.New()
	if err := s.cache.Set(ctx, constants.CacheKeyExportPrefix+exportID.String(), content, s.blobTTL); err != nil {
		s.logger.Error(ctx, "Failed to store export blob", err,
			logger.String("export_id", exportID.String()))
		return nil, errors.ErrCache.WithError(err)
	}

	expiresAt := time.Now().UTC().Add(s.tokenTTL)
	token, err := s.signToken(exportID, req.Format, req.Scope, expiresAt)
	if err != nil {
		return nil, err
	}

	s.audit.LogEvent(ctx, models.NewAuditLog(constants.EventTypeExportGenerated, actorFromContext(ctx), "register export generated").
		WithSubject(constants.SubjectTypeExport, exportID).
		WithMetadata(map[string]interface{}{
			"format":     req.Format,
			"scope":      req.Scope,
			"size_bytes": len(content),
		}))
	if s.metrics != nil {
		s.metrics.RecordExport(req.Format)
	}

	s.logger.Info(ctx, "Register export generated",
		logger.String("export_id", exportID.String()),
		logger.String("format", req.Format),
		logger.String("scope", req.Scope),
		logger.Int("size_bytes", len(content)))

	return &dto.ExportRegisterResponse{
		Token:       token,
		Format:      req.Format,
		Scope:       req.Scope,
		SizeBytes:   len(content),
		ExpiresAt:   expiresAt,
		DownloadURL: "/api/v1/export/download?token=" + url.QueryEscape(token),
	}, nil
}

func (s *exportAppServiceImpl) Download(ctx context.Context, tokenString string) (*dto.ExportArtifact, error) {
	if tokenString == "" {
		return nil, errors.ErrExportToken.WithMessage("download token missing")
	}

	claims := &exportClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrExportToken.WithMessage("download token expired")
		}
		return nil, errors.ErrExportToken.WithError(err)
	}
	if !token.Valid {
		return nil, errors.ErrExportToken
	}

	exportID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.ErrExportToken.WithError(err)
	}

	content, found, err := s.cache.Get(ctx, constants.CacheKeyExportPrefix+exportID.String())
	if err != nil {
		return nil, errors.ErrCache.WithError(err)
	}
	if !found {
		// Valid token, evicted blob: the export outlived its retention.
		return nil, errors.ErrNotFound.WithMessage("export no longer available")
	}

	s.logger.Info(ctx, "Register export downloaded",
		logger.String("export_id", exportID.String()),
		logger.String("format", claims.Format))

	return &dto.ExportArtifact{
		Content:     content,
		ContentType: exportContentType(claims.Format),
		Filename:    exportFilename(claims.Scope, claims.Format, time.Now().UTC()),
	}, nil
}

// buildSnapshot gathers the records a scope covers. Exports are
// historical documents, so closed risks are included; soft-deleted ones
// are not.
func (s *exportAppServiceImpl) buildSnapshot(ctx context.Context, scope string) (*exportSnapshot, error) {
	snap := &exportSnapshot{
		GeneratedAt: time.Now().UTC(),
		Scope:       scope,
	}

	if scopeIncludes(scope, constants.ExportScopeRisks) {
		risks, _, err := s.riskRepo.List(ctx, repository.RiskFilter{IncludeClosed: true}, constants.MaxExportRows, 0)
		if err != nil {
			return nil, err
		}
		rows, err := s.riskRows(risks)
		if err != nil {
			return nil, err
		}
		snap.Risks = rows
	}
	if scopeIncludes(scope, constants.ExportScopeActions) {
		actions, err := s.actionRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		snap.Actions = actionRows(actions)
	}
	if scopeIncludes(scope, constants.ExportScopeSuppliers) {
		suppliers, err := s.supplierRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		snap.Suppliers = supplierRows(suppliers)
	}

	return snap, nil
}

func (s *exportAppServiceImpl) riskRows(risks []*models.Risk) ([]exportRiskRow, error) {
	rows := make([]exportRiskRow, 0, len(risks))
	for _, risk := range risks {
		cls, err := s.classifier.ClassifyAssessment(risk.Current)
		if err != nil {
			return nil, errors.ErrInternal.
				WithMessagef("risk %s has an invalid stored assessment", risk.ID).
				WithError(err)
		}
		row := exportRiskRow{
			ID:          risk.ID.String(),
			Title:       risk.Title,
			Type:        string(risk.Type),
			Status:      string(risk.Status),
			Owner:       risk.Owner,
			Likelihood:  int(risk.Current.Likelihood),
			Consequence: int(risk.Current.Consequence),
			Score:       cls.Score,
			Level:       string(cls.Level),
			CreatedAt:   risk.CreatedAt.UTC().Format(time.RFC3339),
		}
		// The export shows the recorded target, not the effective one:
		// a blank target cell means no reduction is planned.
		if risk.Target != nil {
			tcls, err := s.classifier.ClassifyAssessment(*risk.Target)
			if err != nil {
				return nil, errors.ErrInternal.
					WithMessagef("risk %s has an invalid stored target", risk.ID).
					WithError(err)
			}
			row.TargetLikelihood = int(risk.Target.Likelihood)
			row.TargetConsequence = int(risk.Target.Consequence)
			row.TargetScore = tcls.Score
			row.TargetLevel = string(tcls.Level)
		}
		if risk.LastReviewedAt != nil {
			row.LastReviewedAt = risk.LastReviewedAt.UTC().Format(exportDateLayout)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func actionRows(actions []*models.Action) []exportActionRow {
	rows := make([]exportActionRow, 0, len(actions))
	for _, action := range actions {
		row := exportActionRow{
			ID:          action.ID.String(),
			RiskID:      action.RiskID.String(),
			Title:       action.Title,
			Priority:    string(action.Priority),
			Responsible: action.Responsible,
			Status:      string(action.Status),
		}
		if action.DueDate != nil {
			row.DueDate = action.DueDate.UTC().Format(exportDateLayout)
		}
		if action.CompletedAt != nil {
			row.CompletedAt = action.CompletedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows
}

func supplierRows(suppliers []*models.Supplier) []exportSupplierRow {
	rows := make([]exportSupplierRow, 0, len(suppliers))
	for _, supplier := range suppliers {
		row := exportSupplierRow{
			ID:          supplier.ID.String(),
			Name:        supplier.Name,
			Service:     supplier.Service,
			Criticality: supplier.Criticality,
			Contact:     supplier.Contact,
		}
		if supplier.ContractExpiry != nil {
			row.ContractExpiry = supplier.ContractExpiry.UTC().Format(exportDateLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *exportAppServiceImpl) signToken(exportID uuid.UUID, format, scope string, expiresAt time.Time) (string, error) {
	claims := exportClaims{
		Format: format,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   exportID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.ErrInternal.WithMessage("failed to sign export token").WithError(err)
	}
	return signed, nil
}
