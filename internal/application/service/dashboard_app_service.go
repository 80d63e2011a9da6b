package service

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// DashboardMetrics is the slice of the metrics registry the dashboard
// service reports into.
type DashboardMetrics interface {
	RecordMatrixBuild(view string)
	RecordAlertEvaluation()
	SetActiveAlerts(severity string, count int)
}

// DashboardAppService serves the aggregate read models: matrix, summary,
// distribution, alerts. Aggregates are recomputed from the live register
// and cached briefly; every register write invalidates the cache.
type DashboardAppService interface {
	GetSummary(ctx context.Context) (*dto.SummaryResponse, error)
	GetMatrix(ctx context.Context, view string) (*dto.MatrixResponse, error)
	GetDistribution(ctx context.Context) (*dto.DistributionResponse, error)
	GetAlerts(ctx context.Context) (*dto.AlertsResponse, error)
	GetAlertCounts(ctx context.Context) (*dto.AlertCountsResponse, error)
}

type dashboardAppServiceImpl struct {
	riskRepo      repository.RiskRepository
	actionRepo    repository.ActionRepository
	supplierRepo  repository.SupplierRepository
	reviewRepo    repository.ReviewRepository
	referenceRepo repository.ReferenceRepository
	catalog       service.CatalogSource
	classifier    service.Classifier
	aggregator    service.Aggregator
	ruleSet       service.RuleSet
	cache         service.CacheService
	cacheTTL      time.Duration
	metrics       DashboardMetrics
	logger        logger.Logger
}

// NewDashboardAppService creates the dashboard application service.
func NewDashboardAppService(
	riskRepo repository.RiskRepository,
	actionRepo repository.ActionRepository,
	supplierRepo repository.SupplierRepository,
	reviewRepo repository.ReviewRepository,
	referenceRepo repository.ReferenceRepository,
	catalog service.CatalogSource,
	classifier service.Classifier,
	ruleSet service.RuleSet,
	cache service.CacheService,
	cacheTTL time.Duration,
	metrics DashboardMetrics,
	log logger.Logger,
) DashboardAppService {
	if cacheTTL <= 0 {
		cacheTTL = constants.DashboardCacheTTL
	}
	return &dashboardAppServiceImpl{
		riskRepo:      riskRepo,
		actionRepo:    actionRepo,
		supplierRepo:  supplierRepo,
		reviewRepo:    reviewRepo,
		referenceRepo: referenceRepo,
		catalog:       catalog,
		classifier:    classifier,
		aggregator:    service.NewAggregator(classifier),
		ruleSet:       ruleSet,
		cache:         cache,
		cacheTTL:      cacheTTL,
		metrics:       metrics,
		logger:        log.WithComponent("dashboard_service"),
	}
}

func (s *dashboardAppServiceImpl) GetMatrix(ctx context.Context, view string) (*dto.MatrixResponse, error) {
	matrixView := service.MatrixView(view)
	if view == "" {
		matrixView = service.MatrixViewCurrent
	}
	if !matrixView.Valid() {
		return nil, errors.ErrInvalidRequest.
			WithMessagef("unknown matrix view %q", view).
			WithDetails(map[string]string{"view": "must be current or target"})
	}

	cacheKey := constants.CacheKeyMatrixPrefix + string(matrixView)
	var cached dto.MatrixResponse
	if s.cacheHit(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	risks, err := s.riskRepo.ListLive(ctx)
	if err != nil {
		return nil, err
	}
	matrix, err := s.aggregator.Build(risks, matrixView)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordMatrixBuild(string(matrixView))
	}

	resp := dto.NewMatrixResponse(matrix)
	s.cacheStore(ctx, cacheKey, resp)
	return resp, nil
}

func (s *dashboardAppServiceImpl) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	var cached dto.SummaryResponse
	if s.cacheHit(ctx, constants.CacheKeyDashboardSummary, &cached) {
		return &cached, nil
	}

	snap, err := s.collectSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.SummaryResponse{
		TotalLiveRisks: len(snap.Risks),
		AlertCounts:    map[string]int{},
	}
	for _, risk := range snap.Risks {
		if risk.IsHighBand() {
			resp.HighRisks++
		}
	}
	for _, action := range snap.Actions {
		if action.IsOpen() {
			resp.OpenActions++
		}
		if action.IsOverdue(now) {
			resp.OverdueActions++
		}
	}
	resp.PendingReviews = len(snap.Reviews)

	alerts := s.evaluateAlerts(snap, now)
	for _, alert := range alerts {
		resp.AlertCounts[string(alert.Severity)]++
	}

	coverage, err := s.coverageSummaries(ctx)
	if err != nil {
		return nil, err
	}
	resp.Coverage = coverage

	s.cacheStore(ctx, constants.CacheKeyDashboardSummary, resp)
	return resp, nil
}

func (s *dashboardAppServiceImpl) GetDistribution(ctx context.Context) (*dto.DistributionResponse, error) {
	var cached dto.DistributionResponse
	if s.cacheHit(ctx, constants.CacheKeyDistribution, &cached) {
		return &cached, nil
	}

	risks, err := s.riskRepo.ListLive(ctx)
	if err != nil {
		return nil, err
	}

	levelCounts := make(map[constants.RiskLevel]int)
	statusCounts := make(map[constants.RiskStatus]int)
	typeCounts := make(map[constants.RiskType]int)
	for _, risk := range risks {
		cls, err := s.classifier.ClassifyAssessment(risk.Current)
		if err != nil {
			return nil, err
		}
		levelCounts[cls.Level]++
		statusCounts[risk.Status]++
		typeCounts[risk.Type]++
	}

	resp := &dto.DistributionResponse{}
	for _, level := range []constants.RiskLevel{
		constants.RiskLevelHigh,
		constants.RiskLevelMedium,
		constants.RiskLevelLow,
		constants.RiskLevelAcceptable,
	} {
		resp.ByLevel = append(resp.ByLevel, dto.LevelCountDTO{
			Level: string(level),
			Color: string(constants.LevelColor(level)),
			Count: levelCounts[level],
		})
	}
	for _, status := range constants.ValidRiskStatuses {
		if status == constants.RiskStatusClosed {
			continue
		}
		resp.ByStatus = append(resp.ByStatus, dto.NamedCountDTO{Name: string(status), Count: statusCounts[status]})
	}
	for _, riskType := range constants.ValidRiskTypes {
		resp.ByType = append(resp.ByType, dto.NamedCountDTO{Name: string(riskType), Count: typeCounts[riskType]})
	}

	s.cacheStore(ctx, constants.CacheKeyDistribution, resp)
	return resp, nil
}

func (s *dashboardAppServiceImpl) GetAlerts(ctx context.Context) (*dto.AlertsResponse, error) {
	snap, err := s.collectSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	alerts := s.evaluateAlerts(snap, time.Now().UTC())

	resp := &dto.AlertsResponse{
		Alerts: make([]*dto.AlertDTO, 0, len(alerts)),
		Counts: map[string]int{},
	}
	for _, alert := range alerts {
		resp.Alerts = append(resp.Alerts, dto.NewAlert(alert))
		resp.Counts[string(alert.Severity)]++
	}
	return resp, nil
}

func (s *dashboardAppServiceImpl) GetAlertCounts(ctx context.Context) (*dto.AlertCountsResponse, error) {
	snap, err := s.collectSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	alerts := s.evaluateAlerts(snap, time.Now().UTC())

	resp := &dto.AlertCountsResponse{
		Counts: make(map[string]int, len(constants.ValidAlertRules)),
		Total:  len(alerts),
	}
	for _, rule := range constants.ValidAlertRules {
		resp.Counts[string(rule)] = 0
	}
	for _, alert := range alerts {
		resp.Counts[string(alert.Rule)]++
	}
	return resp, nil
}

// collectSnapshot fans out the four record-set reads concurrently.
func (s *dashboardAppServiceImpl) collectSnapshot(ctx context.Context) (service.AlertSnapshot, error) {
	var snap service.AlertSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		risks, err := s.riskRepo.ListLive(gctx)
		snap.Risks = risks
		return err
	})
	g.Go(func() error {
		actions, err := s.actionRepo.ListAll(gctx)
		snap.Actions = actions
		return err
	})
	g.Go(func() error {
		suppliers, err := s.supplierRepo.ListAll(gctx)
		snap.Suppliers = suppliers
		return err
	})
	g.Go(func() error {
		reviews, err := s.reviewRepo.ListPending(gctx)
		snap.Reviews = reviews
		return err
	})

	if err := g.Wait(); err != nil {
		return service.AlertSnapshot{}, err
	}
	return snap, nil
}

// evaluateAlerts runs the rule set and reports the outcome to metrics.
func (s *dashboardAppServiceImpl) evaluateAlerts(snap service.AlertSnapshot, now time.Time) []service.Alert {
	alerts := s.ruleSet.Evaluate(snap, now)
	if s.metrics != nil {
		s.metrics.RecordAlertEvaluation()
		counts := map[constants.AlertSeverity]int{}
		for _, alert := range alerts {
			counts[alert.Severity]++
		}
		for _, severity := range []constants.AlertSeverity{
			constants.AlertSeverityDanger,
			constants.AlertSeverityWarning,
			constants.AlertSeverityInfo,
		} {
			s.metrics.SetActiveAlerts(string(severity), counts[severity])
		}
	}
	return alerts
}

func (s *dashboardAppServiceImpl) coverageSummaries(ctx context.Context) ([]dto.CoverageSummaryDTO, error) {
	summaries := make([]dto.CoverageSummaryDTO, 0, len(constants.ValidFrameworks))
	for _, framework := range constants.ValidFrameworks {
		catalog, err := s.catalog.GetCatalog(ctx, framework)
		if err != nil {
			return nil, err
		}
		mapped, err := s.referenceRepo.LiveMappedReferenceIDs(ctx, framework)
		if err != nil {
			return nil, err
		}
		report := service.ComputeCoverage(framework, catalog, mapped)
		summaries = append(summaries, dto.CoverageSummaryDTO{
			Framework:       string(framework),
			Total:           report.Total,
			Mapped:          report.Mapped,
			CoveragePercent: report.CoveragePercent,
		})
	}
	return summaries, nil
}

// cacheHit loads a cached aggregate into out, reporting whether it was
// present. Cache failures degrade to a rebuild, never to an error.
func (s *dashboardAppServiceImpl) cacheHit(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn(ctx, "dropping undecodable cache entry", logger.String("key", key))
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

func (s *dashboardAppServiceImpl) cacheStore(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn(ctx, "failed to store cache entry", logger.String("key", key), logger.Error(err))
	}
}

