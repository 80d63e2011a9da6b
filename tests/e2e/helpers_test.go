//go:build integration

package e2e

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	appservice "github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/internal/config"
	domainservice "github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/internal/infrastructure/audit"
	"github.com/rosverk/rosreg/internal/infrastructure/catalog"
	"github.com/rosverk/rosreg/internal/infrastructure/monitoring"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/memory"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
	httpiface "github.com/rosverk/rosreg/internal/interfaces/http"
	"github.com/rosverk/rosreg/internal/interfaces/http/handlers"
	"github.com/rosverk/rosreg/pkg/logger"
	"github.com/rosverk/rosreg/sdk/go/rosreg_client"
	"github.com/rosverk/rosreg/tests/fakes"
)

// testStack is the whole service wired on sqlite and an in-process
// cache, served over httptest. The suites drive it through the Go SDK,
// which covers the client and the API in the same pass.
type testStack struct {
	server    *httptest.Server
	client    *rosreg_client.Client
	publisher *fakes.CapturingPublisher
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNoopLogger()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "rosreg.db"),
		},
		Catalog:  config.CatalogConfig{SeedOnStart: true},
		Alerting: config.AlertingConfig{ContractLookaheadDays: 30},
		Cache: config.CacheConfig{
			DashboardTTL: 1,
			CatalogL1TTL: 60,
			CatalogL2TTL: 300,
		},
		Export: config.ExportConfig{
			TokenSecret: "e2e-export-secret",
			TokenTTL:    300,
			BlobTTL:     300,
		},
		Tracing: config.TracingConfig{ServiceName: "rosreg-e2e"},
	}

	db, err := postgres.NewDatabase(ctx, &cfg.Database, log)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, log)
	require.NoError(t, err)

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	cacheService := memory.NewCache()
	publisher := fakes.NewCapturingPublisher(128)

	gormDB := db.GORM()
	projectRepo := postgres.NewProjectRepository(gormDB, log)
	assetRepo := postgres.NewAssetRepository(gormDB, log)
	riskRepo := postgres.NewRiskRepository(gormDB, log)
	actionRepo := postgres.NewActionRepository(gormDB, log)
	supplierRepo := postgres.NewSupplierRepository(gormDB, log)
	reviewRepo := postgres.NewReviewRepository(gormDB, log)
	referenceRepo := postgres.NewReferenceRepository(gormDB, log)
	auditRepo := postgres.NewAuditRepository(gormDB, log)

	auditService := audit.NewAuditService(auditRepo, publisher, metrics, log)

	catalogSource := catalog.NewSource(referenceRepo, cacheService,
		time.Duration(cfg.Cache.CatalogL1TTL)*time.Second,
		time.Duration(cfg.Cache.CatalogL2TTL)*time.Second,
		log,
	)
	seeder := catalog.NewSeeder(referenceRepo, catalogSource, auditService, log)
	require.NoError(t, seeder.Seed(ctx))
	// Seeding publishes its own audit events; start the suites clean.
	publisher.Drain()

	classifier := domainservice.NewDefaultClassifier()
	ruleSet := domainservice.NewRuleSet(cfg.Alerting.ContractLookahead())

	riskSvc := appservice.NewRiskAppService(riskRepo, projectRepo, assetRepo, classifier, auditService, cacheService, log)
	actionSvc := appservice.NewActionAppService(actionRepo, riskRepo, auditService, cacheService, log)
	registrySvc := appservice.NewRegistryAppService(projectRepo, assetRepo, auditService, log)
	supplierSvc := appservice.NewSupplierAppService(supplierRepo, auditService, cacheService, log)
	reviewSvc := appservice.NewReviewAppService(reviewRepo, riskRepo, auditService, cacheService, log)
	complianceSvc := appservice.NewComplianceAppService(referenceRepo, riskRepo, actionRepo, catalogSource, auditService, log)
	dashboardSvc := appservice.NewDashboardAppService(
		riskRepo, actionRepo, supplierRepo, reviewRepo, referenceRepo,
		catalogSource, classifier, ruleSet, cacheService,
		time.Duration(cfg.Cache.DashboardTTL)*time.Second,
		metrics, log,
	)
	exportSvc := appservice.NewExportAppService(
		riskRepo, actionRepo, supplierRepo, classifier, auditService, cacheService, metrics,
		cfg.Export.TokenSecret,
		time.Duration(cfg.Export.TokenTTL)*time.Second,
		time.Duration(cfg.Export.BlobTTL)*time.Second,
		log,
	)
	auditSvc := appservice.NewAuditAppService(auditRepo, log)

	router := httpiface.NewRouter(cfg, log, &httpiface.Handlers{
		Health:     handlers.NewHealthHandler(db, nil, nil, log),
		Risk:       handlers.NewRiskHandler(riskSvc),
		Action:     handlers.NewActionHandler(actionSvc),
		Registry:   handlers.NewRegistryHandler(registrySvc),
		Supplier:   handlers.NewSupplierHandler(supplierSvc),
		Review:     handlers.NewReviewHandler(reviewSvc),
		Compliance: handlers.NewComplianceHandler(complianceSvc),
		Dashboard:  handlers.NewDashboardHandler(dashboardSvc),
		Export:     handlers.NewExportHandler(exportSvc),
		Audit:      handlers.NewAuditHandler(auditSvc),
	}, tracing.Tracer(), metrics, nil)
	router.SetupRoutes()

	server := httptest.NewServer(router.Engine())
	t.Cleanup(server.Close)

	return &testStack{
		server:    server,
		client:    rosreg_client.NewClient(server.URL, rosreg_client.WithActor("e2e-suite")),
		publisher: publisher,
	}
}
