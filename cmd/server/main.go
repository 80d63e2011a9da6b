// Command server runs the rosreg HTTP API.
package main

import (
	"context"
	"log"
	"time"

	appservice "github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/internal/config"
	domainservice "github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/internal/infrastructure/audit"
	"github.com/rosverk/rosreg/internal/infrastructure/catalog"
	"github.com/rosverk/rosreg/internal/infrastructure/consumers"
	"github.com/rosverk/rosreg/internal/infrastructure/monitoring"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/memory"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/postgres"
	"github.com/rosverk/rosreg/internal/infrastructure/persistence/redis"
	"github.com/rosverk/rosreg/internal/infrastructure/ratelimit"
	"github.com/rosverk/rosreg/internal/infrastructure/secrets"
	httpiface "github.com/rosverk/rosreg/internal/interfaces/http"
	"github.com/rosverk/rosreg/internal/interfaces/http/handlers"
	"github.com/rosverk/rosreg/internal/interfaces/http/middleware"
	"github.com/rosverk/rosreg/pkg/logger"
)

func main() {
	ctx := context.Background()

	startupLogger := logger.NewDefaultLogger()

	cfg, err := config.LoadConfig(startupLogger)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	// Secrets come first: the database password and the export token
	// secret may live in Vault rather than in the config file.
	resolver, err := secrets.NewResolver(&cfg.Vault, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to create secrets resolver", err)
	}
	if err := resolver.Apply(ctx, cfg); err != nil {
		appLogger.Fatal(ctx, "Failed to resolve secrets", err)
	}

	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize tracing", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	db, err := postgres.NewDatabase(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		appLogger.Fatal(ctx, "Failed to migrate database", err)
	}

	metrics := monitoring.NewMetrics(nil)

	// The shared cache is Redis when configured, in-process otherwise.
	// Everything behind CacheService works the same either way; only
	// rate limiting insists on Redis.
	var redisConn *redis.RedisConnection
	var cacheService domainservice.CacheService
	if cfg.Redis.Enabled {
		redisConn, err = redis.NewRedisConnection(ctx, &cfg.Redis, appLogger)
		if err != nil {
			appLogger.Fatal(ctx, "Failed to connect to redis", err)
		}
		defer redisConn.Close()
		cacheService = redis.NewCacheManager(redisConn.GetClient(), metrics, appLogger)
	} else {
		cacheService = memory.NewCache()
		appLogger.Info(ctx, "Redis disabled, using in-process cache")
	}

	var publisher audit.Publisher
	var kafkaProducer *audit.KafkaProducer
	if cfg.Kafka.Enabled {
		kafkaProducer = audit.NewKafkaProducer(&cfg.Kafka, appLogger)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
	}

	gormDB := db.GORM()
	projectRepo := postgres.NewProjectRepository(gormDB, appLogger)
	assetRepo := postgres.NewAssetRepository(gormDB, appLogger)
	riskRepo := postgres.NewRiskRepository(gormDB, appLogger)
	actionRepo := postgres.NewActionRepository(gormDB, appLogger)
	supplierRepo := postgres.NewSupplierRepository(gormDB, appLogger)
	reviewRepo := postgres.NewReviewRepository(gormDB, appLogger)
	referenceRepo := postgres.NewReferenceRepository(gormDB, appLogger)
	auditRepo := postgres.NewAuditRepository(gormDB, appLogger)

	auditService := audit.NewAuditService(auditRepo, publisher, metrics, appLogger)

	catalogSource := catalog.NewSource(
		referenceRepo,
		cacheService,
		time.Duration(cfg.Cache.CatalogL1TTL)*time.Second,
		time.Duration(cfg.Cache.CatalogL2TTL)*time.Second,
		appLogger,
	)
	if cfg.Catalog.SeedOnStart {
		seeder := catalog.NewSeeder(referenceRepo, catalogSource, auditService, appLogger)
		if err := seeder.Seed(ctx); err != nil {
			appLogger.Fatal(ctx, "Failed to seed reference catalogs", err)
		}
	}

	// With Kafka on, writes from other instances reach this one through
	// the audit topic and drop the local projections.
	if cfg.Kafka.Enabled {
		invalidator := consumers.NewInvalidationConsumer(&cfg.Kafka, cacheService, catalogSource, appLogger)
		go invalidator.Start(ctx)
		defer invalidator.Stop()
	}

	classifier := domainservice.NewDefaultClassifier()
	ruleSet := domainservice.NewRuleSet(cfg.Alerting.ContractLookahead())

	riskSvc := appservice.NewRiskAppService(riskRepo, projectRepo, assetRepo, classifier, auditService, cacheService, appLogger)
	actionSvc := appservice.NewActionAppService(actionRepo, riskRepo, auditService, cacheService, appLogger)
	registrySvc := appservice.NewRegistryAppService(projectRepo, assetRepo, auditService, appLogger)
	supplierSvc := appservice.NewSupplierAppService(supplierRepo, auditService, cacheService, appLogger)
	reviewSvc := appservice.NewReviewAppService(reviewRepo, riskRepo, auditService, cacheService, appLogger)
	complianceSvc := appservice.NewComplianceAppService(referenceRepo, riskRepo, actionRepo, catalogSource, auditService, appLogger)
	dashboardSvc := appservice.NewDashboardAppService(
		riskRepo, actionRepo, supplierRepo, reviewRepo, referenceRepo,
		catalogSource, classifier, ruleSet, cacheService,
		time.Duration(cfg.Cache.DashboardTTL)*time.Second,
		metrics, appLogger,
	)
	exportSvc := appservice.NewExportAppService(
		riskRepo, actionRepo, supplierRepo, classifier, auditService, cacheService, metrics,
		cfg.Export.TokenSecret,
		time.Duration(cfg.Export.TokenTTL)*time.Second,
		time.Duration(cfg.Export.BlobTTL)*time.Second,
		appLogger,
	)
	auditSvc := appservice.NewAuditAppService(auditRepo, appLogger)

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		if redisConn == nil {
			appLogger.Fatal(ctx, "Rate limiting requires redis", nil)
		}
		limiter = ratelimit.NewFixedWindowLimiter(redisConn.GetClient(), &cfg.RateLimit, appLogger)
	}

	router := httpiface.NewRouter(cfg, appLogger, &httpiface.Handlers{
		Health:     handlers.NewHealthHandler(db, redisConn, kafkaProducer, appLogger),
		Risk:       handlers.NewRiskHandler(riskSvc),
		Action:     handlers.NewActionHandler(actionSvc),
		Registry:   handlers.NewRegistryHandler(registrySvc),
		Supplier:   handlers.NewSupplierHandler(supplierSvc),
		Review:     handlers.NewReviewHandler(reviewSvc),
		Compliance: handlers.NewComplianceHandler(complianceSvc),
		Dashboard:  handlers.NewDashboardHandler(dashboardSvc),
		Export:     handlers.NewExportHandler(exportSvc),
		Audit:      handlers.NewAuditHandler(auditSvc),
	}, tracing.Tracer(), metrics, limiter)

	if err := router.Start(); err != nil {
		appLogger.Fatal(ctx, "HTTP server failed", err)
	}
}
