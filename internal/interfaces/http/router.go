// Package http assembles the gin engine: middleware chain, route table
// and server lifecycle.
package http

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/rosverk/rosreg/internal/config"
	"github.com/rosverk/rosreg/internal/interfaces/http/handlers"
	"github.com/rosverk/rosreg/internal/interfaces/http/middleware"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Health     *handlers.HealthHandler
	Risk       *handlers.RiskHandler
	Action     *handlers.ActionHandler
	Registry   *handlers.RegistryHandler
	Supplier   *handlers.SupplierHandler
	Review     *handlers.ReviewHandler
	Compliance *handlers.ComplianceHandler
	Dashboard  *handlers.DashboardHandler
	Export     *handlers.ExportHandler
	Audit      *handlers.AuditHandler
}

// Router owns the gin engine and the HTTP server built on it.
type Router struct {
	engine   *gin.Engine
	config   *config.Config
	logger   logger.Logger
	handlers *Handlers
	tracer   trace.Tracer
	metrics  middleware.HTTPMetrics
	limiter  middleware.Limiter
	server   *http.Server
}

// NewRouter creates the router. The limiter may be nil; throttling is
// then disabled regardless of configuration.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	h *Handlers,
	tracer trace.Tracer,
	metrics middleware.HTTPMetrics,
	limiter middleware.Limiter,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:   gin.New(),
		config:   cfg,
		logger:   log.WithComponent("http"),
		handlers: h,
		tracer:   tracer,
		metrics:  metrics,
		limiter:  limiter,
	}
}

// SetupRoutes installs the middleware chain and the route table.
func (r *Router) SetupRoutes() {
	r.engine.Use(gin.Recovery())
	r.engine.Use(middleware.RequestContext())
	r.engine.Use(middleware.RequestLogger(r.logger))
	r.engine.Use(middleware.Observability(r.tracer, r.metrics))
	r.engine.Use(middleware.RateLimit(r.limiter, &r.config.RateLimit, r.logger))

	r.engine.Use(cors.New(cors.Config{
		AllowOrigins:     r.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID", "X-Actor"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.engine.GET("/health", r.handlers.Health.Readiness)
	r.engine.GET("/health/live", r.handlers.Health.Liveness)
	r.engine.GET("/health/ready", r.handlers.Health.Readiness)

	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.config.Server.EnablePprof {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group("/api/v1")
	{
		projects := v1.Group("/projects")
		{
			projects.POST("", r.handlers.Registry.CreateProject)
			projects.GET("", r.handlers.Registry.ListProjects)
			projects.GET("/:id", r.handlers.Registry.GetProject)
			projects.PUT("/:id", r.handlers.Registry.UpdateProject)
		}

		assets := v1.Group("/assets")
		{
			assets.POST("", r.handlers.Registry.CreateAsset)
			assets.GET("", r.handlers.Registry.ListAssets)
			assets.GET("/:id", r.handlers.Registry.GetAsset)
			assets.PUT("/:id", r.handlers.Registry.UpdateAsset)
		}

		risks := v1.Group("/risks")
		{
			risks.POST("", r.handlers.Risk.CreateRisk)
			risks.GET("", r.handlers.Risk.ListRisks)
			risks.GET("/:id", r.handlers.Risk.GetRisk)
			risks.PUT("/:id", r.handlers.Risk.UpdateRisk)
			risks.DELETE("/:id", r.handlers.Risk.DeleteRisk)
			risks.POST("/:id/reassess", r.handlers.Risk.ReassessRisk)
			risks.PUT("/:id/target", r.handlers.Risk.SetTarget)
			risks.DELETE("/:id/target", r.handlers.Risk.ClearTarget)
			risks.POST("/:id/close", r.handlers.Risk.CloseRisk)
			risks.GET("/:id/reviews", r.handlers.Review.ListReviewsForRisk)
			risks.GET("/:id/mappings", r.handlers.Compliance.ListMappingsForRisk)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.POST("", r.handlers.Review.ScheduleReview)
			reviews.GET("/pending", r.handlers.Review.ListPendingReviews)
			reviews.GET("/:id", r.handlers.Review.GetReview)
			reviews.POST("/:id/complete", r.handlers.Review.CompleteReview)
			reviews.DELETE("/:id", r.handlers.Review.CancelReview)
		}

		actions := v1.Group("/actions")
		{
			actions.POST("", r.handlers.Action.CreateAction)
			actions.GET("", r.handlers.Action.ListActions)
			actions.GET("/overdue", r.handlers.Action.ListOverdueActions)
			actions.GET("/:id", r.handlers.Action.GetAction)
			actions.PUT("/:id", r.handlers.Action.UpdateAction)
			actions.DELETE("/:id", r.handlers.Action.DeleteAction)
			actions.POST("/:id/status", r.handlers.Action.SetActionStatus)
		}

		v1.GET("/references", r.handlers.Compliance.GetCatalog)

		compliance := v1.Group("/compliance")
		{
			compliance.POST("/mappings/risk", r.handlers.Compliance.MapRisk)
			compliance.DELETE("/mappings/risk", r.handlers.Compliance.UnmapRisk)
			compliance.POST("/mappings/action", r.handlers.Compliance.MapAction)
			compliance.DELETE("/mappings/action", r.handlers.Compliance.UnmapAction)
			compliance.GET("/coverage", r.handlers.Compliance.GetCoverage)
			compliance.GET("/gaps", r.handlers.Compliance.GetGaps)
			compliance.GET("/summary", r.handlers.Compliance.GetSummary)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", r.handlers.Dashboard.GetSummary)
			dashboard.GET("/matrix", r.handlers.Dashboard.GetMatrix)
			dashboard.GET("/distribution", r.handlers.Dashboard.GetDistribution)
			dashboard.GET("/alerts", r.handlers.Dashboard.GetAlerts)
			dashboard.GET("/alerts/count", r.handlers.Dashboard.GetAlertCounts)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.POST("", r.handlers.Supplier.CreateSupplier)
			suppliers.GET("", r.handlers.Supplier.ListSuppliers)
			suppliers.GET("/expiring", r.handlers.Supplier.ListExpiringContracts)
			suppliers.GET("/:id", r.handlers.Supplier.GetSupplier)
			suppliers.PUT("/:id", r.handlers.Supplier.UpdateSupplier)
			suppliers.DELETE("/:id", r.handlers.Supplier.DeleteSupplier)
		}

		export := v1.Group("/export")
		{
			export.POST("/register", r.handlers.Export.RegisterExport)
			export.GET("/download", r.handlers.Export.Download)
		}

		v1.GET("/audit", r.handlers.Audit.ListEvents)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    string(errors.ErrNotFound.Code),
				"message": "The requested route does not exist",
			},
		})
	})
}

// Start builds the server and serves until Stop or a termination signal.
func (r *Router) Start() error {
	r.SetupRoutes()

	addr := r.config.Server.Addr()
	r.server = &http.Server{
		Addr:           addr,
		Handler:        r.engine,
		ReadTimeout:    time.Duration(r.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(r.config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	r.logger.Info(context.Background(), "Starting HTTP server", logger.String("address", addr))

	go r.watchSignals()

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// watchSignals shuts the server down on SIGINT or SIGTERM.
func (r *Router) watchSignals() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx := context.Background()
	r.logger.Info(ctx, "Shutdown signal received")

	timeout := time.Duration(r.config.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.server.Shutdown(shutdownCtx); err != nil {
		r.logger.Error(shutdownCtx, "Server forced to shutdown", err)
	}
	r.logger.Info(ctx, "HTTP server stopped")
}

// Stop shuts the server down without waiting for a signal.
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	r.logger.Info(ctx, "Stopping HTTP server")
	return r.server.Shutdown(ctx)
}

// Engine exposes the assembled engine for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
