package catalog

import (
	"context"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/logger"
)

// Seeder writes the shipped catalogs into the database. Seeding is
// idempotent: entries are keyed on (framework, code, version), so a
// second run refreshes descriptive columns without duplicating rows.
type Seeder struct {
	repo   repository.ReferenceRepository
	source service.CatalogSource
	audit  service.AuditService
	logger logger.Logger
}

// NewSeeder creates a catalog seeder. source may be nil when no cache
// needs invalidation, e.g. in one-shot CLI runs.
func NewSeeder(repo repository.ReferenceRepository, source service.CatalogSource, audit service.AuditService, log logger.Logger) *Seeder {
	return &Seeder{
		repo:   repo,
		source: source,
		audit:  audit,
		logger: log.WithComponent("catalog_seeder"),
	}
}

// Seed upserts every shipped catalog and invalidates cached copies.
func (s *Seeder) Seed(ctx context.Context) error {
	catalogs := []struct {
		framework constants.Framework
		version   string
		items     []*models.ReferenceItem
	}{
		{constants.FrameworkNSM, nsmVersion, NSMCatalog()},
		{constants.FrameworkEkom, ekomVersion, EkomCatalog()},
	}

	for _, c := range catalogs {
		if err := s.repo.UpsertCatalog(ctx, c.items); err != nil {
			return err
		}
		s.logger.Info(ctx, "Catalog seeded",
			logger.String("framework", string(c.framework)),
			logger.String("version", c.version),
			logger.Int("items", len(c.items)),
		)
		s.audit.LogEvent(ctx, models.NewAuditLog(
			constants.EventTypeCatalogSeeded,
			constants.ActorSystem,
			string(c.framework)+" catalog seeded",
		).WithMetadata(map[string]interface{}{
			"framework": c.framework,
			"version":   c.version,
			"items":     len(c.items),
		}))
	}

	if s.source != nil {
		s.source.Invalidate(ctx)
	}
	return nil
}
