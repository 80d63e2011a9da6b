package catalog

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/logger"
)

// Source serves reference catalogs through two cache levels: an
// in-process cache for the hot path and the shared byte cache behind
// it. Catalogs change only on seeding, so both levels run long TTLs
// and seeding invalidates them explicitly.
type Source struct {
	repo   repository.ReferenceRepository
	shared service.CacheService
	local  *gocache.Cache
	l2TTL  time.Duration
	logger logger.Logger
}

// NewSource creates the cached catalog source. Non-positive TTLs fall
// back to the package defaults.
func NewSource(repo repository.ReferenceRepository, shared service.CacheService, l1TTL, l2TTL time.Duration, log logger.Logger) service.CatalogSource {
	if l1TTL <= 0 {
		l1TTL = constants.CatalogCacheL1TTL
	}
	if l2TTL <= 0 {
		l2TTL = constants.CatalogCacheL2TTL
	}
	return &Source{
		repo:   repo,
		shared: shared,
		local:  gocache.New(l1TTL, 2*l1TTL),
		l2TTL:  l2TTL,
		logger: log.WithComponent("catalog"),
	}
}

// GetCatalog returns one framework catalog in code order.
func (s *Source) GetCatalog(ctx context.Context, framework constants.Framework) ([]*models.ReferenceItem, error) {
	key := string(framework)

	if cached, ok := s.local.Get(key); ok {
		if items, ok := cached.([]*models.ReferenceItem); ok {
			return items, nil
		}
	}

	if items, ok := s.sharedLookup(ctx, framework); ok {
		s.local.SetDefault(key, items)
		return items, nil
	}

	items, err := s.repo.ListByFramework(ctx, framework)
	if err != nil {
		return nil, err
	}

	s.local.SetDefault(key, items)
	s.sharedStore(ctx, framework, items)
	return items, nil
}

// Invalidate drops cached copies of the given catalogs, or of every
// catalog when none is named.
func (s *Source) Invalidate(ctx context.Context, frameworks ...constants.Framework) {
	if len(frameworks) == 0 {
		frameworks = constants.ValidFrameworks
	}
	for _, framework := range frameworks {
		s.local.Delete(string(framework))
		if err := s.shared.Delete(ctx, sharedKey(framework)); err != nil {
			s.logger.Warn(ctx, "Failed to invalidate shared catalog cache",
				logger.String("framework", string(framework)),
				logger.Error(err),
			)
		}
	}
}

func (s *Source) sharedLookup(ctx context.Context, framework constants.Framework) ([]*models.ReferenceItem, bool) {
	raw, ok, err := s.shared.Get(ctx, sharedKey(framework))
	if err != nil || !ok {
		return nil, false
	}
	var items []*models.ReferenceItem
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn(ctx, "Dropping undecodable cached catalog",
			logger.String("framework", string(framework)),
			logger.Error(err),
		)
		_ = s.shared.Delete(ctx, sharedKey(framework))
		return nil, false
	}
	return items, true
}

func (s *Source) sharedStore(ctx context.Context, framework constants.Framework, items []*models.ReferenceItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.shared.Set(ctx, sharedKey(framework), raw, s.l2TTL); err != nil {
		s.logger.Warn(ctx, "Failed to store catalog in shared cache",
			logger.String("framework", string(framework)),
			logger.Error(err),
		)
	}
}

func sharedKey(framework constants.Framework) string {
	return constants.CacheKeyCatalogPrefix + string(framework)
}
