package service

import (
	"context"
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// AuditService records compliance-relevant events. Implementations write
// to durable storage and may fan out to a message broker; recording must
// never fail the business operation it describes.
//
//go:generate mockery --name AuditService --output mocks --outpkg mocks
type AuditService interface {
	LogEvent(ctx context.Context, entry *models.AuditLog)
}

// CacheService is the byte-oriented cache used for dashboard snapshots
// and export blobs. A miss returns (nil, false, nil).
//
//go:generate mockery --name CacheService --output mocks --outpkg mocks
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CatalogSource serves reference catalogs, typically through a cache
// hierarchy in front of the repository.
//
//go:generate mockery --name CatalogSource --output mocks --outpkg mocks
type CatalogSource interface {
	GetCatalog(ctx context.Context, framework constants.Framework) ([]*models.ReferenceItem, error)

	// Invalidate drops cached copies of one framework catalog, or all
	// catalogs when no framework is given.
	Invalidate(ctx context.Context, frameworks ...constants.Framework)
}
