package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

//go:generate mockery --name ReferenceRepository --output ../repository/mocks --filename reference_repository.go
type ReferenceRepository interface {
	// UpsertCatalog seeds or refreshes catalog entries, keyed on
	// (framework, code, version). Seeding is idempotent.
	UpsertCatalog(ctx context.Context, items []*models.ReferenceItem) error

	// ListByFramework returns a framework catalog in code order.
	ListByFramework(ctx context.Context, framework constants.Framework) ([]*models.ReferenceItem, error)

	// GetByID returns one catalog entry.
	GetByID(ctx context.Context, id uuid.UUID) (*models.ReferenceItem, error)

	// GetByCode returns the current version of a catalog entry.
	GetByCode(ctx context.Context, framework constants.Framework, code string) (*models.ReferenceItem, error)

	// MapRisk links a reference item to a risk. Mapping the same pair
	// twice is a duplicate_mapping conflict.
	MapRisk(ctx context.Context, mapping *models.RiskMapping) error

	// UnmapRisk removes a reference-risk link.
	UnmapRisk(ctx context.Context, referenceID, riskID uuid.UUID) error

	// MapAction links a reference item to an action. Mapping the same pair
	// twice is a duplicate_mapping conflict.
	MapAction(ctx context.Context, mapping *models.ActionMapping) error

	// UnmapAction removes a reference-action link.
	UnmapAction(ctx context.Context, referenceID, actionID uuid.UUID) error

	// ListMappingsForRisk returns every reference mapping of one risk.
	ListMappingsForRisk(ctx context.Context, riskID uuid.UUID) ([]*models.RiskMapping, error)

	// ListMappingsForReference returns every risk mapping of one catalog entry.
	ListMappingsForReference(ctx context.Context, referenceID uuid.UUID) ([]*models.RiskMapping, error)

	// LiveMappedReferenceIDs returns the ids of catalog entries within a
	// framework that are mapped to at least one live risk. Entries mapped
	// only to deleted or closed risks are absent from the set.
	LiveMappedReferenceIDs(ctx context.Context, framework constants.Framework) (map[uuid.UUID]struct{}, error)
}
