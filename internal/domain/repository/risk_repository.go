// Package repository defines the persistence contracts of the domain layer.
// Implementations live under internal/infrastructure/persistence.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// RiskFilter narrows risk list queries. Nil fields are ignored. Score
// bounds are inclusive and expressed on the stored likelihood x consequence
// product; level filters are translated to score bounds by the caller.
type RiskFilter struct {
	ProjectID     *uuid.UUID
	AssetID       *uuid.UUID
	Status        *constants.RiskStatus
	Type          *constants.RiskType
	MinScore      *int
	MaxScore      *int
	IncludeClosed bool
}

//go:generate mockery --name RiskRepository --output ../repository/mocks --filename risk_repository.go
type RiskRepository interface {
	// Create persists a new risk.
	Create(ctx context.Context, risk *models.Risk) error

	// Update persists changes to an existing risk.
	Update(ctx context.Context, risk *models.Risk) error

	// GetByID returns one risk. Soft-deleted risks are not found.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Risk, error)

	// List returns a filtered page of risks plus the total match count.
	// Soft-deleted risks are always excluded; closed risks only when the
	// filter asks for them.
	List(ctx context.Context, filter RiskFilter, limit, offset int) ([]*models.Risk, int64, error)

	// ListLive returns every live risk (not deleted, not closed). This is
	// the record set matrices, gap coverage and alerting run over.
	ListLive(ctx context.Context) ([]*models.Risk, error)

	// SoftDelete marks a risk deleted without removing the record.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// CountByStatus returns live risk counts grouped by status.
	CountByStatus(ctx context.Context) (map[constants.RiskStatus]int64, error)
}
