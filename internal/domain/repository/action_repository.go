package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// ActionFilter narrows action list queries. Nil fields are ignored.
type ActionFilter struct {
	RiskID   *uuid.UUID
	Status   *constants.ActionStatus
	Priority *constants.ActionPriority
}

//go:generate mockery --name ActionRepository --output ../repository/mocks --filename action_repository.go
type ActionRepository interface {
	// Create persists a new remediation action.
	Create(ctx context.Context, action *models.Action) error

	// Update persists changes to an existing action.
	Update(ctx context.Context, action *models.Action) error

	// GetByID returns one action.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Action, error)

	// List returns a filtered page of actions plus the total match count.
	List(ctx context.Context, filter ActionFilter, limit, offset int) ([]*models.Action, int64, error)

	// ListByRisk returns every action attached to a risk, oldest first.
	ListByRisk(ctx context.Context, riskID uuid.UUID) ([]*models.Action, error)

	// ListAll returns every action. Alert evaluation runs over this set.
	ListAll(ctx context.Context) ([]*models.Action, error)

	// Delete removes an action and its reference mappings.
	Delete(ctx context.Context, id uuid.UUID) error
}
