package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
)

//go:generate mockery --name ProjectRepository --output ../repository/mocks --filename project_repository.go
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	List(ctx context.Context, limit, offset int) ([]*models.Project, int64, error)
}

//go:generate mockery --name AssetRepository --output ../repository/mocks --filename asset_repository.go
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error)

	// List returns assets, optionally narrowed to one project.
	List(ctx context.Context, projectID *uuid.UUID, limit, offset int) ([]*models.Asset, int64, error)
}
