package dto

import (
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
)

// CreateProjectRequest creates an assessment project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=4000"`
	Owner       string `json:"owner" validate:"max=100"`
}

// UpdateProjectRequest updates a project. Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Owner       *string `json:"owner,omitempty" validate:"omitempty,max=100"`
}

// ProjectResponse is the API shape of one project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject converts a project to its API shape.
func NewProject(p *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectListResponse is a page of projects.
type ProjectListResponse struct {
	Projects   []*ProjectResponse `json:"projects"`
	Pagination PaginationResponse `json:"pagination"`
}

// CreateAssetRequest registers an asset under a project.
type CreateAssetRequest struct {
	ProjectID   string `json:"project_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Category    string `json:"category" validate:"required,oneof=core_network transport radio_access power facility it_system service_platform"`
	Criticality int    `json:"criticality" validate:"required,min=1,max=5"`
	Location    string `json:"location" validate:"max=200"`
	Description string `json:"description" validate:"max=4000"`
}

// UpdateAssetRequest updates an asset. Nil fields are left unchanged.
type UpdateAssetRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Category    *string `json:"category,omitempty" validate:"omitempty,oneof=core_network transport radio_access power facility it_system service_platform"`
	Criticality *int    `json:"criticality,omitempty" validate:"omitempty,min=1,max=5"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
}

// AssetResponse is the API shape of one asset.
type AssetResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Criticality int       `json:"criticality"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAsset converts an asset to its API shape.
func NewAsset(a *models.Asset) *AssetResponse {
	return &AssetResponse{
		ID:          a.ID.String(),
		ProjectID:   a.ProjectID.String(),
		Name:        a.Name,
		Category:    string(a.Category),
		Criticality: a.Criticality,
		Location:    a.Location,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// AssetListResponse is a page of assets.
type AssetListResponse struct {
	Assets     []*AssetResponse   `json:"assets"`
	Pagination PaginationResponse `json:"pagination"`
}
