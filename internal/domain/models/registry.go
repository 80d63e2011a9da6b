package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/pkg/constants"
)

// Project groups risks and assets for one assessment scope, typically a
// network area or a service.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProject creates a Project.
func NewProject(name, description, owner string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Asset is a piece of telecom infrastructure risks can be recorded against.
type Asset struct {
	ID          uuid.UUID               `json:"id"`
	ProjectID   uuid.UUID               `json:"project_id"`
	Name        string                  `json:"name"`
	Category    constants.AssetCategory `json:"category"`
	Criticality int                     `json:"criticality"`
	Location    string                  `json:"location"`
	Description string                  `json:"description"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewAsset creates an Asset. Criticality uses the same 1-5 scale as
// risk ratings.
func NewAsset(projectID uuid.UUID, name string, category constants.AssetCategory, criticality int) *Asset {
	now := time.Now().UTC()
	return &Asset{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Name:        name,
		Category:    category,
		Criticality: criticality,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
