package dto

import (
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
)

// CreateSupplierRequest registers an external supplier.
type CreateSupplierRequest struct {
	Name           string     `json:"name" validate:"required,min=2,max=200"`
	Service        string     `json:"service" validate:"required,max=200"`
	Criticality    int        `json:"criticality" validate:"required,min=1,max=5"`
	ContractExpiry *time.Time `json:"contract_expiry,omitempty"`
	Contact        string     `json:"contact" validate:"max=200"`
}

// UpdateSupplierRequest updates a supplier. Nil fields are left unchanged.
type UpdateSupplierRequest struct {
	Name           *string    `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Service        *string    `json:"service,omitempty" validate:"omitempty,max=200"`
	Criticality    *int       `json:"criticality,omitempty" validate:"omitempty,min=1,max=5"`
	ContractExpiry *time.Time `json:"contract_expiry,omitempty"`
	ClearExpiry    bool       `json:"clear_expiry,omitempty"`
	Contact        *string    `json:"contact,omitempty" validate:"omitempty,max=200"`
}

// SupplierResponse is the API shape of one supplier.
type SupplierResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Service        string     `json:"service"`
	Criticality    int        `json:"criticality"`
	ContractExpiry *time.Time `json:"contract_expiry,omitempty"`
	Contact        string     `json:"contact,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewSupplier converts a supplier to its API shape.
func NewSupplier(s *models.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:             s.ID.String(),
		Name:           s.Name,
		Service:        s.Service,
		Criticality:    s.Criticality,
		ContractExpiry: s.ContractExpiry,
		Contact:        s.Contact,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// SupplierListResponse is a page of suppliers.
type SupplierListResponse struct {
	Suppliers  []*SupplierResponse `json:"suppliers"`
	Pagination PaginationResponse  `json:"pagination"`
}
