package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is an external party delivering services or equipment. The
// contract expiry feeds the contract_expiring alert rule.
type Supplier struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Service        string     `json:"service"`
	Criticality    int        `json:"criticality"`
	ContractExpiry *time.Time `json:"contract_expiry,omitempty"`
	Contact        string     `json:"contact"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewSupplier creates a Supplier.
func NewSupplier(name, service string, criticality int) *Supplier {
	now := time.Now().UTC()
	return &Supplier{
		ID:          uuid.New(),
		Name:        name,
		Service:     service,
		Criticality: criticality,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ContractExpired reports whether the contract expiry has passed.
// Suppliers without a recorded expiry never expire.
func (s *Supplier) ContractExpired(now time.Time) bool {
	return s.ContractExpiry != nil && s.ContractExpiry.Before(now)
}

// ContractExpiresWithin reports whether the contract expires inside the
// lookahead window measured from now. Already-expired contracts are not
// "expiring"; check ContractExpired for those.
func (s *Supplier) ContractExpiresWithin(now time.Time, window time.Duration) bool {
	if s.ContractExpiry == nil || s.ContractExpiry.Before(now) {
		return false
	}
	return !s.ContractExpiry.After(now.Add(window))
}
