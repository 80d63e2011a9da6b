package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/pkg/constants"
)

// ReferenceItem is a static catalog entry: an NSM grunnprinsipp or an
// ekomforskriften clause. Items are seeded, versioned, and unique per
// (framework, code, version).
type ReferenceItem struct {
	ID            uuid.UUID           `json:"id"`
	Framework     constants.Framework `json:"framework"`
	Code          string              `json:"code"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	Version       string              `json:"version"`
	EffectiveFrom time.Time           `json:"effective_from"`
	DeprecatedAt  *time.Time          `json:"deprecated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the catalog entry is currently in force.
func (r *ReferenceItem) IsActive(now time.Time) bool {
	if now.Before(r.EffectiveFrom) {
		return false
	}
	return r.DeprecatedAt == nil || now.Before(*r.DeprecatedAt)
}

// RiskMapping links a reference item to a risk. One row per pair.
type RiskMapping struct {
	ID          uuid.UUID `json:"id"`
	ReferenceID uuid.UUID `json:"reference_id"`
	RiskID      uuid.UUID `json:"risk_id"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRiskMapping creates a mapping between a reference item and a risk.
func NewRiskMapping(referenceID, riskID uuid.UUID, note string) *RiskMapping {
	return &RiskMapping{
		ID:          uuid.New(),
		ReferenceID: referenceID,
		RiskID:      riskID,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}
}

// ActionMapping links a reference item to a remediation action.
type ActionMapping struct {
	ID          uuid.UUID `json:"id"`
	ReferenceID uuid.UUID `json:"reference_id"`
	ActionID    uuid.UUID `json:"action_id"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewActionMapping creates a mapping between a reference item and an action.
func NewActionMapping(referenceID, actionID uuid.UUID, note string) *ActionMapping {
	return &ActionMapping{
		ID:          uuid.New(),
		ReferenceID: referenceID,
		ActionID:    actionID,
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}
}
