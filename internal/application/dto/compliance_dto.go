package dto

import (
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
)

// ReferenceItemDTO is the API shape of one catalog entry.
type ReferenceItemDTO struct {
	ID            string    `json:"id"`
	Framework     string    `json:"framework"`
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	Version       string    `json:"version"`
	EffectiveFrom time.Time `json:"effective_from"`
}

// NewReferenceItem converts a catalog entry to its API shape.
func NewReferenceItem(item *models.ReferenceItem) *ReferenceItemDTO {
	return &ReferenceItemDTO{
		ID:            item.ID.String(),
		Framework:     string(item.Framework),
		Code:          item.Code,
		Title:         item.Title,
		Description:   item.Description,
		Category:      item.Category,
		Version:       item.Version,
		EffectiveFrom: item.EffectiveFrom,
	}
}

// CatalogResponse is one framework catalog.
type CatalogResponse struct {
	Framework string              `json:"framework"`
	Version   string              `json:"version,omitempty"`
	Items     []*ReferenceItemDTO `json:"items"`
}

// MapRiskRequest links a catalog entry to a risk.
type MapRiskRequest struct {
	ReferenceID string `json:"reference_id" validate:"required,uuid"`
	RiskID      string `json:"risk_id" validate:"required,uuid"`
	Note        string `json:"note" validate:"max=1000"`
}

// MapActionRequest links a catalog entry to a remediation action.
type MapActionRequest struct {
	ReferenceID string `json:"reference_id" validate:"required,uuid"`
	ActionID    string `json:"action_id" validate:"required,uuid"`
	Note        string `json:"note" validate:"max=1000"`
}

// CoverageItemDTO is one catalog entry with its mapped flag.
type CoverageItemDTO struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Mapped   bool   `json:"mapped"`
}

// CoverageResponse is the gap-analysis result for one framework.
type CoverageResponse struct {
	Framework       string              `json:"framework"`
	Total           int                 `json:"total"`
	Mapped          int                 `json:"mapped"`
	CoveragePercent float64             `json:"coverage_percent"`
	Items           []*CoverageItemDTO  `json:"items"`
	Unmapped        []*ReferenceItemDTO `json:"unmapped"`
}

// ComplianceGapsResponse lists the catalog entries no live risk covers.
type ComplianceGapsResponse struct {
	Framework string              `json:"framework"`
	Total     int                 `json:"total"`
	Mapped    int                 `json:"mapped"`
	Gaps      []*ReferenceItemDTO `json:"gaps"`
}

// RiskMappingDTO is one reference-risk link.
type RiskMappingDTO struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	RiskID      string    `json:"risk_id"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RiskMappingsResponse lists the reference mappings of one risk or one
// catalog entry.
type RiskMappingsResponse struct {
	Mappings []*RiskMappingDTO `json:"mappings"`
}

// ActionMappingDTO is one reference-action link.
type ActionMappingDTO struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	ActionID    string    `json:"action_id"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComplianceSummaryResponse is the cross-framework coverage overview.
type ComplianceSummaryResponse struct {
	Frameworks []CoverageSummaryDTO `json:"frameworks"`
}
