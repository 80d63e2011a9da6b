package service

import (
	"math"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// CoverageItem pairs one catalog entry with its mapped flag.
type CoverageItem struct {
	Item   *models.ReferenceItem `json:"item"`
	Mapped bool                  `json:"mapped"`
}

// CoverageReport is the gap-analysis result for one reference framework.
// Items and Unmapped preserve catalog order.
type CoverageReport struct {
	Framework       constants.Framework     `json:"framework"`
	Total           int                     `json:"total"`
	Mapped          int                     `json:"mapped"`
	CoveragePercent float64                 `json:"coverage_percent"`
	Items           []CoverageItem          `json:"items"`
	Unmapped        []*models.ReferenceItem `json:"unmapped"`
}

// ComputeCoverage walks a framework catalog and flags every entry that the
// mapped set covers. The mapped set must already be filtered to mappings
// whose risk is live; an entry mapped only to deleted or closed risks is
// therefore reported as unmapped. An empty catalog yields 0% coverage.
// The percentage is rounded to one decimal.
func ComputeCoverage(framework constants.Framework, catalog []*models.ReferenceItem, mapped map[uuid.UUID]struct{}) CoverageReport {
	report := CoverageReport{
		Framework: framework,
		Total:     len(catalog),
		Items:     make([]CoverageItem, 0, len(catalog)),
	}

	for _, item := range catalog {
		_, ok := mapped[item.ID]
		report.Items = append(report.Items, CoverageItem{Item: item, Mapped: ok})
		if ok {
			report.Mapped++
		} else {
			report.Unmapped = append(report.Unmapped, item)
		}
	}

	if report.Total > 0 {
		report.CoveragePercent = math.Round(float64(report.Mapped)/float64(report.Total)*1000) / 10
	}
	return report
}
