package dto

import (
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
)

// MatrixCellDTO is one cell of the rendered 5x5 matrix.
type MatrixCellDTO struct {
	Likelihood  int    `json:"likelihood"`
	Consequence int    `json:"consequence"`
	Score       int    `json:"score"`
	Level       string `json:"level"`
	Color       string `json:"color"`
	Count       int    `json:"count"`
}

// AxisLabelDTO is one axis step with its display label.
type AxisLabelDTO struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// MatrixResponse is the rendered matrix. Rows run top-down by likelihood
// descending, columns left-right by consequence ascending, so the red
// corner sits top-right.
type MatrixResponse struct {
	View      string            `json:"view"`
	Rows      [][]MatrixCellDTO `json:"rows"`
	RowLabels []AxisLabelDTO    `json:"row_labels"`
	ColLabels []AxisLabelDTO    `json:"col_labels"`
	Total     int               `json:"total"`
}

// NewMatrixResponse converts a domain matrix to its API shape.
func NewMatrixResponse(m *service.Matrix) *MatrixResponse {
	resp := &MatrixResponse{
		View:  string(m.View),
		Rows:  make([][]MatrixCellDTO, 0, constants.MatrixSize),
		Total: m.Total,
	}
	for row := 0; row < constants.MatrixSize; row++ {
		cells := make([]MatrixCellDTO, 0, constants.MatrixSize)
		for col := 0; col < constants.MatrixSize; col++ {
			cell := m.Cells[row][col]
			cells = append(cells, MatrixCellDTO{
				Likelihood:  cell.Likelihood,
				Consequence: cell.Consequence,
				Score:       cell.Score,
				Level:       string(cell.Level),
				Color:       string(cell.Color),
				Count:       cell.Count,
			})
		}
		resp.Rows = append(resp.Rows, cells)
	}
	for likelihood := constants.RatingMax; likelihood >= constants.RatingMin; likelihood-- {
		resp.RowLabels = append(resp.RowLabels, AxisLabelDTO{
			Value: likelihood,
			Label: constants.LikelihoodLabel(likelihood),
		})
	}
	for consequence := constants.RatingMin; consequence <= constants.RatingMax; consequence++ {
		resp.ColLabels = append(resp.ColLabels, AxisLabelDTO{
			Value: consequence,
			Label: constants.ConsequenceLabel(consequence),
		})
	}
	return resp
}

// LevelCountDTO is one slice of the level distribution.
type LevelCountDTO struct {
	Level string `json:"level"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// NamedCountDTO is a generic labelled count.
type NamedCountDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DistributionResponse breaks the live register down by level, status and type.
type DistributionResponse struct {
	ByLevel  []LevelCountDTO `json:"by_level"`
	ByStatus []NamedCountDTO `json:"by_status"`
	ByType   []NamedCountDTO `json:"by_type"`
}

// CoverageSummaryDTO is the condensed gap figure shown on the dashboard.
type CoverageSummaryDTO struct {
	Framework       string  `json:"framework"`
	Total           int     `json:"total"`
	Mapped          int     `json:"mapped"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// SummaryResponse is the dashboard headline view.
type SummaryResponse struct {
	TotalLiveRisks int                  `json:"total_live_risks"`
	HighRisks      int                  `json:"high_risks"`
	OpenActions    int                  `json:"open_actions"`
	OverdueActions int                  `json:"overdue_actions"`
	PendingReviews int                  `json:"pending_reviews"`
	AlertCounts    map[string]int       `json:"alert_counts"`
	Coverage       []CoverageSummaryDTO `json:"coverage"`
}

// AlertDTO is one alert finding.
type AlertDTO struct {
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	SubjectType string `json:"subject_type"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
	Message     string `json:"message"`
}

// NewAlert converts a domain alert to its API shape.
func NewAlert(a service.Alert) *AlertDTO {
	return &AlertDTO{
		Rule:        string(a.Rule),
		Severity:    string(a.Severity),
		SubjectType: string(a.SubjectType),
		SubjectID:   a.SubjectID.String(),
		SubjectName: a.SubjectName,
		Message:     a.Message,
	}
}

// AlertsResponse is the full alert list with per-severity counts.
type AlertsResponse struct {
	Alerts []*AlertDTO    `json:"alerts"`
	Counts map[string]int `json:"counts"`
}

// AlertCountsResponse summarizes active alerts per rule. Every rule key
// is always present so clients can render zeroes.
type AlertCountsResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}
