package rosreg_client

import "time"

// The types below mirror the wire shapes of the HTTP API. The SDK keeps
// its own copies so importing it does not pull in the server packages.

// Assessment is a (likelihood, consequence) pair on the 1-5 scale.
type Assessment struct {
	Likelihood  int `json:"likelihood"`
	Consequence int `json:"consequence"`
}

// ClassifiedAssessment is an assessment with its derived score and level.
type ClassifiedAssessment struct {
	Likelihood       int    `json:"likelihood"`
	LikelihoodLabel  string `json:"likelihood_label"`
	Consequence      int    `json:"consequence"`
	ConsequenceLabel string `json:"consequence_label"`
	Score            int    `json:"score"`
	Level            string `json:"level"`
	Color            string `json:"color"`
}

// Pagination is the paging metadata of list endpoints.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// CreateProjectRequest creates an assessment project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

// Project is one assessment project.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Owner       string    `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRiskRequest creates a risk record.
type CreateRiskRequest struct {
	ProjectID   string      `json:"project_id"`
	AssetID     *string     `json:"asset_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Type        string      `json:"type"`
	Owner       string      `json:"owner,omitempty"`
	Current     Assessment  `json:"current"`
	Target      *Assessment `json:"target,omitempty"`
}

// Risk is one risk record with its classified assessments.
type Risk struct {
	ID             string                `json:"id"`
	ProjectID      string                `json:"project_id"`
	AssetID        *string               `json:"asset_id,omitempty"`
	Title          string                `json:"title"`
	Description    string                `json:"description,omitempty"`
	Type           string                `json:"type"`
	Status         string                `json:"status"`
	Owner          string                `json:"owner,omitempty"`
	Current        ClassifiedAssessment  `json:"current"`
	Target         *ClassifiedAssessment `json:"target,omitempty"`
	LastReviewedAt *time.Time            `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// RiskList is a page of risks.
type RiskList struct {
	Risks      []*Risk    `json:"risks"`
	Pagination Pagination `json:"pagination"`
}

// ListRisksQuery filters the risk list. Zero values are omitted.
type ListRisksQuery struct {
	ProjectID     string
	AssetID       string
	Status        string
	Type          string
	Level         string
	IncludeClosed bool
	Page          int
	PageSize      int
}

// CreateActionRequest creates a remediation action for a risk.
type CreateActionRequest struct {
	RiskID      string     `json:"risk_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Responsible string     `json:"responsible,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// Action is one remediation action.
type Action struct {
	ID          string     `json:"id"`
	RiskID      string     `json:"risk_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Responsible string     `json:"responsible,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	Overdue     bool       `json:"overdue"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MatrixCell is one cell of the rendered 5x5 matrix.
type MatrixCell struct {
	Likelihood  int    `json:"likelihood"`
	Consequence int    `json:"consequence"`
	Score       int    `json:"score"`
	Level       string `json:"level"`
	Color       string `json:"color"`
	Count       int    `json:"count"`
}

// AxisLabel is one axis step with its display label.
type AxisLabel struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Matrix is the rendered risk matrix. Rows run top-down by likelihood
// descending, so the red corner sits top-right.
type Matrix struct {
	View      string         `json:"view"`
	Rows      [][]MatrixCell `json:"rows"`
	RowLabels []AxisLabel    `json:"row_labels"`
	ColLabels []AxisLabel    `json:"col_labels"`
	Total     int            `json:"total"`
}

// CoverageSummary is the condensed gap figure for one framework.
type CoverageSummary struct {
	Framework       string  `json:"framework"`
	Total           int     `json:"total"`
	Mapped          int     `json:"mapped"`
	CoveragePercent float64 `json:"coverage_percent"`
}

// DashboardSummary is the dashboard headline view.
type DashboardSummary struct {
	TotalLiveRisks int               `json:"total_live_risks"`
	HighRisks      int               `json:"high_risks"`
	OpenActions    int               `json:"open_actions"`
	OverdueActions int               `json:"overdue_actions"`
	PendingReviews int               `json:"pending_reviews"`
	AlertCounts    map[string]int    `json:"alert_counts"`
	Coverage       []CoverageSummary `json:"coverage"`
}

// Alert is one alert finding.
type Alert struct {
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	SubjectType string `json:"subject_type"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
	Message     string `json:"message"`
}

// AlertList is the full alert list with per-severity counts.
type AlertList struct {
	Alerts []*Alert       `json:"alerts"`
	Counts map[string]int `json:"counts"`
}

// CoverageItem is one catalog entry with its mapped flag.
type CoverageItem struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Mapped   bool   `json:"mapped"`
}

// ReferenceItem is one catalog entry.
type ReferenceItem struct {
	ID            string    `json:"id"`
	Framework     string    `json:"framework"`
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	Version       string    `json:"version"`
	EffectiveFrom time.Time `json:"effective_from"`
}

// Coverage is the gap-analysis result for one framework.
type Coverage struct {
	Framework       string           `json:"framework"`
	Total           int              `json:"total"`
	Mapped          int              `json:"mapped"`
	CoveragePercent float64          `json:"coverage_percent"`
	Items           []*CoverageItem  `json:"items"`
	Unmapped        []*ReferenceItem `json:"unmapped"`
}

// MapRiskRequest links a catalog entry to a risk.
type MapRiskRequest struct {
	ReferenceID string `json:"reference_id"`
	RiskID      string `json:"risk_id"`
	Note        string `json:"note,omitempty"`
}

// RiskMapping is one reference-risk link.
type RiskMapping struct {
	ID          string    `json:"id"`
	ReferenceID string    `json:"reference_id"`
	RiskID      string    `json:"risk_id"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportRequest asks for a register export.
type ExportRequest struct {
	Format string `json:"format"`
	Scope  string `json:"scope"`
}

// ExportTicket is the handle to a rendered export. The document itself
// is fetched with DownloadExport using the ticket's token.
type ExportTicket struct {
	Token       string    `json:"token"`
	Format      string    `json:"format"`
	Scope       string    `json:"scope"`
	SizeBytes   int       `json:"size_bytes"`
	ExpiresAt   time.Time `json:"expires_at"`
	DownloadURL string    `json:"download_url"`
}

// ExportDocument is a downloaded export.
type ExportDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// HealthStatus is the readiness report. Status is "ready" or "not_ready";
// Checks carries one entry per probed dependency.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
