package dto

import (
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
)

// ScheduleReviewRequest schedules a reassessment of a risk.
type ScheduleReviewRequest struct {
	RiskID        string    `json:"risk_id" validate:"required,uuid"`
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Reviewer      string    `json:"reviewer" validate:"required,max=100"`
}

// CompleteReviewRequest marks a review conducted.
type CompleteReviewRequest struct {
	ConductedDate time.Time `json:"conducted_date" validate:"required"`
	Outcome       string    `json:"outcome" validate:"max=4000"`
}

// ReviewResponse is the API shape of one review. Overdue is derived at
// read time.
type ReviewResponse struct {
	ID            string     `json:"id"`
	RiskID        string     `json:"risk_id"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	ConductedDate *time.Time `json:"conducted_date,omitempty"`
	Reviewer      string     `json:"reviewer"`
	Outcome       string     `json:"outcome,omitempty"`
	Overdue       bool       `json:"overdue"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewReview converts a review to its API shape.
func NewReview(r *models.Review, now time.Time) *ReviewResponse {
	return &ReviewResponse{
		ID:            r.ID.String(),
		RiskID:        r.RiskID.String(),
		ScheduledDate: r.ScheduledDate,
		ConductedDate: r.ConductedDate,
		Reviewer:      r.Reviewer,
		Outcome:       r.Outcome,
		Overdue:       r.IsOverdue(now),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ReviewListResponse lists the reviews of one risk.
type ReviewListResponse struct {
	Reviews []*ReviewResponse `json:"reviews"`
}
