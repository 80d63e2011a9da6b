package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a scheduled reassessment of a risk. A review that was never
// conducted and whose scheduled date has passed is overdue.
type Review struct {
	ID            uuid.UUID  `json:"id"`
	RiskID        uuid.UUID  `json:"risk_id"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	ConductedDate *time.Time `json:"conducted_date,omitempty"`
	Reviewer      string     `json:"reviewer"`
	Outcome       string     `json:"outcome,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewReview schedules a review of a risk.
func NewReview(riskID uuid.UUID, scheduled time.Time, reviewer string) *Review {
	now := time.Now().UTC()
	return &Review{
		ID:            uuid.New(),
		RiskID:        riskID,
		ScheduledDate: scheduled,
		Reviewer:      reviewer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsConducted reports whether the review has taken place.
func (r *Review) IsConducted() bool {
	return r.ConductedDate != nil
}

// IsOverdue reports whether the review was scheduled in the past and
// never conducted.
func (r *Review) IsOverdue(now time.Time) bool {
	return r.ConductedDate == nil && r.ScheduledDate.Before(now)
}

// IsUpcoming reports whether the review is still pending and scheduled
// within the window from now.
func (r *Review) IsUpcoming(now time.Time, window time.Duration) bool {
	if r.ConductedDate != nil || r.ScheduledDate.Before(now) {
		return false
	}
	return !r.ScheduledDate.After(now.Add(window))
}

// Complete marks the review conducted and records the outcome.
func (r *Review) Complete(conducted time.Time, outcome string) {
	r.ConductedDate = &conducted
	r.Outcome = outcome
	r.UpdatedAt = time.Now().UTC()
}
