package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/pkg/constants"
)

// Action is a remediation item linked to a risk. The overdue state is
// derived from the due date and stored status, never persisted.
type Action struct {
	ID          uuid.UUID                `json:"id"`
	RiskID      uuid.UUID                `json:"risk_id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Priority    constants.ActionPriority `json:"priority"`
	Responsible string                   `json:"responsible"`
	DueDate     *time.Time               `json:"due_date,omitempty"`
	Status      constants.ActionStatus   `json:"status"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAction creates an open Action for a risk.
func NewAction(riskID uuid.UUID, title string, priority constants.ActionPriority, responsible string) *Action {
	now := time.Now().UTC()
	return &Action{
		ID:          uuid.New(),
		RiskID:      riskID,
		Title:       title,
		Priority:    priority,
		Responsible: responsible,
		Status:      constants.ActionStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsOverdue reports whether the action is past due and not done.
// Actions without a due date are never overdue.
func (a *Action) IsOverdue(now time.Time) bool {
	if a.Status == constants.ActionStatusDone || a.DueDate == nil {
		return false
	}
	return a.DueDate.Before(now)
}

// IsOpen reports whether the action still counts as active remediation
// (open or in progress).
func (a *Action) IsOpen() bool {
	return a.Status == constants.ActionStatusOpen || a.Status == constants.ActionStatusInProgress
}

// SetStatus moves the action to the given status, stamping CompletedAt
// when it transitions to done and clearing it when it is reopened.
func (a *Action) SetStatus(status constants.ActionStatus, now time.Time) {
	a.Status = status
	if status == constants.ActionStatusDone {
		a.CompletedAt = &now
	} else {
		a.CompletedAt = nil
	}
	a.UpdatedAt = now
}
