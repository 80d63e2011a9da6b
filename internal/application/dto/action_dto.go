package dto

import (
	"time"
)

// CreateActionRequest creates a remediation action for a risk.
type CreateActionRequest struct {
	RiskID      string     `json:"risk_id" validate:"required,uuid"`
	Title       string     `json:"title" validate:"required,min=3,max=200"`
	Description string     `json:"description" validate:"max=4000"`
	Priority    string     `json:"priority" validate:"required,oneof=low medium high critical"`
	Responsible string     `json:"responsible" validate:"max=100"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateActionRequest updates descriptive fields of an action. Nil fields
// are left unchanged.
type UpdateActionRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Responsible *string    `json:"responsible,omitempty" validate:"omitempty,max=100"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClearDue    bool       `json:"clear_due,omitempty"`
}

// ActionStatusRequest moves an action through its workflow.
type ActionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress done"`
}

// ActionResponse is the API shape of one action. Overdue is derived at
// read time and never stored.
type ActionResponse struct {
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

// ActionListResponse is a page of actions.
type ActionListResponse struct {
	Actions    []*ActionResponse  `json:"actions"`
	Pagination PaginationResponse `json:"pagination"`
}

// ActionListQuery carries the list endpoint's query parameters.
type ActionListQuery struct {
	RiskID   string `form:"risk_id" validate:"omitempty,uuid"`
	Status   string `form:"status" validate:"omitempty,oneof=open in_progress done"`
	Priority string `form:"priority" validate:"omitempty,oneof=low medium high critical"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
