package dto

import (
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
)

// AssessmentDTO is the (likelihood, consequence) pair as submitted by
// clients. Range validation happens in the classifier, not in binding, so
// out-of-range values surface as rating_out_of_range rather than a
// generic binding error.
type AssessmentDTO struct {
	Likelihood  int `json:"likelihood" validate:"required"`
	Consequence int `json:"consequence" validate:"required"`
}

// ToAssessment converts to the domain pair.
func (a AssessmentDTO) ToAssessment() models.Assessment {
	return models.Assessment{
		Likelihood:  models.Rating(a.Likelihood),
		Consequence: models.Rating(a.Consequence),
	}
}

// ClassifiedAssessmentDTO is an assessment with its derived classification.
type ClassifiedAssessmentDTO struct {
	Likelihood       int    `json:"likelihood"`
	LikelihoodLabel  string `json:"likelihood_label"`
	Consequence      int    `json:"consequence"`
	ConsequenceLabel string `json:"consequence_label"`
	Score            int    `json:"score"`
	Level            string `json:"level"`
	Color            string `json:"color"`
}

// NewClassifiedAssessment pairs a domain assessment with its classification.
func NewClassifiedAssessment(a models.Assessment, cls service.Classification) ClassifiedAssessmentDTO {
	return ClassifiedAssessmentDTO{
		Likelihood:       int(a.Likelihood),
		LikelihoodLabel:  constants.LikelihoodLabel(int(a.Likelihood)),
		Consequence:      int(a.Consequence),
		ConsequenceLabel: constants.ConsequenceLabel(int(a.Consequence)),
		Score:            cls.Score,
		Level:            string(cls.Level),
		Color:            string(cls.Color),
	}
}

// CreateRiskRequest creates a risk record.
type CreateRiskRequest struct {
	ProjectID   string         `json:"project_id" validate:"required,uuid"`
	AssetID     *string        `json:"asset_id,omitempty" validate:"omitempty,uuid"`
	Title       string         `json:"title" validate:"required,min=3,max=200"`
	Description string         `json:"description" validate:"max=4000"`
	Type        string         `json:"type" validate:"required,oneof=technical operational organizational external natural"`
	Owner       string         `json:"owner" validate:"max=100"`
	Current     AssessmentDTO  `json:"current" validate:"required"`
	Target      *AssessmentDTO `json:"target,omitempty"`
}

// UpdateRiskRequest updates descriptive fields of a risk. Nil fields are
// left unchanged; assessments change through dedicated operations.
type UpdateRiskRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Type        *string `json:"type,omitempty" validate:"omitempty,oneof=technical operational organizational external natural"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=identified under_assessment accepted mitigating transferred"`
	Owner       *string `json:"owner,omitempty" validate:"omitempty,max=100"`
}

// ReassessRiskRequest records a fresh current assessment.
type ReassessRiskRequest struct {
	Current AssessmentDTO `json:"current" validate:"required"`
}

// SetTargetRequest records the planned target assessment.
type SetTargetRequest struct {
	Target AssessmentDTO `json:"target" validate:"required"`
}

// RiskResponse is the API shape of one risk.
type RiskResponse struct {
	ID             string                   `json:"id"`
	ProjectID      string                   `json:"project_id"`
	AssetID        *string                  `json:"asset_id,omitempty"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description,omitempty"`
	Type           string                   `json:"type"`
	Status         string                   `json:"status"`
	Owner          string                   `json:"owner,omitempty"`
	Current        ClassifiedAssessmentDTO  `json:"current"`
	Target         *ClassifiedAssessmentDTO `json:"target,omitempty"`
	LastReviewedAt *time.Time               `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// RiskListResponse is a page of risks.
type RiskListResponse struct {
	Risks      []*RiskResponse    `json:"risks"`
	Pagination PaginationResponse `json:"pagination"`
}

// RiskListQuery carries the list endpoint's query parameters.
type RiskListQuery struct {
	ProjectID     string `form:"project_id" validate:"omitempty,uuid"`
	AssetID       string `form:"asset_id" validate:"omitempty,uuid"`
	Status        string `form:"status" validate:"omitempty,oneof=identified under_assessment accepted mitigating transferred closed"`
	Type          string `form:"type" validate:"omitempty,oneof=technical operational organizational external natural"`
	Level         string `form:"level" validate:"omitempty,oneof=acceptable low medium high"`
	IncludeClosed bool   `form:"include_closed"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}
