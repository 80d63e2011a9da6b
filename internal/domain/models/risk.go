// Package models defines the domain models for the rosreg service.
// This file contains the Risk domain model with its lifecycle logic.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/pkg/constants"
)

// Rating is a likelihood or consequence value on the 1-5 scale.
type Rating int

// Valid reports whether the rating is inside the 1-5 scale.
func (r Rating) Valid() bool {
	return int(r) >= constants.RatingMin && int(r) <= constants.RatingMax
}

// Assessment is a (likelihood, consequence) pair. The derived score is
// never stored; it is recomputed from the pair on read.
type Assessment struct {
	Likelihood  Rating `json:"likelihood"`
	Consequence Rating `json:"consequence"`
}

// Valid reports whether both ratings are inside the 1-5 scale.
func (a Assessment) Valid() bool {
	return a.Likelihood.Valid() && a.Consequence.Valid()
}

// Score returns likelihood x consequence. Only meaningful for valid assessments.
func (a Assessment) Score() int {
	return int(a.Likelihood) * int(a.Consequence)
}

// Risk represents a recorded risk against a project and (optionally) an asset.
// Risks are historical records: they are closed, never hard-deleted.
type Risk struct {
	ID          uuid.UUID            `json:"id"`
	ProjectID   uuid.UUID            `json:"project_id"`
	AssetID     *uuid.UUID           `json:"asset_id,omitempty"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        constants.RiskType   `json:"type"`
	Status      constants.RiskStatus `json:"status"`
	Owner       string               `json:"owner"`

	// Current is the present assessment. Target is the assessment the
	// remediation plan aims for; nil means no reduction is planned yet.
	Current Assessment  `json:"current"`
	Target  *Assessment `json:"target,omitempty"`

	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// NewRisk creates a Risk in the identified state with the given current
// assessment. Callers validate the assessment through the classifier first.
func NewRisk(projectID uuid.UUID, title string, riskType constants.RiskType, current Assessment) *Risk {
	now := time.Now().UTC()
	return &Risk{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
		Type:      riskType,
		Status:    constants.RiskStatusIdentified,
		Current:   current,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsLive reports whether the risk still counts for matrices, gap coverage,
// and alerting: not soft-deleted and not closed.
func (r *Risk) IsLive() bool {
	return r.DeletedAt == nil && r.Status != constants.RiskStatusClosed
}

// IsClosed reports whether the risk has been retired.
func (r *Risk) IsClosed() bool {
	return r.Status == constants.RiskStatusClosed
}

// HasTarget reports whether a target assessment has been set.
func (r *Risk) HasTarget() bool {
	return r.Target != nil
}

// EffectiveTarget returns the target assessment, falling back to the
// current one when no reduction is planned. This is the value the target
// matrix view counts.
func (r *Risk) EffectiveTarget() Assessment {
	if r.Target != nil {
		return *r.Target
	}
	return r.Current
}

// Reassess replaces the current assessment and stamps the review date.
func (r *Risk) Reassess(current Assessment, now time.Time) {
	r.Current = current
	r.LastReviewedAt = &now
	r.UpdatedAt = now
}

// SetTarget records or replaces the planned target assessment.
func (r *Risk) SetTarget(target Assessment, now time.Time) {
	r.Target = &target
	r.UpdatedAt = now
}

// ClearTarget removes the planned target assessment.
func (r *Risk) ClearTarget(now time.Time) {
	r.Target = nil
	r.UpdatedAt = now
}

// Close retires the risk. Closed risks stay in the register but stop
// counting as live.
func (r *Risk) Close(now time.Time) {
	r.Status = constants.RiskStatusClosed
	r.UpdatedAt = now
}

// IsHighBand reports whether the current score falls in the 17-25 band.
func (r *Risk) IsHighBand() bool {
	return r.Current.Score() >= constants.HighBandFloor
}
