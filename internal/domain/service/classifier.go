// Package service contains the pure domain computations of the rosreg
// service: risk classification, matrix aggregation, compliance gap
// analysis, and the alerting rule set. Every function here is a
// side-effect-free computation over a snapshot supplied by the caller.
package service

import (
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
)

// Classification is the derived (score, level, color) triple for one
// assessment. It is recomputed on read and never stored.
type Classification struct {
	Score int                 `json:"score"`
	Level constants.RiskLevel `json:"level"`
	Color constants.RiskColor `json:"color"`
}

// Breakpoints are the inclusive upper score bounds of the four levels.
// A score s maps to the first level whose bound is >= s.
type Breakpoints struct {
	Acceptable int
	Low        int
	Medium     int
	High       int
}

// DefaultBreakpoints is the 5x5 matrix banding fixed by the assessment
// methodology: 1-4 acceptable, 5-9 low, 10-16 medium, 17-25 high.
var DefaultBreakpoints = Breakpoints{
	Acceptable: 4,
	Low:        9,
	Medium:     16,
	High:       constants.ScoreMax,
}

// Classifier maps (likelihood, consequence) pairs to classifications.
// It is a value type carrying its breakpoints explicitly; construct it
// once and share it freely, it has no mutable state.
type Classifier struct {
	breakpoints Breakpoints
}

// NewClassifier creates a Classifier with the given breakpoints.
func NewClassifier(bp Breakpoints) Classifier {
	return Classifier{breakpoints: bp}
}

// NewDefaultClassifier creates a Classifier with DefaultBreakpoints.
func NewDefaultClassifier() Classifier {
	return NewClassifier(DefaultBreakpoints)
}

// Classify maps a likelihood and consequence rating to its classification.
// Ratings outside the 1-5 scale are rejected with a rating_out_of_range
// error; they are never clamped.
func (c Classifier) Classify(likelihood, consequence int) (Classification, error) {
	if likelihood < constants.RatingMin || likelihood > constants.RatingMax ||
		consequence < constants.RatingMin || consequence > constants.RatingMax {
		return Classification{}, errors.ErrRatingOutOfRange.
			WithMetadata("likelihood", likelihood).
			WithMetadata("consequence", consequence)
	}

	score := likelihood * consequence
	level, color := c.levelFor(score)
	return Classification{Score: score, Level: level, Color: color}, nil
}

// ClassifyAssessment is a convenience wrapper around Classify.
func (c Classifier) ClassifyAssessment(a models.Assessment) (Classification, error) {
	return c.Classify(int(a.Likelihood), int(a.Consequence))
}

// ClassifyScore bands an already-computed score. Scores outside 1-25 are
// rejected with a rating_out_of_range error.
func (c Classifier) ClassifyScore(score int) (Classification, error) {
	if score < constants.ScoreMin || score > constants.ScoreMax {
		return Classification{}, errors.ErrRatingOutOfRange.WithMetadata("score", score)
	}
	level, color := c.levelFor(score)
	return Classification{Score: score, Level: level, Color: color}, nil
}

// ScoreRange returns the inclusive score interval covered by a level,
// used to translate level filters into score predicates.
func (c Classifier) ScoreRange(level constants.RiskLevel) (int, int, error) {
	switch level {
	case constants.RiskLevelAcceptable:
		return constants.ScoreMin, c.breakpoints.Acceptable, nil
	case constants.RiskLevelLow:
		return c.breakpoints.Acceptable + 1, c.breakpoints.Low, nil
	case constants.RiskLevelMedium:
		return c.breakpoints.Low + 1, c.breakpoints.Medium, nil
	case constants.RiskLevelHigh:
		return c.breakpoints.Medium + 1, c.breakpoints.High, nil
	default:
		return 0, 0, errors.ErrValidation.WithMetadata("level", string(level))
	}
}

// levelFor maps a score to its level and color. The bounds are inclusive
// uppers: 4 -> acceptable, 9 -> low, 16 -> medium, everything above -> high.
func (c Classifier) levelFor(score int) (constants.RiskLevel, constants.RiskColor) {
	switch {
	case score <= c.breakpoints.Acceptable:
		return constants.RiskLevelAcceptable, constants.RiskColorGreen
	case score <= c.breakpoints.Low:
		return constants.RiskLevelLow, constants.RiskColorYellow
	case score <= c.breakpoints.Medium:
		return constants.RiskLevelMedium, constants.RiskColorOrange
	default:
		return constants.RiskLevelHigh, constants.RiskColorRed
	}
}
