package service

import (
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
)

// MatrixView selects which assessment of each risk a matrix counts.
type MatrixView string

const (
	// MatrixViewCurrent counts the current assessment of each risk.
	MatrixViewCurrent MatrixView = "current"

	// MatrixViewTarget counts the target assessment, falling back to the
	// current assessment for risks without a target.
	MatrixViewTarget MatrixView = "target"
)

// Valid reports whether v is a known matrix view.
func (v MatrixView) Valid() bool {
	return v == MatrixViewCurrent || v == MatrixViewTarget
}

// MatrixCell is one cell of the 5x5 grid. Score, Level and Color are
// fixed by the cell position; Count is the number of risks placed there.
type MatrixCell struct {
	Likelihood  int                 `json:"likelihood"`
	Consequence int                 `json:"consequence"`
	Score       int                 `json:"score"`
	Level       constants.RiskLevel `json:"level"`
	Color       constants.RiskColor `json:"color"`
	Count       int                 `json:"count"`
}

// Matrix is a populated 5x5 risk matrix.
//
// Orientation: rows run top-down by likelihood descending (likelihood 5
// is row 0), columns run left-right by consequence ascending (consequence
// 1 is column 0). A rating pair lands in Cells[5-likelihood][consequence-1],
// putting the red corner top-right the way the matrix is drawn on paper.
type Matrix struct {
	View  MatrixView                                            `json:"view"`
	Cells [constants.MatrixSize][constants.MatrixSize]MatrixCell `json:"cells"`
	Total int                                                   `json:"total"`
}

// At returns the cell for a rating pair. It panics on out-of-range input;
// callers index with validated ratings or loop the fixed 1-5 scale.
func (m *Matrix) At(likelihood, consequence int) MatrixCell {
	return m.Cells[constants.RatingMax-likelihood][consequence-constants.RatingMin]
}

// Aggregator builds risk matrices from risk snapshots.
type Aggregator struct {
	classifier Classifier
}

// NewAggregator creates an Aggregator using the given classifier for the
// static score/level/color of each cell.
func NewAggregator(c Classifier) Aggregator {
	return Aggregator{classifier: c}
}

// Build counts each risk into exactly one cell of a fresh matrix. With no
// risks every count is zero but each cell still carries its score, level
// and color. A risk with a rating outside the 1-5 scale aborts the build
// with a rating_out_of_range error carrying the offending risk id.
func (g Aggregator) Build(risks []*models.Risk, view MatrixView) (*Matrix, error) {
	if !view.Valid() {
		return nil, errors.ErrValidation.WithMetadata("view", string(view))
	}

	m := &Matrix{View: view}
	for likelihood := constants.RatingMax; likelihood >= constants.RatingMin; likelihood-- {
		for consequence := constants.RatingMin; consequence <= constants.RatingMax; consequence++ {
			cls, err := g.classifier.Classify(likelihood, consequence)
			if err != nil {
				return nil, err
			}
			m.Cells[constants.RatingMax-likelihood][consequence-constants.RatingMin] = MatrixCell{
				Likelihood:  likelihood,
				Consequence: consequence,
				Score:       cls.Score,
				Level:       cls.Level,
				Color:       cls.Color,
			}
		}
	}

	for _, risk := range risks {
		if risk == nil {
			continue
		}
		assessment := risk.Current
		if view == MatrixViewTarget {
			assessment = risk.EffectiveTarget()
		}
		if !assessment.Valid() {
			return nil, errors.ErrRatingOutOfRange.
				WithMetadata("risk_id", risk.ID.String()).
				WithMetadata("likelihood", int(assessment.Likelihood)).
				WithMetadata("consequence", int(assessment.Consequence))
		}
		cell := &m.Cells[constants.RatingMax-int(assessment.Likelihood)][int(assessment.Consequence)-constants.RatingMin]
		cell.Count++
		m.Total++
	}

	return m, nil
}
