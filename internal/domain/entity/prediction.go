package entity

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Prediction errors
var (
	ErrEmptyLabel      = errors.New("prediction label is empty")
	ErrScoreOutOfRange = errors.New("prediction score out of range")
	ErrEmptyRanking    = errors.New("ranking has no predictions")
)

// Prediction is a single (label, score) pair produced by a model
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Validate checks that the prediction has a label and a score in [0,1]
func (p Prediction) Validate() error {
	if p.Label == "" {
		return ErrEmptyLabel
	}
	if math.IsNaN(p.Score) || p.Score < 0 || p.Score > 1 {
		return fmt.Errorf("%w: %v", ErrScoreOutOfRange, p.Score)
	}
	return nil
}

// Ranking is a list of predictions ordered best first
type Ranking []Prediction

// Top returns the first-ranked prediction
func (r Ranking) Top() (Prediction, error) {
	if len(r) == 0 {
		return Prediction{}, ErrEmptyRanking
	}
	return r[0], nil
}

// Sort orders the ranking by descending score. Equal scores are ordered by label.
func (r Ranking) Sort() {
	sort.SliceStable(r, func(i, j int) bool {
		if r[i].Score != r[j].Score {
			return r[i].Score > r[j].Score
		}
		return r[i].Label < r[j].Label
	})
}
