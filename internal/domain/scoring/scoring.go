// Package scoring combines per-group evaluation scores into one weighted total.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/abcboard/internal/domain/model"
)

// Result is the outcome of aggregating one ScoreSet.
type Result struct {
	// Total is the weighted mean of the present groups, 0 when none are present.
	Total float64
	// WeightTotal is the sum of the weights of the present groups.
	WeightTotal float64
	// HasAnyData distinguishes "no data" from a genuine score of zero.
	HasAnyData bool
}

// Aggregate computes the weighted mean of the groups present in both scores and weights.
// Values are propagated as-is: nothing is clamped or corrected here.
func Aggregate(scores model.ScoreSet, weights model.WeightConfig) Result {
	var sum, weightTotal float64
	for _, k := range scores.Keys() {
		w, ok := weights[k]
		if !ok {
			continue
		}
		v, _ := scores.Get(k)
		sum += v * w
		weightTotal += w
	}
	if weightTotal <= 0 {
		return Result{}
	}
	return Result{Total: sum / weightTotal, WeightTotal: weightTotal, HasAnyData: true}
}

// Scorer computes a Result from a ScoreSet.
type Scorer interface {
	Score(scores model.ScoreSet) Result
}

// WeightedScorer implements Scorer over a fixed, validated WeightConfig.
type WeightedScorer struct {
	weights model.WeightConfig
}

// NewWeightedScorer validates and copies weights.
func NewWeightedScorer(weights model.WeightConfig) (*WeightedScorer, error) {
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	copied := make(model.WeightConfig, len(weights))
	for k, w := range weights {
		copied[k] = w
	}
	return &WeightedScorer{weights: copied}, nil
}

// Score aggregates scores with the scorer's weights.
func (s *WeightedScorer) Score(scores model.ScoreSet) Result {
	return Aggregate(scores, s.weights)
}

// Weights returns a copy of the configured weights.
func (s *WeightedScorer) Weights() model.WeightConfig {
	out := make(model.WeightConfig, len(s.weights))
	for k, w := range s.weights {
		out[k] = w
	}
	return out
}

// ValidateWeights rejects negative or non-finite weights and all-zero sets.
func ValidateWeights(weights model.WeightConfig) error {
	if len(weights) == 0 {
		return model.NewConfigurationError("weights", "", "no groups configured")
	}
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	var positive bool
	for _, k := range keys {
		w := weights[model.GroupKey(k)]
		switch {
		case math.IsNaN(w) || math.IsInf(w, 0):
			return model.NewConfigurationError("weights", k, "weight is not a finite number")
		case w < 0:
			return model.NewConfigurationError("weights", k, fmt.Sprintf("weight %g is negative", w))
		case w > 0:
			positive = true
		}
	}
	if !positive {
		return model.NewConfigurationError("weights", "", "at least one group needs a positive weight")
	}
	return nil
}
