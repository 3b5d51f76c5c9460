package scoring

import (
	"fmt"
	"math"

	"github.com/okian/abcboard/internal/domain/model"
)

// ValidateScoreSet checks every present group against the canonical scale.
// It runs at the ingestion boundary; Aggregate itself never validates.
func ValidateScoreSet(record string, scores model.ScoreSet) error {
	for _, k := range scores.Keys() {
		v, _ := scores.Get(k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.InputDataError{Record: record, Field: "group" + string(k), Reason: "score is not a finite number"}
		}
		if v < model.ScaleMin || v > model.ScaleMax {
			return &model.InputDataError{
				Record: record,
				Field:  "group" + string(k),
				Reason: fmt.Sprintf("score %g outside [%g, %g]", v, model.ScaleMin, model.ScaleMax),
			}
		}
	}
	return nil
}

// ValidateLegacyScoreSet checks every present group against the 0-3 survey scale.
func ValidateLegacyScoreSet(record string, scores model.ScoreSet) error {
	for _, k := range scores.Keys() {
		v, _ := scores.Get(k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &model.InputDataError{Record: record, Field: "group" + string(k), Reason: "score is not a finite number"}
		}
		if v < model.ScaleMin || v > model.LegacyScaleMax {
			return &model.InputDataError{
				Record: record,
				Field:  "group" + string(k),
				Reason: fmt.Sprintf("legacy score %g outside [%g, %g]", v, model.ScaleMin, model.LegacyScaleMax),
			}
		}
	}
	return nil
}

// FromLegacyScale converts a 0-3 survey value onto the canonical 0-10 scale.
func FromLegacyScale(v float64) float64 {
	return v * model.ScaleMax / model.LegacyScaleMax
}

// NormalizeLegacy converts every present group of a 0-3 ScoreSet.
func NormalizeLegacy(scores model.ScoreSet) model.ScoreSet {
	values := scores.Values()
	for k, v := range values {
		values[k] = FromLegacyScale(v)
	}
	return model.NewScoreSet(values)
}
