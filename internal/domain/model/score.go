// Package model contains domain models passed between layers.
package model

import "sort"

// GroupKey identifies one evaluation channel of the ABC model.
type GroupKey string

// Evaluation groups.
const (
	GroupA GroupKey = "A" // self-reflection survey
	GroupB GroupKey = "B" // competency declaration
	GroupC GroupKey = "C" // 360 peer review
	GroupD GroupKey = "D" // verification and cross-check
)

// Canonical score scale. Legacy 0-3 survey values are converted at ingestion.
const (
	ScaleMin       = 0.0
	ScaleMax       = 10.0
	LegacyScaleMax = 3.0
)

// ScoreSet holds one employee's raw group scores. Absent groups are simply
// missing from the set. A ScoreSet is never mutated after construction.
type ScoreSet struct {
	values map[GroupKey]float64
}

// NewScoreSet copies present into a new ScoreSet.
func NewScoreSet(present map[GroupKey]float64) ScoreSet {
	values := make(map[GroupKey]float64, len(present))
	for k, v := range present {
		values[k] = v
	}
	return ScoreSet{values: values}
}

// ScoreSetFromPointers builds a ScoreSet where nil entries are absent groups.
func ScoreSetFromPointers(in map[GroupKey]*float64) ScoreSet {
	values := make(map[GroupKey]float64, len(in))
	for k, v := range in {
		if v != nil {
			values[k] = *v
		}
	}
	return ScoreSet{values: values}
}

// Get returns the score of group k and whether it is present.
func (s ScoreSet) Get(k GroupKey) (float64, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Len returns the number of present groups.
func (s ScoreSet) Len() int { return len(s.values) }

// Keys returns the present group keys in ascending order.
func (s ScoreSet) Keys() []GroupKey {
	keys := make([]GroupKey, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Values returns a copy of the present scores.
func (s ScoreSet) Values() map[GroupKey]float64 {
	out := make(map[GroupKey]float64, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// WeightConfig maps groups to their weight. Weights need not sum to one.
type WeightConfig map[GroupKey]float64
