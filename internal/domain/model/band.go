package model

// Band is one talent category: a half-open score range [Lower, Upper).
// A nil Lower marks the catch-all floor band, a nil Upper the ceiling band.
type Band struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Color string   `json:"color"`
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
}

// Contains reports whether score falls inside the band. NaN is inside no
// bounded band.
func (b *Band) Contains(score float64) bool {
	return (b.Lower == nil || score >= *b.Lower) && (b.Upper == nil || score < *b.Upper)
}

// Bound returns a pointer to v, for building band limits inline.
func Bound(v float64) *float64 { return &v }
