// Package category maps a total score onto an ordered list of talent bands.
package category

import (
	"fmt"
	"sort"

	"github.com/okian/abcboard/internal/domain/model"
)

// Classify returns the band of bands that contains total. Bands are tried in
// descending lower bound, the floor band last, so a score equal to a lower
// bound lands in that band and never in the one below. The returned pointer
// addresses an element of bands.
func Classify(total float64, bands []model.Band) (*model.Band, error) {
	for _, i := range evaluationOrder(bands) {
		if bands[i].Contains(total) {
			return &bands[i], nil
		}
	}
	return nil, noMatch(total)
}

// Classifier holds a band list sorted once into evaluation order.
// It is safe for concurrent use: nothing is mutated after construction.
type Classifier struct {
	bands []model.Band
	byKey map[string]int
}

// NewClassifier validates bands over the canonical scale and prepares them.
func NewClassifier(bands []model.Band) (*Classifier, error) {
	if err := Validate(bands, model.ScaleMin, model.ScaleMax); err != nil {
		return nil, err
	}
	sorted := make([]model.Band, 0, len(bands))
	for _, i := range evaluationOrder(bands) {
		sorted = append(sorted, copyBand(bands[i]))
	}
	byKey := make(map[string]int, len(sorted))
	for i, b := range sorted {
		byKey[b.Key] = i
	}
	return &Classifier{bands: sorted, byKey: byKey}, nil
}

// Classify returns the band containing total. The same total always yields
// the same *model.Band.
func (c *Classifier) Classify(total float64) (*model.Band, error) {
	for i := range c.bands {
		if c.bands[i].Contains(total) {
			return &c.bands[i], nil
		}
	}
	return nil, noMatch(total)
}

// Bands returns the bands in evaluation order, highest first.
func (c *Classifier) Bands() []model.Band {
	out := make([]model.Band, len(c.bands))
	copy(out, c.bands)
	return out
}

// Lookup finds a band by key.
func (c *Classifier) Lookup(key string) (*model.Band, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return nil, false
	}
	return &c.bands[i], true
}

func noMatch(total float64) error {
	return model.NewConfigurationError("bands", "", fmt.Sprintf("no band matches score %g", total))
}

// evaluationOrder returns indexes of bands by descending lower bound with the
// floor band (nil lower) last. Equal bounds keep their configured order.
func evaluationOrder(bands []model.Band) []int {
	idx := make([]int, len(bands))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		la, lb := bands[idx[a]].Lower, bands[idx[b]].Lower
		switch {
		case la == nil:
			return false
		case lb == nil:
			return true
		default:
			return *la > *lb
		}
	})
	return idx
}

func copyBand(b model.Band) model.Band {
	out := b
	if b.Lower != nil {
		out.Lower = model.Bound(*b.Lower)
	}
	if b.Upper != nil {
		out.Upper = model.Bound(*b.Upper)
	}
	return out
}
