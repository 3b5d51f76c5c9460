package category

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/abcboard/internal/domain/model"
)

type interval struct {
	key    string
	lo, hi float64
}

// Validate checks that bands are well formed, non-overlapping and cover
// [scaleMin, scaleMax] without gaps.
func Validate(bands []model.Band, scaleMin, scaleMax float64) error {
	if len(bands) == 0 {
		return model.NewConfigurationError("bands", "", "no bands configured")
	}

	seen := make(map[string]struct{}, len(bands))
	var floors, ceilings int
	ivs := make([]interval, 0, len(bands))
	for _, b := range bands {
		if b.Key == "" {
			return model.NewConfigurationError("bands", b.Label, "band has no key")
		}
		if _, dup := seen[b.Key]; dup {
			return model.NewConfigurationError("bands", b.Key, "duplicate band key")
		}
		seen[b.Key] = struct{}{}

		iv := interval{key: b.Key, lo: math.Inf(-1), hi: math.Inf(1)}
		if b.Lower == nil {
			floors++
		} else {
			iv.lo = *b.Lower
		}
		if b.Upper == nil {
			ceilings++
		} else {
			iv.hi = *b.Upper
		}
		if math.IsNaN(iv.lo) || math.IsNaN(iv.hi) {
			return model.NewConfigurationError("bands", b.Key, "bound is not a number")
		}
		if iv.lo >= iv.hi {
			return model.NewConfigurationError("bands", b.Key, fmt.Sprintf("lower bound %g is not below upper bound %g", iv.lo, iv.hi))
		}
		ivs = append(ivs, iv)
	}
	if floors > 1 {
		return model.NewConfigurationError("bands", "", "more than one band without a lower bound")
	}
	if ceilings > 1 {
		return model.NewConfigurationError("bands", "", "more than one band without an upper bound")
	}

	sort.Slice(ivs, func(i, j int) bool { return ivs[i].lo < ivs[j].lo })
	if ivs[0].lo > scaleMin {
		return model.NewConfigurationError("bands", ivs[0].key, fmt.Sprintf("scores in [%g, %g) are not covered", scaleMin, ivs[0].lo))
	}
	for i := 1; i < len(ivs); i++ {
		prev, cur := ivs[i-1], ivs[i]
		switch {
		case prev.hi < cur.lo:
			return model.NewConfigurationError("bands", cur.key, fmt.Sprintf("gap [%g, %g) after band %q", prev.hi, cur.lo, prev.key))
		case prev.hi > cur.lo:
			return model.NewConfigurationError("bands", cur.key, fmt.Sprintf("overlaps band %q", prev.key))
		}
	}
	if last := ivs[len(ivs)-1]; last.hi <= scaleMax {
		return model.NewConfigurationError("bands", last.key, fmt.Sprintf("scores from %g up to %g are not covered", last.hi, scaleMax))
	}
	return nil
}
