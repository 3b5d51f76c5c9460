// Package pipeline partitions classified employees into talent pipeline buckets.
package pipeline

import (
	"fmt"

	"github.com/okian/abcboard/internal/domain/model"
)

// Bucket names used by the default rule set.
const (
	ReadyForPromotion = "ready_for_promotion"
	HighPotential     = "high_potential"
	NeedsDevelopment  = "needs_development"
	CriticalRetention = "critical_retention"
)

// Rule decides membership of one bucket: the employee's category must be one
// of Categories and, when MinScoreExclusive is set, the total must exceed it.
type Rule struct {
	Name              string   `koanf:"name" json:"name"`
	Categories        []string `koanf:"categories" json:"categories"`
	MinScoreExclusive *float64 `koanf:"min_score_exclusive" json:"min_score_exclusive,omitempty"`
}

func (r Rule) matches(e model.ClassifiedEmployee) bool {
	if e.Category == nil {
		return false
	}
	found := false
	for _, c := range r.Categories {
		if c == e.Category.Key {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return r.MinScoreExclusive == nil || e.TotalScore > *r.MinScoreExclusive
}

// Result maps every configured bucket name to its members.
type Result map[string][]model.ClassifiedEmployee

// Bucketer applies a fixed rule set.
type Bucketer struct {
	rules []Rule
}

// NewBucketer validates rules against bands and copies them.
func NewBucketer(rules []Rule, bands []model.Band) (*Bucketer, error) {
	if err := Validate(rules, bands); err != nil {
		return nil, err
	}
	copied := make([]Rule, len(rules))
	for i, r := range rules {
		copied[i] = Rule{Name: r.Name, Categories: append([]string(nil), r.Categories...)}
		if r.MinScoreExclusive != nil {
			copied[i].MinScoreExclusive = model.Bound(*r.MinScoreExclusive)
		}
	}
	return &Bucketer{rules: copied}, nil
}

// Bucket assigns each employee to every bucket whose rule it satisfies.
// All configured buckets are present in the result, empty ones included,
// and members keep their input order.
func (b *Bucketer) Bucket(employees []model.ClassifiedEmployee) Result {
	out := make(Result, len(b.rules))
	for _, r := range b.rules {
		out[r.Name] = []model.ClassifiedEmployee{}
	}
	for _, e := range employees {
		for _, r := range b.rules {
			if r.matches(e) {
				out[r.Name] = append(out[r.Name], e)
			}
		}
	}
	return out
}

// Names returns the bucket names in configured order.
func (b *Bucketer) Names() []string {
	names := make([]string, len(b.rules))
	for i, r := range b.rules {
		names[i] = r.Name
	}
	return names
}

// Validate rejects rules naming unknown categories and sub-thresholds that
// cannot select anything inside their category.
func Validate(rules []Rule, bands []model.Band) error {
	byKey := make(map[string]model.Band, len(bands))
	for _, b := range bands {
		byKey[b.Key] = b
	}
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return model.NewConfigurationError("buckets", "", "bucket has no name")
		}
		if _, dup := seen[r.Name]; dup {
			return model.NewConfigurationError("buckets", r.Name, "duplicate bucket name")
		}
		seen[r.Name] = struct{}{}
		if len(r.Categories) == 0 {
			return model.NewConfigurationError("buckets", r.Name, "no categories selected")
		}
		for _, c := range r.Categories {
			band, ok := byKey[c]
			if !ok {
				return model.NewConfigurationError("buckets", r.Name, fmt.Sprintf("unknown category %q", c))
			}
			if r.MinScoreExclusive == nil {
				continue
			}
			t := *r.MinScoreExclusive
			if band.Lower != nil && t <= *band.Lower {
				return model.NewConfigurationError("buckets", r.Name,
					fmt.Sprintf("threshold %g must be above the lower bound %g of %q", t, *band.Lower, c))
			}
			if band.Upper != nil && t >= *band.Upper {
				return model.NewConfigurationError("buckets", r.Name,
					fmt.Sprintf("threshold %g leaves no room below the upper bound %g of %q", t, *band.Upper, c))
			}
		}
	}
	return nil
}
