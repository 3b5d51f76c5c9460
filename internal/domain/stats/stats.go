// Package stats aggregates classified employees into grouped summaries.
package stats

import (
	"sort"

	"github.com/okian/abcboard/internal/domain/model"
)

// GroupSummary is one row of a grouped summary.
type GroupSummary struct {
	Key                  string         `json:"key"`
	Count                int            `json:"count"`
	AverageScore         float64        `json:"average_score"`
	CategoryDistribution map[string]int `json:"category_distribution"`
}

// KeyFunc extracts the grouping key of an employee.
type KeyFunc func(model.ClassifiedEmployee) string

// ByDepartment groups by the employee's department.
func ByDepartment(e model.ClassifiedEmployee) string { return e.Employee.Department }

// ByCategory groups by category key.
func ByCategory(e model.ClassifiedEmployee) string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Key
}

// ByPosition groups by position.
func ByPosition(e model.ClassifiedEmployee) string { return e.Employee.Position }

// Summarize groups employees by key, averaging total scores and counting
// categories per group. Rows are ordered by average descending, ties by key.
func Summarize(employees []model.ClassifiedEmployee, key KeyFunc) []GroupSummary {
	type acc struct {
		count int
		sum   float64
		dist  map[string]int
	}
	groups := make(map[string]*acc)
	for _, e := range employees {
		k := key(e)
		g, ok := groups[k]
		if !ok {
			g = &acc{dist: make(map[string]int)}
			groups[k] = g
		}
		g.count++
		g.sum += e.TotalScore
		g.dist[ByCategory(e)]++
	}

	out := make([]GroupSummary, 0, len(groups))
	for k, g := range groups {
		// count is at least one: a group only exists once an employee maps to it
		out = append(out, GroupSummary{
			Key:                  k,
			Count:                g.count,
			AverageScore:         g.sum / float64(g.count),
			CategoryDistribution: g.dist,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageScore != out[j].AverageScore {
			return out[i].AverageScore > out[j].AverageScore
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Distribution counts employees per category key.
func Distribution(employees []model.ClassifiedEmployee) map[string]int {
	out := make(map[string]int)
	for _, e := range employees {
		out[ByCategory(e)]++
	}
	return out
}
