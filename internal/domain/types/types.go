// Package types contains the read shapes shared by the HTTP API, CLI and MCP tools.
package types

import (
	"time"

	"github.com/okian/abcboard/internal/domain/model"
)

// EmployeeView is the serialized form of a classified employee.
type EmployeeView struct {
	ID            string              `json:"id"`
	EmployeeCode  string              `json:"employee_code,omitempty"`
	Name          string              `json:"name"`
	Email         string              `json:"email,omitempty"`
	Department    string              `json:"department"`
	Position      string              `json:"position,omitempty"`
	Status        string              `json:"status,omitempty"`
	Scores        map[string]*float64 `json:"scores"`
	TotalScore    float64             `json:"total_score"`
	HasData       bool                `json:"has_data"`
	Category      string              `json:"category"`
	CategoryLabel string              `json:"category_label"`
	CategoryColor string              `json:"category_color,omitempty"`
}

// Groups lists every evaluation group rendered in a view, absent ones as null.
var Groups = []model.GroupKey{model.GroupA, model.GroupB, model.GroupC, model.GroupD}

// NewEmployeeView converts a classified employee.
func NewEmployeeView(e model.ClassifiedEmployee) EmployeeView {
	scores := make(map[string]*float64, len(Groups))
	for _, g := range Groups {
		if v, ok := e.Employee.Scores.Get(g); ok {
			scores[string(g)] = model.Bound(v)
		} else {
			scores[string(g)] = nil
		}
	}
	v := EmployeeView{
		ID:           e.Employee.ID,
		EmployeeCode: e.Employee.EmployeeCode,
		Name:         e.Employee.Name,
		Email:        e.Employee.Email,
		Department:   e.Employee.Department,
		Position:     e.Employee.Position,
		Status:       e.Employee.Status,
		Scores:       scores,
		TotalScore:   e.TotalScore,
		HasData:      e.HasAnyData,
	}
	if e.Category != nil {
		v.Category = e.Category.Key
		v.CategoryLabel = e.Category.Label
		v.CategoryColor = e.Category.Color
	}
	return v
}

// NewEmployeeViews converts a slice, never returning nil.
func NewEmployeeViews(in []model.ClassifiedEmployee) []EmployeeView {
	out := make([]EmployeeView, len(in))
	for i, e := range in {
		out[i] = NewEmployeeView(e)
	}
	return out
}

// ClassifyResult answers an ad-hoc classification request.
type ClassifyResult struct {
	TotalScore float64     `json:"total_score"`
	HasData    bool        `json:"has_data"`
	Category   *model.Band `json:"category"`
}

// EmployeeDetail is a single employee with its ranking position.
type EmployeeDetail struct {
	EmployeeView
	Rank int `json:"rank"`
}

// EmployeeList is a page of employees. Total counts matches before the limit.
type EmployeeList struct {
	Total int            `json:"total"`
	Items []EmployeeView `json:"items"`
}

// PipelineBucket is one talent pipeline bucket.
type PipelineBucket struct {
	Name      string         `json:"name"`
	Count     int            `json:"count"`
	Employees []EmployeeView `json:"employees"`
}

// NewPipelineView lists buckets in the configured order.
func NewPipelineView(result map[string][]model.ClassifiedEmployee, names []string) []PipelineBucket {
	out := make([]PipelineBucket, 0, len(names))
	for _, n := range names {
		members := result[n]
		out = append(out, PipelineBucket{Name: n, Count: len(members), Employees: NewEmployeeViews(members)})
	}
	return out
}

// Status describes the loaded snapshot.
type Status struct {
	Started   bool      `json:"started"`
	Employees int       `json:"employees"`
	Version   uint64    `json:"version"`
	Rejected  int       `json:"rejected"`
	Source    string    `json:"source,omitempty"`
	LoadedAt  time.Time `json:"loaded_at,omitzero"`
}
