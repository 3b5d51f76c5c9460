package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/abcboard/internal/domain/model"
)

type jsonGroups struct {
	GroupA *float64 `json:"groupA"`
	GroupB *float64 `json:"groupB"`
	GroupC *float64 `json:"groupC"`
	GroupD *float64 `json:"groupD"`
}

type jsonRecord struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employeeCode"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Department   string `json:"department"`
	Position     string `json:"position"`
	Status       string `json:"status"`
	jsonGroups
	ABCScores *jsonGroups `json:"abcScores"`
}

// groups prefers the flat groupX fields and falls back to abcScores.
func (j jsonRecord) groups() map[model.GroupKey]*float64 {
	g := j.jsonGroups
	if nested := j.ABCScores; nested != nil {
		if g.GroupA == nil {
			g.GroupA = nested.GroupA
		}
		if g.GroupB == nil {
			g.GroupB = nested.GroupB
		}
		if g.GroupC == nil {
			g.GroupC = nested.GroupC
		}
		if g.GroupD == nil {
			g.GroupD = nested.GroupD
		}
	}
	return map[model.GroupKey]*float64{
		model.GroupA: g.GroupA,
		model.GroupB: g.GroupB,
		model.GroupC: g.GroupC,
		model.GroupD: g.GroupD,
	}
}

// decodeJSON accepts a bare array or an object with an "employees" array.
func decodeJSON(src io.Reader) ([]record, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	raw = bytes.TrimSpace(raw)

	var items []jsonRecord
	switch {
	case len(raw) == 0:
		return nil, fmt.Errorf("%w: empty document", ErrMalformedSource)
	case raw[0] == '{':
		var doc struct {
			Employees []jsonRecord `json:"employees"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		items = doc.Employees
	default:
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
	}

	out := make([]record, len(items))
	for i, it := range items {
		out[i] = record{
			ID:           it.ID,
			EmployeeCode: it.EmployeeCode,
			Name:         it.Name,
			Email:        it.Email,
			Department:   it.Department,
			Position:     it.Position,
			Status:       it.Status,
			Groups:       it.groups(),
		}
	}
	return out, nil
}
