package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/abcboard/internal/domain/model"
)

type column int

const (
	colID column = iota
	colCode
	colName
	colEmail
	colDepartment
	colPosition
	colStatus
	colGroupA
	colGroupB
	colGroupC
	colGroupD
)

// headerAliases maps normalized header text to a column. The Vietnamese
// headers are those of the HR spreadsheet export.
var headerAliases = map[string]column{
	"id":            colID,
	"mã nv":         colCode,
	"employee_code": colCode,
	"employeecode":  colCode,
	"họ và tên":     colName,
	"name":          colName,
	"email":         colEmail,
	"nhóm":          colDepartment,
	"department":    colDepartment,
	"chức vụ":       colPosition,
	"position":      colPosition,
	"trạng thái":    colStatus,
	"status":        colStatus,
	"điểm nhóm a":   colGroupA,
	"group_a":       colGroupA,
	"groupa":        colGroupA,
	"điểm nhóm b":   colGroupB,
	"group_b":       colGroupB,
	"groupb":        colGroupB,
	"điểm nhóm c":   colGroupC,
	"group_c":       colGroupC,
	"groupc":        colGroupC,
	"điểm nhóm d":   colGroupD,
	"group_d":       colGroupD,
	"groupd":        colGroupD,
}

var groupColumns = map[column]model.GroupKey{
	colGroupA: model.GroupA,
	colGroupB: model.GroupB,
	colGroupC: model.GroupC,
	colGroupD: model.GroupD,
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

func decodeCSV(src io.Reader) ([]record, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedSource)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}
	index := make(map[column]int, len(header))
	for i, h := range header {
		if c, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := index[c]; !dup {
				index[c] = i
			}
		}
	}
	if _, ok := index[colName]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, "Họ và Tên")
	}

	var out []record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		if blank(row) {
			continue
		}
		out = append(out, parseRow(row, index))
	}
	return out, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, index map[column]int) record {
	cell := func(c column) string {
		i, ok := index[c]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	rec := record{
		ID:           cell(colID),
		EmployeeCode: cell(colCode),
		Name:         cell(colName),
		Email:        cell(colEmail),
		Department:   cell(colDepartment),
		Position:     cell(colPosition),
		Status:       cell(colStatus),
		Groups:       make(map[model.GroupKey]*float64, len(groupColumns)),
	}
	for c, g := range groupColumns {
		v, err := parseScore(cell(c))
		if err != nil && rec.malformed == nil {
			rec.malformed = &model.InputDataError{Field: "group" + string(g), Reason: err.Error()}
		}
		rec.Groups[g] = v
	}
	return rec
}

// parseScore reads an optional score cell. Spreadsheet exports may use a
// decimal comma.
func parseScore(s string) (*float64, error) {
	if s == "" || s == "-" {
		return nil, nil //nolint:nilnil // empty cell is an absent score
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &v, nil
}
