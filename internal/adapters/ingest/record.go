package ingest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/scoring"
)

const (
	maxNameLen  = 200
	maxEmailLen = 254
	maxTextLen  = 200
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// record is the raw form shared by the JSON and CSV readers.
type record struct {
	ID           string
	EmployeeCode string
	Name         string
	Email        string
	Department   string
	Position     string
	Status       string
	Groups       map[model.GroupKey]*float64

	malformed error // set by a reader that could not parse a cell
}

// ref names a record in diagnostics.
func (r record) ref(row int) string {
	switch {
	case r.EmployeeCode != "":
		return r.EmployeeCode
	case r.ID != "":
		return r.ID
	default:
		return fmt.Sprintf("row %d", row)
	}
}

// toEmployee validates r and builds the domain employee. On failure it
// returns the rejection reason code together with the error.
func (r record) toEmployee(row int, legacy bool) (model.Employee, string, error) {
	ref := r.ref(row)
	if r.malformed != nil {
		var ide *model.InputDataError
		if errors.As(r.malformed, &ide) {
			ide.Record = ref
		}
		return model.Employee{}, ReasonMalformed, r.malformed
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return model.Employee{}, ReasonMissingField, &model.InputDataError{Record: ref, Field: "name", Reason: "is required"}
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return model.Employee{}, ReasonTooLong, &model.InputDataError{Record: ref, Field: "name", Reason: fmt.Sprintf("longer than %d characters", maxNameLen)}
	}
	email := strings.TrimSpace(r.Email)
	if email != "" {
		if len(email) > maxEmailLen {
			return model.Employee{}, ReasonTooLong, &model.InputDataError{Record: ref, Field: "email", Reason: fmt.Sprintf("longer than %d characters", maxEmailLen)}
		}
		if !emailPattern.MatchString(email) {
			return model.Employee{}, ReasonInvalidEmail, &model.InputDataError{Record: ref, Field: "email", Reason: fmt.Sprintf("%q is not an email address", email)}
		}
	}
	fields := map[string]string{
		"department": r.Department, "position": r.Position,
		"status": r.Status, "employee_code": r.EmployeeCode,
	}
	for field, v := range fields {
		if utf8.RuneCountInString(v) > maxTextLen {
			return model.Employee{}, ReasonTooLong, &model.InputDataError{Record: ref, Field: field, Reason: fmt.Sprintf("longer than %d characters", maxTextLen)}
		}
	}

	scores := model.ScoreSetFromPointers(r.Groups)
	if legacy {
		if err := scoring.ValidateLegacyScoreSet(ref, scores); err != nil {
			return model.Employee{}, ReasonScoreRange, err
		}
		scores = scoring.NormalizeLegacy(scores)
	}
	if err := scoring.ValidateScoreSet(ref, scores); err != nil {
		return model.Employee{}, ReasonScoreRange, err
	}

	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = uuid.NewString()
	}
	return model.Employee{
		ID:           id,
		EmployeeCode: strings.TrimSpace(r.EmployeeCode),
		Name:         name,
		Email:        email,
		Department:   strings.TrimSpace(r.Department),
		Position:     strings.TrimSpace(r.Position),
		Status:       strings.TrimSpace(r.Status),
		Scores:       scores,
	}, "", nil
}
