package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/abcboard/internal/adapters/repository"
	"github.com/okian/abcboard/internal/domain/types"
)

// EmployeesHandler serves employee listings and lookups.
type EmployeesHandler struct {
	deps Dependencies
}

// NewEmployeesHandler creates a new employees handler.
func NewEmployeesHandler(deps Dependencies) *EmployeesHandler {
	return &EmployeesHandler{deps: deps}
}

// parseLimit reads ?limit; absent means 0 (server default).
func parseLimit(r *http.Request, op string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, NewKind(op, ErrBadRequest, "limit must be a positive integer")
	}
	return n, nil
}

func parseScore(r *http.Request, op, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil //nolint:nilnil // absent bound
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, NewKind(op, ErrBadRequest, name+" must be a number")
	}
	return &v, nil
}

// HandleList handles GET /employees?department=&category=&position=&q=&min=&max=&limit=.
func (h *EmployeesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_employees"
	limit, err := parseLimit(r, op)
	if err != nil {
		writeFailure(w, err)
		return
	}
	minScore, err := parseScore(r, op, "min")
	if err != nil {
		writeFailure(w, err)
		return
	}
	maxScore, err := parseScore(r, op, "max")
	if err != nil {
		writeFailure(w, err)
		return
	}
	q := r.URL.Query()
	f := repository.Filter{
		Department: q.Get("department"),
		Category:   q.Get("category"),
		Position:   q.Get("position"),
		Query:      q.Get("q"),
		MinScore:   minScore,
		MaxScore:   maxScore,
		Limit:      limit,
	}
	items, total, err := h.deps.Employees(r.Context(), f)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.EmployeeList{Total: total, Items: types.NewEmployeeViews(items)})
}

// HandleGet handles GET /employees/{id}. The key may be an ID, employee code or email.
func (h *EmployeesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_employee"
	key := strings.TrimSpace(r.PathValue("id"))
	if key == "" {
		writeFailure(w, NewKind(op, ErrBadRequest, "missing employee id"))
		return
	}
	entry, err := h.deps.Employee(r.Context(), key)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.EmployeeDetail{
		EmployeeView: types.NewEmployeeView(entry.Employee),
		Rank:         entry.Rank,
	})
}

// HandleTop handles GET /top?limit=N.
func (h *EmployeesHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.top"
	limit, err := parseLimit(r, op)
	if err != nil {
		writeFailure(w, err)
		return
	}
	items, err := h.deps.Top(r.Context(), limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewEmployeeViews(items))
}

// HandleRisk handles GET /risk?limit=N.
func (h *EmployeesHandler) HandleRisk(w http.ResponseWriter, r *http.Request) {
	const op = "api.risk"
	limit, err := parseLimit(r, op)
	if err != nil {
		writeFailure(w, err)
		return
	}
	items, err := h.deps.Risk(r.Context(), limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewEmployeeViews(items))
}
