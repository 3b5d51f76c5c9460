package api

import (
	"context"
	"net/http"

	"github.com/okian/abcboard/internal/domain/stats"
)

// StatsHandler serves grouped statistics, the overview and alerts.
type StatsHandler struct {
	deps Dependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps}
}

func (h *StatsHandler) serveSummary(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context) ([]stats.GroupSummary, error)) {
	rows, err := fn(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleDepartmentNames handles GET /departments.
func (h *StatsHandler) HandleDepartmentNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.deps.Departments(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.departments", err))
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// HandleDepartments handles GET /stats/departments.
func (h *StatsHandler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "api.stats_departments", h.deps.DepartmentStats)
}

// HandleCategories handles GET /stats/categories.
func (h *StatsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "api.stats_categories", h.deps.CategoryStats)
}

// HandlePositions handles GET /stats/positions.
func (h *StatsHandler) HandlePositions(w http.ResponseWriter, r *http.Request) {
	h.serveSummary(w, r, "api.stats_positions", h.deps.PositionStats)
}

// HandleOverview handles GET /stats/overview.
func (h *StatsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	o, err := h.deps.Overview(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.stats_overview", err))
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// HandleAlerts handles GET /alerts.
func (h *StatsHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.deps.Alerts(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.alerts", err))
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}
