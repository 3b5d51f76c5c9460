// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/abcboard/internal/adapters/ingest"
	"github.com/okian/abcboard/internal/adapters/repository"
	service "github.com/okian/abcboard/internal/app"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	"github.com/okian/abcboard/internal/domain/stats"
	"github.com/okian/abcboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Status(ctx context.Context) types.Status

	Employees(ctx context.Context, f repository.Filter) ([]model.ClassifiedEmployee, int, error)
	Employee(ctx context.Context, key string) (repository.Entry, error)
	Pipeline(ctx context.Context) (pipeline.Result, []string, error)
	Departments(ctx context.Context) ([]string, error)

	DepartmentStats(ctx context.Context) ([]stats.GroupSummary, error)
	CategoryStats(ctx context.Context) ([]stats.GroupSummary, error)
	PositionStats(ctx context.Context) ([]stats.GroupSummary, error)
	Overview(ctx context.Context) (stats.Overview, error)
	Top(ctx context.Context, limit int) ([]model.ClassifiedEmployee, error)
	Risk(ctx context.Context, limit int) ([]model.ClassifiedEmployee, error)
	Alerts(ctx context.Context) ([]stats.Alert, error)

	Bands() ([]model.Band, error)
	Classify(ctx context.Context, scores model.ScoreSet) (types.ClassifyResult, error)
	Reload(ctx context.Context) (ingest.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	employeesHandler *EmployeesHandler
	pipelineHandler  *PipelineHandler
	statsHandler     *StatsHandler
	classifyHandler  *ClassifyHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		employeesHandler: NewEmployeesHandler(deps),
		pipelineHandler:  NewPipelineHandler(deps),
		statsHandler:     NewStatsHandler(deps),
		classifyHandler:  NewClassifyHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)

	mux.HandleFunc("GET /employees", MetricsMiddleware(s.employeesHandler.HandleList, "employees"))
	mux.HandleFunc("GET /employees/{id}", MetricsMiddleware(s.employeesHandler.HandleGet, "employee"))
	mux.HandleFunc("GET /top", MetricsMiddleware(s.employeesHandler.HandleTop, "top"))
	mux.HandleFunc("GET /risk", MetricsMiddleware(s.employeesHandler.HandleRisk, "risk"))

	mux.HandleFunc("GET /pipeline", MetricsMiddleware(s.pipelineHandler.HandleGetPipeline, "pipeline"))

	mux.HandleFunc("GET /departments", MetricsMiddleware(s.statsHandler.HandleDepartmentNames, "departments"))
	mux.HandleFunc("GET /stats/departments", MetricsMiddleware(s.statsHandler.HandleDepartments, "stats_departments"))
	mux.HandleFunc("GET /stats/categories", MetricsMiddleware(s.statsHandler.HandleCategories, "stats_categories"))
	mux.HandleFunc("GET /stats/positions", MetricsMiddleware(s.statsHandler.HandlePositions, "stats_positions"))
	mux.HandleFunc("GET /stats/overview", MetricsMiddleware(s.statsHandler.HandleOverview, "stats_overview"))
	mux.HandleFunc("GET /alerts", MetricsMiddleware(s.statsHandler.HandleAlerts, "alerts"))

	mux.HandleFunc("GET /bands", MetricsMiddleware(s.classifyHandler.HandleBands, "bands"))
	mux.HandleFunc("POST /classify", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
	mux.HandleFunc("POST /reload", MetricsMiddleware(s.healthHandler.HandleReload, "reload"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure translates upstream errors into a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, repository.ErrInvalidRange),
		errors.Is(err, service.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, model.ErrInputData):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
	case errors.Is(err, model.ErrConfiguration):
		writeError(w, http.StatusInternalServerError, "configuration_error", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
