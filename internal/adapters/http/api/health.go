package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/abcboard/pkg/metrics"
)

// HealthHandler serves liveness, metrics and snapshot reloads.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /healthz. It answers 503 until a snapshot is loaded.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	st := h.deps.Status(r.Context())
	status := http.StatusOK
	if !st.Started {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, st)
}

// HandleMetrics handles GET /metrics from the service registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

type rejectionView struct {
	Row     int    `json:"row"`
	Record  string `json:"record"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type reloadResponse struct {
	Source   string          `json:"source"`
	Total    int             `json:"total"`
	Accepted int             `json:"accepted"`
	Rejected []rejectionView `json:"rejected"`
}

// HandleReload handles POST /reload.
func (h *HealthHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	rep, err := h.deps.Reload(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	resp := reloadResponse{
		Source:   rep.Source,
		Total:    rep.Total,
		Accepted: rep.Accepted,
		Rejected: make([]rejectionView, len(rep.Rejected)),
	}
	for i, rej := range rep.Rejected {
		msg := rej.Reason
		if rej.Err != nil {
			msg = rej.Err.Error()
		}
		resp.Rejected[i] = rejectionView{Row: rej.Row, Record: rej.Record, Reason: rej.Reason, Message: msg}
	}
	writeJSON(w, http.StatusOK, resp)
}
