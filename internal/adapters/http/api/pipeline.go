package api

import (
	"net/http"

	"github.com/okian/abcboard/internal/domain/types"
)

// PipelineHandler serves the talent pipeline.
type PipelineHandler struct {
	deps Dependencies
}

// NewPipelineHandler creates a new pipeline handler.
func NewPipelineHandler(deps Dependencies) *PipelineHandler {
	return &PipelineHandler{deps: deps}
}

// HandleGetPipeline handles GET /pipeline.
func (h *PipelineHandler) HandleGetPipeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_pipeline"
	result, names, err := h.deps.Pipeline(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewPipelineView(result, names))
}
