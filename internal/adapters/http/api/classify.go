package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/okian/abcboard/internal/domain/model"
)

// maxClassifyBody bounds POST /classify payloads.
const maxClassifyBody = 64 << 10

// ClassifyHandler serves the band ladder and ad-hoc classification.
type ClassifyHandler struct {
	deps Dependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps Dependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

// classifyRequest carries group scores keyed A..D; null or missing means absent.
type classifyRequest struct {
	Scores map[string]*float64 `json:"scores"`
}

func (c classifyRequest) scoreSet(op string) (model.ScoreSet, error) {
	if c.Scores == nil {
		return model.ScoreSet{}, NewKind(op, ErrBadRequest, "missing scores")
	}
	in := make(map[model.GroupKey]*float64, len(c.Scores))
	for k, v := range c.Scores {
		g := model.GroupKey(strings.ToUpper(strings.TrimSpace(k)))
		switch g {
		case model.GroupA, model.GroupB, model.GroupC, model.GroupD:
			in[g] = v
		default:
			return model.ScoreSet{}, NewKind(op, ErrBadRequest, "unknown group "+k)
		}
	}
	return model.ScoreSetFromPointers(in), nil
}

// HandleClassify handles POST /classify.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	var req classifyRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxClassifyBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFailure(w, NewKind(op, ErrBadRequest, "invalid json: ", err))
		return
	}
	scores, err := req.scoreSet(op)
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.Classify(r.Context(), scores)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleBands handles GET /bands.
func (h *ClassifyHandler) HandleBands(w http.ResponseWriter, r *http.Request) {
	bands, err := h.deps.Bands()
	if err != nil {
		writeFailure(w, Wrap("api.bands", err))
		return
	}
	writeJSON(w, http.StatusOK, bands)
}
