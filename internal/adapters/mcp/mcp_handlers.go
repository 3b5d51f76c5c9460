package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/okian/abcboard/internal/adapters/repository"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/scoring"
	"github.com/okian/abcboard/internal/domain/types"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	svc Service
}

// employeeMatches is the find_employees payload.
type employeeMatches struct {
	Total int                  `json:"total"`
	Items []types.EmployeeView `json:"items"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// optionalNumber reads a numeric argument, reporting whether it was supplied.
func optionalNumber(request mcp.CallToolRequest, key string) (float64, bool, error) {
	raw, ok := request.GetArguments()[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
}

func (h *toolHandler) handleClassifyScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	present := make(map[model.GroupKey]float64, len(types.Groups))
	for _, g := range types.Groups {
		v, ok, err := optionalNumber(request, string(g))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ok {
			present[g] = v
		}
	}
	scores := model.NewScoreSet(present)
	if request.GetBool("legacy_scale", false) {
		if err := scoring.ValidateLegacyScoreSet("request", scores); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		scores = scoring.NormalizeLegacy(scores)
	}

	res, err := h.svc.Classify(ctx, scores)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleGetPipeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, names, err := h.svc.Pipeline(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pipeline failed: %v", err)), nil
	}
	if b := request.GetString("bucket", ""); b != "" {
		if _, ok := result[b]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown bucket %q", b)), nil
		}
		names = []string{b}
	}
	return jsonResult(types.NewPipelineView(result, names))
}

func (h *toolHandler) handleGetDepartmentStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := h.svc.DepartmentStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("department stats failed: %v", err)), nil
	}
	return jsonResult(rows)
}

func (h *toolHandler) handleGetOverview(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	o, err := h.svc.Overview(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("overview failed: %v", err)), nil
	}
	return jsonResult(o)
}

func (h *toolHandler) handleFindEmployees(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := repository.Filter{
		Department: request.GetString("department", ""),
		Category:   request.GetString("category", ""),
		Position:   request.GetString("position", ""),
		Query:      request.GetString("query", ""),
		Limit:      request.GetInt("limit", 0),
	}
	if f.Limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}
	for key, dst := range map[string]**float64{"min_score": &f.MinScore, "max_score": &f.MaxScore} {
		v, ok, err := optionalNumber(request, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if ok {
			*dst = model.Bound(v)
		}
	}

	items, total, err := h.svc.Employees(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(employeeMatches{Total: total, Items: types.NewEmployeeViews(items)})
}
