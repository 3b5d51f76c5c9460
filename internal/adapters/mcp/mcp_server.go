// Package mcp exposes the talent engine as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/okian/abcboard/internal/adapters/repository"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	"github.com/okian/abcboard/internal/domain/stats"
	"github.com/okian/abcboard/internal/domain/types"
)

// Service is the subset of the application service the tools call.
type Service interface {
	Classify(ctx context.Context, scores model.ScoreSet) (types.ClassifyResult, error)
	Pipeline(ctx context.Context) (pipeline.Result, []string, error)
	DepartmentStats(ctx context.Context) ([]stats.GroupSummary, error)
	Overview(ctx context.Context) (stats.Overview, error)
	Employees(ctx context.Context, f repository.Filter) ([]model.ClassifiedEmployee, int, error)
}

// NewMCPServer initializes the ABC talent MCP server without starting it.
func NewMCPServer(svc Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ABC Talent Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{svc: svc}

	s.AddTool(mcp.NewTool("classify_scores",
		mcp.WithDescription("Compute the weighted ABC total for a set of group scores and return its talent category."),
		mcp.WithNumber("A", mcp.Description("Group A score (self-reflection), omit when absent.")),
		mcp.WithNumber("B", mcp.Description("Group B score (competency declaration), omit when absent.")),
		mcp.WithNumber("C", mcp.Description("Group C score (360 peer review), omit when absent.")),
		mcp.WithNumber("D", mcp.Description("Group D score (verification), omit when absent.")),
		mcp.WithBoolean("legacy_scale", mcp.Description("Scores are on the 0-3 survey scale instead of 0-10.")),
	), h.handleClassifyScores)

	s.AddTool(mcp.NewTool("get_pipeline",
		mcp.WithDescription("List the talent pipeline buckets with their members."),
		mcp.WithString("bucket", mcp.Description("Return only this bucket, e.g. ready_for_promotion.")),
	), h.handleGetPipeline)

	s.AddTool(mcp.NewTool("get_department_stats",
		mcp.WithDescription("Per-department headcount, average total score and category distribution, best average first."),
	), h.handleGetDepartmentStats)

	s.AddTool(mcp.NewTool("get_overview",
		mcp.WithDescription("Headline figures of the evaluated population."),
	), h.handleGetOverview)

	s.AddTool(mcp.NewTool("find_employees",
		mcp.WithDescription("Search classified employees by department, category, position, text and score range."),
		mcp.WithString("department", mcp.Description("Exact department name.")),
		mcp.WithString("category", mcp.Description("Talent category key, e.g. superstar or risk.")),
		mcp.WithString("position", mcp.Description("Exact position.")),
		mcp.WithString("query", mcp.Description("Case-insensitive text matched against name, email, department, position and code.")),
		mcp.WithNumber("min_score", mcp.Description("Lowest total score, inclusive.")),
		mcp.WithNumber("max_score", mcp.Description("Highest total score, inclusive.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleFindEmployees)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, svc Service, version string) error {
	return server.ServeStdio(NewMCPServer(svc, version))
}
