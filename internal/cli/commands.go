package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/abcboard/internal/adapters/mcp"
	"github.com/okian/abcboard/internal/adapters/report"
	"github.com/okian/abcboard/internal/adapters/repository"
	app "github.com/okian/abcboard/internal/app"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/scoring"
	"github.com/okian/abcboard/internal/domain/stats"
	"github.com/okian/abcboard/internal/domain/types"
)

const defaultLimit = 10

func (c *cli) summaryCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the population overview and grouped statistics.",
		Long: `Print headline figures followed by statistics grouped by department,
category or position, best average first.

Examples:
  abcctl summary --data employees.json
  abcctl summary --by category -o csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service, w *report.Writer) error {
				var (
					rows  []stats.GroupSummary
					err   error
					title string
				)
				switch strings.ToLower(by) {
				case "department", "":
					rows, err = svc.DepartmentStats(ctx)
					title = "Department"
				case "category":
					rows, err = svc.CategoryStats(ctx)
					title = "Category"
				case "position":
					rows, err = svc.PositionStats(ctx)
					title = "Position"
				default:
					return fmt.Errorf("--by must be department, category or position, got %q", by)
				}
				if err != nil {
					return err
				}
				o, err := svc.Overview(ctx)
				if err != nil {
					return err
				}
				if err := w.Overview(o); err != nil {
					return err
				}
				return w.Summaries(title, rows)
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "department", "grouping: department, category or position")
	return cmd
}

func (c *cli) employeesCmd() *cobra.Command {
	var f repository.Filter
	var minScore, maxScore float64
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "List classified employees matching the filters, in export order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min") {
				f.MinScore = model.Bound(minScore)
			}
			if cmd.Flags().Changed("max") {
				f.MaxScore = model.Bound(maxScore)
			}
			return c.withService(cmd, func(ctx context.Context, svc *app.Service, w *report.Writer) error {
				items, _, err := svc.Employees(ctx, f)
				if err != nil {
					return err
				}
				return w.Employees(items)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.Department, "department", "", "exact department")
	fl.StringVar(&f.Category, "category", "", "category key, e.g. superstar")
	fl.StringVar(&f.Position, "position", "", "exact position")
	fl.StringVarP(&f.Query, "query", "q", "", "text matched against name, email, department, position and code")
	fl.Float64Var(&minScore, "min", 0, "lowest total score, inclusive")
	fl.Float64Var(&maxScore, "max", 0, "highest total score, inclusive")
	fl.IntVar(&f.Limit, "limit", 0, "maximum rows, 0 for the configured cap")
	return cmd
}

func (c *cli) pipelineCmd() *cobra.Command {
	var bucket string
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Show the talent pipeline buckets.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service, w *report.Writer) error {
				result, names, err := svc.Pipeline(ctx)
				if err != nil {
					return err
				}
				if bucket != "" {
					if _, ok := result[bucket]; !ok {
						return fmt.Errorf("unknown bucket %q (have %s)", bucket, strings.Join(names, ", "))
					}
					names = []string{bucket}
				}
				return w.Pipeline(result, names)
			})
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "", "show a single bucket")
	return cmd
}

func (c *cli) topCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest scoring employees.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service, w *report.Writer) error {
				items, err := svc.Top(ctx, limit)
				if err != nil {
					return err
				}
				return w.Employees(items)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultLimit, "number of employees")
	return cmd
}

func (c *cli) riskCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Show employees in the risk category, lowest total first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service, w *report.Writer) error {
				items, err := svc.Risk(ctx, limit)
				if err != nil {
					return err
				}
				return w.Employees(items)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", defaultLimit, "number of employees")
	return cmd
}

func (c *cli) alertsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Show low department averages and risk population alerts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *app.Service, w *report.Writer) error {
				alerts, err := svc.Alerts(ctx)
				if err != nil {
					return err
				}
				return w.Alerts(alerts)
			})
		},
	}
}

func (c *cli) classifyCmd() *cobra.Command {
	values := make(map[model.GroupKey]*float64, len(types.Groups))
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one set of group scores without loading data.",
		Long: `Compute the weighted total of the given group scores and print its
talent category. Groups not given are absent and do not count.

Examples:
  abcctl classify --a 9 --b 8.5 --c 8
  abcctl classify --a 2.5 --b 2 --legacy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			present := make(map[model.GroupKey]float64, len(values))
			for _, g := range types.Groups {
				if cmd.Flags().Changed(strings.ToLower(string(g))) {
					present[g] = *values[g]
				}
			}
			scores := model.NewScoreSet(present)
			if c.flags.legacy {
				if err := scoring.ValidateLegacyScoreSet("command line", scores); err != nil {
					return err
				}
				scores = scoring.NormalizeLegacy(scores)
			}

			w, err := c.writer()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := c.startService(ctx, noData{})
			if err != nil {
				return err
			}
			defer svc.Stop()
			res, err := svc.Classify(ctx, scores)
			if err != nil {
				return err
			}
			return w.Classification(res)
		},
	}
	for _, g := range types.Groups {
		values[g] = cmd.Flags().Float64(strings.ToLower(string(g)), 0, fmt.Sprintf("group %s score", g))
	}
	return cmd
}

func (c *cli) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the talent tools over the Model Context Protocol on stdio.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := c.startService(ctx, nil)
			if err != nil {
				return err
			}
			defer svc.Stop()
			return mcp.StartMCPServer(ctx, svc, c.version)
		},
	}
}
