// Package report renders talent data for the terminal as tables, JSON or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/internal/domain/pipeline"
	"github.com/okian/abcboard/internal/domain/stats"
	"github.com/okian/abcboard/internal/domain/types"
)

// Format selects the output encoding.
type Format string

// Output formats.
const (
	Table Format = "table"
	JSON  Format = "json"
	CSV   Format = "csv"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a user supplied format; empty means Table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Table, nil
	case Table, JSON, CSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

var categoryColors = map[string]*color.Color{
	"superstar":        color.New(color.FgYellow, color.Bold),
	"golden_potential": color.New(color.FgHiYellow),
	"solid_pillar":     color.New(color.FgBlue),
	"rough_diamond":    color.New(color.FgMagenta),
	"performer":        color.New(color.FgGreen),
	"developing":       color.New(color.FgHiRed),
	"risk":             color.New(color.FgRed, color.Bold),
}

var (
	warningColor = color.New(color.FgYellow)
	dangerColor  = color.New(color.FgRed, color.Bold)
)

// categoryLabel returns the band label in the band's configured color,
// falling back to a fixed palette for the default band keys.
func categoryLabel(b *model.Band) string {
	if b == nil {
		return "-"
	}
	if c, ok := hexColor(b.Color); ok {
		return c.Sprint(b.Label)
	}
	if c, ok := categoryColors[b.Key]; ok {
		return c.Sprint(b.Label)
	}
	return b.Label
}

// hexColor parses "#RRGGBB".
func hexColor(s string) (*color.Color, bool) {
	if len(s) != 7 || s[0] != '#' {
		return nil, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)), true
}

func fmtScore(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// Writer renders values in one format.
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter builds a Writer.
func NewWriter(w io.Writer, format Format) *Writer {
	if format == "" {
		format = Table
	}
	return &Writer{w: w, format: format}
}

func (r *Writer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Writer) writeCSV(headers []string, rows [][]string) error {
	cw := csv.NewWriter(r.w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (r *Writer) writeTable(headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(r.w)
	defer func() { _ = table.Close() }()
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// Employees renders a list of classified employees.
func (r *Writer) Employees(emps []model.ClassifiedEmployee) error {
	if r.format == JSON {
		return r.writeJSON(types.NewEmployeeViews(emps))
	}
	headers := []string{"#", "Code", "Name", "Department", "Position", "A", "B", "C", "D", "Total", "Category"}
	rows := make([][]string, 0, len(emps))
	for i, e := range emps {
		row := []string{strconv.Itoa(i + 1), e.Employee.EmployeeCode, e.Employee.Name, e.Employee.Department, e.Employee.Position}
		for _, g := range types.Groups {
			if v, ok := e.Employee.Scores.Get(g); ok {
				row = append(row, fmtScore(v))
			} else {
				row = append(row, "-")
			}
		}
		row = append(row, fmtScore(e.TotalScore))
		if r.format == CSV {
			key := ""
			if e.Category != nil {
				key = e.Category.Key
			}
			row = append(row, key)
		} else {
			row = append(row, categoryLabel(e.Category))
		}
		rows = append(rows, row)
	}
	if r.format == CSV {
		return r.writeCSV(headers, rows)
	}
	return r.writeTable(headers, rows)
}

// Summaries renders grouped statistics. title names the grouping column.
func (r *Writer) Summaries(title string, rows []stats.GroupSummary) error {
	if r.format == JSON {
		return r.writeJSON(rows)
	}
	headers := []string{title, "Count", "Average", "Categories"}
	data := make([][]string, len(rows))
	for i, s := range rows {
		data[i] = []string{s.Key, strconv.Itoa(s.Count), fmtScore(s.AverageScore), distribution(s.CategoryDistribution)}
	}
	if r.format == CSV {
		return r.writeCSV(headers, data)
	}
	return r.writeTable(headers, data)
}

// distribution formats a histogram as "a=1 b=2" in key order.
func distribution(d map[string]int) string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.Itoa(d[k])
	}
	return strings.Join(parts, " ")
}

// Overview renders the headline figures.
func (r *Writer) Overview(o stats.Overview) error {
	if r.format == JSON {
		return r.writeJSON(o)
	}
	headers := []string{"Metric", "Value"}
	rows := [][]string{
		{"Employees", strconv.Itoa(o.TotalEmployees)},
		{"Average score", fmtScore(o.AverageScore)},
		{"Top performers", strconv.Itoa(o.TopPerformers)},
		{"At risk", strconv.Itoa(o.RiskEmployees)},
		{"Without data", strconv.Itoa(o.WithoutData)},
	}
	if r.format == CSV {
		return r.writeCSV(headers, rows)
	}
	return r.writeTable(headers, rows)
}

// Pipeline renders the talent pipeline in configured bucket order.
func (r *Writer) Pipeline(result pipeline.Result, names []string) error {
	if r.format == JSON {
		return r.writeJSON(types.NewPipelineView(result, names))
	}
	headers := []string{"Bucket", "Count", "Employees"}
	rows := make([][]string, len(names))
	for i, n := range names {
		members := result[n]
		who := make([]string, len(members))
		for j, m := range members {
			who[j] = m.Employee.Name
		}
		rows[i] = []string{n, strconv.Itoa(len(members)), strings.Join(who, ", ")}
	}
	if r.format == CSV {
		return r.writeCSV(headers, rows)
	}
	return r.writeTable(headers, rows)
}

// Alerts renders dashboard alerts. An empty list prints a single notice in table mode.
func (r *Writer) Alerts(alerts []stats.Alert) error {
	if r.format == JSON {
		return r.writeJSON(alerts)
	}
	headers := []string{"Severity", "Subject", "Message"}
	rows := make([][]string, len(alerts))
	for i, a := range alerts {
		sev := a.Type
		if r.format == Table {
			switch a.Type {
			case stats.SeverityDanger:
				sev = dangerColor.Sprint(a.Type)
			case stats.SeverityWarning:
				sev = warningColor.Sprint(a.Type)
			}
		}
		rows[i] = []string{sev, a.Subject, a.Message}
	}
	if r.format == CSV {
		return r.writeCSV(headers, rows)
	}
	if len(alerts) == 0 {
		_, err := fmt.Fprintln(r.w, "No alerts.")
		return err
	}
	return r.writeTable(headers, rows)
}

// Classification renders an ad-hoc classification.
func (r *Writer) Classification(res types.ClassifyResult) error {
	if r.format == JSON {
		return r.writeJSON(res)
	}
	key, label := "", "-"
	if res.Category != nil {
		key, label = res.Category.Key, res.Category.Label
	}
	if r.format == CSV {
		return r.writeCSV([]string{"total_score", "has_data", "category"},
			[][]string{{fmtScore(res.TotalScore), strconv.FormatBool(res.HasData), key}})
	}
	if res.Category != nil {
		label = categoryLabel(res.Category)
	}
	_, err := fmt.Fprintf(r.w, "Total: %s  Category: %s\n", fmtScore(res.TotalScore), label)
	return err
}
