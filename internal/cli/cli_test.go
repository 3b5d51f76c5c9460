package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/abcboard/internal/cli"
	"github.com/okian/abcboard/internal/domain/types"
)

const employeesJSON = `[
  {"id": "e1", "employeeCode": "NV001", "name": "An", "department": "IT", "position": "Dev", "groupA": 9, "groupB": 9, "groupC": 9, "groupD": 9},
  {"id": "e2", "employeeCode": "NV002", "name": "Binh", "department": "IT", "position": "Dev", "groupA": 6, "groupB": 6, "groupC": 6, "groupD": 6},
  {"id": "e3", "employeeCode": "NV003", "name": "Chi", "department": "HR", "position": "Staff", "groupA": 2, "groupB": 3, "groupC": 3, "groupD": null}
]`

func init() {
	color.NoColor = true
}

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "employees.json")
	require.NoError(t, os.WriteFile(path, []byte(employeesJSON), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand("test", &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func csvLines(out string) []string {
	return strings.Split(strings.TrimSpace(out), "\n")
}

func TestTopAndRisk(t *testing.T) {
	data := writeData(t)

	t.Run("top orders by total", func(t *testing.T) {
		out, err := run(t, "top", "--data", data, "-o", "csv")
		require.NoError(t, err)
		lines := csvLines(out)
		require.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[1], "1,NV001,An,IT,Dev"))
		assert.True(t, strings.HasSuffix(lines[1], "9.00,superstar"))
	})

	t.Run("top honours the limit", func(t *testing.T) {
		out, err := run(t, "top", "--data", data, "-o", "csv", "--limit", "1")
		require.NoError(t, err)
		assert.Len(t, csvLines(out), 2)
	})

	t.Run("risk lists only the risk band", func(t *testing.T) {
		out, err := run(t, "risk", "--data", data, "-o", "csv")
		require.NoError(t, err)
		lines := csvLines(out)
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], "NV003,Chi,HR")
		assert.True(t, strings.HasSuffix(lines[1], ",-,2.72,risk"))
	})
}

func TestEmployees(t *testing.T) {
	data := writeData(t)
	out, err := run(t, "employees", "--data", data, "-o", "json", "--department", "IT", "--min", "7")
	require.NoError(t, err)
	var views []types.EmployeeView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "e1", views[0].ID)

	out, err = run(t, "employees", "--data", data, "-o", "csv")
	require.NoError(t, err)
	lines := csvLines(out)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "NV001")
	assert.Contains(t, lines[2], "NV002")
	assert.Contains(t, lines[3], "NV003")

	_, err = run(t, "employees", "--data", data, "--category", "unicorn")
	assert.ErrorContains(t, err, "unknown category")
}

func TestPipeline(t *testing.T) {
	data := writeData(t)

	out, err := run(t, "pipeline", "--data", data, "-o", "json")
	require.NoError(t, err)
	var buckets []types.PipelineBucket
	require.NoError(t, json.Unmarshal([]byte(out), &buckets))
	counts := map[string]int{}
	for _, b := range buckets {
		counts[b.Name] = b.Count
	}
	assert.Equal(t, 1, counts["ready_for_promotion"])
	assert.Equal(t, 1, counts["high_potential"])
	assert.Equal(t, 0, counts["needs_development"])
	assert.Contains(t, counts, "critical_retention")

	_, err = run(t, "pipeline", "--data", data, "--bucket", "nope")
	assert.ErrorContains(t, err, "unknown bucket")
}

func TestSummary(t *testing.T) {
	data := writeData(t)

	out, err := run(t, "summary", "--data", data, "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Employees,3")
	assert.Contains(t, out, "IT,2,7.50,rough_diamond=1 superstar=1")
	assert.Contains(t, out, "HR,1,2.72,risk=1")
	assert.Less(t, strings.Index(out, "IT,2"), strings.Index(out, "HR,1"))

	_, err = run(t, "summary", "--data", data, "--by", "floor")
	assert.Error(t, err)
}

func TestAlerts(t *testing.T) {
	data := writeData(t)
	out, err := run(t, "alerts", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "HR")
	assert.Contains(t, out, "warning")
}

func TestClassify(t *testing.T) {
	t.Run("absent groups are ignored", func(t *testing.T) {
		out, err := run(t, "classify", "--a", "9", "--b", "8", "-o", "csv")
		require.NoError(t, err)
		assert.Equal(t, "total_score,has_data,category\n8.42,true,superstar\n", out)
	})

	t.Run("no groups classifies as risk", func(t *testing.T) {
		out, err := run(t, "classify", "-o", "csv")
		require.NoError(t, err)
		assert.Contains(t, out, "0.00,false,risk")
	})

	t.Run("legacy scale", func(t *testing.T) {
		out, err := run(t, "classify", "--a", "3", "--legacy", "-o", "csv")
		require.NoError(t, err)
		assert.Contains(t, out, "10.00,true,superstar")

		_, err = run(t, "classify", "--a", "5", "--legacy")
		assert.ErrorContains(t, err, "legacy score")
	})

	t.Run("out of range score", func(t *testing.T) {
		_, err := run(t, "classify", "--c", "11")
		assert.Error(t, err)
	})
}

func TestErrors(t *testing.T) {
	_, err := run(t, "top", "--data", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = run(t, "top", "--data", writeData(t), "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}
