package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/Veraticus/scorecard/internal/testutil"
	"github.com/Veraticus/scorecard/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabsCommands(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "review.dat")
	mustExecute(t, "new", path, "--tab", "Development")

	out := mustExecute(t, "tabs", "add", path, "Operations")
	assert.Contains(t, out, `Added tab "Operations"`)

	out = mustExecute(t, "tabs", "rename", path, "2", "Service Operations")
	assert.Contains(t, out, `Renamed "Operations" to "Service Operations"`)

	out = mustExecute(t, "tabs", "list", path)
	assert.Contains(t, out, "Development")
	assert.Contains(t, out, "Service Operations")

	_, err := execute(t, "", "tabs", "rename", path, "Development", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blank")

	// Declining keeps the tab.
	out, err = execute(t, "n\n", "tabs", "close", path, "Development")
	require.NoError(t, err)
	assert.Contains(t, out, "Close cancelled.")
	assert.Len(t, readDocument(t, path).Document.Tabs, 2)

	mustExecute(t, "tabs", "close", path, "Development", "--yes")
	tabs := readDocument(t, path).Document.Tabs
	require.Len(t, tabs, 1)
	assert.Equal(t, "Service Operations", tabs[0].Name)

	_, err = execute(t, "", "tabs", "close", path, "1", "--yes")
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrLastTab)

	_, err = execute(t, "", "tabs", "list", path, "--", "extra")
	require.Error(t, err)
}

func TestRowsCommands(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "review.dat")
	mustExecute(t, "new", path, "--tab", "Development")

	out := mustExecute(t, "rows", "add", path, "Development",
		"--description", "API gateway",
		"--weight", "40", "--score", "85",
		"--prev-weight", "50", "--prev-score", "70",
		"--start-date", "2024.01.02")
	assert.Contains(t, out, "Added row 2")
	assert.Contains(t, out, "evaluation 34")

	out = mustExecute(t, "rows", "edit", path, "Development", "2", "score=90", "endDate=2024-06-30")
	assert.Contains(t, out, "evaluation 36")
	assert.Contains(t, out, "previous 35")

	rows := readDocument(t, path).Document.Tabs[0].TableData
	require.Len(t, rows, 2)
	assert.Equal(t, "API gateway", rows[1].Description)
	assert.InDelta(t, 36.0, rows[1].EvaluationScore, 1e-9)
	assert.InDelta(t, 35.0, rows[1].PrevEvaluationScore, 1e-9)
	assert.Equal(t, "2024-01-02", rows[1].StartDate.String())
	assert.Equal(t, "2024-06-30", rows[1].EndDate.String())

	out = mustExecute(t, "rows", "list", path, "Development")
	assert.Contains(t, out, "API gateway")
	assert.Contains(t, out, "2024.01.02 ~ 2024.06.30")
	assert.Contains(t, out, "▲ 1")

	_, err := execute(t, "", "rows", "edit", path, "Development", "2", "startDate=2024.13.40")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY.MM.DD")

	_, err = execute(t, "", "rows", "edit", path, "Development", "9", "score=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = execute(t, "", "rows", "edit", path, "Development", "1", "bonus=1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	mustExecute(t, "rows", "delete", path, "Development", "1", "--yes")
	rows = readDocument(t, path).Document.Tabs[0].TableData
	require.Len(t, rows, 1)
	assert.Equal(t, "API gateway", rows[0].Description)
}

func TestRowsAddLenientNumbers(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "review.dat")
	mustExecute(t, "new", path)

	mustExecute(t, "rows", "add", path, "1", "--weight", "abc", "--score", "80")

	rows := readDocument(t, path).Document.Tabs[0].TableData
	require.Len(t, rows, 2)
	assert.Zero(t, rows[1].Weight)
	assert.Zero(t, rows[1].EvaluationScore)
}

func TestSummaryCommand(t *testing.T) {
	dir := setupEnv(t)
	path := testutil.FixtureBalanced.Document(t).WriteFile(dir, "balanced.dat")

	out := mustExecute(t, "summary", path)
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "Support")
	assert.Contains(t, out, "average of 2 tab(s)")
	assert.Contains(t, out, "77")
	assert.Contains(t, out, "▲ 17")

	out = mustExecute(t, "summary", path, "--json")
	var summary documentSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	require.Len(t, summary.Tabs, 2)
	assert.InDelta(t, 74.0, summary.Tabs[0].Totals.CurrentScoreTotal, 1e-9)
	assert.InDelta(t, 60.0, summary.Tabs[0].Totals.PrevScoreTotal, 1e-9)
	assert.InDelta(t, 77.0, summary.Global.CurrentAvg, 1e-9)
	assert.InDelta(t, 60.0, summary.Global.PrevAvg, 1e-9)
	assert.InDelta(t, 17.0, summary.Global.Diff, 1e-9)
	assert.Equal(t, 2, summary.Global.TabCount)
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name      string
		fixture   testutil.Fixture
		args      []string
		wantOut   string
		wantCount int
		wantErr   bool
	}{
		{
			name:    "clean document",
			fixture: testutil.FixtureBalanced,
			wantOut: "No problems found.",
		},
		{
			name:      "advisory problems",
			fixture:   testutil.FixtureIncomplete,
			wantOut:   "The data has the following problems:",
			wantCount: 3,
		},
		{
			name:      "strict fails",
			fixture:   testutil.FixtureIncomplete,
			args:      []string{"--strict"},
			wantOut:   "1. ",
			wantCount: 3,
			wantErr:   true,
		},
		{
			name:    "strict passes clean document",
			fixture: testutil.FixtureBalanced,
			args:    []string{"--strict"},
			wantOut: "No problems found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupEnv(t)
			path := tt.fixture.Document(t).WriteFile(dir, "doc.dat")

			out, err := execute(t, "", append([]string{"validate", path}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "problem(s) found")
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.wantOut)

			out = mustExecute(t, "validate", path, "--json")
			var violations []validation.Violation
			require.NoError(t, json.Unmarshal([]byte(out), &violations))
			assert.Len(t, violations, tt.wantCount)
		})
	}
}

func TestReportCommand(t *testing.T) {
	dir := setupEnv(t)
	path := testutil.FixtureBalanced.Document(t).WriteFile(dir, "balanced.dat")

	out := mustExecute(t, "report", path, "--title", "Q2 Review")
	assert.Contains(t, out, "Exported 3 row(s)")

	html, err := os.ReadFile(filepath.Join(dir, "balanced.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Q2 Review")
	assert.Contains(t, string(html), "CI pipeline")

	custom := filepath.Join(dir, "out", "custom")
	require.NoError(t, os.MkdirAll(filepath.Dir(custom), 0o750))
	mustExecute(t, "report", path, "-o", custom)
	_, err = os.Stat(custom + ".html")
	require.NoError(t, err)
}

func TestReportCommandNoData(t *testing.T) {
	dir := setupEnv(t)
	path := testutil.NewDocument(t).Tab("Empty").WriteFile(dir, "empty.dat")

	_, err := execute(t, "", "report", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}
