package main

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/rental-calculator/internal/config"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/internal/output"
	"github.com/rpgo/rental-calculator/internal/sensitivity"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// exampleFile writes the example configuration to a temp dir
func exampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	_, _, err := run(t, "example-config", path)
	require.NoError(t, err)
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rentcalc dev")
}

func TestExampleConfig_Stdout(t *testing.T) {
	out, _, err := run(t, "example-config")
	require.NoError(t, err)
	assert.Contains(t, out, "purchase_price")
	assert.Contains(t, out, "High rates")
}

func TestProject(t *testing.T) {
	cfg := exampleFile(t)
	out, _, err := run(t, "project", "--config", cfg, "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario,"))
	assert.True(t, strings.HasPrefix(lines[1], "base,"))

	out, _, err = run(t, "project", "-c", cfg, "-f", "yearly-csv", "--scenario", "high rates")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1+domain.ProjectionYears)

	_, _, err = run(t, "project", "-c", cfg, "--scenario", "nope")
	assert.ErrorContains(t, err, "unknown scenario")
}

func TestAnalyze(t *testing.T) {
	cfg := exampleFile(t)
	out, _, err := run(t, "analyze", "-c", cfg, "-f", "summary")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "RENTAL PROPERTY SUMMARY"))
	assert.Contains(t, out, "Recommended: ")
	assert.Contains(t, out, "Most sensitive input: ")
}

func TestTornado(t *testing.T) {
	cfg := exampleFile(t)
	out, _, err := run(t, "tornado", "-c", cfg, "-f", "tornado-csv", "--metric", "networth", "--horizon", "20")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Rank,"))
	assert.Len(t, lines, 1+8, "one row per default catalog variable")
}

func TestHeatmap(t *testing.T) {
	cfg := exampleFile(t)
	out, _, err := run(t, "heatmap", "-c", cfg, "-f", "heatmap-csv", "--x", "appreciation_rate")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1+domain.HeatmapGridSize*domain.HeatmapGridSize)
	assert.Equal(t, "Row,Col,monthly_rent,appreciation_rate,Value,Valid", lines[0])

	_, _, err = run(t, "heatmap", "-c", cfg, "--x", "monthly_rent")
	assert.ErrorIs(t, err, sensitivity.ErrSameAxis)
}

func TestScenarios_Presets(t *testing.T) {
	cfg := exampleFile(t)
	out, _, err := run(t, "scenarios", "-c", cfg, "-f", "csv", "--presets")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, base, three configured scenarios, two presets
	assert.Len(t, lines, 7)
	assert.Contains(t, out, "optimistic,")
	assert.Contains(t, out, "pessimistic,")
}

func TestScenarios_MisdirectedPreset(t *testing.T) {
	example := config.NewInputParser().CreateExampleConfiguration()
	rate := decimal.NewFromInt(9)
	example.Scenarios = append(example.Scenarios, domain.Scenario{
		Name:      "optimistic",
		Overrides: domain.Overrides{InterestRate: &rate},
	})
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, output.SaveConfiguration(example, path))

	_, _, err := run(t, "scenarios", "-c", path)
	assert.ErrorIs(t, err, sensitivity.ErrPresetDirection)
	assert.ErrorContains(t, err, "interest_rate")
}

func TestBreakeven(t *testing.T) {
	cfg := exampleFile(t)
	out, _, err := run(t, "breakeven", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Break-even monthly rent: ")
	assert.Contains(t, out, "Current monthly rent:    1,100.00 €")
}

func TestOutDir(t *testing.T) {
	cfg := exampleFile(t)
	dir := filepath.Join(t.TempDir(), "reports")
	out, _, err := run(t, "analyze", "-c", cfg, "-f", "json", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to ")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".json"))
}

func TestErrors(t *testing.T) {
	cfg := exampleFile(t)

	_, _, err := run(t, "project", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, _, err = run(t, "tornado", "-c", cfg, "--metric", "payback")
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)

	_, _, err = run(t, "tornado", "-c", cfg, "--horizon", "15")
	assert.ErrorIs(t, err, sensitivity.ErrInvalidHorizon)

	_, _, err = run(t, "project", "-c", cfg, "-f", "pdf")
	assert.ErrorContains(t, err, "Try one of:")

	_, _, err = run(t, "version", "--log-level", "loud")
	assert.ErrorContains(t, err, "log_level")
}

func TestDebugLogging(t *testing.T) {
	cfg := exampleFile(t)
	_, errOut, err := run(t, "project", "-c", cfg, "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, errOut, "INFO projecting from 2025-01-01")
}

func TestStartFlag(t *testing.T) {
	cfg := exampleFile(t)
	_, errOut, err := run(t, "project", "-c", cfg, "--log-level", "info", "--start", "2030-07-19")
	require.NoError(t, err)
	assert.Contains(t, errOut, "projecting from 2030-07-01")

	_, _, err = run(t, "project", "-c", cfg, "--start", "19.07.2030")
	assert.ErrorContains(t, err, "invalid --start")
}

func TestLeveledLogger(t *testing.T) {
	var buf bytes.Buffer
	lg := newLogger(&buf, "warn")
	lg.Debugf("hidden %d", 1)
	lg.Infof("hidden %d", 2)
	lg.Warnf("shown %d", 3)
	lg.Errorf("shown %d", 4)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN shown 3")
	assert.Contains(t, buf.String(), "ERROR shown 4")
}
