package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/rental-calculator/internal/cache"
	"github.com/rpgo/rental-calculator/internal/calculation"
	"github.com/rpgo/rental-calculator/internal/config"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/internal/output"
	"github.com/rpgo/rental-calculator/internal/sensitivity"
)

const exampleConfig = "../../internal/config/testdata/example_config.yaml"

func loadExample(t *testing.T) (*domain.Configuration, *sensitivity.Orchestrator) {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile(exampleConfig)
	require.NoError(t, err)
	require.NotNil(t, cfg.StartDate)

	engine := calculation.NewProjectionEngine()
	engine.StartDate = *cfg.StartDate
	o := sensitivity.NewOrchestrator(engine)
	o.Workers = 4
	return cfg, o
}

func TestEndToEndAnalysis(t *testing.T) {
	cfg, o := loadExample(t)

	report, err := o.Analyze(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, report.Base)

	assert.Len(t, report.Base.Years, domain.ProjectionYears)
	assert.Equal(t, domain.MetricIRR20, report.Metric)
	assert.Equal(t, 20, report.Horizon)
	assert.Len(t, report.Tornado, 2)
	assert.Len(t, report.Heatmap, domain.HeatmapGridSize*domain.HeatmapGridSize)
	require.Len(t, report.Scenarios, 3)
	assert.True(t, report.Scenarios[0].Scenario.IsBase())

	// base projection is the free function applied at the configured start
	direct := calculation.ComputeProjection(cfg.Property, *cfg.StartDate)
	assert.Equal(t, direct, report.Base)

	// higher rates hurt net worth
	high := report.Scenarios[1]
	assert.Equal(t, "High rates", high.Scenario.Name)
	base40, _ := report.Base.Year(40)
	high40, _ := high.Result.Year(40)
	assert.True(t, high40.NetWorth.LessThan(base40.NetWorth))
}

func TestAnalysisIsDeterministic(t *testing.T) {
	cfg, o := loadExample(t)
	first, err := o.Analyze(context.Background(), cfg)
	require.NoError(t, err)

	o.Workers = 1
	second, err := o.Analyze(context.Background(), cfg)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestCachedAnalysisMatchesFresh(t *testing.T) {
	cfg, o := loadExample(t)
	fresh, err := o.Analyze(context.Background(), cfg)
	require.NoError(t, err)

	store := cache.NewMemoryStore(64)
	o.Cache = store
	_, err = o.Analyze(context.Background(), cfg)
	require.NoError(t, err)
	filled := store.Len()
	assert.Positive(t, filled)

	cached, err := o.Analyze(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filled, store.Len(), "a repeat run only reads")

	a, _ := json.Marshal(fresh)
	b, _ := json.Marshal(cached)
	assert.JSONEq(t, string(a), string(b))
}

func TestOutputGeneration(t *testing.T) {
	cfg, o := loadExample(t)
	report, err := o.Analyze(context.Background(), cfg)
	require.NoError(t, err)

	for _, format := range []string{"console", "console-lite", "csv", "yearly-csv", "tornado-csv", "heatmap-csv", "html", "json"} {
		files, err := output.GenerateReport(report, format, t.TempDir())
		assert.NoError(t, err, format)
		assert.Len(t, files, 1, format)
	}
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(exampleConfig)
	require.NoError(t, err)
	assert.NoError(t, parser.ValidateConfiguration(cfg))
}
