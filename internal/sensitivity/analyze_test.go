package sensitivity

import (
	"context"
	"testing"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Defaults(t *testing.T) {
	cfg := &domain.Configuration{Property: baseInputs()}
	metric, horizon, vars := Settings(cfg)
	assert.Equal(t, DefaultMetric, metric)
	assert.Equal(t, DefaultHorizon, horizon)
	assert.Len(t, vars, 8)

	x, y, err := HeatmapAxes(cfg, vars)
	require.NoError(t, err)
	assert.Equal(t, domain.FieldInterestRate, x.Field)
	assert.Equal(t, domain.FieldMonthlyRent, y.Field)
}

func TestHeatmapAxes_Explicit(t *testing.T) {
	xf, yf := domain.FieldAppreciationRate, domain.FieldNotaryRate
	cfg := &domain.Configuration{Property: baseInputs()}
	cfg.Sensitivity.HeatmapX = &xf
	cfg.Sensitivity.HeatmapY = &yf

	_, _, err := HeatmapAxes(cfg, DefaultCatalog(cfg.Property))
	assert.ErrorIs(t, err, ErrInvalidVariable, "notary rate has no default range")

	notary := domain.SensitivityVariable{Field: domain.FieldNotaryRate, Min: dec("1"), Max: dec("2"), Step: dec("0.1"), Base: dec("1.5")}
	x, y, err := HeatmapAxes(cfg, []domain.SensitivityVariable{notary})
	require.NoError(t, err)
	assert.Equal(t, xf, x.Field)
	assert.Equal(t, notary, y)
}

func TestAnalyze(t *testing.T) {
	o := newTestOrchestrator(4)
	var high domain.Overrides
	high.Set(domain.FieldInterestRate, dec("5"))
	cfg := &domain.Configuration{
		Property:  baseInputs(),
		Scenarios: []domain.Scenario{{Name: "High rates", Overrides: high}},
	}
	cfg.Sensitivity.Metric = domain.MetricNetWorth
	cfg.Sensitivity.Horizon = 20

	report, err := o.Analyze(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, report.Base)
	assert.Equal(t, domain.MetricNetWorth, report.Metric)
	assert.Equal(t, 20, report.Horizon)
	assert.Len(t, report.Tornado, 8)
	assert.Len(t, report.Heatmap, 25)
	require.Len(t, report.Scenarios, 2)
	assert.Equal(t, domain.BaseScenarioName, report.Scenarios[0].Scenario.Name)
	assert.Same(t, report.Base, report.Scenarios[0].Result)
	assert.Equal(t, "High rates", report.Scenarios[1].Scenario.Name)
	assert.NotEmpty(t, report.Scenarios[1].Scenario.ID)
	assert.NotNil(t, report.Scenarios[1].Result)
}

func TestAnalyze_RejectsOverriddenBase(t *testing.T) {
	var o1 domain.Overrides
	o1.Set(domain.FieldEquity, dec("1"))
	cfg := &domain.Configuration{
		Property:  baseInputs(),
		Scenarios: []domain.Scenario{{Name: "Base", Overrides: o1}},
	}
	_, err := newTestOrchestrator(1).Analyze(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrBaseScenario)
}

func TestAnalyze_ChecksPresetDirection(t *testing.T) {
	in := baseInputs()
	var wrong domain.Overrides
	wrong.Set(domain.FieldInterestRate, dec("6"))
	cfg := &domain.Configuration{
		Property:  in,
		Scenarios: []domain.Scenario{{Name: "Optimistic", Overrides: wrong}},
	}
	_, err := newTestOrchestrator(2).Analyze(context.Background(), cfg)
	require.ErrorIs(t, err, ErrPresetDirection)
	assert.Contains(t, err.Error(), "interest_rate")

	// the same overrides are fine for the pessimistic preset
	cfg.Scenarios[0].Name = PresetPessimistic
	_, err = newTestOrchestrator(2).Analyze(context.Background(), cfg)
	assert.NoError(t, err)
}

func TestCheckPresets(t *testing.T) {
	in := baseInputs()
	catalog := DefaultCatalog(in)
	generated := []domain.Scenario{Optimistic(catalog), Pessimistic(catalog), {Name: "other"}}
	assert.NoError(t, CheckPresets(generated, in))

	swapped := Optimistic(catalog)
	swapped.Name = PresetPessimistic
	assert.ErrorIs(t, CheckPresets([]domain.Scenario{swapped}, in), ErrPresetDirection)
}
