package sensitivity

import (
	"context"
	"fmt"

	"github.com/rpgo/rental-calculator/internal/domain"
)

// Defaults used when a configuration leaves the sweep settings empty
const (
	DefaultMetric  = domain.MetricIRR10
	DefaultHorizon = 10
)

// Settings returns the metric, horizon and variables a configuration asks
// for, filling unset values with defaults and the default catalog.
func Settings(cfg *domain.Configuration) (domain.Metric, int, []domain.SensitivityVariable) {
	metric := cfg.Sensitivity.Metric
	if metric == "" {
		metric = DefaultMetric
	}
	horizon := cfg.Sensitivity.Horizon
	if horizon == 0 {
		horizon = DefaultHorizon
	}
	vars := cfg.Sensitivity.Variables
	if len(vars) == 0 {
		vars = DefaultCatalog(cfg.Property)
	}
	return metric, horizon, vars
}

// HeatmapAxes resolves the configured heatmap fields against the variable
// list, falling back to the default catalog. Unset axes default to interest
// rate (x) and monthly rent (y).
func HeatmapAxes(cfg *domain.Configuration, vars []domain.SensitivityVariable) (domain.SensitivityVariable, domain.SensitivityVariable, error) {
	xf, yf := domain.FieldInterestRate, domain.FieldMonthlyRent
	if cfg.Sensitivity.HeatmapX != nil {
		xf = *cfg.Sensitivity.HeatmapX
	}
	if cfg.Sensitivity.HeatmapY != nil {
		yf = *cfg.Sensitivity.HeatmapY
	}
	x, err := lookupVariable(cfg.Property, vars, xf)
	if err != nil {
		return x, x, err
	}
	y, err := lookupVariable(cfg.Property, vars, yf)
	return x, y, err
}

func lookupVariable(in domain.PropertyInputs, vars []domain.SensitivityVariable, f domain.Field) (domain.SensitivityVariable, error) {
	for _, v := range vars {
		if v.Field == f {
			return v, nil
		}
	}
	if v, ok := CatalogVariable(in, f); ok {
		return v, nil
	}
	return domain.SensitivityVariable{}, fmt.Errorf("%w: no sweep range for %s", ErrInvalidVariable, f.Key())
}

// Analyze runs the scenario comparison, the tornado sweep and the heatmap
// for a configuration and bundles them into one report.
func (o *Orchestrator) Analyze(ctx context.Context, cfg *domain.Configuration) (*domain.AnalysisReport, error) {
	metric, horizon, vars := Settings(cfg)

	set, err := cfg.ScenarioSet()
	if err != nil {
		return nil, err
	}
	scenarios := set.All()
	if err := CheckPresets(scenarios, cfg.Property); err != nil {
		return nil, err
	}
	results, err := o.Scenarios(ctx, cfg.Property, scenarios, horizon)
	if err != nil {
		return nil, fmt.Errorf("scenarios: %w", err)
	}

	tornado, err := o.Tornado(ctx, cfg.Property, vars, metric, horizon)
	if err != nil {
		return nil, fmt.Errorf("tornado: %w", err)
	}

	x, y, err := HeatmapAxes(cfg, vars)
	if err != nil {
		return nil, fmt.Errorf("heatmap: %w", err)
	}
	cells, err := o.Heatmap(ctx, cfg.Property, x, y, metric, horizon)
	if err != nil {
		return nil, fmt.Errorf("heatmap: %w", err)
	}

	report := &domain.AnalysisReport{
		Inputs:   cfg.Property,
		Base:     results[domain.BaseScenarioName],
		Metric:   metric,
		Horizon:  horizon,
		Tornado:  tornado,
		HeatmapX: &x,
		HeatmapY: &y,
		Heatmap:  cells,
		Issues:   RangeIssues(tornado, cells),
	}
	for _, s := range scenarios {
		report.Scenarios = append(report.Scenarios, domain.ScenarioOutcome{Scenario: s, Result: results[s.Name]})
	}
	return report, nil
}
