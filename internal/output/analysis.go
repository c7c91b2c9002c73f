package output

import (
	"github.com/rpgo/rental-calculator/internal/calculation"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/internal/sensitivity"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName     string
	Metric           domain.Metric
	Value            domain.MetricValue
	Change           domain.MetricValue
	PercentageChange decimal.Decimal
	Ranking          *calculation.ScenarioRanking
}

// AnalyzeScenarios ranks the report's scenarios by its metric at its horizon
// and picks the best one. Extracted from embedded console logic for testability.
func AnalyzeScenarios(report *domain.AnalysisReport) Recommendation {
	results := scenarioResults(report)
	if len(results) == 0 {
		return Recommendation{}
	}
	metric, horizon := reportMetric(report)
	ranking := calculation.RankScenarios(results, sensitivity.Extractor(metric, horizon))

	rec := Recommendation{ScenarioName: ranking.Best, Metric: metric, Ranking: ranking}
	for _, r := range ranking.Ranked {
		if r.Name != ranking.Best {
			continue
		}
		rec.Value = r.Value
		rec.Change = r.DeltaToBase
		if r.DeltaToBase.Valid && !ranking.Base.Value.IsZero() {
			rec.PercentageChange = r.DeltaToBase.Value.DivRound(ranking.Base.Value.Abs(), 10).Mul(decimal.NewFromInt(100))
		}
	}
	return rec
}

// scenarioResults maps scenario names to results, including base
func scenarioResults(report *domain.AnalysisReport) map[string]*domain.ProjectionResult {
	results := make(map[string]*domain.ProjectionResult, len(report.Scenarios)+1)
	for _, s := range report.Scenarios {
		if s.Result != nil {
			results[s.Scenario.Name] = s.Result
		}
	}
	if report.Base != nil {
		results[domain.BaseScenarioName] = report.Base
	}
	return results
}

func reportMetric(report *domain.AnalysisReport) (domain.Metric, int) {
	metric, horizon := report.Metric, report.Horizon
	if metric == "" {
		metric = sensitivity.DefaultMetric
	}
	if horizon == 0 {
		horizon = sensitivity.DefaultHorizon
	}
	return metric, horizon
}

// outcomes returns the scenario list to render, falling back to base alone
func outcomes(report *domain.AnalysisReport) []domain.ScenarioOutcome {
	if len(report.Scenarios) > 0 {
		return report.Scenarios
	}
	if report.Base == nil {
		return nil
	}
	return []domain.ScenarioOutcome{{Scenario: domain.Scenario{Name: domain.BaseScenarioName}, Result: report.Base}}
}
