package output

import (
	"testing"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// resultWithNetWorth builds a result whose year-10 net worth is nw
func resultWithNetWorth(nw int64) *domain.ProjectionResult {
	years := make([]domain.YearlyProjection, 10)
	for i := range years {
		years[i].Year = i + 1
	}
	years[9].NetWorth = decimal.NewFromInt(nw)
	return &domain.ProjectionResult{Years: years}
}

func TestAnalyzeScenarios_SelectsHighestMetric(t *testing.T) {
	report := &domain.AnalysisReport{
		Metric:  domain.MetricNetWorth,
		Horizon: 10,
		Base:    resultWithNetWorth(100000),
		Scenarios: []domain.ScenarioOutcome{
			{Scenario: domain.Scenario{Name: domain.BaseScenarioName}, Result: resultWithNetWorth(100000)},
			{Scenario: domain.Scenario{Name: "Scenario A"}, Result: resultWithNetWorth(90000)},
			{Scenario: domain.Scenario{Name: "Scenario B"}, Result: resultWithNetWorth(125000)},
		},
	}

	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "Scenario B" {
		t.Fatalf("expected Scenario B to be recommended, got %q", rec.ScenarioName)
	}
	if !rec.Value.Valid || !rec.Value.Value.Equal(decimal.NewFromInt(125000)) {
		t.Fatalf("unexpected value %+v", rec.Value)
	}
	if !rec.Change.Value.Equal(decimal.NewFromInt(25000)) {
		t.Fatalf("expected change of 25000, got %s", rec.Change.Value)
	}
	if !rec.PercentageChange.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected 25%% change, got %s", rec.PercentageChange)
	}
	if rec.Ranking == nil || len(rec.Ranking.Ranked) != 3 {
		t.Fatalf("expected three ranked scenarios")
	}
}

func TestAnalyzeScenarios_Empty(t *testing.T) {
	rec := AnalyzeScenarios(&domain.AnalysisReport{})
	if rec.ScenarioName != "" || rec.Ranking != nil {
		t.Fatalf("expected empty recommendation, got %+v", rec)
	}
}

func TestAnalyzeScenarios_DefaultsToIRR10(t *testing.T) {
	rec := AnalyzeScenarios(&domain.AnalysisReport{Base: resultWithNetWorth(1)})
	if rec.Metric != domain.MetricIRR10 {
		t.Fatalf("expected default metric irr10, got %s", rec.Metric)
	}
	// no horizons, so the IRR is not available and nothing is recommended
	if rec.ScenarioName != "" {
		t.Fatalf("expected no recommendation, got %q", rec.ScenarioName)
	}
}
