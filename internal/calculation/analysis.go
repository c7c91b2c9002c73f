package calculation

import (
	"sort"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// MetricExtractor reads a scalar from a projection
type MetricExtractor func(*domain.ProjectionResult) domain.MetricValue

// RankedScenario is a scenario's metric and its difference to base
type RankedScenario struct {
	Name        string             `json:"name"`
	Value       domain.MetricValue `json:"value"`
	DeltaToBase domain.MetricValue `json:"delta_to_base"`
}

// ScenarioRanking orders scenarios by a metric, best first
type ScenarioRanking struct {
	Best   string             `json:"best"`
	Base   domain.MetricValue `json:"base"`
	Ranked []RankedScenario   `json:"ranked"`
}

// RankScenarios ranks scenario results by the extracted metric. Scenarios
// with an invalid metric sort last; ties are broken by name.
func RankScenarios(results map[string]*domain.ProjectionResult, extract MetricExtractor) *ScenarioRanking {
	ranking := &ScenarioRanking{}
	if base, ok := results[domain.BaseScenarioName]; ok {
		ranking.Base = extract(base)
	}

	for name, res := range results {
		v := extract(res)
		entry := RankedScenario{Name: name, Value: v}
		if v.Valid && ranking.Base.Valid {
			entry.DeltaToBase = domain.MetricValue{Value: v.Value.Sub(ranking.Base.Value), Valid: true}
		}
		ranking.Ranked = append(ranking.Ranked, entry)
	}

	sort.Slice(ranking.Ranked, func(i, j int) bool {
		a, b := ranking.Ranked[i], ranking.Ranked[j]
		if a.Value.Valid != b.Value.Valid {
			return a.Value.Valid
		}
		if a.Value.Valid && !a.Value.Value.Equal(b.Value.Value) {
			return a.Value.Value.GreaterThan(b.Value.Value)
		}
		return a.Name < b.Name
	})

	if len(ranking.Ranked) > 0 && ranking.Ranked[0].Value.Valid {
		ranking.Best = ranking.Ranked[0].Name
	}
	return ranking
}

// Spread is the difference between the best and worst valid metric
func (r *ScenarioRanking) Spread() decimal.Decimal {
	var best, worst *decimal.Decimal
	for i := range r.Ranked {
		if !r.Ranked[i].Value.Valid {
			continue
		}
		v := r.Ranked[i].Value.Value
		if best == nil {
			best = &v
		}
		worst = &v
	}
	if best == nil {
		return decimal.Zero
	}
	return best.Sub(*worst)
}
