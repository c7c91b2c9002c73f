package sensitivity

import (
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	rateSpread      = decimal.RequireFromString("1.5")
	rateStep        = decimal.RequireFromString("0.25")
	minInterestRate = decimal.RequireFromString("0.5")
	vacancyBelow    = decimal.NewFromInt(3)
	vacancyAbove    = decimal.NewFromInt(5)
	vacancyStep     = decimal.RequireFromString("0.5")
	rentStep        = decimal.NewFromInt(10)
	equityStep      = decimal.NewFromInt(5000)
	priceStep       = decimal.NewFromInt(1000)
)

type rangeRule func(base decimal.Decimal) (lo, hi, step decimal.Decimal)

func scaled(loFactor, hiFactor string, minStep decimal.Decimal) rangeRule {
	lf, hf := decimal.RequireFromString(loFactor), decimal.RequireFromString(hiFactor)
	return func(base decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
		step := decimal.Max(minStep, base.Div(decimal.NewFromInt(100)).Round(0))
		return base.Mul(lf), base.Mul(hf), step
	}
}

func spread(below, above, floor, step decimal.Decimal) rangeRule {
	return func(base decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
		lo := base.Sub(below)
		if lo.LessThan(floor) {
			lo = decimal.Min(floor, base)
		}
		return lo, base.Add(above), step
	}
}

// catalogEntry ties a field to the rule deriving its sweep range from the base value
type catalogEntry struct {
	field domain.Field
	rule  rangeRule
}

var defaultCatalog = []catalogEntry{
	{domain.FieldPurchasePrice, scaled("0.8", "1.2", priceStep)},
	{domain.FieldEquity, scaled("0.5", "1.5", equityStep)},
	{domain.FieldInterestRate, spread(rateSpread, rateSpread, minInterestRate, rateStep)},
	{domain.FieldMonthlyRent, scaled("0.8", "1.2", rentStep)},
	{domain.FieldAppreciationRate, spread(rateSpread, rateSpread, decimal.NewFromInt(-100), rateStep)},
	{domain.FieldRentGrowthRate, spread(rateSpread, rateSpread, decimal.NewFromInt(-100), rateStep)},
	{domain.FieldCostInflationRate, spread(rateSpread, rateSpread, decimal.NewFromInt(-100), rateStep)},
	{domain.FieldVacancyRate, spread(vacancyBelow, vacancyAbove, decimal.Zero, vacancyStep)},
}

// DefaultCatalog derives the standard eight sweep variables from the inputs.
// A degenerate range (e.g. a zero base price) is widened by one step.
func DefaultCatalog(in domain.PropertyInputs) []domain.SensitivityVariable {
	vars := make([]domain.SensitivityVariable, 0, len(defaultCatalog))
	for _, e := range defaultCatalog {
		base := in.Get(e.field)
		lo, hi, step := e.rule(base)
		if lo.GreaterThan(hi) {
			lo, hi = hi, lo
		}
		if lo.Equal(hi) {
			hi = lo.Add(step)
		}
		vars = append(vars, domain.SensitivityVariable{
			Field: e.field,
			Name:  e.field.Name(),
			Min:   lo,
			Max:   hi,
			Step:  step,
			Base:  base,
		})
	}
	return vars
}

// CatalogVariable returns the default variable for a single field
func CatalogVariable(in domain.PropertyInputs, f domain.Field) (domain.SensitivityVariable, bool) {
	for _, v := range DefaultCatalog(in) {
		if v.Field == f {
			return v, true
		}
	}
	return domain.SensitivityVariable{}, false
}
