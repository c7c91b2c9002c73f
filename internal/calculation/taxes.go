package calculation

import (
	"github.com/rpgo/rental-calculator/internal/domain"
	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// TaxZone is one polynomial or linear zone of the income tax formula.
// Zones with a zero Quadratic coefficient are linear.
type TaxZone struct {
	Upper     decimal.Decimal // inclusive upper bound; zero means unbounded
	Offset    decimal.Decimal // subtracted from income before scaling polynomial zones
	Quadratic decimal.Decimal
	Linear    decimal.Decimal
	Constant  decimal.Decimal
}

// TaxBreakdown is the result of a full tax calculation. All amounts are >= 0.
type TaxBreakdown struct {
	IncomeTax     decimal.Decimal `json:"income_tax"`
	SolidarityTax decimal.Decimal `json:"solidarity_tax"`
	ChurchTax     decimal.Decimal `json:"church_tax"`
	TotalTax      decimal.Decimal `json:"total_tax"`
}

// TaxCalculator implements the German five-zone income tax with
// income splitting, solidarity surcharge and church tax.
type TaxCalculator struct {
	BasicAllowance decimal.Decimal
	Zones          []TaxZone

	SoliThresholdSingle  decimal.Decimal
	SoliThresholdMarried decimal.Decimal
	SoliRate             decimal.Decimal
	SoliPhaseInFactor    decimal.Decimal

	ChurchTaxRate decimal.Decimal

	// MarginalStep is the income step used to estimate the marginal rate
	MarginalStep decimal.Decimal
}

var tenThousand = decimal.NewFromInt(10000)

// NewTaxCalculator creates a calculator with the 2024/2025 constants
func NewTaxCalculator() *TaxCalculator {
	return &TaxCalculator{
		BasicAllowance: decimal.NewFromInt(11604),
		Zones: []TaxZone{
			{
				Upper:     decimal.NewFromInt(17005),
				Offset:    decimal.NewFromInt(11604),
				Quadratic: decimal.RequireFromString("922.98"),
				Linear:    decimal.NewFromInt(1400),
			},
			{
				Upper:     decimal.NewFromInt(66760),
				Offset:    decimal.NewFromInt(17005),
				Quadratic: decimal.RequireFromString("181.19"),
				Linear:    decimal.NewFromInt(2397),
				Constant:  decimal.RequireFromString("1025.38"),
			},
			{
				Upper:    decimal.NewFromInt(277825),
				Linear:   decimal.RequireFromString("0.42"),
				Constant: decimal.RequireFromString("-10602.13"),
			},
			{
				Linear:   decimal.RequireFromString("0.45"),
				Constant: decimal.RequireFromString("-18936.88"),
			},
		},
		SoliThresholdSingle:  decimal.NewFromInt(16369),
		SoliThresholdMarried: decimal.NewFromInt(32734),
		SoliRate:             decimal.RequireFromString("0.055"),
		SoliPhaseInFactor:    decimal.RequireFromString("1.2"),
		ChurchTaxRate:        decimal.RequireFromString("0.08"),
		MarginalStep:         decimal.NewFromInt(100),
	}
}

// tariff applies the zone formula to a single (already split) income
func (tc *TaxCalculator) tariff(income decimal.Decimal) decimal.Decimal {
	if income.LessThanOrEqual(tc.BasicAllowance) {
		return decimal.Zero
	}
	for _, z := range tc.Zones {
		if !z.Upper.IsZero() && income.GreaterThan(z.Upper) {
			continue
		}
		if z.Quadratic.IsZero() {
			return income.Mul(z.Linear).Add(z.Constant)
		}
		y := income.Sub(z.Offset).Div(tenThousand)
		return z.Quadratic.Mul(y).Add(z.Linear).Mul(y).Add(z.Constant)
	}
	return decimal.Zero
}

// IncomeTax returns the income tax on taxable income, applying
// splitting for married couples. Negative income yields zero.
func (tc *TaxCalculator) IncomeTax(taxable decimal.Decimal, status domain.MaritalStatus) decimal.Decimal {
	if status == domain.Married {
		half := taxable.Div(decimal.NewFromInt(2))
		return pdec.FloorZero(tc.tariff(half).Mul(decimal.NewFromInt(2)))
	}
	return pdec.FloorZero(tc.tariff(taxable))
}

// SolidarityTax returns the surcharge on an income tax amount
func (tc *TaxCalculator) SolidarityTax(incomeTax decimal.Decimal, status domain.MaritalStatus) decimal.Decimal {
	threshold := tc.SoliThresholdSingle
	if status == domain.Married {
		threshold = tc.SoliThresholdMarried
	}
	if incomeTax.LessThanOrEqual(threshold) {
		return decimal.Zero
	}
	return pdec.FloorZero(incomeTax.Sub(threshold).Mul(tc.SoliRate).Mul(tc.SoliPhaseInFactor))
}

// Calculate computes the full breakdown for a taxable income
func (tc *TaxCalculator) Calculate(taxable decimal.Decimal, status domain.MaritalStatus, churchTax bool) TaxBreakdown {
	incomeTax := tc.IncomeTax(taxable, status)
	soli := tc.SolidarityTax(incomeTax, status)
	church := decimal.Zero
	if churchTax {
		church = pdec.FloorZero(incomeTax.Mul(tc.ChurchTaxRate))
	}
	return TaxBreakdown{
		IncomeTax:     incomeTax,
		SolidarityTax: soli,
		ChurchTax:     church,
		TotalTax:      incomeTax.Add(soli).Add(church),
	}
}

// TotalTax is a shorthand for Calculate(...).TotalTax
func (tc *TaxCalculator) TotalTax(taxable decimal.Decimal, status domain.MaritalStatus, churchTax bool) decimal.Decimal {
	return tc.Calculate(taxable, status, churchTax).TotalTax
}

// MarginalRate estimates the marginal rate (income tax plus surcharge) in
// percent at the given income, over one MarginalStep.
func (tc *TaxCalculator) MarginalRate(income decimal.Decimal, status domain.MaritalStatus) decimal.Decimal {
	step := tc.MarginalStep
	if !step.IsPositive() {
		step = decimal.NewFromInt(100)
	}
	lo := tc.Calculate(income, status, false)
	hi := tc.Calculate(income.Add(step), status, false)
	diff := hi.IncomeTax.Add(hi.SolidarityTax).Sub(lo.IncomeTax).Sub(lo.SolidarityTax)
	return pdec.FloorZero(diff.Div(step).Mul(decimal.NewFromInt(100))).Round(2)
}
