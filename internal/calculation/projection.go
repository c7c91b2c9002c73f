package calculation

import (
	"time"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/pkg/dateutil"
	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var (
	buildingShare   = decimal.RequireFromString("0.8")
	churchTaxFactor = decimal.RequireFromString("1.08")
	monthsPerYear   = decimal.NewFromInt(12)
	decimalOne      = decimal.NewFromInt(1)
)

// RunningTotals is the state carried from one projection year to the next
type RunningTotals struct {
	CashFlow   decimal.Decimal
	TaxSavings decimal.Decimal
}

// YearProjector computes single years of a projection for fixed inputs
type YearProjector struct {
	Inputs domain.PropertyInputs
	Start  time.Time

	taxCalc  *TaxCalculator
	loan     *LoanAmortizer
	marginal decimal.Decimal // fraction
}

// NewYearProjector prepares a projector. The marginal rate is taken from the
// inputs, or derived from outside income when zero.
func NewYearProjector(in domain.PropertyInputs, taxCalc *TaxCalculator, start time.Time) *YearProjector {
	if taxCalc == nil {
		taxCalc = NewTaxCalculator()
	}
	marginal := in.MarginalTaxRate
	if marginal.IsZero() {
		marginal = taxCalc.MarginalRate(in.OutsideIncome, in.MaritalStatus)
	}
	return &YearProjector{
		Inputs:   in,
		Start:    start,
		taxCalc:  taxCalc,
		loan:     NewLoanAmortizer(in.LoanAmount(), in.InterestRate, in.RepaymentRate),
		marginal: pdec.Pct(marginal),
	}
}

// MarginalRate returns the marginal rate applied to the rental result (percent)
func (yp *YearProjector) MarginalRate() decimal.Decimal {
	return pdec.ToPct(yp.marginal)
}

// Loan exposes the amortizer used for the projection
func (yp *YearProjector) Loan() *LoanAmortizer {
	return yp.loan
}

// depreciation is the straight-line write-off on the building share for the
// year after n elapsed years, ending once the building value is exhausted.
func (yp *YearProjector) depreciation(n int) decimal.Decimal {
	building := yp.Inputs.PurchasePrice.Mul(buildingShare)
	annual := building.Mul(pdec.Pct(yp.Inputs.DepreciationRate))
	if !annual.IsPositive() {
		return decimal.Zero
	}
	remaining := building.Sub(annual.Mul(decimal.NewFromInt(int64(n))))
	if !remaining.IsPositive() {
		return decimal.Zero
	}
	return decimal.Min(annual, remaining)
}

// Project computes the year following n elapsed years. Running totals from
// the previous year are folded in and the updated totals returned.
func (yp *YearProjector) Project(n int, prev RunningTotals) (domain.YearlyProjection, RunningTotals) {
	in := yp.Inputs

	value := round(in.PurchasePrice.Mul(pdec.Growth(pdec.Pct(in.AppreciationRate), n)))

	grossRent := round(in.MonthlyRent.Mul(monthsPerYear).Mul(pdec.Growth(pdec.Pct(in.RentGrowthRate), n)))
	effectiveRent := round(grossRent.Mul(decimalOne.Sub(pdec.Pct(in.VacancyRate))))
	operating := round(in.MonthlyOperatingCost().Mul(monthsPerYear).Mul(pdec.Growth(pdec.Pct(in.CostInflationRate), n)))
	depreciation := round(yp.depreciation(n))

	loan := yp.loan.Year(n)
	balance := round(loan.Balance)
	payment := round(loan.Payment)
	interest := round(loan.Interest)

	taxable := effectiveRent.Sub(operating).Sub(interest).Sub(depreciation)
	savings := taxable.Neg().Mul(yp.marginal)
	if in.ChurchTax {
		savings = savings.Mul(churchTaxFactor)
	}
	savings = round(savings)

	gross := effectiveRent.Sub(operating).Sub(payment)
	net := gross.Add(savings)

	totals := RunningTotals{
		CashFlow:   prev.CashFlow.Add(net),
		TaxSavings: prev.TaxSavings.Add(savings),
	}
	equity := value.Sub(balance)

	year := n + 1
	return domain.YearlyProjection{
		Year:                  year,
		Date:                  dateutil.YearDate(yp.Start, year),
		PropertyValue:         value,
		OutstandingBalance:    balance,
		AnnualLoanPayment:     payment,
		InterestPaid:          interest,
		PrincipalRepaid:       payment.Sub(interest),
		GrossRent:             grossRent,
		EffectiveRent:         effectiveRent,
		OperatingCost:         operating,
		Depreciation:          depreciation,
		TaxableRentalIncome:   taxable,
		TaxSavings:            savings,
		ProgressiveTaxSavings: round(yp.progressiveSavings(taxable)),
		GrossCashFlow:         gross,
		NetCashFlow:           net,
		CumulativeCashFlow:    totals.CashFlow,
		CumulativeTaxSavings:  totals.TaxSavings,
		Equity:                equity,
		NetWorth:              equity.Add(totals.CashFlow),
	}, totals
}

// progressiveSavings is the total tax difference on outside income with and
// without the rental result.
func (yp *YearProjector) progressiveSavings(taxable decimal.Decimal) decimal.Decimal {
	in := yp.Inputs
	without := yp.taxCalc.TotalTax(in.OutsideIncome, in.MaritalStatus, in.ChurchTax)
	with := yp.taxCalc.TotalTax(in.OutsideIncome.Add(taxable), in.MaritalStatus, in.ChurchTax)
	return without.Sub(with)
}

func round(v decimal.Decimal) decimal.Decimal {
	return v.Round(pdec.Precision)
}
