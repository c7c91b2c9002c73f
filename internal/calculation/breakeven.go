package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// BreakEvenResult reports the monthly rent at which year-1 net cash flow is zero
type BreakEvenResult struct {
	MonthlyRent    decimal.Decimal `json:"monthly_rent"`
	NetCashFlow    decimal.Decimal `json:"net_cash_flow"` // year-1 net cash flow at MonthlyRent
	CurrentRent    decimal.Decimal `json:"current_rent"`
	RentDifference decimal.Decimal `json:"rent_difference"` // MonthlyRent - CurrentRent
	Iterations     int             `json:"iterations"`
}

const breakEvenMaxIterations = 60

var (
	breakEvenTolerance = decimal.NewFromInt(1)
	breakEvenMaxRent   = decimal.NewFromInt(1_000_000)
)

// BreakEvenRent searches for the monthly rent at which the first year's net
// cash flow is zero (within one euro).
func (pe *ProjectionEngine) BreakEvenRent(in domain.PropertyInputs, start time.Time) (*BreakEvenResult, error) {
	yearOne := func(rent decimal.Decimal) decimal.Decimal {
		probe := in.With(domain.FieldMonthlyRent, rent)
		year, _ := NewYearProjector(probe, pe.TaxCalc, start).Project(0, RunningTotals{})
		return year.NetCashFlow
	}

	minRent := decimal.Zero
	maxRent := decimal.Max(in.MonthlyRent, decimal.NewFromInt(100))
	// Grow the upper bound until the cash flow turns non-negative
	for yearOne(maxRent).IsNegative() {
		maxRent = maxRent.Mul(decimal.NewFromInt(2))
		if maxRent.GreaterThan(breakEvenMaxRent) {
			return nil, fmt.Errorf("no break-even rent below %s per month", breakEvenMaxRent)
		}
	}
	if !yearOne(minRent).IsNegative() {
		return newBreakEvenResult(in, minRent, yearOne(minRent), 0), nil
	}

	two := decimal.NewFromInt(2)
	for i := 1; i <= breakEvenMaxIterations; i++ {
		testRent := minRent.Add(maxRent).Div(two)
		cf := yearOne(testRent)

		if cf.Abs().LessThan(breakEvenTolerance) {
			return newBreakEvenResult(in, testRent, cf, i), nil
		}
		if cf.IsNegative() {
			minRent = testRent
		} else {
			maxRent = testRent
		}
		if maxRent.Sub(minRent).LessThan(decimal.RequireFromString("0.01")) {
			break
		}
	}

	pe.logger().Debugf("break-even: search range narrowed without hitting tolerance")
	return newBreakEvenResult(in, maxRent, yearOne(maxRent), breakEvenMaxIterations), nil
}

func newBreakEvenResult(in domain.PropertyInputs, rent, cf decimal.Decimal, iterations int) *BreakEvenResult {
	rent = rent.Round(2)
	return &BreakEvenResult{
		MonthlyRent:    rent,
		NetCashFlow:    cf,
		CurrentRent:    in.MonthlyRent,
		RentDifference: rent.Sub(in.MonthlyRent),
		Iterations:     iterations,
	}
}

// CumulativeBreakEvenResult describes where the cumulative cash flows of two
// projections cross
type CumulativeBreakEvenResult struct {
	// 1-based year in which the crossover occurs
	Year int `json:"year"`

	// Fraction (0..1) of that year at which the difference reaches zero
	Fraction decimal.Decimal `json:"fraction_of_year"`

	// Cumulative cash flow at the crossover (equal for both projections)
	CumulativeAmount decimal.Decimal `json:"cumulative_amount"`

	// Calendar date of the crossover, month precision
	Date time.Time `json:"date"`
}

// CalculateCumulativeBreakEven finds the first year in which the cumulative
// net cash flow of projection A catches up with (or falls behind) projection B.
// Projections must be aligned by year. Returns nil, nil if they never cross.
func CalculateCumulativeBreakEven(projA, projB []domain.YearlyProjection) (*CumulativeBreakEvenResult, error) {
	if len(projA) == 0 || len(projB) == 0 {
		return nil, fmt.Errorf("one or both projections are empty")
	}

	n := len(projA)
	if len(projB) < n {
		n = len(projB)
	}

	cent := decimal.RequireFromString("0.01")
	cumA, cumB := decimal.Zero, decimal.Zero
	for i := 0; i < n; i++ {
		prevDiff := cumA.Sub(cumB)
		cumA = cumA.Add(projA[i].NetCashFlow)
		cumB = cumB.Add(projB[i].NetCashFlow)
		currDiff := cumA.Sub(cumB)

		// An exact tie in the first year is not a crossover
		if currDiff.Abs().LessThan(cent) && i > 0 {
			return &CumulativeBreakEvenResult{
				Year:             projA[i].Year,
				Fraction:         decimal.NewFromInt(1),
				CumulativeAmount: cumA,
				Date:             dateutil.AddMonths(projA[i].Date, 11),
			}, nil
		}

		if i > 0 && prevDiff.Mul(currDiff).IsNegative() {
			// diff(t) = prevDiff + t*(currDiff - prevDiff)
			t := decimal.NewFromFloat(0.5)
			if denom := currDiff.Sub(prevDiff); !denom.IsZero() {
				t = clampUnit(prevDiff.Neg().Div(denom))
			}
			month := int(t.Mul(decimal.NewFromInt(12)).IntPart())
			if month > 11 {
				month = 11
			}
			return &CumulativeBreakEvenResult{
				Year:             projA[i].Year,
				Fraction:         t,
				CumulativeAmount: cumA.Sub(projA[i].NetCashFlow).Add(projA[i].NetCashFlow.Mul(t)),
				Date:             dateutil.AddMonths(projA[i].Date, month),
			}, nil
		}
	}
	return nil, nil
}

func clampUnit(t decimal.Decimal) decimal.Decimal {
	if t.IsNegative() {
		return decimal.Zero
	}
	if t.GreaterThan(decimalOne) {
		return decimalOne
	}
	return t
}
