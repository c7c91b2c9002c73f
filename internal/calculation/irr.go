package calculation

import (
	"github.com/rpgo/rental-calculator/internal/domain"
	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// IRR solver parameters
const (
	IRRMaxIterations = 100
)

var (
	irrInitialGuess = decimal.RequireFromString("0.10")
	irrTolerance    = decimal.RequireFromString("0.0001")
	// rates at or below -100% make the discount factor undefined
	irrFloor = decimal.RequireFromString("-0.9999")
)

// NPV returns the net present value of flows at a fractional rate, where
// flows[j] is discounted by (1+rate)^j.
func NPV(rate decimal.Decimal, flows []decimal.Decimal) decimal.Decimal {
	npv, _ := npvAndDerivative(rate, flows)
	return npv
}

// npvAndDerivative evaluates NPV and dNPV/drate in one pass, building the
// discount factors iteratively.
func npvAndDerivative(rate decimal.Decimal, flows []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	one := decimal.NewFromInt(1)
	step := one.DivRound(one.Add(rate), pdec.Precision)
	factor := one // 1/(1+r)^j
	npv := decimal.Zero
	deriv := decimal.Zero
	for j, cf := range flows {
		npv = npv.Add(cf.Mul(factor))
		if j > 0 {
			// d/dr cf/(1+r)^j = -j*cf/(1+r)^(j+1)
			deriv = deriv.Sub(cf.Mul(decimal.NewFromInt(int64(j))).Mul(factor).Mul(step))
		}
		factor = factor.Mul(step).Round(pdec.Precision)
	}
	return npv.Round(pdec.Precision), deriv.Round(pdec.Precision)
}

func hasSignChange(flows []decimal.Decimal) bool {
	pos, neg := false, false
	for _, cf := range flows {
		switch cf.Sign() {
		case 1:
			pos = true
		case -1:
			neg = true
		}
	}
	return pos && neg
}

// SolveIRR finds the internal rate of return with Newton-Raphson.
// The returned Rate is in percent. When the solver fails, Converged is false
// and Rate holds the last estimate.
func SolveIRR(flows []decimal.Decimal) domain.IRRResult {
	rate := irrInitialGuess
	if !hasSignChange(flows) {
		return domain.IRRResult{Rate: pdec.ToPct(rate), Converged: false}
	}

	for i := 1; i <= IRRMaxIterations; i++ {
		npv, deriv := npvAndDerivative(rate, flows)
		if deriv.IsZero() {
			return domain.IRRResult{Rate: pdec.ToPct(rate), Converged: false, Iterations: i}
		}
		next := rate.Sub(npv.DivRound(deriv, pdec.Precision))
		if next.LessThanOrEqual(irrFloor) {
			next = irrFloor
		}
		delta := next.Sub(rate).Abs()
		rate = next
		if delta.LessThan(irrTolerance) {
			return domain.IRRResult{Rate: pdec.ToPct(rate), Converged: true, Iterations: i}
		}
	}
	return domain.IRRResult{Rate: pdec.ToPct(rate), Converged: false, Iterations: IRRMaxIterations}
}
