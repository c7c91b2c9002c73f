package calculation

import (
	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// LoanTermMonths is the fixed annuity term
const LoanTermMonths = 360

// LoanYear holds the financing figures for one projection year
type LoanYear struct {
	Balance   decimal.Decimal // outstanding at the start of the year
	Payment   decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
}

// LoanAmortizer computes the balance of a fixed-term annuity loan and the
// annual payment split reported for each year.
type LoanAmortizer struct {
	Principal    decimal.Decimal
	InterestRate decimal.Decimal // percent
	Repayment    decimal.Decimal // percent
	TermMonths   int

	monthlyRate    decimal.Decimal
	monthlyPayment decimal.Decimal
}

// NewLoanAmortizer prepares an amortizer for a principal at the given
// annual interest and repayment rates (percent).
func NewLoanAmortizer(principal, interestRate, repayment decimal.Decimal) *LoanAmortizer {
	la := &LoanAmortizer{
		Principal:    pdec.FloorZero(principal),
		InterestRate: interestRate,
		Repayment:    repayment,
		TermMonths:   LoanTermMonths,
	}
	la.monthlyRate = pdec.Pct(interestRate).DivRound(decimal.NewFromInt(12), pdec.Precision)
	la.monthlyPayment = la.computeMonthlyPayment()
	return la
}

func (la *LoanAmortizer) computeMonthlyPayment() decimal.Decimal {
	n := decimal.NewFromInt(int64(la.TermMonths))
	if !la.monthlyRate.IsPositive() {
		return la.Principal.DivRound(n, pdec.Precision)
	}
	// M = L*r / (1 - (1+r)^-n)
	discount := pdec.Growth(la.monthlyRate, -la.TermMonths)
	denom := decimal.NewFromInt(1).Sub(discount)
	if denom.IsZero() {
		return la.Principal.DivRound(n, pdec.Precision)
	}
	return la.Principal.Mul(la.monthlyRate).DivRound(denom, pdec.Precision)
}

// MonthlyPayment returns the fixed monthly annuity
func (la *LoanAmortizer) MonthlyPayment() decimal.Decimal {
	return la.monthlyPayment
}

// BalanceAfter returns the remaining balance after the given number of
// monthly payments. It is zero once the term is reached.
func (la *LoanAmortizer) BalanceAfter(months int) decimal.Decimal {
	if months <= 0 {
		return la.Principal
	}
	if months >= la.TermMonths || la.Principal.IsZero() {
		return decimal.Zero
	}
	if !la.monthlyRate.IsPositive() {
		paid := la.monthlyPayment.Mul(decimal.NewFromInt(int64(months)))
		return pdec.FloorZero(la.Principal.Sub(paid))
	}
	// B = L(1+r)^k - M((1+r)^k - 1)/r
	g := pdec.Growth(la.monthlyRate, months)
	grown := la.Principal.Mul(g)
	paid := la.monthlyPayment.Mul(g.Sub(decimal.NewFromInt(1))).DivRound(la.monthlyRate, pdec.Precision)
	return pdec.FloorZero(grown.Sub(paid))
}

// Year returns the figures for the year following n elapsed whole years
func (la *LoanAmortizer) Year(n int) LoanYear {
	balance := la.BalanceAfter(n * 12)
	if balance.IsZero() {
		return LoanYear{Balance: decimal.Zero, Payment: decimal.Zero, Interest: decimal.Zero, Principal: decimal.Zero}
	}
	interestRate := pdec.Pct(la.InterestRate)
	payment := balance.Mul(interestRate.Add(pdec.Pct(la.Repayment)))
	interest := balance.Mul(interestRate)
	return LoanYear{
		Balance:   balance,
		Payment:   payment,
		Interest:  interest,
		Principal: payment.Sub(interest),
	}
}
