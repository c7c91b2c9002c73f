package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanAmortizer_Annuity(t *testing.T) {
	la := NewLoanAmortizer(dec("270210"), dec("3.75"), dec("1.4"))

	assert.InDelta(t, 1251.3846, la.MonthlyPayment().InexactFloat64(), 0.0001)
	assert.True(t, la.BalanceAfter(0).Equal(dec("270210")))
	assert.InDelta(t, 265241.4395, la.BalanceAfter(12).InexactFloat64(), 0.001)
	assert.InDelta(t, 211065.8295, la.BalanceAfter(120).InexactFloat64(), 0.001)
	assert.InDelta(t, 1247.4862, la.BalanceAfter(359).InexactFloat64(), 0.001)
	assert.True(t, la.BalanceAfter(360).IsZero())
	assert.True(t, la.BalanceAfter(480).IsZero())
}

func TestLoanAmortizer_BalanceNonIncreasing(t *testing.T) {
	la := NewLoanAmortizer(dec("400000"), dec("5"), dec("2"))
	prev := la.BalanceAfter(0)
	for year := 1; year <= 40; year++ {
		b := la.BalanceAfter(year * 12)
		assert.False(t, b.IsNegative(), "year %d", year)
		assert.True(t, b.LessThanOrEqual(prev), "balance increased in year %d", year)
		prev = b
	}
	assert.True(t, prev.IsZero())
}

func TestLoanAmortizer_YearSplit(t *testing.T) {
	la := NewLoanAmortizer(dec("270210"), dec("3.75"), dec("1.4"))

	first := la.Year(0)
	assert.True(t, first.Balance.Equal(dec("270210")))
	assert.True(t, first.Payment.Equal(dec("13915.815")), "got %s", first.Payment)
	assert.True(t, first.Interest.Equal(dec("10132.875")), "got %s", first.Interest)
	assert.True(t, first.Principal.Equal(dec("3782.94")), "got %s", first.Principal)

	for _, n := range []int{30, 35, 39} {
		y := la.Year(n)
		assert.True(t, y.Balance.IsZero(), "year index %d", n)
		assert.True(t, y.Payment.IsZero())
		assert.True(t, y.Interest.IsZero())
		assert.True(t, y.Principal.IsZero())
	}
}

func TestLoanAmortizer_ZeroRate(t *testing.T) {
	la := NewLoanAmortizer(dec("270210"), decimal.Zero, dec("2"))
	assert.InDelta(t, 750.5833, la.MonthlyPayment().InexactFloat64(), 0.0001)
	assert.InDelta(t, 135105.0, la.BalanceAfter(180).InexactFloat64(), 0.001)
	assert.True(t, la.BalanceAfter(360).IsZero())

	y := la.Year(0)
	assert.True(t, y.Interest.IsZero())
	assert.True(t, y.Payment.Equal(y.Principal))
}

func TestLoanAmortizer_ZeroPrincipal(t *testing.T) {
	la := NewLoanAmortizer(dec("-1000"), dec("4"), dec("2"))
	require.True(t, la.Principal.IsZero(), "negative principal is floored")
	y := la.Year(0)
	assert.True(t, y.Balance.IsZero())
	assert.True(t, y.Payment.IsZero())
}
