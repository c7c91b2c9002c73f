package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flows(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = dec(v)
	}
	return out
}

func TestSolveIRR(t *testing.T) {
	tests := []struct {
		name     string
		flows    []decimal.Decimal
		expected float64
	}{
		{name: "single period", flows: flows("-1000", "1100"), expected: 10},
		{name: "two periods", flows: flows("-1000", "0", "1210"), expected: 10},
		{name: "annuity", flows: flows("-1000", "500", "500", "500"), expected: 23.3752},
		{name: "loss", flows: flows("-1000", "900"), expected: -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := SolveIRR(tt.flows)
			require.True(t, res.Converged)
			assert.LessOrEqual(t, res.Iterations, IRRMaxIterations)
			assert.InDelta(t, tt.expected, res.Rate.InexactFloat64(), 0.01)
		})
	}
}

func TestSolveIRR_NPVZeroAtRate(t *testing.T) {
	series := []decimal.Decimal{dec("-60000")}
	for i := 0; i < 9; i++ {
		series = append(series, dec("5000"))
	}
	series = append(series, dec("55000"))

	res := SolveIRR(series)
	require.True(t, res.Converged)
	assert.InDelta(t, 7.1347, res.Rate.InexactFloat64(), 0.01)

	npv := NPV(res.Rate.Div(decimal.NewFromInt(100)), series)
	assert.InDelta(t, 0, npv.InexactFloat64(), 1.0)
}

func TestSolveIRR_NoSignChange(t *testing.T) {
	res := SolveIRR(flows("1000", "500", "500"))
	assert.False(t, res.Converged)
	assert.Equal(t, 0, res.Iterations)

	res = SolveIRR(flows("-1000", "-500"))
	assert.False(t, res.Converged)

	res = SolveIRR(nil)
	assert.False(t, res.Converged)
}

func TestNPV(t *testing.T) {
	assert.InDelta(t, 0, NPV(dec("0.05"), flows("-100", "105")).InexactFloat64(), 1e-9)
	assert.True(t, NPV(decimal.Zero, flows("-100", "40", "60")).IsZero())
	assert.InDelta(t, 4.545, NPV(dec("0.10"), flows("-100", "115")).InexactFloat64(), 0.001)
}
