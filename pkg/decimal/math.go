package decimal

import (
	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept by the helpers in this
// package after each multiplication or division.
const Precision int32 = 20

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Hundred returns the constant 100.
func Hundred() decimal.Decimal { return hundred }

// Pct converts a whole-number percentage (3.75) into a fraction (0.0375).
func Pct(rate decimal.Decimal) decimal.Decimal {
	return rate.DivRound(hundred, Precision)
}

// ToPct converts a fraction (0.0375) into a whole-number percentage (3.75).
func ToPct(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(hundred)
}

// Growth returns (1+rate)^n for a fractional rate.
func Growth(rate decimal.Decimal, n int) decimal.Decimal {
	return PowInt(one.Add(rate), n)
}

// PowInt raises base to an integer power by repeated squaring, rounding to
// Precision after every step so long exponents stay cheap.
func PowInt(base decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return one
	}
	if n < 0 {
		p := PowInt(base, -n)
		if p.IsZero() {
			return decimal.Zero
		}
		return one.DivRound(p, Precision)
	}
	result := one
	b := base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(b).Round(Precision)
		}
		n >>= 1
		if n > 0 {
			b = b.Mul(b).Round(Precision)
		}
	}
	return result
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// FloorZero returns v, or zero when v is negative.
func FloorZero(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

// Lerp returns lo + t*(hi-lo).
func Lerp(lo, hi, t decimal.Decimal) decimal.Decimal {
	return lo.Add(hi.Sub(lo).Mul(t))
}
