package sensitivity

import (
	"fmt"

	"github.com/rpgo/rental-calculator/internal/domain"
	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var half = decimal.RequireFromString("0.5")

// Normalize maps v into [0, 1] relative to [lo, hi]. A degenerate range
// maps everything to 0.5.
func Normalize(v, lo, hi decimal.Decimal) decimal.Decimal {
	span := hi.Sub(lo)
	if !span.IsPositive() {
		return half
	}
	return pdec.Clamp(v.Sub(lo).DivRound(span, pdec.Precision), decimal.Zero, decimal.NewFromInt(1))
}

// BarWidth is the rendered length of a tornado bar on each side of base, in
// percent of the widest bar.
type BarWidth struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

func deviation(end, base domain.MetricValue) decimal.Decimal {
	if !end.Valid || !base.Valid {
		return decimal.Zero
	}
	return end.Value.Sub(base.Value).Abs()
}

// largestDeviation is the widest swing of any tornado end from its base
func largestDeviation(points []domain.TornadoDataPoint) decimal.Decimal {
	largest := decimal.Zero
	for _, p := range points {
		largest = decimal.Max(largest, deviation(p.MinImpact, p.BaseValue), deviation(p.MaxImpact, p.BaseValue))
	}
	return largest
}

// BarWidths scales tornado deviations so the largest one is 100. When no
// point deviates from base, every bar is 50.
func BarWidths(points []domain.TornadoDataPoint) []BarWidth {
	largest := largestDeviation(points)
	widths := make([]BarWidth, len(points))
	for i, p := range points {
		if largest.IsZero() {
			widths[i] = BarWidth{Min: pdec.Hundred().Mul(half), Max: pdec.Hundred().Mul(half)}
			continue
		}
		widths[i] = BarWidth{
			Min: pdec.ToPct(Normalize(deviation(p.MinImpact, p.BaseValue), decimal.Zero, largest)),
			Max: pdec.ToPct(Normalize(deviation(p.MaxImpact, p.BaseValue), decimal.Zero, largest)),
		}
	}
	return widths
}

// RGB is a display color
type RGB struct {
	R, G, B uint8
}

// Hex renders the color as #rrggbb
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	colorRed    = RGB{R: 220, G: 0, B: 0}
	colorYellow = RGB{R: 220, G: 220, B: 0}
	colorGreen  = RGB{R: 0, G: 220, B: 0}
)

// HeatColor interpolates red (0) through yellow (0.5) to green (1). Red
// never increases and green never decreases as t grows.
func HeatColor(t decimal.Decimal) RGB {
	t = pdec.Clamp(t, decimal.Zero, decimal.NewFromInt(1))
	if t.LessThan(half) {
		return lerpColor(colorRed, colorYellow, t.Mul(decimal.NewFromInt(2)))
	}
	return lerpColor(colorYellow, colorGreen, t.Sub(half).Mul(decimal.NewFromInt(2)))
}

func lerpColor(a, b RGB, t decimal.Decimal) RGB {
	ch := func(x, y uint8) uint8 {
		v := pdec.Lerp(decimal.NewFromInt(int64(x)), decimal.NewFromInt(int64(y)), t).Round(0)
		return uint8(v.IntPart())
	}
	return RGB{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B)}
}

// Shade is the normalized position and color of a heatmap cell
type Shade struct {
	T     decimal.Decimal `json:"t"`
	Color RGB             `json:"color"`
	Valid bool            `json:"valid"`
}

// valueRange is the span of the valid heatmap values. ok is false when no
// cell is valid.
func valueRange(cells []domain.HeatmapDataPoint) (lo, hi decimal.Decimal, ok bool) {
	for _, c := range cells {
		if !c.Value.Valid {
			continue
		}
		if !ok {
			lo, hi, ok = c.Value.Value, c.Value.Value, true
			continue
		}
		lo = decimal.Min(lo, c.Value.Value)
		hi = decimal.Max(hi, c.Value.Value)
	}
	return lo, hi, ok
}

// CellShades colors heatmap cells relative to the range of valid values.
// Invalid cells get a neutral gray.
func CellShades(cells []domain.HeatmapDataPoint) []Shade {
	lo, hi, _ := valueRange(cells)
	shades := make([]Shade, len(cells))
	for i, c := range cells {
		if !c.Value.Valid {
			shades[i] = Shade{T: half, Color: RGB{R: 160, G: 160, B: 160}}
			continue
		}
		t := Normalize(c.Value.Value, lo, hi)
		shades[i] = Shade{T: t, Color: HeatColor(t), Valid: true}
	}
	return shades
}

// RangeIssues reports sweeps whose normalization range is empty: a tornado
// where no end moves off base, or a heatmap whose valid cells all hold the
// same value. Such sweeps render at the midpoint.
func RangeIssues(points []domain.TornadoDataPoint, cells []domain.HeatmapDataPoint) []domain.Issue {
	var issues []domain.Issue
	if len(points) > 0 && largestDeviation(points).IsZero() {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueDegenerateRange,
			Field:   "tornado",
			Message: "no variable moves the metric off its base value; bars drawn at the midpoint",
		})
	}
	if lo, hi, ok := valueRange(cells); ok && lo.Equal(hi) {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueDegenerateRange,
			Field:   "heatmap",
			Message: fmt.Sprintf("every cell evaluates to %s; cells shaded at the midpoint", lo),
		})
	}
	return issues
}
