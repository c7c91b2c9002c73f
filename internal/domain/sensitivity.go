package domain

import (
	"errors"
	"fmt"
	"strings"

	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Metric selects the scalar a sensitivity sweep compares
type Metric string

const (
	MetricIRR10    Metric = "irr10"
	MetricIRR20    Metric = "irr20"
	MetricIRR40    Metric = "irr40"
	MetricCashFlow Metric = "cashflow"
	MetricNetWorth Metric = "networth"
)

// ErrUnknownMetric is returned for metric names outside the supported set
var ErrUnknownMetric = errors.New("unknown metric")

// Metrics lists the supported metrics
func Metrics() []Metric {
	return []Metric{MetricIRR10, MetricIRR20, MetricIRR40, MetricCashFlow, MetricNetWorth}
}

// ParseMetric parses a metric name (case-insensitive)
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// IsRate reports whether the metric is a percentage
func (m Metric) IsRate() bool {
	return m == MetricIRR10 || m == MetricIRR20 || m == MetricIRR40
}

// MetricValue is an extracted metric. Valid is false when the underlying
// computation failed (e.g. IRR did not converge); Value then holds the last
// estimate and should be rendered as "N/A".
type MetricValue struct {
	Value decimal.Decimal `json:"value"`
	Valid bool            `json:"valid"`
}

func (mv MetricValue) String() string {
	if !mv.Valid {
		return "N/A"
	}
	return mv.Value.StringFixed(2)
}

// SensitivityVariable describes one input to sweep between Min and Max
type SensitivityVariable struct {
	Field Field           `yaml:"field" json:"field"`
	Name  string          `yaml:"name,omitempty" json:"name"`
	Min   decimal.Decimal `yaml:"min" json:"min"`
	Max   decimal.Decimal `yaml:"max" json:"max"`
	Step  decimal.Decimal `yaml:"step" json:"step"`
	Base  decimal.Decimal `yaml:"base" json:"base"`
}

// DisplayName returns Name, falling back to the field label
func (v SensitivityVariable) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.Field.Name()
}

// Validate checks min < max, step > 0 and base within [min, max]
func (v SensitivityVariable) Validate() error {
	if !v.Field.Valid() {
		return fmt.Errorf("variable %q: unknown field", v.Name)
	}
	if !v.Min.LessThan(v.Max) {
		return fmt.Errorf("variable %s: min (%s) must be less than max (%s)", v.Field.Key(), v.Min, v.Max)
	}
	if !v.Step.IsPositive() {
		return fmt.Errorf("variable %s: step must be positive", v.Field.Key())
	}
	if v.Base.LessThan(v.Min) || v.Base.GreaterThan(v.Max) {
		return fmt.Errorf("variable %s: base %s outside [%s, %s]", v.Field.Key(), v.Base, v.Min, v.Max)
	}
	return nil
}

// Clamp limits x to [Min, Max]
func (v SensitivityVariable) Clamp(x decimal.Decimal) decimal.Decimal {
	return pdec.Clamp(x, v.Min, v.Max)
}

// At returns the value at fraction t of [Min, Max], clamped to the range
func (v SensitivityVariable) At(t decimal.Decimal) decimal.Decimal {
	return v.Clamp(pdec.Lerp(v.Min, v.Max, t))
}

// TornadoDataPoint holds the metric at base and at each end of a variable's range
type TornadoDataPoint struct {
	Field     Field           `json:"field"`
	Name      string          `json:"name"`
	Min       decimal.Decimal `json:"min"`
	Max       decimal.Decimal `json:"max"`
	BaseValue MetricValue     `json:"base_value"`
	MinImpact MetricValue     `json:"min_impact"`
	MaxImpact MetricValue     `json:"max_impact"`
}

// Impact is |min-base| + |max-base|, counting only valid ends
func (p TornadoDataPoint) Impact() decimal.Decimal {
	if !p.BaseValue.Valid {
		return decimal.Zero
	}
	total := decimal.Zero
	if p.MinImpact.Valid {
		total = total.Add(p.MinImpact.Value.Sub(p.BaseValue.Value).Abs())
	}
	if p.MaxImpact.Valid {
		total = total.Add(p.MaxImpact.Value.Sub(p.BaseValue.Value).Abs())
	}
	return total
}

// HeatmapDataPoint is one cell of a two-variable grid. Row indexes Y, Col indexes X.
type HeatmapDataPoint struct {
	Row    int             `json:"row"`
	Col    int             `json:"col"`
	XValue decimal.Decimal `json:"x_value"`
	YValue decimal.Decimal `json:"y_value"`
	Value  MetricValue     `json:"value"`
}

// HeatmapGridSize is the number of test values per axis
const HeatmapGridSize = 5

// HeatmapFractions are the quartile positions of the test values in [min, max]
var HeatmapFractions = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("0.25"),
	decimal.RequireFromString("0.5"),
	decimal.RequireFromString("0.75"),
	decimal.NewFromInt(1),
}
