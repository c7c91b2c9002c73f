package output

import (
	"github.com/rpgo/rental-calculator/internal/domain"
	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as a euro amount with thousands separators.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return pdec.NewMoney(amount).Format() }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatMetric renders a metric value in its unit, or N/A when invalid
func FormatMetric(m domain.Metric, v domain.MetricValue) string {
	if !v.Valid {
		return "N/A"
	}
	if m.IsRate() {
		return FormatPercentage(v.Value)
	}
	return FormatCurrency(v.Value)
}

// FormatFieldValue renders a swept input value in its unit
func FormatFieldValue(f domain.Field, v decimal.Decimal) string {
	if f.IsPercent() {
		return FormatPercentage(v)
	}
	return FormatCurrency(v)
}

// FormatIRR renders an IRR result, marking a non-converged estimate
func FormatIRR(r domain.IRRResult) string {
	if !r.Converged {
		return "N/A"
	}
	return FormatPercentage(r.Rate)
}
