package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/internal/sensitivity"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

const barChars = 20

func (c ConsoleVerboseFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	metric, horizon := reportMetric(report)

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "RENTAL PROPERTY INVESTMENT ANALYSIS")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report.Inputs) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	if base := report.Base; base != nil {
		in := report.Inputs
		fmt.Fprintln(&buf, "ACQUISITION & FINANCING")
		fmt.Fprintln(&buf, "=======================")
		fmt.Fprintf(&buf, "Purchase Price:       %s\n", FormatCurrency(in.PurchasePrice))
		fmt.Fprintf(&buf, "Acquisition Cost:     %s\n", FormatCurrency(base.AcquisitionCost))
		fmt.Fprintf(&buf, "Equity:               %s\n", FormatCurrency(in.Equity))
		fmt.Fprintf(&buf, "Loan Amount:          %s\n", FormatCurrency(base.LoanAmount))
		fmt.Fprintf(&buf, "Monthly Rent:         %s\n", FormatCurrency(in.MonthlyRent))
		fmt.Fprintf(&buf, "Start Date:           %s\n", base.StartDate.Format("2006-01-02"))
		fmt.Fprintln(&buf)

		writeYearTable(&buf, base)
		writeIssues(&buf, base)
	}

	for i, o := range outcomes(report) {
		if o.Result == nil {
			continue
		}
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, o.Scenario.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if o.Scenario.Description != "" {
			fmt.Fprintf(&buf, "%s\n", o.Scenario.Description)
		}
		for _, f := range o.Scenario.Overrides.Fields() {
			v, _ := o.Scenario.Overrides.Get(f)
			fmt.Fprintf(&buf, "  %-24s %s\n", f.Name()+":", FormatFieldValue(f, v))
		}
		fmt.Fprintf(&buf, "%-10s %14s %18s %18s %10s\n", "HORIZON", "IRR", "NET WORTH", "CUMULATIVE CF", "ROI")
		for _, h := range o.Result.Horizons {
			roi := "N/A"
			if h.ROIDefined {
				roi = FormatPercentage(h.ROI)
			}
			fmt.Fprintf(&buf, "%-10s %14s %18s %18s %10s\n", fmt.Sprintf("%d years", h.Years), FormatIRR(h.IRR), FormatCurrency(h.NetWorth), FormatCurrency(h.CumulativeCashFlow), roi)
		}
		fmt.Fprintln(&buf)
	}

	if len(report.Tornado) > 0 {
		fmt.Fprintf(&buf, "SENSITIVITY (%s at %d years)\n", metric, horizon)
		fmt.Fprintln(&buf, "=================================")
		widths := sensitivity.BarWidths(report.Tornado)
		for i, p := range report.Tornado {
			left := bar(widths[i].Min)
			right := bar(widths[i].Max)
			fmt.Fprintf(&buf, "%-24s %*s|%-*s  %s .. %s\n", p.Name, barChars, left, barChars, right,
				FormatMetric(metric, p.MinImpact), FormatMetric(metric, p.MaxImpact))
		}
		fmt.Fprintf(&buf, "Base: %s\n\n", FormatMetric(metric, report.Tornado[0].BaseValue))
	}

	if len(report.Heatmap) > 0 && report.HeatmapX != nil && report.HeatmapY != nil {
		writeHeatmap(&buf, report, metric)
	}
	if len(report.Issues) > 0 {
		fmt.Fprintln(&buf, "SENSITIVITY WARNINGS:")
		for _, i := range report.Issues {
			fmt.Fprintf(&buf, "• %s\n", i)
		}
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" && len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf, "SUMMARY & RECOMMENDATIONS")
		fmt.Fprintln(&buf, "=========================")
		fmt.Fprintf(&buf, "Best scenario by %s: %s (%s)\n", metric, rec.ScenarioName, FormatMetric(metric, rec.Value))
		fmt.Fprintf(&buf, "Change vs base: %s (%s)\n", FormatMetric(metric, rec.Change), FormatPercentage(rec.PercentageChange))
		if rec.Ranking != nil {
			fmt.Fprintf(&buf, "Spread across scenarios: %s\n", FormatMetric(metric, domain.MetricValue{Value: rec.Ranking.Spread(), Valid: true}))
		}
	}

	return buf.Bytes(), nil
}

func bar(width decimal.Decimal) string {
	n := int(width.Mul(decimal.NewFromInt(barChars)).Div(decimal.NewFromInt(100)).Round(0).IntPart())
	return strings.Repeat("#", n)
}

func writeYearTable(buf *bytes.Buffer, r *domain.ProjectionResult) {
	fmt.Fprintln(buf, "YEARLY PROJECTION")
	fmt.Fprintln(buf, "=================")
	fmt.Fprintf(buf, "%-5s %15s %15s %13s %13s %13s %15s %15s\n", "YEAR", "VALUE", "BALANCE", "RENT", "INTEREST", "TAX SAVED", "NET CF", "NET WORTH")
	fmt.Fprintln(buf, strings.Repeat("-", 112))
	for _, y := range r.Years {
		fmt.Fprintf(buf, "%-5d %15s %15s %13s %13s %13s %15s %15s\n", y.Year,
			FormatCurrency(y.PropertyValue), FormatCurrency(y.OutstandingBalance), FormatCurrency(y.EffectiveRent),
			FormatCurrency(y.InterestPaid), FormatCurrency(y.TaxSavings), FormatCurrency(y.NetCashFlow), FormatCurrency(y.NetWorth))
	}
	fmt.Fprintln(buf)
}

func writeIssues(buf *bytes.Buffer, r *domain.ProjectionResult) {
	if len(r.Issues) == 0 {
		return
	}
	fmt.Fprintln(buf, "WARNINGS:")
	for _, i := range r.Issues {
		fmt.Fprintf(buf, "• %s\n", i)
	}
	fmt.Fprintln(buf)
}

func writeHeatmap(buf *bytes.Buffer, report *domain.AnalysisReport, metric domain.Metric) {
	x, y := report.HeatmapX, report.HeatmapY
	fmt.Fprintf(buf, "HEATMAP: %s (rows) x %s (columns)\n", y.DisplayName(), x.DisplayName())
	fmt.Fprintln(buf, strings.Repeat("=", 60))
	cols := domain.HeatmapGridSize
	fmt.Fprintf(buf, "%14s", "")
	for col := 0; col < cols && col < len(report.Heatmap); col++ {
		fmt.Fprintf(buf, " %14s", FormatFieldValue(x.Field, report.Heatmap[col].XValue))
	}
	fmt.Fprintln(buf)
	for i, cell := range report.Heatmap {
		if cell.Col == 0 {
			fmt.Fprintf(buf, "%14s", FormatFieldValue(y.Field, cell.YValue))
		}
		fmt.Fprintf(buf, " %14s", FormatMetric(metric, cell.Value))
		if cell.Col == cols-1 || i == len(report.Heatmap)-1 {
			fmt.Fprintln(buf)
		}
	}
	fmt.Fprintln(buf)
}
