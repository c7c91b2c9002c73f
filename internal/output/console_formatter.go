package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/rental-calculator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RENTAL PROPERTY SUMMARY")
	fmt.Fprintln(&buf, "================================")
	if report.Base != nil {
		fmt.Fprintf(&buf, "Acquisition Cost: %s  Loan: %s\n", FormatCurrency(report.Base.AcquisitionCost), FormatCurrency(report.Base.LoanAmount))
	}
	fmt.Fprintln(&buf)
	for _, o := range outcomes(report) {
		if o.Result == nil {
			continue
		}
		y1, _ := o.Result.Year(1)
		fmt.Fprintf(&buf, "%s: Year1CF=%s", o.Scenario.Name, FormatCurrency(y1.NetCashFlow))
		for _, h := range o.Result.Horizons {
			fmt.Fprintf(&buf, " IRR%d=%s", h.Years, FormatIRR(h.IRR))
		}
		fmt.Fprintln(&buf)
		for _, h := range o.Result.Horizons {
			fmt.Fprintf(&buf, "  %dy NetWorth=%s CumulativeCF=%s\n", h.Years, FormatCurrency(h.NetWorth), FormatCurrency(h.CumulativeCashFlow))
		}
	}
	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" && len(report.Scenarios) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (%s %s, Δ %s)\n", rec.ScenarioName, rec.Metric, FormatMetric(rec.Metric, rec.Value), FormatMetric(rec.Metric, rec.Change))
	}
	if len(report.Tornado) > 0 {
		metric, _ := reportMetric(report)
		top := report.Tornado[0]
		fmt.Fprintf(&buf, "Most sensitive input: %s (impact %s)\n", top.Name, FormatMetric(metric, domain.MetricValue{Value: top.Impact(), Valid: true}))
	}
	return buf.Bytes(), nil
}
