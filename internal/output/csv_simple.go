package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/rpgo/rental-calculator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "AcquisitionCost", "LoanAmount", "Year1NetCashFlow"}
	for _, h := range domain.ReportingHorizons {
		y := intToString(h)
		header = append(header, "IRR"+y, "IRR"+y+"Converged", "NetWorth"+y, "CumulativeCashFlow"+y, "ROI"+y)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	rows := append([]domain.ScenarioOutcome(nil), outcomes(report)...)
	sort.SliceStable(rows, func(i, j int) bool {
		// base first, the rest by name
		if rows[i].Scenario.IsBase() != rows[j].Scenario.IsBase() {
			return rows[i].Scenario.IsBase()
		}
		return rows[i].Scenario.Name < rows[j].Scenario.Name
	})
	for _, o := range rows {
		if o.Result == nil {
			continue
		}
		y1, _ := o.Result.Year(1)
		row := []string{
			o.Scenario.Name,
			o.Result.AcquisitionCost.StringFixed(2),
			o.Result.LoanAmount.StringFixed(2),
			y1.NetCashFlow.StringFixed(2),
		}
		for _, years := range domain.ReportingHorizons {
			h, _ := o.Result.Horizon(years)
			roi := ""
			if h.ROIDefined {
				roi = h.ROI.StringFixed(2)
			}
			row = append(row,
				h.IRR.Rate.StringFixed(4),
				boolToString(h.IRR.Converged),
				h.NetWorth.StringFixed(2),
				h.CumulativeCashFlow.StringFixed(2),
				roi,
			)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
