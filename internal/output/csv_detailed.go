package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/rental-calculator/internal/domain"
)

// CSVYearlyExporter provides the raw 40-year projection per scenario/year.
type CSVYearlyExporter struct{}

func (c CSVYearlyExporter) Name() string { return "yearly-csv" }

func (c CSVYearlyExporter) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Scenario", "Year", "Date", "PropertyValue", "OutstandingBalance",
		"AnnualLoanPayment", "InterestPaid", "PrincipalRepaid",
		"GrossRent", "EffectiveRent", "OperatingCost", "Depreciation",
		"TaxableRentalIncome", "TaxSavings", "ProgressiveTaxSavings",
		"GrossCashFlow", "NetCashFlow", "CumulativeCashFlow", "CumulativeTaxSavings",
		"Equity", "NetWorth",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, o := range outcomes(report) {
		if o.Result == nil {
			continue
		}
		for _, yr := range o.Result.Years {
			row := []string{
				o.Scenario.Name,
				intToString(yr.Year),
				yr.Date.Format("2006-01-02"),
				yr.PropertyValue.StringFixed(2),
				yr.OutstandingBalance.StringFixed(2),
				yr.AnnualLoanPayment.StringFixed(2),
				yr.InterestPaid.StringFixed(2),
				yr.PrincipalRepaid.StringFixed(2),
				yr.GrossRent.StringFixed(2),
				yr.EffectiveRent.StringFixed(2),
				yr.OperatingCost.StringFixed(2),
				yr.Depreciation.StringFixed(2),
				yr.TaxableRentalIncome.StringFixed(2),
				yr.TaxSavings.StringFixed(2),
				yr.ProgressiveTaxSavings.StringFixed(2),
				yr.GrossCashFlow.StringFixed(2),
				yr.NetCashFlow.StringFixed(2),
				yr.CumulativeCashFlow.StringFixed(2),
				yr.CumulativeTaxSavings.StringFixed(2),
				yr.Equity.StringFixed(2),
				yr.NetWorth.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
