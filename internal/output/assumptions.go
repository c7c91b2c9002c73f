package output

import (
	"fmt"

	"github.com/rpgo/rental-calculator/internal/domain"
)

// DefaultAssumptions lists the fixed modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Building share of the purchase price: 80% (land is not depreciated)",
	"Financing: fixed-rate annuity over 30 years, payment set from interest + initial repayment",
	"Income tax: five-zone German tariff, splitting for married couples",
	"Solidarity surcharge 5.5% above the exemption limit; church tax 8% when selected",
	"Acquisition costs (notary, transfer tax, broker) are paid from equity first",
	"Projections run 40 years from the start date, by default the first day of next month",
}

// GenerateAssumptions creates the assumptions list from the actual inputs
func GenerateAssumptions(in domain.PropertyInputs) []string {
	tax := fmt.Sprintf("Marginal tax rate: %s", FormatPercentage(in.MarginalTaxRate))
	if in.MarginalTaxRate.IsZero() {
		tax = fmt.Sprintf("Marginal tax rate derived from outside income of %s (%s)", FormatCurrency(in.OutsideIncome), in.MaritalStatus)
	}
	if in.ChurchTax {
		tax += ", church tax applied"
	}
	return append([]string{
		fmt.Sprintf("Property appreciation: %s annually", FormatPercentage(in.AppreciationRate)),
		fmt.Sprintf("Rent growth: %s annually, vacancy %s", FormatPercentage(in.RentGrowthRate), FormatPercentage(in.VacancyRate)),
		fmt.Sprintf("Operating cost inflation: %s annually", FormatPercentage(in.CostInflationRate)),
		fmt.Sprintf("Loan: %s interest, %s initial repayment", FormatPercentage(in.InterestRate), FormatPercentage(in.RepaymentRate)),
		fmt.Sprintf("Depreciation: %s of the building value per year", FormatPercentage(in.DepreciationRate)),
		tax,
	}, DefaultAssumptions...)
}
