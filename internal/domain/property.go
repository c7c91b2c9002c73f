package domain

import (
	"fmt"
	"strings"

	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// MaritalStatus selects the tax filing mode
type MaritalStatus string

const (
	Single  MaritalStatus = "single"
	Married MaritalStatus = "married"
)

// ParseMaritalStatus parses "single" or "married" (case-insensitive)
func ParseMaritalStatus(s string) (MaritalStatus, error) {
	switch MaritalStatus(strings.ToLower(strings.TrimSpace(s))) {
	case Single, "":
		return Single, nil
	case Married:
		return Married, nil
	}
	return "", fmt.Errorf("marital status must be 'single' or 'married', got %q", s)
}

// PropertyInputs holds every assumption of a single buy-to-let investment.
// All rate fields are whole-number percentages (3.75 means 3.75%).
type PropertyInputs struct {
	// Acquisition
	PurchasePrice   decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	NotaryRate      decimal.Decimal `yaml:"notary_rate" json:"notary_rate"`
	TransferTaxRate decimal.Decimal `yaml:"transfer_tax_rate" json:"transfer_tax_rate"`
	BrokerRate      decimal.Decimal `yaml:"broker_rate" json:"broker_rate"`
	RenovationCost  decimal.Decimal `yaml:"renovation_cost" json:"renovation_cost"`

	// Financing
	Equity        decimal.Decimal `yaml:"equity" json:"equity"`
	InterestRate  decimal.Decimal `yaml:"interest_rate" json:"interest_rate"`
	RepaymentRate decimal.Decimal `yaml:"repayment_rate" json:"repayment_rate"`

	// Income and monthly operating costs
	MonthlyRent         decimal.Decimal `yaml:"monthly_rent" json:"monthly_rent"`
	ManagementCost      decimal.Decimal `yaml:"management_cost" json:"management_cost"`
	MaintenanceReserve  decimal.Decimal `yaml:"maintenance_reserve" json:"maintenance_reserve"`
	NonRecoverableCosts decimal.Decimal `yaml:"non_recoverable_costs" json:"non_recoverable_costs"`
	OtherCosts          decimal.Decimal `yaml:"other_costs" json:"other_costs"`

	// Growth
	AppreciationRate  decimal.Decimal `yaml:"appreciation_rate" json:"appreciation_rate"`
	RentGrowthRate    decimal.Decimal `yaml:"rent_growth_rate" json:"rent_growth_rate"`
	CostInflationRate decimal.Decimal `yaml:"cost_inflation_rate" json:"cost_inflation_rate"`
	VacancyRate       decimal.Decimal `yaml:"vacancy_rate" json:"vacancy_rate"`

	// Tax
	OutsideIncome    decimal.Decimal `yaml:"outside_income" json:"outside_income"`
	MaritalStatus    MaritalStatus   `yaml:"marital_status" json:"marital_status"`
	MarginalTaxRate  decimal.Decimal `yaml:"marginal_tax_rate" json:"marginal_tax_rate"` // zero derives the rate from outside income
	ChurchTax        bool            `yaml:"church_tax" json:"church_tax"`
	DepreciationRate decimal.Decimal `yaml:"depreciation_rate" json:"depreciation_rate"`
}

// AcquisitionCostRate is the sum of notary, transfer tax and broker rates (percent)
func (p PropertyInputs) AcquisitionCostRate() decimal.Decimal {
	return p.NotaryRate.Add(p.TransferTaxRate).Add(p.BrokerRate)
}

// AcquisitionCost is the total investment: price plus side costs plus renovation
func (p PropertyInputs) AcquisitionCost() decimal.Decimal {
	sideCosts := p.PurchasePrice.Mul(pdec.Pct(p.AcquisitionCostRate()))
	return p.PurchasePrice.Add(sideCosts).Add(p.RenovationCost)
}

// RawLoanAmount is acquisition cost minus equity, possibly negative.
func (p PropertyInputs) RawLoanAmount() decimal.Decimal {
	return p.AcquisitionCost().Sub(p.Equity)
}

// LoanAmount is the financed amount, floored at zero.
func (p PropertyInputs) LoanAmount() decimal.Decimal {
	return pdec.FloorZero(p.RawLoanAmount())
}

// MonthlyOperatingCost sums the four monthly cost categories
func (p PropertyInputs) MonthlyOperatingCost() decimal.Decimal {
	return p.ManagementCost.Add(p.MaintenanceReserve).Add(p.NonRecoverableCosts).Add(p.OtherCosts)
}

// IsMarried reports whether joint filing applies
func (p PropertyInputs) IsMarried() bool {
	return p.MaritalStatus == Married
}

// Get returns the current value of a numeric field.
func (p PropertyInputs) Get(f Field) decimal.Decimal {
	spec, ok := fieldTable[f]
	if !ok {
		return decimal.Zero
	}
	return *spec.ref(&p)
}

// With returns a copy of p with field f set to v. Unknown fields leave p unchanged.
func (p PropertyInputs) With(f Field, v decimal.Decimal) PropertyInputs {
	if spec, ok := fieldTable[f]; ok {
		*spec.ref(&p) = v
	}
	return p
}
