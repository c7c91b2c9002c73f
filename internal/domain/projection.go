package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionYears is the fixed internal horizon of every projection
const ProjectionYears = 40

// ReportingHorizons are the horizons summarised in every ProjectionResult
var ReportingHorizons = []int{10, 20, 40}

// ValidHorizon reports whether h is one of the reporting horizons
func ValidHorizon(h int) bool {
	for _, r := range ReportingHorizons {
		if r == h {
			return true
		}
	}
	return false
}

// YearlyProjection is the complete record for one elapsed year
type YearlyProjection struct {
	Year int       `json:"year"`
	Date time.Time `json:"date"`

	PropertyValue      decimal.Decimal `json:"property_value"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`

	// Financing
	AnnualLoanPayment decimal.Decimal `json:"annual_loan_payment"`
	InterestPaid      decimal.Decimal `json:"interest_paid"`
	PrincipalRepaid   decimal.Decimal `json:"principal_repaid"`

	// Operations
	GrossRent     decimal.Decimal `json:"gross_rent"`
	EffectiveRent decimal.Decimal `json:"effective_rent"`
	OperatingCost decimal.Decimal `json:"operating_cost"`
	Depreciation  decimal.Decimal `json:"depreciation"`

	// Tax
	TaxableRentalIncome   decimal.Decimal `json:"taxable_rental_income"` // signed; negative is a loss
	TaxSavings            decimal.Decimal `json:"tax_savings"`           // negative is a liability
	ProgressiveTaxSavings decimal.Decimal `json:"progressive_tax_savings"`

	// Cash flow
	GrossCashFlow        decimal.Decimal `json:"gross_cash_flow"`
	NetCashFlow          decimal.Decimal `json:"net_cash_flow"`
	CumulativeCashFlow   decimal.Decimal `json:"cumulative_cash_flow"`
	CumulativeTaxSavings decimal.Decimal `json:"cumulative_tax_savings"`

	// Wealth
	Equity   decimal.Decimal `json:"equity"`
	NetWorth decimal.Decimal `json:"net_worth"`
}

// IRRResult is the outcome of the rate-of-return solver.
// Rate holds the last estimate (percent) even when Converged is false.
type IRRResult struct {
	Rate       decimal.Decimal `json:"rate"`
	Converged  bool            `json:"converged"`
	Iterations int             `json:"iterations"`
}

// HorizonSummary aggregates a projection at a reporting horizon
type HorizonSummary struct {
	Years                 int             `json:"years"`
	IRR                   IRRResult       `json:"irr"`
	CumulativeCashFlow    decimal.Decimal `json:"cumulative_cash_flow"`
	NetWorth              decimal.Decimal `json:"net_worth"`
	AverageAnnualCashFlow decimal.Decimal `json:"average_annual_cash_flow"`
	ROI                   decimal.Decimal `json:"roi"` // percent
	ROIDefined            bool            `json:"roi_defined"`
}

// IssueKind classifies computational conditions attached to results
type IssueKind string

const (
	IssueInvalidInput    IssueKind = "invalid_input"
	IssueNonConvergence  IssueKind = "non_convergence"
	IssueDegenerateRange IssueKind = "degenerate_range"
)

// Issue is a local computational condition. Issues never abort a computation.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("%s (%s): %s", i.Kind, i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Message)
}

// ProjectionResult is the full 40-year projection plus summaries at 10/20/40 years
type ProjectionResult struct {
	StartDate       time.Time          `json:"start_date"`
	AcquisitionCost decimal.Decimal    `json:"acquisition_cost"`
	LoanAmount      decimal.Decimal    `json:"loan_amount"`
	Years           []YearlyProjection `json:"years"`
	Horizons        []HorizonSummary   `json:"horizons"`
	Issues          []Issue            `json:"issues,omitempty"`
}

// Year returns the record for a 1-based year
func (r *ProjectionResult) Year(year int) (YearlyProjection, bool) {
	if r == nil || year < 1 || year > len(r.Years) {
		return YearlyProjection{}, false
	}
	return r.Years[year-1], true
}

// Horizon returns the summary for a reporting horizon
func (r *ProjectionResult) Horizon(years int) (HorizonSummary, bool) {
	if r == nil {
		return HorizonSummary{}, false
	}
	for _, h := range r.Horizons {
		if h.Years == years {
			return h, true
		}
	}
	return HorizonSummary{}, false
}

// HasIssue reports whether any issue of the given kind is attached
func (r *ProjectionResult) HasIssue(kind IssueKind) bool {
	if r == nil {
		return false
	}
	for _, i := range r.Issues {
		if i.Kind == kind {
			return true
		}
	}
	return false
}

