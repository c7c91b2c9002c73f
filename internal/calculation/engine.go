package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/pkg/dateutil"
	pdec "github.com/rpgo/rental-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// ProjectionEngine runs full 40-year projections
type ProjectionEngine struct {
	TaxCalc *TaxCalculator
	// StartDate anchors year 1. When zero, the first day of next month is used.
	StartDate time.Time
	Debug     bool
	Logger    Logger
}

// NewProjectionEngine creates a new projection engine
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		TaxCalc: NewTaxCalculator(),
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

func (pe *ProjectionEngine) logger() Logger {
	return LoggerOrNop(pe.Logger)
}

// ResolveStartDate returns the configured start date, or the first day of
// the month following the current clock.
func (pe *ProjectionEngine) ResolveStartDate() time.Time {
	if !pe.StartDate.IsZero() {
		return pe.StartDate
	}
	return dateutil.FirstOfNextMonth(nowFunc())
}

// Project computes a projection from the engine's start date
func (pe *ProjectionEngine) Project(in domain.PropertyInputs) *domain.ProjectionResult {
	return pe.ProjectFrom(in, pe.ResolveStartDate())
}

// ProjectFrom computes all 40 years and the 10/20/40 horizon summaries.
// Input problems are attached as issues; the projection always completes.
func (pe *ProjectionEngine) ProjectFrom(in domain.PropertyInputs, start time.Time) *domain.ProjectionResult {
	log := pe.logger()
	result := &domain.ProjectionResult{
		StartDate:       start,
		AcquisitionCost: in.AcquisitionCost(),
		LoanAmount:      in.LoanAmount(),
		Years:           make([]domain.YearlyProjection, 0, domain.ProjectionYears),
	}
	result.Issues = append(result.Issues, inputIssues(in)...)

	projector := NewYearProjector(in, pe.TaxCalc, start)
	if pe.Debug {
		log.Debugf("projection: acquisition=%s loan=%s monthly payment=%s marginal=%s%%",
			result.AcquisitionCost.StringFixed(2), result.LoanAmount.StringFixed(2),
			projector.Loan().MonthlyPayment().StringFixed(2), projector.MarginalRate().StringFixed(2))
	}

	var totals RunningTotals
	for n := 0; n < domain.ProjectionYears; n++ {
		var year domain.YearlyProjection
		year, totals = projector.Project(n, totals)
		result.Years = append(result.Years, year)
	}

	for _, h := range domain.ReportingHorizons {
		summary := summarizeHorizon(in, result.Years, h)
		if !summary.IRR.Converged {
			result.Issues = append(result.Issues, domain.Issue{
				Kind:    domain.IssueNonConvergence,
				Field:   fmt.Sprintf("irr%d", h),
				Message: fmt.Sprintf("IRR over %d years did not converge after %d iterations", h, summary.IRR.Iterations),
			})
			log.Debugf("projection: IRR(%d) did not converge, last estimate %s%%", h, summary.IRR.Rate.StringFixed(4))
		}
		if !summary.ROIDefined && h == domain.ReportingHorizons[0] {
			result.Issues = append(result.Issues, domain.Issue{
				Kind:    domain.IssueInvalidInput,
				Field:   domain.FieldEquity.Key(),
				Message: "equity is zero; ROI is undefined",
			})
		}
		result.Horizons = append(result.Horizons, summary)
	}
	return result
}

// ComputeProjection runs a projection with the default engine
func ComputeProjection(in domain.PropertyInputs, start time.Time) *domain.ProjectionResult {
	return NewProjectionEngine().ProjectFrom(in, start)
}

// CashFlowSeries builds the IRR series for a horizon: the equity outlay,
// the yearly net cash flows, and the terminal year augmented by equity.
func CashFlowSeries(equity decimal.Decimal, years []domain.YearlyProjection, horizon int) []decimal.Decimal {
	if horizon > len(years) {
		horizon = len(years)
	}
	flows := make([]decimal.Decimal, 0, horizon+1)
	flows = append(flows, equity.Neg())
	for i := 0; i < horizon; i++ {
		cf := years[i].NetCashFlow
		if i == horizon-1 {
			cf = cf.Add(years[i].Equity)
		}
		flows = append(flows, cf)
	}
	return flows
}

func summarizeHorizon(in domain.PropertyInputs, years []domain.YearlyProjection, h int) domain.HorizonSummary {
	last := years[h-1]
	summary := domain.HorizonSummary{
		Years:                 h,
		IRR:                   SolveIRR(CashFlowSeries(in.Equity, years, h)),
		CumulativeCashFlow:    last.CumulativeCashFlow,
		NetWorth:              last.NetWorth,
		AverageAnnualCashFlow: last.CumulativeCashFlow.DivRound(decimal.NewFromInt(int64(h)), pdec.Precision),
		ROI:                   decimal.Zero,
	}
	if !in.Equity.IsZero() {
		summary.ROI = pdec.ToPct(last.NetWorth.DivRound(in.Equity, pdec.Precision).Sub(decimalOne))
		summary.ROIDefined = true
	}
	return summary
}

// inputIssues reports values that are clamped or cannot be used as given
func inputIssues(in domain.PropertyInputs) []domain.Issue {
	var issues []domain.Issue
	if in.RawLoanAmount().IsNegative() {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueInvalidInput,
			Field:   domain.FieldEquity.Key(),
			Message: fmt.Sprintf("equity exceeds acquisition cost by %s; loan amount clamped to zero", in.RawLoanAmount().Neg().StringFixed(2)),
		})
	}
	if in.VacancyRate.IsNegative() || in.VacancyRate.GreaterThan(pdec.Hundred()) {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueInvalidInput,
			Field:   domain.FieldVacancyRate.Key(),
			Message: fmt.Sprintf("vacancy rate %s%% is outside [0, 100]", in.VacancyRate),
		})
	}
	if in.PurchasePrice.IsNegative() {
		issues = append(issues, domain.Issue{
			Kind:    domain.IssueInvalidInput,
			Field:   domain.FieldPurchasePrice.Key(),
			Message: "purchase price is negative",
		})
	}
	return issues
}
