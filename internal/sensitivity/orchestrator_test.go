package sensitivity

import (
	"context"
	"testing"
	"time"

	"github.com/rpgo/rental-calculator/internal/cache"
	"github.com/rpgo/rental-calculator/internal/calculation"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func baseInputs() domain.PropertyInputs {
	return domain.PropertyInputs{
		PurchasePrice:      dec("300000"),
		NotaryRate:         dec("1.5"),
		TransferTaxRate:    dec("5.0"),
		BrokerRate:         dec("3.57"),
		Equity:             dec("60000"),
		InterestRate:       dec("3.75"),
		RepaymentRate:      dec("1.4"),
		MonthlyRent:        dec("1200"),
		ManagementCost:     dec("30"),
		MaintenanceReserve: dec("80"),
		OtherCosts:         dec("20"),
		AppreciationRate:   dec("2"),
		RentGrowthRate:     dec("1.5"),
		CostInflationRate:  dec("2"),
		VacancyRate:        dec("2"),
		MaritalStatus:      domain.Single,
		MarginalTaxRate:    dec("42"),
		DepreciationRate:   dec("2"),
	}
}

func newTestOrchestrator(workers int) *Orchestrator {
	engine := calculation.NewProjectionEngine()
	engine.StartDate = testStart
	o := NewOrchestrator(engine)
	o.Workers = workers
	return o
}

func TestTornado(t *testing.T) {
	o := newTestOrchestrator(4)
	in := baseInputs()
	vars := DefaultCatalog(in)

	points, err := o.Tornado(context.Background(), in, vars, domain.MetricIRR10, 10)
	require.NoError(t, err)
	require.Len(t, points, len(vars))

	base := ExtractMetric(calculation.ComputeProjection(in, testStart), domain.MetricIRR10, 10)
	for i, p := range points {
		assert.True(t, p.BaseValue.Value.Equal(base.Value), "point %s", p.Field)
		if i > 0 {
			assert.True(t, points[i-1].Impact().GreaterThanOrEqual(p.Impact()), "sorted by impact")
		}
	}

	var interest domain.TornadoDataPoint
	for _, p := range points {
		if p.Field == domain.FieldInterestRate {
			interest = p
		}
	}
	require.True(t, interest.MinImpact.Valid && interest.MaxImpact.Valid)
	assert.True(t, interest.MinImpact.Value.GreaterThan(base.Value), "cheaper money raises IRR")
	assert.True(t, interest.MaxImpact.Value.LessThan(base.Value))
	assert.True(t, interest.Min.Equal(dec("2.25")))
	assert.True(t, interest.Max.Equal(dec("5.25")))
}

func TestTornado_WorkerCountDoesNotChangeResult(t *testing.T) {
	in := baseInputs()
	vars := DefaultCatalog(in)

	serial, err := newTestOrchestrator(1).Tornado(context.Background(), in, vars, domain.MetricNetWorth, 20)
	require.NoError(t, err)
	parallel, err := newTestOrchestrator(8).Tornado(context.Background(), in, vars, domain.MetricNetWorth, 20)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
}

func TestTornado_StableTies(t *testing.T) {
	o := newTestOrchestrator(2)
	in := baseInputs()
	// outside income does not move cash flow when an explicit marginal rate is set
	vars := []domain.SensitivityVariable{
		{Field: domain.FieldOutsideIncome, Name: "first", Min: dec("0"), Max: dec("100000"), Step: dec("1000"), Base: dec("0")},
		{Field: domain.FieldOutsideIncome, Name: "second", Min: dec("0"), Max: dec("50000"), Step: dec("1000"), Base: dec("0")},
	}
	points, err := o.Tornado(context.Background(), in, vars, domain.MetricCashFlow, 10)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Impact().IsZero())
	assert.True(t, points[1].Impact().IsZero())
	assert.Equal(t, "first", points[0].Name, "ties keep catalog order")
	assert.Equal(t, "second", points[1].Name)
}

func TestTornado_Errors(t *testing.T) {
	o := newTestOrchestrator(2)
	in := baseInputs()
	ctx := context.Background()

	bad := []domain.SensitivityVariable{{Field: domain.FieldInterestRate, Min: dec("5"), Max: dec("2"), Step: dec("0.25"), Base: dec("3")}}
	_, err := o.Tornado(ctx, in, bad, domain.MetricIRR10, 10)
	assert.ErrorIs(t, err, ErrInvalidVariable)

	_, err = o.Tornado(ctx, in, DefaultCatalog(in), domain.Metric("payback"), 10)
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)

	_, err = o.Tornado(ctx, in, DefaultCatalog(in), domain.MetricIRR10, 15)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = o.Tornado(cancelled, in, DefaultCatalog(in), domain.MetricIRR10, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTornado_Cache(t *testing.T) {
	o := newTestOrchestrator(4)
	store := cache.NewMemoryStore(8)
	o.Cache = store
	in := baseInputs()
	vars := DefaultCatalog(in)
	ctx := context.Background()

	first, err := o.Tornado(ctx, in, vars, domain.MetricIRR20, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	second, err := o.Tornado(ctx, in, vars, domain.MetricIRR20, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len(), "second call is served from the cache")
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Field, second[i].Field)
		assert.True(t, first[i].Impact().Equal(second[i].Impact()))
	}

	in.MonthlyRent = dec("1250")
	_, err = o.Tornado(ctx, in, vars, domain.MetricIRR20, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "changed inputs produce a new key")
}

func TestSweepCache_KeyedByTaxConstants(t *testing.T) {
	store := cache.NewMemoryStore(16)
	in := baseInputs()
	vars := DefaultCatalog(in)
	x, _ := CatalogVariable(in, domain.FieldInterestRate)
	y, _ := CatalogVariable(in, domain.FieldMonthlyRent)
	ctx := context.Background()

	sweep := func(o *Orchestrator) {
		t.Helper()
		_, err := o.Tornado(ctx, in, vars, domain.MetricIRR10, 10)
		require.NoError(t, err)
		_, err = o.Heatmap(ctx, in, x, y, domain.MetricIRR10, 10)
		require.NoError(t, err)
		_, err = o.Scenarios(ctx, in, nil, 10)
		require.NoError(t, err)
	}

	standard := newTestOrchestrator(2)
	standard.Cache = store
	sweep(standard)
	assert.Equal(t, 3, store.Len())

	tc := *calculation.NewTaxCalculator()
	tc.SoliRate = dec("0.10")
	altered := newTestOrchestrator(2)
	altered.Engine.TaxCalc = &tc
	altered.Cache = store
	sweep(altered)
	assert.Equal(t, 6, store.Len(), "different tax constants never share entries")

	sweep(standard)
	assert.Equal(t, 6, store.Len())
}

// with no equity and a high rent every flow of the IRR series is >= 0
func nonConvergingInputs() (domain.PropertyInputs, domain.SensitivityVariable) {
	in := baseInputs()
	in.MonthlyRent = dec("3000")
	equity := domain.SensitivityVariable{Field: domain.FieldEquity, Name: "Equity", Min: dec("0"), Max: dec("100000"), Step: dec("5000"), Base: dec("60000")}
	return in, equity
}

func TestTornado_NonConvergingEnd(t *testing.T) {
	o := newTestOrchestrator(4)
	in, equity := nonConvergingInputs()
	interest, ok := CatalogVariable(in, domain.FieldInterestRate)
	require.True(t, ok)

	direct := calculation.ComputeProjection(in.With(domain.FieldEquity, decimal.Zero), testStart)
	require.True(t, direct.HasIssue(domain.IssueNonConvergence))

	points, err := o.Tornado(context.Background(), in, []domain.SensitivityVariable{equity, interest}, domain.MetricIRR10, 10)
	require.NoError(t, err)
	require.Len(t, points, 2)

	for _, p := range points {
		assert.True(t, p.BaseValue.Valid)
		switch p.Field {
		case domain.FieldEquity:
			assert.False(t, p.MinImpact.Valid, "zero equity has no IRR")
			assert.True(t, p.MaxImpact.Valid)
		case domain.FieldInterestRate:
			assert.True(t, p.MinImpact.Valid)
			assert.True(t, p.MaxImpact.Valid)
		}
	}
}

func TestHeatmap_NonConvergingRow(t *testing.T) {
	o := newTestOrchestrator(4)
	in, equity := nonConvergingInputs()
	interest, ok := CatalogVariable(in, domain.FieldInterestRate)
	require.True(t, ok)

	cells, err := o.Heatmap(context.Background(), in, interest, equity, domain.MetricIRR10, 10)
	require.NoError(t, err)
	require.Len(t, cells, domain.HeatmapGridSize*domain.HeatmapGridSize)

	for _, c := range cells {
		if c.Row == 0 {
			assert.True(t, c.YValue.IsZero())
			assert.False(t, c.Value.Valid, "col %d", c.Col)
			continue
		}
		assert.True(t, c.Value.Valid, "row %d col %d", c.Row, c.Col)
	}
	assert.Empty(t, RangeIssues(nil, cells))
}

func TestHeatmap(t *testing.T) {
	o := newTestOrchestrator(4)
	in := baseInputs()
	x, ok := CatalogVariable(in, domain.FieldInterestRate)
	require.True(t, ok)
	y, ok := CatalogVariable(in, domain.FieldMonthlyRent)
	require.True(t, ok)

	cells, err := o.Heatmap(context.Background(), in, x, y, domain.MetricNetWorth, 10)
	require.NoError(t, err)
	require.Len(t, cells, domain.HeatmapGridSize*domain.HeatmapGridSize)

	xs, ys := AxisValues(x), AxisValues(y)
	for i, c := range cells {
		assert.Equal(t, i/domain.HeatmapGridSize, c.Row)
		assert.Equal(t, i%domain.HeatmapGridSize, c.Col)
		assert.True(t, c.XValue.Equal(xs[c.Col]))
		assert.True(t, c.YValue.Equal(ys[c.Row]))
	}
	assert.True(t, cells[0].XValue.Equal(x.Min))
	assert.True(t, cells[len(cells)-1].YValue.Equal(y.Max))

	// the centre cell is the base case
	base := ExtractMetric(calculation.ComputeProjection(in, testStart), domain.MetricNetWorth, 10)
	center := cells[2*domain.HeatmapGridSize+2]
	assert.True(t, center.Value.Valid)
	assert.True(t, base.Value.Equal(center.Value.Value))

	// higher rent at the same interest rate is never worse
	for col := 0; col < domain.HeatmapGridSize; col++ {
		low := cells[col].Value.Value
		high := cells[4*domain.HeatmapGridSize+col].Value.Value
		assert.True(t, high.GreaterThan(low), "col %d", col)
	}
}

func TestHeatmap_Errors(t *testing.T) {
	o := newTestOrchestrator(2)
	in := baseInputs()
	x, _ := CatalogVariable(in, domain.FieldInterestRate)

	_, err := o.Heatmap(context.Background(), in, x, x, domain.MetricIRR10, 10)
	assert.ErrorIs(t, err, ErrSameAxis)

	y := domain.SensitivityVariable{Field: domain.FieldMonthlyRent, Min: dec("1000"), Max: dec("1000"), Step: dec("10"), Base: dec("1000")}
	_, err = o.Heatmap(context.Background(), in, x, y, domain.MetricIRR10, 10)
	assert.ErrorIs(t, err, ErrInvalidVariable)
}

func TestScenarios(t *testing.T) {
	o := newTestOrchestrator(4)
	in := baseInputs()

	var highRates domain.Overrides
	highRates.Set(domain.FieldInterestRate, dec("5.5"))
	var cheap domain.Overrides
	cheap.Set(domain.FieldPurchasePrice, dec("270000"))

	scenarios := []domain.Scenario{
		{Name: "High rates", Overrides: highRates},
		{Name: "Cheaper purchase", Overrides: cheap},
	}
	results, err := o.Scenarios(context.Background(), in, scenarios, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	base := results[domain.BaseScenarioName]
	require.NotNil(t, base)
	assert.Equal(t, calculation.ComputeProjection(in, testStart), base)

	high := results["High rates"]
	require.NotNil(t, high)
	assert.True(t, high.Years[0].InterestPaid.GreaterThan(base.Years[0].InterestPaid))
	assert.True(t, results["Cheaper purchase"].AcquisitionCost.LessThan(base.AcquisitionCost))

	// base input untouched by overrides
	assert.True(t, in.InterestRate.Equal(dec("3.75")))
}

func TestScenarios_Errors(t *testing.T) {
	o := newTestOrchestrator(2)
	in := baseInputs()

	var o1 domain.Overrides
	o1.Set(domain.FieldInterestRate, dec("5"))
	_, err := o.Scenarios(context.Background(), in, []domain.Scenario{{Name: "base", Overrides: o1}}, 10)
	assert.ErrorIs(t, err, domain.ErrBaseScenario)

	_, err = o.Scenarios(context.Background(), in, []domain.Scenario{{Name: "a"}, {Name: "a"}}, 10)
	assert.Error(t, err)

	_, err = o.Scenarios(context.Background(), in, nil, 12)
	assert.ErrorIs(t, err, ErrInvalidHorizon)

	results, err := o.Scenarios(context.Background(), in, nil, 40)
	require.NoError(t, err)
	assert.Contains(t, results, domain.BaseScenarioName)
}

func TestExtractMetric(t *testing.T) {
	res := calculation.ComputeProjection(baseInputs(), testStart)

	cf := ExtractMetric(res, domain.MetricCashFlow, 20)
	require.True(t, cf.Valid)
	assert.True(t, cf.Value.Equal(res.Years[19].CumulativeCashFlow))

	nw := ExtractMetric(res, domain.MetricNetWorth, 40)
	require.True(t, nw.Valid)
	assert.True(t, nw.Value.Equal(res.Years[39].NetWorth))

	h20, _ := res.Horizon(20)
	irr := ExtractMetric(res, domain.MetricIRR20, 10)
	assert.Equal(t, h20.IRR.Converged, irr.Valid)
	assert.True(t, irr.Value.Equal(h20.IRR.Rate))

	assert.False(t, ExtractMetric(nil, domain.MetricIRR10, 10).Valid)
	assert.False(t, ExtractMetric(res, domain.MetricCashFlow, 41).Valid)
	assert.False(t, ExtractMetric(res, domain.Metric("bogus"), 10).Valid)

	extract := Extractor(domain.MetricNetWorth, 40)
	assert.True(t, extract(res).Value.Equal(nw.Value))
}
