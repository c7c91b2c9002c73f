package sensitivity

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rpgo/rental-calculator/internal/cache"
	"github.com/rpgo/rental-calculator/internal/calculation"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidVariable wraps catalog entries that fail validation
	ErrInvalidVariable = errors.New("invalid sensitivity variable")
	// ErrSameAxis is returned when both heatmap axes use the same field
	ErrSameAxis = errors.New("heatmap axes must use different fields")
	// ErrInvalidHorizon is returned for horizons other than 10, 20 or 40 years
	ErrInvalidHorizon = errors.New("horizon must be 10, 20 or 40 years")
)

// Orchestrator runs independent projection variants concurrently and
// reduces them to tornado, heatmap and scenario results.
type Orchestrator struct {
	Engine  *calculation.ProjectionEngine
	Workers int
	Cache   cache.Store
	Logger  calculation.Logger
}

// NewOrchestrator creates an orchestrator with one worker per CPU
func NewOrchestrator(engine *calculation.ProjectionEngine) *Orchestrator {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return &Orchestrator{
		Engine:  engine,
		Workers: runtime.NumCPU(),
		Logger:  calculation.NopLogger{},
	}
}

func (o *Orchestrator) logger() calculation.Logger {
	return calculation.LoggerOrNop(o.Logger)
}

func (o *Orchestrator) workers() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// runAll projects every input variant from the same start date. Results are
// returned in input order.
func (o *Orchestrator) runAll(ctx context.Context, start time.Time, variants []domain.PropertyInputs) ([]*domain.ProjectionResult, error) {
	results := make([]*domain.ProjectionResult, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers())
	for i := range variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = o.Engine.ProjectFrom(variants[i], start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("sweep aborted: %w", err)
	}
	return results, nil
}

func validateHorizon(h int) error {
	if !domain.ValidHorizon(h) {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, h)
	}
	return nil
}

func validateVariable(v domain.SensitivityVariable) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidVariable, err)
	}
	return nil
}

// cached looks a sweep result up, computing and storing it on a miss.
// Cache failures are logged and never fail the sweep.
func cached[T any](ctx context.Context, o *Orchestrator, op string, compute func() (T, error), keyParts ...any) (T, error) {
	if o.Cache == nil {
		return compute()
	}
	key, err := cache.Key(op, keyParts...)
	if err != nil {
		o.logger().Warnf("cache key for %s: %v", op, err)
		return compute()
	}
	if hit, ok, err := cache.GetJSON[T](ctx, o.Cache, key); err != nil {
		o.logger().Warnf("cache read %s: %v", key, err)
	} else if ok {
		o.logger().Debugf("cache hit %s", key)
		return hit, nil
	}
	out, err := compute()
	if err != nil {
		return out, err
	}
	if err := cache.SetJSON(ctx, o.Cache, key, out); err != nil {
		o.logger().Warnf("cache write %s: %v", key, err)
	}
	return out, nil
}

// Tornado evaluates each variable at its min and max with all other inputs
// at base. Points are sorted by descending impact; ties keep catalog order.
func (o *Orchestrator) Tornado(ctx context.Context, in domain.PropertyInputs, vars []domain.SensitivityVariable, metric domain.Metric, horizon int) ([]domain.TornadoDataPoint, error) {
	if _, err := domain.ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}
	for _, v := range vars {
		if err := validateVariable(v); err != nil {
			return nil, err
		}
	}

	start := o.Engine.ResolveStartDate()
	return cached(ctx, o, "tornado", func() ([]domain.TornadoDataPoint, error) {
		return o.tornado(ctx, start, in, vars, metric, horizon)
	}, in, vars, metric, horizon, start, o.Engine.TaxCalc)
}

func (o *Orchestrator) tornado(ctx context.Context, start time.Time, in domain.PropertyInputs, vars []domain.SensitivityVariable, metric domain.Metric, horizon int) ([]domain.TornadoDataPoint, error) {
	variants := make([]domain.PropertyInputs, 0, 1+2*len(vars))
	variants = append(variants, in)
	for _, v := range vars {
		variants = append(variants,
			in.With(v.Field, v.Clamp(v.Min)),
			in.With(v.Field, v.Clamp(v.Max)))
	}

	o.logger().Debugf("tornado: %d variables, %d projections", len(vars), len(variants))
	results, err := o.runAll(ctx, start, variants)
	if err != nil {
		return nil, err
	}

	base := ExtractMetric(results[0], metric, horizon)
	points := make([]domain.TornadoDataPoint, len(vars))
	for i, v := range vars {
		points[i] = domain.TornadoDataPoint{
			Field:     v.Field,
			Name:      v.DisplayName(),
			Min:       v.Clamp(v.Min),
			Max:       v.Clamp(v.Max),
			BaseValue: base,
			MinImpact: ExtractMetric(results[1+2*i], metric, horizon),
			MaxImpact: ExtractMetric(results[2+2*i], metric, horizon),
		}
	}
	sort.SliceStable(points, func(a, b int) bool {
		return points[a].Impact().GreaterThan(points[b].Impact())
	})
	return points, nil
}

// AxisValues returns the quartile test values of a variable's range
func AxisValues(v domain.SensitivityVariable) []decimal.Decimal {
	values := make([]decimal.Decimal, len(domain.HeatmapFractions))
	for i, f := range domain.HeatmapFractions {
		values[i] = v.At(f)
	}
	return values
}

// Heatmap evaluates the metric over a 5x5 grid of x and y test values.
// Cells are returned row-major with Row indexing y and Col indexing x.
func (o *Orchestrator) Heatmap(ctx context.Context, in domain.PropertyInputs, x, y domain.SensitivityVariable, metric domain.Metric, horizon int) ([]domain.HeatmapDataPoint, error) {
	if _, err := domain.ParseMetric(string(metric)); err != nil {
		return nil, err
	}
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}
	if x.Field == y.Field {
		return nil, fmt.Errorf("%w: %s", ErrSameAxis, x.Field.Key())
	}
	for _, v := range []domain.SensitivityVariable{x, y} {
		if err := validateVariable(v); err != nil {
			return nil, err
		}
	}

	start := o.Engine.ResolveStartDate()
	return cached(ctx, o, "heatmap", func() ([]domain.HeatmapDataPoint, error) {
		return o.heatmap(ctx, start, in, x, y, metric, horizon)
	}, in, x, y, metric, horizon, start, o.Engine.TaxCalc)
}

func (o *Orchestrator) heatmap(ctx context.Context, start time.Time, in domain.PropertyInputs, x, y domain.SensitivityVariable, metric domain.Metric, horizon int) ([]domain.HeatmapDataPoint, error) {
	xs := AxisValues(x)
	ys := AxisValues(y)

	variants := make([]domain.PropertyInputs, 0, len(xs)*len(ys))
	for _, yv := range ys {
		for _, xv := range xs {
			variants = append(variants, in.With(x.Field, xv).With(y.Field, yv))
		}
	}

	o.logger().Debugf("heatmap: %s x %s, %d projections", x.Field.Key(), y.Field.Key(), len(variants))
	results, err := o.runAll(ctx, start, variants)
	if err != nil {
		return nil, err
	}

	cells := make([]domain.HeatmapDataPoint, 0, len(variants))
	for row, yv := range ys {
		for col, xv := range xs {
			cells = append(cells, domain.HeatmapDataPoint{
				Row:    row,
				Col:    col,
				XValue: xv,
				YValue: yv,
				Value:  ExtractMetric(results[row*len(xs)+col], metric, horizon),
			})
		}
	}
	return cells, nil
}

// Scenarios projects the base inputs and every scenario's overrides. The
// result is keyed by scenario name and always contains the base scenario.
// Every result holds the full 40 years; horizon only selects which
// summaries callers are expected to read and must be 10, 20 or 40.
func (o *Orchestrator) Scenarios(ctx context.Context, in domain.PropertyInputs, scenarios []domain.Scenario, horizon int) (map[string]*domain.ProjectionResult, error) {
	if err := validateHorizon(horizon); err != nil {
		return nil, err
	}

	names := []string{domain.BaseScenarioName}
	variants := []domain.PropertyInputs{in}
	seen := map[string]bool{domain.BaseScenarioName: true}
	for _, s := range scenarios {
		if s.IsBase() {
			if !s.Overrides.IsEmpty() {
				return nil, domain.ErrBaseScenario
			}
			continue
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate scenario %q", s.Name)
		}
		seen[s.Name] = true
		names = append(names, s.Name)
		variants = append(variants, s.Apply(in))
	}

	start := o.Engine.ResolveStartDate()
	results, err := cached(ctx, o, "scenarios", func() ([]*domain.ProjectionResult, error) {
		o.logger().Debugf("scenarios: %d projections", len(variants))
		return o.runAll(ctx, start, variants)
	}, variants, start, o.Engine.TaxCalc)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*domain.ProjectionResult, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, nil
}

// ExtractMetric reads a metric from a projection at a horizon. IRR metrics
// use their own horizon; cash flow and net worth read year `horizon`.
func ExtractMetric(r *domain.ProjectionResult, metric domain.Metric, horizon int) domain.MetricValue {
	if r == nil {
		return domain.MetricValue{}
	}
	switch metric {
	case domain.MetricIRR10, domain.MetricIRR20, domain.MetricIRR40:
		h, ok := r.Horizon(irrYears(metric))
		if !ok {
			return domain.MetricValue{}
		}
		return domain.MetricValue{Value: h.IRR.Rate, Valid: h.IRR.Converged}
	case domain.MetricCashFlow:
		y, ok := r.Year(horizon)
		if !ok {
			return domain.MetricValue{}
		}
		return domain.MetricValue{Value: y.CumulativeCashFlow, Valid: true}
	case domain.MetricNetWorth:
		y, ok := r.Year(horizon)
		if !ok {
			return domain.MetricValue{}
		}
		return domain.MetricValue{Value: y.NetWorth, Valid: true}
	}
	return domain.MetricValue{}
}

// Extractor binds a metric and horizon for use with calculation.RankScenarios
func Extractor(metric domain.Metric, horizon int) calculation.MetricExtractor {
	return func(r *domain.ProjectionResult) domain.MetricValue {
		return ExtractMetric(r, metric, horizon)
	}
}

func irrYears(m domain.Metric) int {
	switch m {
	case domain.MetricIRR20:
		return 20
	case domain.MetricIRR40:
		return 40
	default:
		return 10
	}
}
