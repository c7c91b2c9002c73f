package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/rental-calculator/internal/config"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/internal/output"
	"github.com/rpgo/rental-calculator/internal/sensitivity"
)

// sweepFlags override the configured metric and horizon
type sweepFlags struct {
	metric  string
	horizon int
}

func (f *sweepFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.metric, "metric", "", "metric: irr10, irr20, irr40, cashflow, networth")
	cmd.Flags().IntVar(&f.horizon, "horizon", 0, "horizon in years: 10, 20 or 40")
}

func (f *sweepFlags) apply(cfg *domain.Configuration) error {
	if f.metric != "" {
		m, err := domain.ParseMetric(f.metric)
		if err != nil {
			return err
		}
		cfg.Sensitivity.Metric = m
	}
	if f.horizon != 0 {
		if !domain.ValidHorizon(f.horizon) {
			return sensitivity.ErrInvalidHorizon
		}
		cfg.Sensitivity.Horizon = f.horizon
	}
	return nil
}

func (a *app) projectCmd() *cobra.Command {
	var scenario string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run the 40-year projection for the property or one scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := a.loadConfig()
			if err != nil {
				return err
			}
			in := cfg.Property
			if scenario != "" {
				set, err := cfg.ScenarioSet()
				if err != nil {
					return err
				}
				s, ok := set.Get(scenario)
				if !ok {
					return fmt.Errorf("unknown scenario %q", scenario)
				}
				in = s.Apply(in)
			}
			a.log.Infof("projecting from %s", engine.ResolveStartDate().Format("2006-01-02"))
			return a.emit(&domain.AnalysisReport{Inputs: in, Base: engine.Project(in)})
		},
	}
	cmd.Flags().StringVar(&scenario, "scenario", "", "apply the named scenario's overrides")
	return cmd
}

func (a *app) tornadoCmd() *cobra.Command {
	var sf sweepFlags
	cmd := &cobra.Command{
		Use:   "tornado",
		Short: "Sweep each input between its bounds and rank by impact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := sf.apply(cfg); err != nil {
				return err
			}
			metric, horizon, vars := sensitivity.Settings(cfg)
			points, err := a.orchestrator(engine).Tornado(cmd.Context(), cfg.Property, vars, metric, horizon)
			if err != nil {
				return err
			}
			return a.emit(&domain.AnalysisReport{
				Inputs:  cfg.Property,
				Base:    engine.Project(cfg.Property),
				Metric:  metric,
				Horizon: horizon,
				Tornado: points,
				Issues:  sensitivity.RangeIssues(points, nil),
			})
		},
	}
	sf.register(cmd)
	return cmd
}

func (a *app) heatmapCmd() *cobra.Command {
	var (
		sf     sweepFlags
		xf, yf string
	)
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Evaluate a 5x5 grid over two inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := sf.apply(cfg); err != nil {
				return err
			}
			if err := setAxis(&cfg.Sensitivity.HeatmapX, xf); err != nil {
				return err
			}
			if err := setAxis(&cfg.Sensitivity.HeatmapY, yf); err != nil {
				return err
			}
			metric, horizon, vars := sensitivity.Settings(cfg)
			x, y, err := sensitivity.HeatmapAxes(cfg, vars)
			if err != nil {
				return err
			}
			cells, err := a.orchestrator(engine).Heatmap(cmd.Context(), cfg.Property, x, y, metric, horizon)
			if err != nil {
				return err
			}
			return a.emit(&domain.AnalysisReport{
				Inputs:   cfg.Property,
				Base:     engine.Project(cfg.Property),
				Metric:   metric,
				Horizon:  horizon,
				HeatmapX: &x,
				HeatmapY: &y,
				Heatmap:  cells,
				Issues:   sensitivity.RangeIssues(nil, cells),
			})
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&xf, "x", "", "field on the columns (default interest_rate)")
	cmd.Flags().StringVar(&yf, "y", "", "field on the rows (default monthly_rent)")
	return cmd
}

func setAxis(dst **domain.Field, key string) error {
	if key == "" {
		return nil
	}
	f, err := domain.ParseField(key)
	if err != nil {
		return err
	}
	*dst = &f
	return nil
}

func (a *app) scenariosCmd() *cobra.Command {
	var (
		sf      sweepFlags
		presets bool
	)
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Project the base and every configured scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := sf.apply(cfg); err != nil {
				return err
			}
			set, err := cfg.ScenarioSet()
			if err != nil {
				return err
			}
			if presets {
				catalog := sensitivity.DefaultCatalog(cfg.Property)
				for _, p := range []domain.Scenario{sensitivity.Optimistic(catalog), sensitivity.Pessimistic(catalog)} {
					if _, err := set.Add(p); err != nil {
						return err
					}
				}
			}
			metric, horizon, _ := sensitivity.Settings(cfg)
			all := set.All()
			if err := sensitivity.CheckPresets(all, cfg.Property); err != nil {
				return err
			}
			results, err := a.orchestrator(engine).Scenarios(cmd.Context(), cfg.Property, all, horizon)
			if err != nil {
				return err
			}
			report := &domain.AnalysisReport{
				Inputs:  cfg.Property,
				Base:    results[domain.BaseScenarioName],
				Metric:  metric,
				Horizon: horizon,
			}
			for _, s := range all {
				report.Scenarios = append(report.Scenarios, domain.ScenarioOutcome{Scenario: s, Result: results[s.Name]})
			}
			return a.emit(report)
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&presets, "presets", false, "add the optimistic and pessimistic presets")
	return cmd
}

func (a *app) breakevenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breakeven",
		Short: "Find the monthly rent at which year-1 net cash flow is zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := a.loadConfig()
			if err != nil {
				return err
			}
			res, err := engine.BreakEvenRent(cfg.Property, engine.ResolveStartDate())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Break-even monthly rent: %s\n", output.FormatCurrency(res.MonthlyRent))
			fmt.Fprintf(a.out, "Current monthly rent:    %s\n", output.FormatCurrency(res.CurrentRent))
			fmt.Fprintf(a.out, "Difference:              %s\n", output.FormatCurrency(res.RentDifference))
			return nil
		},
	}
}

func (a *app) analyzeCmd() *cobra.Command {
	var sf sweepFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run scenarios, tornado and heatmap in one report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, engine, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := sf.apply(cfg); err != nil {
				return err
			}
			report, err := a.orchestrator(engine).Analyze(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return a.emit(report)
		},
	}
	sf.register(cmd)
	return cmd
}

func (a *app) exampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [file]",
		Short: "Print or write an example input file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			example := config.NewInputParser().CreateExampleConfiguration()
			if len(args) == 1 {
				if err := output.SaveConfiguration(example, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Example configuration written to %s\n", args[0])
				return nil
			}
			b, err := yaml.Marshal(example)
			if err != nil {
				return err
			}
			_, err = a.out.Write(b)
			return err
		},
	}
}
