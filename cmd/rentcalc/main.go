// rentcalc projects a leveraged rental property over 40 years under German
// income tax and runs sensitivity sweeps over its inputs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rpgo/rental-calculator/internal/cache"
	"github.com/rpgo/rental-calculator/internal/calculation"
	"github.com/rpgo/rental-calculator/internal/config"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/internal/output"
	"github.com/rpgo/rental-calculator/internal/sensitivity"
	"github.com/rpgo/rental-calculator/pkg/dateutil"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what the subcommands share once the root pre-run has loaded
// settings
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath   string
	settingsPath string
	logLevel     string
	format       string
	outDir       string
	start        string

	settings *config.Settings
	log      *leveledLogger
	store    cache.Store
	closers  []func() error
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "rentcalc",
		Short:         "Rental property projection and sensitivity analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "config.yaml", "input file (YAML)")
	pf.StringVar(&a.settingsPath, "settings", "", "application settings file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&a.format, "format", "f", "", "output format: "+formatList())
	pf.StringVarP(&a.outDir, "out", "o", "", "write the report to a file in this directory instead of stdout")
	pf.StringVar(&a.start, "start", "", "projection start date (YYYY-MM-DD), truncated to the first of the month")

	root.AddCommand(
		a.projectCmd(),
		a.tornadoCmd(),
		a.heatmapCmd(),
		a.scenariosCmd(),
		a.breakevenCmd(),
		a.analyzeCmd(),
		a.exampleConfigCmd(),
		versionCmd(out),
	)
	return root
}

func formatList() string {
	return strings.Join(append(output.AvailableFormatterNames(), "all"), ", ")
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	s, err := config.LoadSettings(config.NewViper(), a.settingsPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		s.LogLevel = a.logLevel
		if err := s.Validate(); err != nil {
			return err
		}
	}
	if a.format == "" {
		a.format = s.Format
	}
	a.settings = s
	a.log = newLogger(a.errOut, s.LogLevel)
	a.store = a.openCache(cmd.Context(), s.Cache)
	return nil
}

func (a *app) openCache(ctx context.Context, cs config.CacheSettings) cache.Store {
	switch cs.Backend {
	case config.CacheMemory:
		return cache.NewMemoryStore(cs.MaxEntries)
	case config.CacheRedis:
		rs := cache.NewRedisStore(cs.RedisAddr, cs.RedisPrefix, cs.TTL)
		if ctx == nil {
			ctx = context.Background()
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			a.log.Warnf("redis cache unavailable, falling back to memory: %v", err)
			_ = rs.Close()
			return cache.NewMemoryStore(cs.MaxEntries)
		}
		a.closers = append(a.closers, rs.Close)
		return rs
	default:
		return nil
	}
}

func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// loadConfig reads and validates the input file. The engine is anchored at
// --start, else the configured start date, else the first of next month.
func (a *app) loadConfig() (*domain.Configuration, *calculation.ProjectionEngine, error) {
	cfg, err := config.NewInputParser().LoadFromFile(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(a.log)
	switch {
	case a.start != "":
		d, err := dateutil.ParseDate(a.start)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --start: %w", err)
		}
		engine.StartDate = dateutil.BeginningOfMonth(d)
	case cfg.StartDate != nil:
		engine.StartDate = *cfg.StartDate
	}
	return cfg, engine, nil
}

func (a *app) orchestrator(engine *calculation.ProjectionEngine) *sensitivity.Orchestrator {
	o := sensitivity.NewOrchestrator(engine)
	o.Logger = a.log
	o.Cache = a.store
	if a.settings.Workers > 0 {
		o.Workers = a.settings.Workers
	}
	return o
}

// emit renders the report to stdout, or to a file when --out is set
func (a *app) emit(report *domain.AnalysisReport) error {
	if a.outDir == "" {
		return output.Render(a.out, report, a.format)
	}
	if err := os.MkdirAll(a.outDir, 0o755); err != nil {
		return err
	}
	files, err := output.GenerateReport(report, a.format, a.outDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(a.out, "Report written to %s\n", f)
	}
	return nil
}

func versionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(out, "rentcalc %s (%s)\n", version, commit)
		},
	}
}
