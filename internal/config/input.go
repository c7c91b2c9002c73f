package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a configuration document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

var (
	minusHundred = decimal.NewFromInt(-100)
	hundred      = decimal.NewFromInt(100)
)

// ValidateConfiguration validates the loaded configuration and normalizes
// the marital status. Values the engine can project with an issue attached
// (negative price, out-of-range vacancy, equity above cost) are accepted.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validateProperty(&config.Property); err != nil {
		return fmt.Errorf("property validation failed: %w", err)
	}

	names := map[string]bool{}
	for i := range config.Scenarios {
		s := &config.Scenarios[i]
		if err := ip.validateScenario(s); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if names[key] {
			return fmt.Errorf("scenario %d validation failed: duplicate name %q", i, s.Name)
		}
		names[key] = true
	}

	if err := ip.validateSensitivity(&config.Sensitivity); err != nil {
		return fmt.Errorf("sensitivity validation failed: %w", err)
	}

	return nil
}

func (ip *InputParser) validateProperty(p *domain.PropertyInputs) error {
	ms, err := domain.ParseMaritalStatus(string(p.MaritalStatus))
	if err != nil {
		return err
	}
	p.MaritalStatus = ms

	if p.InterestRate.IsNegative() {
		return fmt.Errorf("interest rate cannot be negative")
	}
	if p.RepaymentRate.IsNegative() {
		return fmt.Errorf("repayment rate cannot be negative")
	}
	if p.Equity.IsNegative() {
		return fmt.Errorf("equity cannot be negative")
	}
	if p.MonthlyRent.IsNegative() {
		return fmt.Errorf("monthly rent cannot be negative")
	}
	for _, f := range []domain.Field{domain.FieldNotaryRate, domain.FieldTransferTaxRate, domain.FieldBrokerRate} {
		if v := p.Get(f); v.IsNegative() || v.GreaterThan(hundred) {
			return fmt.Errorf("%s must be between 0 and 100%%", f.Key())
		}
	}
	for _, f := range []domain.Field{domain.FieldAppreciationRate, domain.FieldRentGrowthRate, domain.FieldCostInflationRate} {
		if p.Get(f).LessThanOrEqual(minusHundred) {
			return fmt.Errorf("%s must be greater than -100%%", f.Key())
		}
	}
	if p.MarginalTaxRate.IsNegative() || p.MarginalTaxRate.GreaterThan(hundred) {
		return fmt.Errorf("marginal tax rate must be between 0 and 100%%")
	}
	if p.DepreciationRate.IsNegative() {
		return fmt.Errorf("depreciation rate cannot be negative")
	}
	if p.OutsideIncome.IsNegative() {
		return fmt.Errorf("outside income cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateScenario(s *domain.Scenario) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.IsBase() && !s.Overrides.IsEmpty() {
		return domain.ErrBaseScenario
	}
	if s.Overrides.MaritalStatus != nil {
		if _, err := domain.ParseMaritalStatus(string(*s.Overrides.MaritalStatus)); err != nil {
			return err
		}
	}
	return nil
}

func (ip *InputParser) validateSensitivity(sc *domain.SensitivityConfig) error {
	if sc.Metric != "" {
		if _, err := domain.ParseMetric(string(sc.Metric)); err != nil {
			return err
		}
	}
	if sc.Horizon != 0 && !domain.ValidHorizon(sc.Horizon) {
		return fmt.Errorf("horizon must be 10, 20 or 40, got %d", sc.Horizon)
	}

	var errs []error
	for _, v := range sc.Variables {
		if err := v.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if sc.HeatmapX != nil && sc.HeatmapY != nil && *sc.HeatmapX == *sc.HeatmapY {
		return fmt.Errorf("heatmap axes must use different fields, both are %s", sc.HeatmapX.Key())
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	heatX, heatY := domain.FieldInterestRate, domain.FieldMonthlyRent

	var highRates domain.Overrides
	highRates.Set(domain.FieldInterestRate, decimal.NewFromFloat(5.5))

	var moreEquity domain.Overrides
	moreEquity.Set(domain.FieldEquity, decimal.NewFromInt(100000))

	married := domain.Married
	var jointFiling domain.Overrides
	jointFiling.MaritalStatus = &married
	jointFiling.Set(domain.FieldOutsideIncome, decimal.NewFromInt(120000))
	jointFiling.Set(domain.FieldMarginalTaxRate, decimal.Zero)

	return &domain.Configuration{
		Property: domain.PropertyInputs{
			PurchasePrice:       decimal.NewFromInt(300000),
			NotaryRate:          decimal.NewFromFloat(1.5),
			TransferTaxRate:     decimal.NewFromFloat(6.0),
			BrokerRate:          decimal.NewFromFloat(3.57),
			RenovationCost:      decimal.Zero,
			Equity:              decimal.NewFromInt(60000),
			InterestRate:        decimal.NewFromFloat(3.75),
			RepaymentRate:       decimal.NewFromFloat(2.0),
			MonthlyRent:         decimal.NewFromInt(1100),
			ManagementCost:      decimal.NewFromInt(30),
			MaintenanceReserve:  decimal.NewFromInt(75),
			NonRecoverableCosts: decimal.NewFromInt(40),
			OtherCosts:          decimal.Zero,
			AppreciationRate:    decimal.NewFromFloat(2.0),
			RentGrowthRate:      decimal.NewFromFloat(1.5),
			CostInflationRate:   decimal.NewFromFloat(2.0),
			VacancyRate:         decimal.NewFromFloat(3.0),
			OutsideIncome:       decimal.NewFromInt(65000),
			MaritalStatus:       domain.Single,
			MarginalTaxRate:     decimal.NewFromFloat(42),
			ChurchTax:           false,
			DepreciationRate:    decimal.NewFromFloat(2.0),
		},
		StartDate: &start,
		Scenarios: []domain.Scenario{
			{Name: "High rates", Description: "Refinancing at 5.5%", Overrides: highRates},
			{Name: "More equity", Description: "Put 100k down", Overrides: moreEquity},
			{Name: "Joint filing", Description: "Married, marginal rate derived from income", Overrides: jointFiling},
		},
		Sensitivity: domain.SensitivityConfig{
			Metric:   domain.MetricIRR10,
			Horizon:  10,
			HeatmapX: &heatX,
			HeatmapY: &heatY,
		},
	}
}
