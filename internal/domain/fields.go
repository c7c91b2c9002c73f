package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Field identifies a numeric PropertyInputs field that can be swept or overridden
type Field int

const (
	FieldPurchasePrice Field = iota + 1
	FieldNotaryRate
	FieldTransferTaxRate
	FieldBrokerRate
	FieldRenovationCost
	FieldEquity
	FieldInterestRate
	FieldRepaymentRate
	FieldMonthlyRent
	FieldManagementCost
	FieldMaintenanceReserve
	FieldNonRecoverableCosts
	FieldOtherCosts
	FieldAppreciationRate
	FieldRentGrowthRate
	FieldCostInflationRate
	FieldVacancyRate
	FieldOutsideIncome
	FieldMarginalTaxRate
	FieldDepreciationRate
)

// Direction tells whether raising a field helps or hurts the investment
type Direction int

const (
	Neutral Direction = iota
	HigherIsBetter
	LowerIsBetter
)

func (d Direction) String() string {
	switch d {
	case HigherIsBetter:
		return "higher_is_better"
	case LowerIsBetter:
		return "lower_is_better"
	default:
		return "neutral"
	}
}

type fieldSpec struct {
	key       string
	name      string
	percent   bool
	direction Direction
	ref       func(*PropertyInputs) *decimal.Decimal
}

// fieldTable is the single source for keys, display names and direction tags.
var fieldTable = map[Field]fieldSpec{
	FieldPurchasePrice:       {"purchase_price", "Purchase price", false, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.PurchasePrice }},
	FieldNotaryRate:          {"notary_rate", "Notary fees", true, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.NotaryRate }},
	FieldTransferTaxRate:     {"transfer_tax_rate", "Property transfer tax", true, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.TransferTaxRate }},
	FieldBrokerRate:          {"broker_rate", "Broker commission", true, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.BrokerRate }},
	FieldRenovationCost:      {"renovation_cost", "Renovation cost", false, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.RenovationCost }},
	FieldEquity:              {"equity", "Equity", false, Neutral, func(p *PropertyInputs) *decimal.Decimal { return &p.Equity }},
	FieldInterestRate:        {"interest_rate", "Interest rate", true, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.InterestRate }},
	FieldRepaymentRate:       {"repayment_rate", "Repayment rate", true, Neutral, func(p *PropertyInputs) *decimal.Decimal { return &p.RepaymentRate }},
	FieldMonthlyRent:         {"monthly_rent", "Monthly rent", false, HigherIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.MonthlyRent }},
	FieldManagementCost:      {"management_cost", "Property management", false, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.ManagementCost }},
	FieldMaintenanceReserve:  {"maintenance_reserve", "Maintenance reserve", false, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.MaintenanceReserve }},
	FieldNonRecoverableCosts: {"non_recoverable_costs", "Non-recoverable costs", false, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.NonRecoverableCosts }},
	FieldOtherCosts:          {"other_costs", "Other costs", false, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.OtherCosts }},
	FieldAppreciationRate:    {"appreciation_rate", "Property appreciation", true, HigherIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.AppreciationRate }},
	FieldRentGrowthRate:      {"rent_growth_rate", "Rent growth", true, HigherIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.RentGrowthRate }},
	FieldCostInflationRate:   {"cost_inflation_rate", "Cost inflation", true, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.CostInflationRate }},
	FieldVacancyRate:         {"vacancy_rate", "Vacancy rate", true, LowerIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.VacancyRate }},
	FieldOutsideIncome:       {"outside_income", "Outside income", false, Neutral, func(p *PropertyInputs) *decimal.Decimal { return &p.OutsideIncome }},
	FieldMarginalTaxRate:     {"marginal_tax_rate", "Marginal tax rate", true, Neutral, func(p *PropertyInputs) *decimal.Decimal { return &p.MarginalTaxRate }},
	FieldDepreciationRate:    {"depreciation_rate", "Depreciation rate", true, HigherIsBetter, func(p *PropertyInputs) *decimal.Decimal { return &p.DepreciationRate }},
}

// AllFields lists every Field in declaration order
func AllFields() []Field {
	fields := make([]Field, 0, len(fieldTable))
	for f := FieldPurchasePrice; f <= FieldDepreciationRate; f++ {
		fields = append(fields, f)
	}
	return fields
}

// ParseField resolves a snake_case key such as "interest_rate"
func ParseField(key string) (Field, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for f, spec := range fieldTable {
		if spec.key == k {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown input field %q", key)
}

// Valid reports whether f is a known field
func (f Field) Valid() bool {
	_, ok := fieldTable[f]
	return ok
}

// Key returns the snake_case identifier used in YAML and JSON
func (f Field) Key() string {
	if spec, ok := fieldTable[f]; ok {
		return spec.key
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func (f Field) String() string { return f.Key() }

// Name returns the human readable label
func (f Field) Name() string {
	if spec, ok := fieldTable[f]; ok {
		return spec.name
	}
	return f.Key()
}

// IsPercent reports whether the field is stored as a whole-number percentage
func (f Field) IsPercent() bool {
	return fieldTable[f].percent
}

// Direction returns the field's directional tag
func (f Field) Direction() Direction {
	return fieldTable[f].direction
}

// MarshalText encodes the field as its key
func (f Field) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unknown input field %d", int(f))
	}
	return []byte(f.Key()), nil
}

// UnmarshalText decodes a field key
func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
