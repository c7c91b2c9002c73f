package domain

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Overrides is a sparse set of PropertyInputs changes. A nil field is not set.
type Overrides struct {
	PurchasePrice       *decimal.Decimal `json:"purchase_price,omitempty"`
	NotaryRate          *decimal.Decimal `json:"notary_rate,omitempty"`
	TransferTaxRate     *decimal.Decimal `json:"transfer_tax_rate,omitempty"`
	BrokerRate          *decimal.Decimal `json:"broker_rate,omitempty"`
	RenovationCost      *decimal.Decimal `json:"renovation_cost,omitempty"`
	Equity              *decimal.Decimal `json:"equity,omitempty"`
	InterestRate        *decimal.Decimal `json:"interest_rate,omitempty"`
	RepaymentRate       *decimal.Decimal `json:"repayment_rate,omitempty"`
	MonthlyRent         *decimal.Decimal `json:"monthly_rent,omitempty"`
	ManagementCost      *decimal.Decimal `json:"management_cost,omitempty"`
	MaintenanceReserve  *decimal.Decimal `json:"maintenance_reserve,omitempty"`
	NonRecoverableCosts *decimal.Decimal `json:"non_recoverable_costs,omitempty"`
	OtherCosts          *decimal.Decimal `json:"other_costs,omitempty"`
	AppreciationRate    *decimal.Decimal `json:"appreciation_rate,omitempty"`
	RentGrowthRate      *decimal.Decimal `json:"rent_growth_rate,omitempty"`
	CostInflationRate   *decimal.Decimal `json:"cost_inflation_rate,omitempty"`
	VacancyRate         *decimal.Decimal `json:"vacancy_rate,omitempty"`
	OutsideIncome       *decimal.Decimal `json:"outside_income,omitempty"`
	MarginalTaxRate     *decimal.Decimal `json:"marginal_tax_rate,omitempty"`
	DepreciationRate    *decimal.Decimal `json:"depreciation_rate,omitempty"`

	MaritalStatus *MaritalStatus `json:"marital_status,omitempty"`
	ChurchTax     *bool          `json:"church_tax,omitempty"`
}

func (o *Overrides) slot(f Field) **decimal.Decimal {
	switch f {
	case FieldPurchasePrice:
		return &o.PurchasePrice
	case FieldNotaryRate:
		return &o.NotaryRate
	case FieldTransferTaxRate:
		return &o.TransferTaxRate
	case FieldBrokerRate:
		return &o.BrokerRate
	case FieldRenovationCost:
		return &o.RenovationCost
	case FieldEquity:
		return &o.Equity
	case FieldInterestRate:
		return &o.InterestRate
	case FieldRepaymentRate:
		return &o.RepaymentRate
	case FieldMonthlyRent:
		return &o.MonthlyRent
	case FieldManagementCost:
		return &o.ManagementCost
	case FieldMaintenanceReserve:
		return &o.MaintenanceReserve
	case FieldNonRecoverableCosts:
		return &o.NonRecoverableCosts
	case FieldOtherCosts:
		return &o.OtherCosts
	case FieldAppreciationRate:
		return &o.AppreciationRate
	case FieldRentGrowthRate:
		return &o.RentGrowthRate
	case FieldCostInflationRate:
		return &o.CostInflationRate
	case FieldVacancyRate:
		return &o.VacancyRate
	case FieldOutsideIncome:
		return &o.OutsideIncome
	case FieldMarginalTaxRate:
		return &o.MarginalTaxRate
	case FieldDepreciationRate:
		return &o.DepreciationRate
	}
	return nil
}

// Set records an override for a numeric field
func (o *Overrides) Set(f Field, v decimal.Decimal) {
	if s := o.slot(f); s != nil {
		val := v
		*s = &val
	}
}

// Unset removes an override for a numeric field
func (o *Overrides) Unset(f Field) {
	if s := o.slot(f); s != nil {
		*s = nil
	}
}

// Get returns the override for f and whether it is set
func (o Overrides) Get(f Field) (decimal.Decimal, bool) {
	s := o.slot(f)
	if s == nil || *s == nil {
		return decimal.Zero, false
	}
	return **s, true
}

// Fields returns the numeric fields that are set, in declaration order
func (o Overrides) Fields() []Field {
	var set []Field
	for _, f := range AllFields() {
		if _, ok := o.Get(f); ok {
			set = append(set, f)
		}
	}
	return set
}

// IsEmpty reports whether no override is set
func (o Overrides) IsEmpty() bool {
	return len(o.Fields()) == 0 && o.MaritalStatus == nil && o.ChurchTax == nil
}

// Apply returns base with every set override applied
func (o Overrides) Apply(base PropertyInputs) PropertyInputs {
	out := base
	for _, f := range o.Fields() {
		v, _ := o.Get(f)
		out = out.With(f, v)
	}
	if o.MaritalStatus != nil {
		out.MaritalStatus = *o.MaritalStatus
	}
	if o.ChurchTax != nil {
		out.ChurchTax = *o.ChurchTax
	}
	return out
}

// Clone returns a deep copy
func (o Overrides) Clone() Overrides {
	var c Overrides
	for _, f := range o.Fields() {
		v, _ := o.Get(f)
		c.Set(f, v)
	}
	if o.MaritalStatus != nil {
		ms := *o.MaritalStatus
		c.MaritalStatus = &ms
	}
	if o.ChurchTax != nil {
		ct := *o.ChurchTax
		c.ChurchTax = &ct
	}
	return c
}

// UnmarshalYAML reads a flat mapping such as {interest_rate: 4.5, church_tax: true}
func (o *Overrides) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	var out Overrides
	for key, s := range raw {
		switch key {
		case "marital_status":
			ms, err := ParseMaritalStatus(s)
			if err != nil {
				return err
			}
			out.MaritalStatus = &ms
		case "church_tax":
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("church_tax: %w", err)
			}
			out.ChurchTax = &b
		default:
			f, err := ParseField(key)
			if err != nil {
				return err
			}
			v, err := decimal.NewFromString(s)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			out.Set(f, v)
		}
	}
	*o = out
	return nil
}

// MarshalYAML writes the same flat mapping UnmarshalYAML reads
func (o Overrides) MarshalYAML() (interface{}, error) {
	m := make(map[string]string)
	for _, f := range o.Fields() {
		v, _ := o.Get(f)
		m[f.Key()] = v.String()
	}
	if o.MaritalStatus != nil {
		m["marital_status"] = string(*o.MaritalStatus)
	}
	if o.ChurchTax != nil {
		m["church_tax"] = strconv.FormatBool(*o.ChurchTax)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: m[k]},
		)
	}
	return node, nil
}
