package domain

import (
	"time"
)

// Configuration represents the complete input file
type Configuration struct {
	Property    PropertyInputs    `yaml:"property" json:"property"`
	StartDate   *time.Time        `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	Scenarios   []Scenario        `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
	Sensitivity SensitivityConfig `yaml:"sensitivity,omitempty" json:"sensitivity,omitempty"`
}

// SensitivityConfig selects what the sweeps compare.
// An empty variable list uses the default catalog derived from the property.
type SensitivityConfig struct {
	Metric    Metric                `yaml:"metric,omitempty" json:"metric,omitempty"`
	Horizon   int                   `yaml:"horizon,omitempty" json:"horizon,omitempty"`
	Variables []SensitivityVariable `yaml:"variables,omitempty" json:"variables,omitempty"`
	HeatmapX  *Field                `yaml:"heatmap_x,omitempty" json:"heatmap_x,omitempty"`
	HeatmapY  *Field                `yaml:"heatmap_y,omitempty" json:"heatmap_y,omitempty"`
}

// ScenarioSet builds a set from the configured scenarios, base first
func (c *Configuration) ScenarioSet() (*ScenarioSet, error) {
	set := NewScenarioSet()
	for _, s := range c.Scenarios {
		if s.IsBase() {
			if !s.Overrides.IsEmpty() {
				return nil, ErrBaseScenario
			}
			continue
		}
		if _, err := set.Add(s); err != nil {
			return nil, err
		}
	}
	return set, nil
}
