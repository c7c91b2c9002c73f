package domain

// ScenarioOutcome pairs a scenario with its full projection
type ScenarioOutcome struct {
	Scenario Scenario          `json:"scenario"`
	Result   *ProjectionResult `json:"result"`
}

// AnalysisReport bundles a base projection with the sweeps run against it
type AnalysisReport struct {
	Inputs    PropertyInputs       `json:"inputs"`
	Base      *ProjectionResult    `json:"base"`
	Metric    Metric               `json:"metric"`
	Horizon   int                  `json:"horizon"`
	Tornado   []TornadoDataPoint   `json:"tornado,omitempty"`
	HeatmapX  *SensitivityVariable `json:"heatmap_x,omitempty"`
	HeatmapY  *SensitivityVariable `json:"heatmap_y,omitempty"`
	Heatmap   []HeatmapDataPoint   `json:"heatmap,omitempty"`
	Scenarios []ScenarioOutcome    `json:"scenarios,omitempty"`
	Issues    []Issue              `json:"issues,omitempty"`
}
