package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	calc "github.com/rpgo/rental-calculator/internal/calculation"
	"github.com/rpgo/rental-calculator/internal/domain"
	"github.com/rpgo/rental-calculator/internal/sensitivity"
	"github.com/rpgo/rental-calculator/pkg/dateutil"
)

// HTMLFormatter produces a standalone HTML report with colored heatmap cells.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"pct":   FormatPercentage,
	"irr":   FormatIRR,
	"field": FormatFieldValue,
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

type htmlTornadoRow struct {
	Point    domain.TornadoDataPoint
	Width    sensitivity.BarWidth
	AtMin    string
	AtMax    string
	MinWidth string
	MaxWidth string
}

type htmlCell struct {
	Label string
	Color string
}

type htmlHeatRow struct {
	Label string
	Cells []htmlCell
}

func (h HTMLFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	metric, horizon := reportMetric(report)
	rec := AnalyzeScenarios(report)

	var tornado []htmlTornadoRow
	widths := sensitivity.BarWidths(report.Tornado)
	for i, p := range report.Tornado {
		tornado = append(tornado, htmlTornadoRow{
			Point:    p,
			Width:    widths[i],
			AtMin:    FormatMetric(metric, p.MinImpact),
			AtMax:    FormatMetric(metric, p.MaxImpact),
			MinWidth: widths[i].Min.StringFixed(1),
			MaxWidth: widths[i].Max.StringFixed(1),
		})
	}

	var heatCols []string
	var heatRows []htmlHeatRow
	if report.HeatmapX != nil && report.HeatmapY != nil {
		shades := sensitivity.CellShades(report.Heatmap)
		for i, c := range report.Heatmap {
			if c.Row == 0 {
				heatCols = append(heatCols, FormatFieldValue(report.HeatmapX.Field, c.XValue))
			}
			if c.Col == 0 {
				heatRows = append(heatRows, htmlHeatRow{Label: FormatFieldValue(report.HeatmapY.Field, c.YValue)})
			}
			row := &heatRows[len(heatRows)-1]
			row.Cells = append(row.Cells, htmlCell{Label: FormatMetric(metric, c.Value), Color: shades[i].Color.Hex()})
		}
	}

	// Cumulative cash flow crossover of base against the first alternative
	var breakEven *calc.CumulativeBreakEvenResult
	var breakEvenWith string
	var breakEvenMonths int
	for _, o := range report.Scenarios {
		if o.Scenario.IsBase() || o.Result == nil || report.Base == nil {
			continue
		}
		if be, err := calc.CalculateCumulativeBreakEven(report.Base.Years, o.Result.Years); err == nil && be != nil {
			breakEven, breakEvenWith = be, o.Scenario.Name
			breakEvenMonths = dateutil.MonthsBetween(report.Base.StartDate, be.Date)
		}
		break
	}

	data := struct {
		*domain.AnalysisReport
		MetricName        domain.Metric
		HorizonYears      int
		ReportingHorizons []int
		Recommendation    Recommendation
		Assumptions       []string
		Outcomes          []domain.ScenarioOutcome
		TornadoRows       []htmlTornadoRow
		HeatCols          []string
		HeatRows          []htmlHeatRow
		BreakEven         *calc.CumulativeBreakEvenResult
		BreakEvenWith     string
		BreakEvenMonths   int
	}{report, metric, horizon, domain.ReportingHorizons, rec, GenerateAssumptions(report.Inputs), outcomes(report), tornado, heatCols, heatRows, breakEven, breakEvenWith, breakEvenMonths}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
