package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/rental-calculator/internal/domain"
)

func metricCells(v domain.MetricValue) []string {
	return []string{v.Value.StringFixed(4), boolToString(v.Valid)}
}

// TornadoCSV exports the tornado points in their ranked order
type TornadoCSV struct{}

func (t TornadoCSV) Name() string { return "tornado-csv" }

func (t TornadoCSV) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Rank", "Field", "Name", "Min", "Max", "Base", "BaseValid", "AtMin", "AtMinValid", "AtMax", "AtMaxValid", "Impact"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, p := range report.Tornado {
		row := []string{intToString(i + 1), p.Field.Key(), p.Name, p.Min.String(), p.Max.String()}
		row = append(row, metricCells(p.BaseValue)...)
		row = append(row, metricCells(p.MinImpact)...)
		row = append(row, metricCells(p.MaxImpact)...)
		row = append(row, p.Impact().StringFixed(4))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// HeatmapCSV exports the heatmap grid, one row per cell in row-major order
type HeatmapCSV struct{}

func (h HeatmapCSV) Name() string { return "heatmap-csv" }

func (h HeatmapCSV) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	xName, yName := "X", "Y"
	if report.HeatmapX != nil {
		xName = report.HeatmapX.Field.Key()
	}
	if report.HeatmapY != nil {
		yName = report.HeatmapY.Field.Key()
	}
	if err := w.Write([]string{"Row", "Col", yName, xName, "Value", "Valid"}); err != nil {
		return nil, err
	}
	for _, c := range report.Heatmap {
		row := []string{intToString(c.Row), intToString(c.Col), c.YValue.String(), c.XValue.String()}
		row = append(row, metricCells(c.Value)...)
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
