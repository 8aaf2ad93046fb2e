package engine

import "github.com/piwi3910/RollCut/internal/model"

// Summarize computes material consumption for a sequence of rows.
// Utilization is 0 when there are no rows.
func Summarize(rows []model.Row, rollWidth int) model.Metrics {
	var m model.Metrics
	for _, row := range rows {
		m.TotalLength += row.Height
		m.UsedArea += row.UsedArea()
	}
	m.TotalArea = rollWidth * m.TotalLength
	m.WasteArea = m.TotalArea - m.UsedArea
	if m.TotalArea > 0 {
		m.Utilization = float64(m.UsedArea) / float64(m.TotalArea)
	}
	return m
}
