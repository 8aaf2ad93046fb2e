package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/piwi3910/RollCut/internal/model"
)

// RenderChart writes an HTML page with a stacked bar per row showing the used
// width and the leftover at the end of the row.
func RenderChart(w io.Writer, plan model.Plan) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "RollCut: " + plan.Name}),
		charts.WithTitleOpts(opts.Title{
			Title:    plan.Name,
			Subtitle: fmt.Sprintf("Roll width %d mm, utilization %.1f%%", plan.RollWidth, plan.Metrics.UtilizationPercent()),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Row"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "mm", Max: plan.RollWidth}),
	)

	names := make([]string, 0, len(plan.Result.Rows))
	used := make([]opts.BarData, 0, len(plan.Result.Rows))
	leftover := make([]opts.BarData, 0, len(plan.Result.Rows))
	for i, row := range plan.Result.Rows {
		names = append(names, fmt.Sprintf("R%d", i+1))
		used = append(used, opts.BarData{Value: row.UsedWidth})
		leftover = append(leftover, opts.BarData{Value: row.Leftover(plan.RollWidth)})
	}

	bar.SetXAxis(names).
		AddSeries("Used width", used).
		AddSeries("Leftover", leftover).
		SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "width"}))

	return bar.Render(w)
}

// ExportChart writes the row chart to an HTML file.
func ExportChart(path string, plan model.Plan) error {
	if len(plan.Result.Rows) == 0 {
		return fmt.Errorf("no rows to chart")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := RenderChart(f, plan); err != nil {
		f.Close()
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return f.Close()
}
