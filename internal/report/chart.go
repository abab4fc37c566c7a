package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// newThreadsChart plots the counters of every matched thread as stacked bars.
func newThreadsChart(res *Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Build %d", res.Build),
			Subtitle: fmt.Sprintf("%s / %s", res.Project, res.Branch),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Right: "10%"}),
	)

	threads := res.MatchedThreads()
	labels := make([]string, 0, len(threads))
	series := map[string][]opts.BarData{}
	names := []string{"tests", "failures", "errors", "skips"}
	for _, t := range threads {
		labels = append(labels, fmt.Sprintf("thread %d", t.Number))
		series["tests"] = append(series["tests"], opts.BarData{Value: t.Totals.Tests})
		series["failures"] = append(series["failures"], opts.BarData{Value: t.Totals.Failures})
		series["errors"] = append(series["errors"], opts.BarData{Value: t.Totals.Errors})
		series["skips"] = append(series["skips"], opts.BarData{Value: t.Totals.Skips})
	}

	bar.SetXAxis(labels)
	for _, name := range names {
		bar.AddSeries(name, series[name], charts.WithBarChartOpts(opts.BarChart{Stack: "counters"}))
	}
	return bar
}

// SaveChart creates the HTML chart file of the per-thread counters.
func SaveChart(res *Result, path string) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Semaphore build %d threads", res.Build)
	page.AddCharts(newThreadsChart(res))

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
