package charts

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"mindscreen/internal/repository"
)

// DomainLabels maps sub-score JSON keys to chart-friendly names.
var DomainLabels = map[string]string{
	"memoryScore":    "Memory",
	"attentionScore": "Attention",
	"languageScore":  "Language",
	"executiveScore": "Executive Function",
}

// ProbabilityTimeline builds a line chart of risk probability across past
// assessments. The chart is returned as an ECharts option object; callers
// marshal chart.JSON() and hand it to the frontend renderer.
func ProbabilityTimeline(data []repository.TimelineDataPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Risk Over Time",
			Subtitle: "Estimated probability per assessment",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Min:   0,
			Max:   1,
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	items := make([]opts.LineData, 0, len(data))
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	line.AddSeries("Probability", items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}

// DomainTimeline builds a line chart of one cognitive domain's sub-score
// across past assessments.
func DomainTimeline(data []repository.TimelineDataPoint, domainKey string) *charts.Line {
	label := DomainLabels[domainKey]
	if label == "" {
		label = domainKey
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Domain Score Over Time",
			Subtitle: label,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "time",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	items := make([]opts.LineData, 0, len(data))
	for _, point := range data {
		items = append(items, opts.LineData{Value: []interface{}{point.Date, point.Value}})
	}

	line.AddSeries(label, items).SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
