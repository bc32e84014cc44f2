// Package render is a demo renderer collaborator: it draws a RenderPlan
// to PNG with go-chart. The core pipeline owns the data and geometry;
// this package only consumes them, the way a host dashboard's chart
// widgets would.
package render

import (
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/vizkit-org/vizkit/engine"
	"github.com/vizkit-org/vizkit/layout"
)

// maxTickLabelPx caps a tick label's width before ellipsis truncation.
const maxTickLabelPx = 100

// PNG draws the plan for the given chart type and writes a PNG image.
// Only line, area, bar and pie are wired in this demo; other types
// return an error rather than a misleading picture.
func PNG(plan engine.RenderPlan, cfg engine.ChartConfig, w io.Writer) error {
	if !plan.Configured {
		return fmt.Errorf("chart is not configured")
	}
	if plan.Features.TooSmall {
		return fmt.Errorf("container %gx%g is below the minimum for a %s chart",
			plan.Sizing.Width, plan.Sizing.Height, cfg.Type)
	}
	if len(plan.Rows) == 0 {
		return fmt.Errorf("no rows to draw")
	}

	switch cfg.Type {
	case engine.ChartLine, engine.ChartArea:
		return renderXY(plan, cfg, w)
	case engine.ChartBar:
		return renderBars(plan, cfg, w)
	case engine.ChartPie:
		return renderPie(plan, cfg, w)
	}
	return fmt.Errorf("chart type %q is not wired in the demo renderer", cfg.Type)
}

func renderXY(plan engine.RenderPlan, cfg engine.ChartConfig, w io.Writer) error {
	xKey := cfg.Mapping.XKey()
	yKeys := cfg.Mapping.YKeys()

	var series []chart.Series
	for _, yKey := range yKeys {
		xs := make([]float64, 0, len(plan.Rows))
		ys := make([]float64, 0, len(plan.Rows))
		for i, row := range plan.Rows {
			xs = append(xs, float64(i))
			ys = append(ys, engine.CoerceNumber(row[yKey]))
		}
		series = append(series, chart.ContinuousSeries{Name: yKey, XValues: xs, YValues: ys})
	}

	ticks := make([]chart.Tick, 0, len(plan.Rows))
	step := plan.Axis.XAxisInterval + 1
	for i, row := range plan.Rows {
		if i%step != 0 && i != len(plan.Rows)-1 {
			continue
		}
		label, _ := layout.TruncateLabel(nil, engine.FormatValue(row[xKey]), maxTickLabelPx)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}

	ch := chart.Chart{
		Width:  int(plan.Sizing.Width),
		Height: int(plan.Sizing.Height),
		Background: chart.Style{Padding: chart.Box{
			Top:    int(plan.Axis.TopMargin),
			Left:   int(plan.Axis.LeftMargin),
			Right:  int(plan.Axis.RightMargin),
			Bottom: int(plan.Axis.BottomMargin),
		}},
		XAxis: chart.XAxis{
			Ticks: ticks,
			TickStyle: chart.Style{
				TextRotationDegrees: float64(plan.Axis.RotationDegrees),
			},
		},
		Series: series,
	}
	if plan.Features.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

func renderBars(plan engine.RenderPlan, cfg engine.ChartConfig, w io.Writer) error {
	xKey := cfg.Mapping.XKey()
	yKeys := cfg.Mapping.YKeys()
	if len(yKeys) == 0 {
		return fmt.Errorf("bar chart needs a value column")
	}

	bars := make([]chart.Value, 0, len(plan.Rows))
	for _, row := range plan.Rows {
		label, _ := layout.TruncateLabel(nil, engine.FormatValue(row[xKey]), maxTickLabelPx)
		bars = append(bars, chart.Value{
			Label: label,
			Value: engine.CoerceNumber(row[yKeys[0]]),
		})
	}

	ch := chart.BarChart{
		Width:  int(plan.Sizing.Width),
		Height: int(plan.Sizing.Height),
		Background: chart.Style{Padding: chart.Box{
			Top:    int(plan.Axis.TopMargin),
			Left:   int(plan.Axis.LeftMargin),
			Right:  int(plan.Axis.RightMargin),
			Bottom: int(plan.Axis.BottomMargin),
		}},
		Bars: bars,
	}
	return ch.Render(chart.PNG, w)
}

func renderPie(plan engine.RenderPlan, cfg engine.ChartConfig, w io.Writer) error {
	catKey := cfg.Mapping.Category
	if catKey == "" {
		catKey = cfg.Mapping.XKey()
	}
	yKeys := cfg.Mapping.YKeys()
	if len(yKeys) == 0 {
		return fmt.Errorf("pie chart needs a value column")
	}

	values := make([]chart.Value, 0, len(plan.Rows))
	for _, row := range plan.Rows {
		label, _ := layout.TruncateLabel(nil, engine.FormatValue(row[catKey]), maxTickLabelPx)
		values = append(values, chart.Value{
			Label: label,
			Value: engine.CoerceNumber(row[yKeys[0]]),
		})
	}

	ch := chart.PieChart{
		Width:  int(plan.Sizing.Width),
		Height: int(plan.Sizing.Height),
		Values: values,
	}
	return ch.Render(chart.PNG, w)
}
