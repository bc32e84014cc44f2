package engine

import (
	"strconv"

	"github.com/vizkit-org/vizkit/layout"
)

// ============================================================================
// PIPELINE — Row Filter → Aggregation → Axis Reconciler → Layout
// ============================================================================
// Run composes the four stages for one render pass. Every stage is a pure
// function of its inputs: same dataset, config and container always yield
// the same plan, so callers may memoize on input identity.
//
// Run never returns an error. Unconfigured charts come back with
// Configured=false so the host renders a placeholder; everything else is
// best-effort per the coercion policies.
// ============================================================================

// RenderPlan is everything a renderer collaborator needs for one chart.
type RenderPlan struct {
	Configured bool `json:"configured"`

	// Rows is the final row collection to plot.
	Rows []Row `json:"rows"`

	// Keys is the resolved column set: X key first, then Y keys.
	Keys []string `json:"keys"`

	DualAxis *DualAxisConfig        `json:"dualAxis,omitempty"`
	Sizing   layout.ContainerSizing `json:"sizing"`
	Features layout.Features        `json:"features"`
	Axis     layout.AxisLayout      `json:"axis"`
}

// Run executes the full transformation for one chart.
func Run(ds Dataset, chart ChartConfig, container layout.Container, opts ...Option) RenderPlan {
	cfg := applyOptions(opts)

	plan := RenderPlan{
		Sizing: layout.ComputeSizing(string(chart.Type), container),
	}
	plan.Features = layout.ComputeFeatures(plan.Sizing)

	if !chart.IsConfigured() {
		return plan
	}
	plan.Configured = true

	dateColumn := chart.DateColumn
	if dateColumn == "" && chart.DateWindow.IsActive() {
		dateColumn = DetectDateColumn(ds.Columns, ds.Rows)
	}

	filtered := FilterRows(ds.Rows, chart.ChartFilters, chart.DashboardFilters, chart.DateWindow, dateColumn, chart.Granularity)
	cfg.Logger.Printf("vizkit: %d rows after filtering (from %d), type=%s", len(filtered), len(ds.Rows), chart.Type)

	plan.Rows = Aggregate(filtered, chart.Type, chart.Mapping)
	plan.Keys = chart.Mapping.ResolvedKeys()
	plan.DualAxis = DetectDualAxis(chart.Type, plan.Rows, chart.Mapping)

	if plan.Features.TooSmall {
		return plan
	}

	xLabels := rowLabels(plan.Rows, chart.Mapping.XKey())
	yLabels := tickLabels(plan.Rows, chart.Mapping.YKeys())
	plan.Axis = layout.ComputeAxisLayout(
		cfg.Face, xLabels, yLabels,
		container.Width, container.Height,
		rotationPref(chart.LabelRotation),
		plan.DualAxis != nil,
	)

	return plan
}

func rotationPref(s string) layout.RotationPref {
	switch layout.RotationPref(s) {
	case layout.RotationHorizontal, layout.RotationDiagonal, layout.RotationVertical:
		return layout.RotationPref(s)
	}
	return layout.RotationAuto
}

// rowLabels extracts display labels for the X axis in row order.
func rowLabels(rows []Row, xKey string) []string {
	if xKey == "" {
		return nil
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, FormatValue(row[xKey]))
	}
	return out
}

// tickLabels approximates the value-axis tick labels with the formatted
// extremes of the first metric; the left margin only needs the widest
// tick's pixel width.
func tickLabels(rows []Row, yKeys []string) []string {
	if len(yKeys) == 0 || len(rows) == 0 {
		return nil
	}
	key := yKeys[0]
	min, max := CoerceNumber(rows[0][key]), CoerceNumber(rows[0][key])
	for _, row := range rows[1:] {
		v := CoerceNumber(row[key])
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return []string{
		strconv.FormatFloat(min, 'f', -1, 64),
		strconv.FormatFloat(max, 'f', -1, 64),
	}
}
