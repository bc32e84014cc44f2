package engine

import (
	"io"
	"log"
	"testing"

	"github.com/vizkit-org/vizkit/layout"
)

// ============================================================================
// PIPELINE END-TO-END TESTS
// ============================================================================

func testDataset() Dataset {
	return Dataset{
		Columns: []string{"date", "region", "revenue", "units"},
		Rows: []Row{
			{"date": "2024-01-01", "region": "West", "revenue": 100.0, "units": 10.0},
			{"date": "2024-01-02", "region": "East", "revenue": 200.0, "units": 20.0},
			{"date": "2024-01-03", "region": "West", "revenue": 300.0, "units": 30.0},
			{"date": "2024-02-01", "region": "East", "revenue": 400.0, "units": 40.0},
		},
	}
}

func quiet() Option {
	return WithLogger(log.New(io.Discard, "", 0))
}

func TestRunUnconfiguredPlaceholder(t *testing.T) {
	plan := Run(testDataset(), ChartConfig{Type: ChartBar}, layout.Container{Width: 600, Height: 400}, quiet())
	if plan.Configured {
		t.Fatal("a chart with no mapping must come back unconfigured")
	}
	if plan.Rows != nil {
		t.Errorf("unconfigured plan carries no rows, got %v", plan.Rows)
	}
	// Sizing is still computed so the host can size the placeholder.
	if plan.Sizing.Width != 600 {
		t.Errorf("sizing must still be derived, got %+v", plan.Sizing)
	}
}

func TestRunFilterAggregateCompose(t *testing.T) {
	chart := ChartConfig{
		Type:    ChartBar,
		Mapping: FieldMapping{XAxis: "region", YAxis: "revenue"},
		DashboardFilters: []DashboardFilter{
			{Column: "region", Operator: OpEquals, Value: "West"},
		},
	}
	plan := Run(testDataset(), chart, layout.Container{Width: 600, Height: 400}, quiet())
	if !plan.Configured {
		t.Fatal("mapped chart must be configured")
	}
	if len(plan.Rows) != 1 {
		t.Fatalf("want 1 grouped row, got %d", len(plan.Rows))
	}
	if got := plan.Rows[0]["revenue"]; got != 400.0 {
		t.Errorf("West revenue = %v, want 400 (100+300)", got)
	}
	if len(plan.Keys) != 2 || plan.Keys[0] != "region" || plan.Keys[1] != "revenue" {
		t.Errorf("resolved keys = %v, want [region revenue]", plan.Keys)
	}
}

func TestRunDeterministic(t *testing.T) {
	chart := ChartConfig{
		Type:    ChartLine,
		Mapping: FieldMapping{XAxis: "date", Values: []string{"revenue", "units"}},
	}
	c := layout.Container{Width: 800, Height: 500}
	a := Run(testDataset(), chart, c, quiet())
	b := Run(testDataset(), chart, c, quiet())
	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if FormatValue(a.Rows[i]["date"]) != FormatValue(b.Rows[i]["date"]) {
			t.Errorf("row %d order differs between identical runs", i)
		}
	}
	if a.Axis != b.Axis {
		t.Errorf("axis layout differs between identical runs: %+v vs %+v", a.Axis, b.Axis)
	}
}

func TestRunTooSmallSkipsAxisGeometry(t *testing.T) {
	chart := ChartConfig{
		Type:    ChartBar,
		Mapping: FieldMapping{XAxis: "region", YAxis: "revenue"},
	}
	plan := Run(testDataset(), chart, layout.Container{Width: 200, Height: 100}, quiet())
	if !plan.Features.TooSmall {
		t.Fatal("a 200x100 container is below every bar-chart minimum")
	}
	if plan.Axis != (layout.AxisLayout{}) {
		t.Errorf("axis geometry must not be computed for too-small containers")
	}
	// The data side still runs so the host has rows once space returns.
	if len(plan.Rows) == 0 {
		t.Errorf("rows must still be aggregated")
	}
}

func TestRunDualAxisFlowsIntoRightMargin(t *testing.T) {
	ds := Dataset{
		Columns: []string{"month", "units", "revenue"},
		Rows: []Row{
			{"month": "Jan", "units": 50.0, "revenue": 5000.0},
			{"month": "Feb", "units": 100.0, "revenue": 9000.0},
		},
	}
	chart := ChartConfig{
		Type:    ChartLine,
		Mapping: FieldMapping{XAxis: "month", Values: []string{"units", "revenue"}},
	}
	plan := Run(ds, chart, layout.Container{Width: 800, Height: 500}, quiet())
	if plan.DualAxis == nil {
		t.Fatal("maxima 100 vs 9000 must trigger a dual axis")
	}

	single := Run(ds, ChartConfig{
		Type:    ChartLine,
		Mapping: FieldMapping{XAxis: "month", YAxis: "units"},
	}, layout.Container{Width: 800, Height: 500}, quiet())
	if plan.Axis.RightMargin <= single.Axis.RightMargin {
		t.Errorf("dual-axis plan needs extra right margin: %v vs %v",
			plan.Axis.RightMargin, single.Axis.RightMargin)
	}
}

func TestRunDateWindowWithGranularity(t *testing.T) {
	chart := ChartConfig{
		Type:        ChartLine,
		Mapping:     FieldMapping{XAxis: "date", YAxis: "revenue"},
		DateWindow:  DateWindow{From: dayPtr("2024-01-01"), To: dayPtr("2024-02-28")},
		Granularity: GranularityMonth,
	}
	plan := Run(testDataset(), chart, layout.Container{Width: 800, Height: 500}, quiet())
	if len(plan.Rows) != 2 {
		t.Fatalf("want 2 month buckets, got %d: %v", len(plan.Rows), plan.Rows)
	}
	if got := plan.Rows[0]["revenue"]; got != 600.0 {
		t.Errorf("January bucket revenue = %v, want 600", got)
	}
}
