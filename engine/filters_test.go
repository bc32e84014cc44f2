package engine

import (
	"testing"
	"time"
)

// ============================================================================
// ROW FILTER TESTS
// ============================================================================

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func salesRows() []Row {
	return []Row{
		{"date": "2024-01-01", "region": "North", "revenue": 100.0},
		{"date": "2024-01-15", "region": "South", "revenue": 200.0},
		{"date": "2024-01-31", "region": "North", "revenue": 300.0},
		{"date": "2024-02-01", "region": "East", "revenue": 400.0},
		{"date": nil, "region": "West", "revenue": 500.0},
	}
}

func TestDateWindowInclusiveBounds(t *testing.T) {
	window := DateWindow{From: dayPtr("2024-01-01"), To: dayPtr("2024-01-31")}
	out := FilterRows(salesRows(), nil, nil, window, "date", "")

	if len(out) != 3 {
		t.Fatalf("expected 3 rows inside window, got %d", len(out))
	}
	for _, row := range out {
		if row["region"] == "East" {
			t.Errorf("2024-02-01 is one day past the bound and must be excluded")
		}
	}
}

func TestDateWindowExcludesNullDates(t *testing.T) {
	window := DateWindow{From: dayPtr("2024-01-01"), To: dayPtr("2024-12-31")}
	out := FilterRows(salesRows(), nil, nil, window, "date", "")

	for _, row := range out {
		if row["region"] == "West" {
			t.Errorf("rows with a null date cell must be excluded while a window is active")
		}
	}
}

func TestDateWindowStripsTimeOfDay(t *testing.T) {
	rows := []Row{{"date": "2024-01-31T23:59:00", "v": 1.0}}
	window := DateWindow{To: dayPtr("2024-01-31")}
	out := FilterRows(rows, nil, nil, window, "date", "")
	if len(out) != 1 {
		t.Fatalf("a timestamp on the bound day must be included, got %d rows", len(out))
	}
}

func TestGranularityGatedOnActiveWindow(t *testing.T) {
	rows := salesRows()

	// No active window: bucketing must never reduce row count.
	out := FilterRows(rows, nil, nil, DateWindow{}, "date", GranularityMonth)
	if len(out) != len(rows) {
		t.Fatalf("bucketing ran without an active window: %d rows in, %d out", len(rows), len(out))
	}

	// Active window: the three January rows collapse to one month bucket.
	window := DateWindow{From: dayPtr("2024-01-01"), To: dayPtr("2024-01-31")}
	out = FilterRows(rows, nil, nil, window, "date", GranularityMonth)
	if len(out) != 1 {
		t.Fatalf("expected 1 month bucket, got %d", len(out))
	}
	if got := CoerceNumber(out[0]["revenue"]); got != 600 {
		t.Errorf("bucket should sum revenue: want 600, got %v", got)
	}
}

func TestBucketedOutputSortedAscending(t *testing.T) {
	rows := []Row{
		{"date": "2024-03-10", "v": 1.0},
		{"date": "2024-01-10", "v": 2.0},
		{"date": "2024-02-10", "v": 3.0},
	}
	window := DateWindow{From: dayPtr("2024-01-01"), To: dayPtr("2024-12-31")}
	out := FilterRows(rows, nil, nil, window, "date", GranularityMonth)

	if len(out) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(out))
	}
	var prev time.Time
	for i, row := range out {
		ts, ok := ParseDate(row["date"])
		if !ok {
			t.Fatalf("bucket %d has unparseable date %v", i, row["date"])
		}
		if i > 0 && ts.Before(prev) {
			t.Errorf("buckets not ascending at index %d", i)
		}
		prev = ts
	}
}

func TestCategoricalChartFilter(t *testing.T) {
	f := NewChartFilter(FilterCategorical, "region")
	f.Include = []string{"north"}

	out := FilterRows(salesRows(), []ChartFilter{f}, nil, DateWindow{}, "", "")
	if len(out) != 2 {
		t.Fatalf("expected 2 North rows (case-insensitive), got %d", len(out))
	}
}

func TestInactiveFiltersIgnored(t *testing.T) {
	f := NewChartFilter(FilterCategorical, "region")
	f.Include = []string{"north"}
	f.IsActive = false

	out := FilterRows(salesRows(), []ChartFilter{f}, nil, DateWindow{}, "", "")
	if len(out) != len(salesRows()) {
		t.Errorf("inactive filter must not affect output")
	}
}

func TestNumericRangeChartFilter(t *testing.T) {
	lo, hi := 150.0, 450.0
	f := NewChartFilter(FilterNumericRange, "revenue")
	f.Min, f.Max = &lo, &hi

	out := FilterRows(salesRows(), []ChartFilter{f}, nil, DateWindow{}, "", "")
	if len(out) != 3 {
		t.Fatalf("expected 3 rows in [150, 450], got %d", len(out))
	}
}

func TestDashboardOperators(t *testing.T) {
	rows := salesRows()

	cases := []struct {
		name   string
		filter DashboardFilter
		want   int
	}{
		{"equals", NewDashboardFilter("region", OpEquals, "North"), 2},
		{"contains", NewDashboardFilter("region", OpContains, "or"), 2},
		{"greater_than", NewDashboardFilter("revenue", OpGreaterThan, 250), 3},
		{"less_than", NewDashboardFilter("revenue", OpLessThan, 250), 2},
		{"between_inclusive", NewDashboardFilter("revenue", OpBetween, []any{200.0, 400.0}), 3},
		{"in", NewDashboardFilter("region", OpIn, []string{"North", "East"}), 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := FilterRows(rows, nil, []DashboardFilter{tc.filter}, DateWindow{}, "", "")
			if len(out) != tc.want {
				t.Errorf("want %d rows, got %d", tc.want, len(out))
			}
		})
	}
}

func TestDashboardFiltersANDCombined(t *testing.T) {
	filters := []DashboardFilter{
		NewDashboardFilter("region", OpEquals, "North"),
		NewDashboardFilter("revenue", OpGreaterThan, 150),
	}
	out := FilterRows(salesRows(), nil, filters, DateWindow{}, "", "")
	if len(out) != 1 {
		t.Fatalf("expected 1 row matching both filters, got %d", len(out))
	}
	if out[0]["revenue"] != 300.0 {
		t.Errorf("wrong row survived: %v", out[0])
	}
}

func TestFilterOutputIsNewCollection(t *testing.T) {
	rows := salesRows()
	out := FilterRows(rows, nil, []DashboardFilter{NewDashboardFilter("region", OpEquals, "North")}, DateWindow{}, "", "")
	if len(out) == len(rows) {
		t.Fatalf("filter did not filter")
	}
	// Input must be untouched.
	if len(rows) != 5 {
		t.Errorf("input slice mutated")
	}
}
