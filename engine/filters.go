package engine

import (
	"sort"
	"strings"
	"time"
)

// ============================================================================
// ROW FILTER — chart filters, dashboard filters, date window, bucketing
// ============================================================================
// Stage order:
//   1. Chart-scoped filters (date_aggregation, categorical, numeric_range),
//      active ones only, before anything else.
//   2. Dashboard-scoped operator filters, AND-combined.
//   3. The shared date window (inclusive, day granularity). Rows with a
//      null cell in the date column are EXCLUDED while a window is active.
//   4. Granularity bucketing — ONLY when a date window is active. An
//      unfiltered full-history view must keep every raw row so that
//      scorecard-style aggregates stay correct.
//
// Output is always a new slice; input rows are never mutated.
// ============================================================================

// FilterRows applies chart filters, dashboard filters and the shared date
// window, in that order. dateColumn may be empty, in which case the first
// detected date column is auto-selected.
func FilterRows(rows []Row, chartFilters []ChartFilter, dashboardFilters []DashboardFilter, window DateWindow, dateColumn string, granularity Granularity) []Row {
	out := applyChartFilters(rows, chartFilters)
	out = applyDashboardFilters(out, dashboardFilters)

	if !window.IsActive() {
		return out
	}

	if dateColumn == "" {
		dateColumn = detectFirstDateColumn(out)
		if dateColumn == "" {
			return out
		}
	}

	out = applyDateWindow(out, window, dateColumn)
	if granularity != "" {
		out = bucketRows(out, dateColumn, granularity)
	}
	return out
}

// detectFirstDateColumn scans the columns present on the first row in
// insertion-independent (sorted) order and picks the first date column.
func detectFirstDateColumn(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return DetectDateColumn(cols, rows)
}

// ============================================================================
// CHART-SCOPED FILTERS
// ============================================================================

func applyChartFilters(rows []Row, filters []ChartFilter) []Row {
	out := rows
	for _, f := range filters {
		if !f.IsActive {
			continue
		}
		switch f.Type {
		case FilterCategorical:
			out = filterCategorical(out, f)
		case FilterNumericRange:
			out = filterNumericRange(out, f)
		case FilterDateAggregation:
			out = filterDateAggregation(out, f)
		}
	}
	return out
}

func filterCategorical(rows []Row, f ChartFilter) []Row {
	if len(f.Include) == 0 {
		return rows
	}
	allowed := toLowerSet(f.Include)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if allowed[strings.ToLower(FormatValue(row[f.Column]))] {
			out = append(out, row)
		}
	}
	return out
}

func filterNumericRange(rows []Row, f ChartFilter) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		v, ok := ParseNumber(row[f.Column])
		if !ok {
			continue
		}
		if f.Min != nil && v < *f.Min {
			continue
		}
		if f.Max != nil && v > *f.Max {
			continue
		}
		out = append(out, row)
	}
	return out
}

// filterDateAggregation applies the filter's own window and, only when
// that window is set, its granularity bucketing.
func filterDateAggregation(rows []Row, f ChartFilter) []Row {
	w := DateWindow{From: f.From, To: f.To}
	if !w.IsActive() {
		return rows
	}
	out := applyDateWindow(rows, w, f.Column)
	if f.Granularity != "" {
		out = bucketRows(out, f.Column, f.Granularity)
	}
	return out
}

// ============================================================================
// DASHBOARD-SCOPED FILTERS
// ============================================================================

func applyDashboardFilters(rows []Row, filters []DashboardFilter) []Row {
	active := make([]DashboardFilter, 0, len(filters))
	for _, f := range filters {
		if f.IsActive {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return rows
	}

	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		pass := true
		for _, f := range active {
			if !matchOperator(row[f.Column], f.Operator, f.Value) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, row)
		}
	}
	return out
}

func matchOperator(cell any, op FilterOperator, want any) bool {
	switch op {
	case OpEquals:
		if cn, ok1 := ParseNumber(cell); ok1 {
			if wn, ok2 := ParseNumber(want); ok2 {
				return cn == wn
			}
		}
		return strings.EqualFold(FormatValue(cell), FormatValue(want))

	case OpContains:
		return strings.Contains(strings.ToLower(FormatValue(cell)), strings.ToLower(FormatValue(want)))

	case OpGreaterThan:
		cn, ok1 := ParseNumber(cell)
		wn, ok2 := ParseNumber(want)
		return ok1 && ok2 && cn > wn

	case OpLessThan:
		cn, ok1 := ParseNumber(cell)
		wn, ok2 := ParseNumber(want)
		return ok1 && ok2 && cn < wn

	case OpBetween:
		bounds, ok := asPair(want)
		if !ok {
			return false
		}
		cn, okc := ParseNumber(cell)
		return okc && cn >= bounds[0] && cn <= bounds[1]

	case OpIn:
		list, ok := asList(want)
		if !ok {
			return false
		}
		cellStr := strings.ToLower(FormatValue(cell))
		for _, item := range list {
			if strings.EqualFold(FormatValue(item), cellStr) {
				return true
			}
		}
		return false
	}
	return false
}

// asPair reads [min, max] from a 2-element list.
func asPair(v any) ([2]float64, bool) {
	list, ok := asList(v)
	if !ok || len(list) != 2 {
		return [2]float64{}, false
	}
	lo, ok1 := ParseNumber(list[0])
	hi, ok2 := ParseNumber(list[1])
	if !ok1 || !ok2 {
		return [2]float64{}, false
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return [2]float64{lo, hi}, true
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}

// ============================================================================
// DATE WINDOW + BUCKETING
// ============================================================================

// applyDateWindow keeps rows whose date cell falls inside the inclusive
// window. Null and unparseable cells are excluded.
func applyDateWindow(rows []Row, w DateWindow, dateColumn string) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		t, ok := ParseDate(row[dateColumn])
		if !ok {
			continue
		}
		if withinWindow(t, w) {
			out = append(out, row)
		}
	}
	return out
}

// bucketRows collapses rows into granularity buckets: one output row per
// bucket, numeric cells summed, other cells taken from the first row of
// the bucket, the date cell replaced by the bucket start. Output is
// sorted ascending by the date column.
func bucketRows(rows []Row, dateColumn string, g Granularity) []Row {
	type bucket struct {
		start time.Time
		row   Row
	}
	grouped := make(map[string]*bucket)
	order := make([]string, 0)

	for _, row := range rows {
		t, ok := ParseDate(row[dateColumn])
		if !ok {
			continue
		}
		start := BucketDate(t, g)
		key := BucketLabel(start, g)

		b, exists := grouped[key]
		if !exists {
			merged := row.Clone()
			merged[dateColumn] = start
			grouped[key] = &bucket{start: start, row: merged}
			order = append(order, key)
			continue
		}
		for col, v := range row {
			if col == dateColumn {
				continue
			}
			if add, ok := ParseNumber(v); ok {
				if prev, ok2 := ParseNumber(b.row[col]); ok2 {
					b.row[col] = prev + add
				}
			}
		}
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		out = append(out, grouped[key].row)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, _ := ParseDate(out[i][dateColumn])
		tj, _ := ParseDate(out[j][dateColumn])
		return ti.Before(tj)
	})
	return out
}
