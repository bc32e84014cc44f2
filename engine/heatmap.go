package engine

import (
	"log"
	"sort"
)

// ============================================================================
// HEATMAP — 2-D composite-key aggregation with auto-collapse
// ============================================================================
// Cells group by "xValue|yValue". Rows with a null x or y are dropped.
// Values follow the DROP coercion policy: a cell that does not parse as a
// number is excluded from the aggregate (not zeroed), so averages stay
// honest.
//
// Two collapse rules keep the grid readable:
//   - more than 15 distinct Y categories → keep the top 15 by total value
//   - more than 30 distinct X categories → rebucket X into Sunday-start
//     calendar weeks when X is temporal, otherwise keep the top 30 X
// Both rules are idempotent: collapsing a collapsed grid is a no-op.
// ============================================================================

const (
	maxHeatmapYCategories = 15
	maxHeatmapXCategories = 30
)

// heatmapCell accumulates one (x, y) group.
type heatmapCell struct {
	x, y   any
	sum    float64
	count  int
	min    float64
	max    float64
}

func (c *heatmapCell) add(v float64) {
	if c.count == 0 || v < c.min {
		c.min = v
	}
	if c.count == 0 || v > c.max {
		c.max = v
	}
	c.sum += v
	c.count++
}

func (c *heatmapCell) value(method AggregationMethod) float64 {
	switch method {
	case AggAvg:
		if c.count == 0 {
			return 0
		}
		return c.sum / float64(c.count)
	case AggCount:
		return float64(c.count)
	case AggMin:
		return c.min
	case AggMax:
		return c.max
	default:
		return c.sum
	}
}

// aggregateHeatmap produces one output row per (x, y) cell.
func aggregateHeatmap(rows []Row, mapping FieldMapping) []Row {
	xKey := mapping.XAxis
	yKey := mapping.YAxis
	valueKey := mapping.Value
	if valueKey == "" {
		if ys := mapping.YKeys(); len(ys) > 0 {
			valueKey = ys[len(ys)-1]
		}
	}
	if xKey == "" || yKey == "" || valueKey == "" {
		return nil
	}

	method := mapping.Method()
	if !method.heatmapSupported() {
		log.Printf("vizkit: heatmap does not support %q aggregation, falling back to sum", method)
		method = AggSum
	}

	cells := make(map[string]*heatmapCell)
	order := make([]string, 0)

	for _, row := range rows {
		xv, yv := row[xKey], row[yKey]
		if xv == nil || yv == nil {
			continue
		}
		v, ok := ParseNumber(row[valueKey])
		if !ok {
			continue // drop from aggregate, do not zero
		}

		key := FormatValue(xv) + "|" + FormatValue(yv)
		cell, exists := cells[key]
		if !exists {
			cell = &heatmapCell{x: xv, y: yv}
			cells[key] = cell
			order = append(order, key)
		}
		cell.add(v)
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		c := cells[key]
		out = append(out, Row{xKey: c.x, yKey: c.y, valueKey: c.value(method)})
	}

	out = collapseYCategories(out, xKey, yKey, valueKey)
	out = collapseXCategories(out, xKey, yKey, valueKey)
	return out
}

// ============================================================================
// AUTO-COLLAPSE
// ============================================================================

// collapseYCategories keeps the top-N Y categories by total value.
func collapseYCategories(rows []Row, xKey, yKey, valueKey string) []Row {
	top := topCategories(rows, yKey, valueKey, maxHeatmapYCategories)
	if top == nil {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if top[FormatValue(row[yKey])] {
			out = append(out, row)
		}
	}
	return out
}

// collapseXCategories rebuckets temporal X into calendar weeks, or keeps
// the top-N X categories otherwise.
func collapseXCategories(rows []Row, xKey, yKey, valueKey string) []Row {
	distinct := distinctCount(rows, xKey)
	if distinct <= maxHeatmapXCategories {
		return rows
	}

	if sample, ok := firstNonNull(rows, xKey); ok && IsDateValue(sample) {
		return rebucketWeekly(rows, xKey, yKey, valueKey)
	}

	top := topCategories(rows, xKey, valueKey, maxHeatmapXCategories)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if top[FormatValue(row[xKey])] {
			out = append(out, row)
		}
	}
	return out
}

// rebucketWeekly re-sums cell values per (Sunday-start week, y) pair.
func rebucketWeekly(rows []Row, xKey, yKey, valueKey string) []Row {
	type weekCell struct {
		x, y any
		sum  float64
	}
	cells := make(map[string]*weekCell)
	order := make([]string, 0)

	for _, row := range rows {
		t, ok := ParseDate(row[xKey])
		if !ok {
			continue
		}
		week := BucketDate(t, GranularityWeek)
		key := week.Format("2006-01-02") + "|" + FormatValue(row[yKey])

		cell, exists := cells[key]
		if !exists {
			cell = &weekCell{x: week, y: row[yKey]}
			cells[key] = cell
			order = append(order, key)
		}
		cell.sum += CoerceNumber(row[valueKey])
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		c := cells[key]
		out = append(out, Row{xKey: c.x, yKey: c.y, valueKey: c.sum})
	}
	return out
}

// topCategories returns the top-N category set by total value, or nil
// when the distinct count is already within bounds.
func topCategories(rows []Row, catKey, valueKey string, n int) map[string]bool {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, row := range rows {
		key := FormatValue(row[catKey])
		if _, exists := totals[key]; !exists {
			order = append(order, key)
		}
		totals[key] += CoerceNumber(row[valueKey])
	}
	if len(order) <= n {
		return nil
	}

	sort.SliceStable(order, func(i, j int) bool { return totals[order[i]] > totals[order[j]] })
	top := make(map[string]bool, n)
	for _, key := range order[:n] {
		top[key] = true
	}
	return top
}

func distinctCount(rows []Row, key string) int {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[FormatValue(row[key])] = true
	}
	return len(seen)
}
