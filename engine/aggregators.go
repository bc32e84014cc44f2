package engine

import (
	"log"
	"math"
	"sort"
)

// ============================================================================
// AGGREGATION ENGINE — type-dispatched per chart kind
// ============================================================================
// Pipeline: row cap → formula → chronological sort → per-type aggregation.
//
// The row cap guards rendering performance. Scorecard, gauge, heatmap and
// treemap are exempt: their aggregation depends on full category coverage,
// so they always see the complete filtered set.
// ============================================================================

// maxChartRows caps input size for capped chart types.
const maxChartRows = 1000

// Aggregate produces the final row set to visualize for one chart.
// It never panics and never returns an error: malformed values degrade
// per the numeric-coercion policies in numbers.go.
func Aggregate(rows []Row, chartType ChartType, mapping FieldMapping) []Row {
	if len(rows) == 0 {
		return nil
	}

	working := rows
	if !chartType.needsFullRowSet() && len(working) > maxChartRows {
		log.Printf("vizkit: capping %d rows to %d for %s chart", len(working), maxChartRows, chartType)
		working = working[:maxChartRows]
	}

	// Formula scorecards replace the working set with one derived row.
	// Evaluation failures keep the prior working set so the chart still
	// renders its last-good state.
	if mapping.Formula != "" && mapping.FormulaAlias != "" {
		derived, err := EvaluateFormula(working, mapping.Formula, mapping.FormulaAlias)
		if err != nil {
			log.Printf("vizkit: formula %q failed: %v", mapping.Formula, err)
		} else {
			working = derived
		}
	}

	working = sortChronological(working, mapping.XKey())

	switch chartType {
	case ChartLine, ChartArea, ChartCombo:
		return aggregate1D(working, mapping.XKey(), mapping.YKeys(), mapping.Method(), mapping.Percentile)

	case ChartBar:
		out := aggregate1D(working, mapping.XKey(), mapping.YKeys(), mapping.Method(), mapping.Percentile)
		return applyTopBottomN(out, mapping)

	case ChartPie, ChartTreemap:
		key := mapping.Category
		if key == "" {
			key = mapping.XKey()
		}
		return aggregate1D(working, key, mapping.YKeys(), mapping.Method(), mapping.Percentile)

	case ChartScatter:
		return coerceMetrics(working, mapping.YKeys())

	case ChartHeatmap:
		return aggregateHeatmap(working, mapping)

	case ChartScorecard, ChartGauge:
		return aggregateScalar(working, mapping)
	}

	return working
}

// ============================================================================
// 1-D GROUPED AGGREGATION (line / bar / area / combo / pie / treemap)
// ============================================================================

// aggregate1D groups by the X key and collapses every Y key per group.
// Group order preserves first appearance, which is chronological when the
// input was date-sorted.
func aggregate1D(rows []Row, xKey string, yKeys []string, method AggregationMethod, percentile float64) []Row {
	if xKey == "" || len(yKeys) == 0 {
		return rows
	}

	grouped := make(map[string][]Row)
	order := make([]string, 0)
	firstCell := make(map[string]any)

	for _, row := range rows {
		key := FormatValue(row[xKey])
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
			firstCell[key] = row[xKey]
		}
		grouped[key] = append(grouped[key], row)
	}

	out := make([]Row, 0, len(order))
	for _, key := range order {
		agg := Row{xKey: firstCell[key]}
		for _, yKey := range yKeys {
			agg[yKey] = aggregateColumn(grouped[key], yKey, method, percentile)
		}
		out = append(out, agg)
	}
	return out
}

// aggregateColumn collapses one metric column of a group. Cells use the
// zero-fallback coercion policy.
func aggregateColumn(rows []Row, key string, method AggregationMethod, percentile float64) float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		values = append(values, CoerceNumber(row[key]))
	}
	return reduce(values, method, percentile)
}

// reduce implements the full declared aggregation set.
func reduce(values []float64, method AggregationMethod, percentile float64) float64 {
	if len(values) == 0 {
		return 0
	}

	switch method {
	case AggCount:
		return float64(len(values))

	case AggAvg:
		return sum(values) / float64(len(values))

	case AggMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m

	case AggMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m

	case AggDistinct:
		seen := make(map[float64]bool, len(values))
		for _, v := range values {
			seen[v] = true
		}
		return float64(len(seen))

	case AggMedian:
		return quantile(values, 50)

	case AggPercentile:
		if percentile <= 0 {
			percentile = 50
		}
		return quantile(values, percentile)

	case AggMode:
		counts := make(map[float64]int, len(values))
		best, bestCount := values[0], 0
		for _, v := range values {
			counts[v]++
			if counts[v] > bestCount {
				best, bestCount = v, counts[v]
			}
		}
		return best

	case AggStd:
		return math.Sqrt(variance(values))

	case AggVariance:
		return variance(values)

	default: // AggSum and unset
		return sum(values)
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func variance(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	mean := sum(values) / n
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / n
}

// quantile returns the p-th percentile with linear interpolation.
func quantile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ============================================================================
// CHRONOLOGICAL SORT
// ============================================================================

// sortChronological sorts ascending by parsed date when the X field's
// first sampled value is a date. Ties keep their input order.
func sortChronological(rows []Row, xKey string) []Row {
	if xKey == "" || len(rows) == 0 {
		return rows
	}

	sample, ok := firstNonNull(rows, xKey)
	if !ok || !IsDateValue(sample) {
		return rows
	}

	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		ti, oki := ParseDate(out[i][xKey])
		tj, okj := ParseDate(out[j][xKey])
		if !oki || !okj {
			return okj && !oki
		}
		return ti.Before(tj)
	})
	return out
}

func firstNonNull(rows []Row, key string) (any, bool) {
	for _, row := range rows {
		if v, ok := row[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// ============================================================================
// BAR TOP/BOTTOM-N
// ============================================================================

// applyTopBottomN ranks aggregated rows by the sortBy column (parsed
// currency-aware) descending, slices to the limit, and re-reverses the
// bottom-N slice so the smallest value displays first.
func applyTopBottomN(rows []Row, mapping FieldMapping) []Row {
	if mapping.SortBy == "" {
		return rows
	}

	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return CoerceNumber(out[i][mapping.SortBy]) > CoerceNumber(out[j][mapping.SortBy])
	})

	bottom := mapping.SortOrder == "asc"
	if mapping.Limit > 0 && len(out) > mapping.Limit {
		if bottom {
			out = out[len(out)-mapping.Limit:]
		} else {
			out = out[:mapping.Limit]
		}
	}

	if bottom {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// ============================================================================
// SCATTER PASS-THROUGH + SCALAR CHARTS
// ============================================================================

// coerceMetrics copies rows with metric cells coerced to numbers
// (zero-fallback policy).
func coerceMetrics(rows []Row, yKeys []string) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		next := row.Clone()
		for _, key := range yKeys {
			next[key] = CoerceNumber(row[key])
		}
		out = append(out, next)
	}
	return out
}

// aggregateScalar collapses the whole set into a single row for
// scorecards and gauges. A formula stage that already produced one row
// passes through unchanged.
func aggregateScalar(rows []Row, mapping FieldMapping) []Row {
	if len(rows) == 1 {
		return rows
	}

	key := mapping.Value
	if key == "" {
		if ys := mapping.YKeys(); len(ys) > 0 {
			key = ys[0]
		}
	}
	if key == "" {
		return rows
	}

	return []Row{{key: aggregateColumn(rows, key, mapping.Method(), mapping.Percentile)}}
}
