package engine

import "math"

// ============================================================================
// DUAL-AXIS RECONCILER — magnitude-disparity detection
// ============================================================================
// Two value series whose maxima differ by an order of magnitude or more
// cannot share one Y scale; the smaller series flattens into the axis.
// The heuristic compares every pair of Y-series maxima and splits the key
// list at its midpoint when any pair's ratio crosses the threshold.
// ============================================================================

// dualAxisRatio is the trigger threshold: max(A)/max(B) ≥ 10 or ≤ 0.1.
const dualAxisRatio = 10.0

// DetectDualAxis decides whether the aggregated series need independent
// Y axes. An explicit yAxis1/yAxis2 pair in the mapping is honored
// verbatim; otherwise the heuristic runs only for bar, line and area
// charts with at least two Y series. Nil means single-axis.
func DetectDualAxis(chartType ChartType, rows []Row, mapping FieldMapping) *DualAxisConfig {
	if mapping.YAxis1 != "" && mapping.YAxis2 != "" {
		return &DualAxisConfig{
			LeftMetrics:  []string{mapping.YAxis1},
			RightMetrics: []string{mapping.YAxis2},
			LeftLabel:    mapping.YAxis1,
			RightLabel:   mapping.YAxis2,
		}
	}

	switch chartType {
	case ChartBar, ChartLine, ChartArea:
	default:
		return nil
	}

	yKeys := mapping.YKeys()
	if mapping.XKey() == "" || len(yKeys) < 2 || len(rows) == 0 {
		return nil
	}

	maxima := make([]float64, len(yKeys))
	for i, key := range yKeys {
		maxima[i] = seriesMax(rows, key)
	}

	triggered := false
	for i := 0; i < len(maxima) && !triggered; i++ {
		for j := i + 1; j < len(maxima); j++ {
			a, b := maxima[i], maxima[j]
			if a == 0 || b == 0 || math.IsNaN(a) || math.IsNaN(b) {
				continue
			}
			ratio := a / b
			if ratio >= dualAxisRatio || ratio <= 1/dualAxisRatio {
				triggered = true
				break
			}
		}
	}
	if !triggered {
		return nil
	}

	mid := (len(yKeys) + 1) / 2
	left := append([]string(nil), yKeys[:mid]...)
	right := append([]string(nil), yKeys[mid:]...)

	return &DualAxisConfig{
		LeftMetrics:  left,
		RightMetrics: right,
		LeftLabel:    joinKeys(left),
		RightLabel:   joinKeys(right),
	}
}

// seriesMax scans a metric column for its largest finite value.
func seriesMax(rows []Row, key string) float64 {
	var m float64
	for _, row := range rows {
		v := CoerceNumber(row[key])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if math.Abs(v) > math.Abs(m) {
			m = v
		}
	}
	return m
}

func joinKeys(keys []string) string {
	switch len(keys) {
	case 0:
		return ""
	case 1:
		return keys[0]
	}
	out := keys[0]
	for _, k := range keys[1:] {
		out += " / " + k
	}
	return out
}
