package schema

import "github.com/vizkit-org/vizkit/engine"

// ============================================================================
// MAPPING SUGGESTION
// ============================================================================
// SuggestMapping builds the system-suggested FieldMapping for a chart
// type from classified columns. The user override, merged on top by
// engine.MergeMappings, always wins per-field.
// ============================================================================

// SuggestMapping proposes role assignments for one chart type.
// Returns a zero mapping when the dataset lacks the roles the chart
// needs, which the caller treats as "unconfigured".
func SuggestMapping(columns []Column, chartType engine.ChartType) engine.FieldMapping {
	dates := pick(columns, func(c Column) bool { return c.Type == TypeDate && c.Role == RoleDimension })
	dims := pick(columns, func(c Column) bool { return c.Type != TypeDate && c.Role == RoleDimension })
	measures := pick(columns, func(c Column) bool { return c.Role == RoleMeasure })

	var m engine.FieldMapping
	m.Aggregation = engine.AggSum

	switch chartType {
	case engine.ChartLine, engine.ChartArea, engine.ChartCombo, engine.ChartBar:
		// Prefer a temporal X axis; fall back to the first category.
		if len(dates) > 0 {
			m.XAxis = dates[0]
		} else if len(dims) > 0 {
			m.XAxis = dims[0]
		}
		if len(measures) > 0 {
			m.YAxis = measures[0]
		}
		if chartType == engine.ChartCombo && len(measures) > 1 {
			m.Values = measures[1:min(len(measures), 3)]
		}

	case engine.ChartPie, engine.ChartTreemap:
		if len(dims) > 0 {
			m.Category = dims[0]
		}
		if len(measures) > 0 {
			m.Value = measures[0]
		}

	case engine.ChartHeatmap:
		if len(dates) > 0 {
			m.XAxis = dates[0]
		} else if len(dims) > 0 {
			m.XAxis = dims[0]
		}
		for _, d := range dims {
			if d != m.XAxis {
				m.YAxis = d
				break
			}
		}
		if len(measures) > 0 {
			m.Value = measures[0]
		}

	case engine.ChartScatter:
		if len(measures) > 0 {
			m.XAxis = measures[0]
		}
		if len(measures) > 1 {
			m.YAxis = measures[1]
		}

	case engine.ChartScorecard, engine.ChartGauge:
		if len(measures) > 0 {
			m.Value = measures[0]
		}
	}

	return m
}

func pick(columns []Column, keep func(Column) bool) []string {
	var out []string
	for _, c := range columns {
		if keep(c) {
			out = append(out, c.Name)
		}
	}
	return out
}
