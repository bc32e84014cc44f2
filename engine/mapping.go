package engine

// ============================================================================
// FIELD MAPPING MERGE + AXIS KEY RESOLUTION
// ============================================================================
// Two mapping sources exist: the system suggestion (schema package) and
// the user override. MergeMappings is a pure shallow merge — the override
// wins for every field it sets. Neither input is mutated.
// ============================================================================

// MergeMappings combines a suggested mapping with a user override.
// Override fields that are set (non-zero) replace the suggestion per-field.
func MergeMappings(suggested, override FieldMapping) FieldMapping {
	out := suggested

	if override.XAxis != "" {
		out.XAxis = override.XAxis
	}
	if override.YAxis != "" {
		out.YAxis = override.YAxis
	}
	if override.YAxis1 != "" {
		out.YAxis1 = override.YAxis1
	}
	if override.YAxis2 != "" {
		out.YAxis2 = override.YAxis2
	}
	if override.Category != "" {
		out.Category = override.Category
	}
	if override.Value != "" {
		out.Value = override.Value
	}
	if len(override.Values) > 0 {
		out.Values = append([]string(nil), override.Values...)
	}
	if override.Formula != "" {
		out.Formula = override.Formula
	}
	if override.FormulaAlias != "" {
		out.FormulaAlias = override.FormulaAlias
	}
	if override.SortBy != "" {
		out.SortBy = override.SortBy
	}
	if override.SortOrder != "" {
		out.SortOrder = override.SortOrder
	}
	if override.Limit != 0 {
		out.Limit = override.Limit
	}
	if override.Aggregation != "" {
		out.Aggregation = override.Aggregation
	}
	if override.Percentile != 0 {
		out.Percentile = override.Percentile
	}

	return out
}

// XKey resolves the grouping key for a mapping: xAxis for axis charts,
// category for category charts.
func (m FieldMapping) XKey() string {
	if m.XAxis != "" {
		return m.XAxis
	}
	return m.Category
}

// YKeys flattens yAxis, yAxis1, yAxis2, value and values into one
// deduplicated metric key list, preserving first-seen order.
func (m FieldMapping) YKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	add(m.YAxis)
	add(m.YAxis1)
	add(m.YAxis2)
	add(m.Value)
	for _, k := range m.Values {
		add(k)
	}
	return keys
}

// ResolvedKeys returns the X key followed by all Y keys — the column set
// the renderer plots.
func (m FieldMapping) ResolvedKeys() []string {
	var keys []string
	if x := m.XKey(); x != "" {
		keys = append(keys, x)
	}
	return append(keys, m.YKeys()...)
}

// Method returns the configured aggregation, defaulting to sum.
func (m FieldMapping) Method() AggregationMethod {
	if m.Aggregation == "" {
		return AggSum
	}
	return m.Aggregation
}
