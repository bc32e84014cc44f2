// Package schema classifies dataset columns and produces the
// system-suggested field mapping that engine.MergeMappings combines with
// the user's override.
package schema

import (
	"strings"

	"github.com/vizkit-org/vizkit/engine"
)

// ============================================================================
// COLUMN CLASSIFICATION
// ============================================================================
// Heuristic, no AI: sample values → type; type + cardinality → role.
// Dimension = groupable category, Measure = aggregatable number, Skipped =
// IDs and free text that would make useless axes.
// ============================================================================

// ColumnType is the detected value type of a column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeNumber ColumnType = "number"
	TypeBool   ColumnType = "bool"
	TypeDate   ColumnType = "date"
)

// ColumnRole classifies how a column can be used in a mapping.
type ColumnRole string

const (
	RoleDimension ColumnRole = "dimension"
	RoleMeasure   ColumnRole = "measure"
	RoleSkipped   ColumnRole = "skipped"
)

// Column describes one classified dataset column.
type Column struct {
	Name        string     `json:"name"`
	Type        ColumnType `json:"type"`
	Role        ColumnRole `json:"role"`
	UniqueCount int        `json:"uniqueCount"`
	NullCount   int        `json:"nullCount"`
	SkipReason  string     `json:"skipReason,omitempty"`
	Samples     []string   `json:"samples,omitempty"`
}

// typeThreshold: share of non-null values that must match for a
// numeric/date/bool classification.
const typeThreshold = 0.8

const maxSamples = 10

// AnalyzeColumns classifies every column of the dataset.
func AnalyzeColumns(ds engine.Dataset) []Column {
	out := make([]Column, 0, len(ds.Columns))
	for _, name := range ds.Columns {
		out = append(out, analyzeColumn(name, ds.Rows))
	}
	return out
}

func analyzeColumn(name string, rows []engine.Row) Column {
	col := Column{Name: name}

	unique := make(map[string]bool)
	var values []any
	for _, row := range rows {
		v, ok := row[name]
		if !ok || v == nil || isNullText(v) {
			col.NullCount++
			continue
		}
		values = append(values, v)
		key := engine.FormatValue(v)
		if !unique[key] {
			unique[key] = true
			if len(col.Samples) < maxSamples {
				col.Samples = append(col.Samples, key)
			}
		}
	}
	col.UniqueCount = len(unique)

	if len(values) == 0 {
		col.Type = TypeString
		col.Role = RoleSkipped
		col.SkipReason = "all values are empty"
		return col
	}

	col.Type = detectType(values)
	col.Role, col.SkipReason = classifyRole(col.Type, col.UniqueCount, len(values))
	return col
}

func isNullText(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "n/a", "na", "-":
		return true
	}
	return false
}

func detectType(values []any) ColumnType {
	nums, dates, bools := 0, 0, 0
	for _, v := range values {
		if _, ok := engine.ParseNumber(v); ok {
			nums++
		}
		if engine.IsDateValue(v) {
			dates++
		}
		if isBoolValue(v) {
			bools++
		}
	}

	threshold := int(float64(len(values)) * typeThreshold)
	switch {
	case bools >= threshold:
		return TypeBool
	case dates >= threshold:
		return TypeDate
	case nums >= threshold:
		return TypeNumber
	}
	return TypeString
}

func isBoolValue(v any) bool {
	if _, ok := v.(bool); ok {
		return true
	}
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func classifyRole(t ColumnType, uniqueCount, totalCount int) (ColumnRole, string) {
	switch t {
	case TypeNumber:
		if uniqueCount == totalCount && totalCount > 10 {
			return RoleSkipped, "unique per row, likely an ID column"
		}
		// Few distinct integers at a low ratio reads as a coded
		// category (priority 1-5), not a measure.
		ratio := float64(uniqueCount) / float64(totalCount)
		if uniqueCount < 20 && ratio < 0.3 {
			return RoleDimension, ""
		}
		return RoleMeasure, ""

	case TypeDate:
		return RoleDimension, ""

	case TypeBool:
		return RoleDimension, ""

	default:
		if uniqueCount == totalCount && totalCount > 10 {
			return RoleSkipped, "unique per row, likely an identifier"
		}
		if uniqueCount > totalCount/2 && uniqueCount > 50 {
			return RoleSkipped, "high cardinality, not useful for grouping"
		}
		return RoleDimension, ""
	}
}
