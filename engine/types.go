package engine

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// VIZKIT ENGINE TYPES — Chart Data Transformation
// ============================================================================
// A Row is one record of the loaded dataset: named scalar cells.
// Cell values are one of: string, float64, bool, time.Time, nil.
//
// Every pipeline stage produces NEW row collections — rows are never
// mutated in place, so callers may hold references to prior outputs.
// ============================================================================

// Row is a single data row mapping column name to a scalar cell.
type Row map[string]any

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is a raw row collection plus its inferred column order.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartType identifies the visualization shape. The aggregation engine
// dispatches over this enum; adding a type means extending Aggregate.
type ChartType string

const (
	ChartLine      ChartType = "line"
	ChartBar       ChartType = "bar"
	ChartArea      ChartType = "area"
	ChartCombo     ChartType = "combo"
	ChartPie       ChartType = "pie"
	ChartScatter   ChartType = "scatter"
	ChartHeatmap   ChartType = "heatmap"
	ChartTreemap   ChartType = "treemap"
	ChartScorecard ChartType = "scorecard"
	ChartGauge     ChartType = "gauge"
)

// needsFullRowSet reports whether the chart type's aggregation depends on
// complete category coverage and therefore must not be row-capped.
func (t ChartType) needsFullRowSet() bool {
	switch t {
	case ChartScorecard, ChartGauge, ChartHeatmap, ChartTreemap:
		return true
	}
	return false
}

// ============================================================================
// AGGREGATION METHODS
// ============================================================================

// AggregationMethod selects how grouped values collapse to one number.
type AggregationMethod string

const (
	AggSum        AggregationMethod = "sum"
	AggAvg        AggregationMethod = "avg"
	AggCount      AggregationMethod = "count"
	AggMin        AggregationMethod = "min"
	AggMax        AggregationMethod = "max"
	AggDistinct   AggregationMethod = "distinct"
	AggMedian     AggregationMethod = "median"
	AggMode       AggregationMethod = "mode"
	AggStd        AggregationMethod = "std"
	AggVariance   AggregationMethod = "variance"
	AggPercentile AggregationMethod = "percentile"
)

// heatmapSupported reports whether the 2-D path implements this method.
// The 2-D grid accepts only the basic five; everything else warns and
// falls back to sum at the call site.
func (m AggregationMethod) heatmapSupported() bool {
	switch m {
	case AggSum, AggAvg, AggCount, AggMin, AggMax:
		return true
	}
	return false
}

// ============================================================================
// FIELD MAPPING
// ============================================================================

// FieldMapping assigns semantic roles to column names for one chart.
// Two sources exist — a system-suggested mapping (schema package) and a
// user override — merged by MergeMappings with the override winning
// per-field.
type FieldMapping struct {
	XAxis    string `json:"xAxis,omitempty"`
	YAxis    string `json:"yAxis,omitempty"`
	YAxis1   string `json:"yAxis1,omitempty"`
	YAxis2   string `json:"yAxis2,omitempty"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value,omitempty"`

	// Values lists additional metric columns, flattened into the Y key
	// list alongside yAxis/yAxis1/yAxis2.
	Values []string `json:"values,omitempty"`

	// Formula scorecards: evaluate Formula over the row set and emit a
	// single derived row keyed by FormulaAlias.
	Formula      string `json:"formula,omitempty"`
	FormulaAlias string `json:"formulaAlias,omitempty"`

	// Bar top/bottom-N.
	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"` // "asc" (bottom-N) or "desc" (top-N)
	Limit     int    `json:"limit,omitempty"`

	Aggregation AggregationMethod `json:"aggregation,omitempty"`

	// Percentile rank in [0,100], used only when Aggregation is
	// "percentile". Zero means median.
	Percentile float64 `json:"percentile,omitempty"`
}

// ============================================================================
// FILTERS
// ============================================================================

// ChartFilterType enumerates chart-scoped filter kinds.
type ChartFilterType string

const (
	FilterDateAggregation ChartFilterType = "date_aggregation"
	FilterCategorical     ChartFilterType = "categorical"
	FilterNumericRange    ChartFilterType = "numeric_range"
)

// Granularity is the time-bucket size for date collapsing.
type Granularity string

const (
	GranularityDay     Granularity = "day"
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// ChartFilter is scoped to one chart. Only active filters affect output.
type ChartFilter struct {
	ID       string          `json:"id"`
	Type     ChartFilterType `json:"type"`
	Column   string          `json:"column"`
	IsActive bool            `json:"isActive"`

	// date_aggregation
	From        *time.Time  `json:"from,omitempty"`
	To          *time.Time  `json:"to,omitempty"`
	Granularity Granularity `json:"granularity,omitempty"`

	// categorical
	Include []string `json:"include,omitempty"`

	// numeric_range
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// NewChartFilter creates an active chart filter with a fresh ID.
func NewChartFilter(t ChartFilterType, column string) ChartFilter {
	return ChartFilter{ID: uuid.NewString(), Type: t, Column: column, IsActive: true}
}

// FilterOperator enumerates dashboard filter comparison semantics.
type FilterOperator string

const (
	OpEquals      FilterOperator = "equals"
	OpContains    FilterOperator = "contains"
	OpGreaterThan FilterOperator = "greater_than"
	OpLessThan    FilterOperator = "less_than"
	OpBetween     FilterOperator = "between"
	OpIn          FilterOperator = "in"
)

// DashboardFilter is scoped to the whole dashboard. Active filters are
// AND-combined across columns.
type DashboardFilter struct {
	ID       string         `json:"id"`
	Column   string         `json:"column"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"` // scalar, [min,max] for between, list for in
	IsActive bool           `json:"isActive"`
}

// NewDashboardFilter creates an active dashboard filter with a fresh ID.
func NewDashboardFilter(column string, op FilterOperator, value any) DashboardFilter {
	return DashboardFilter{ID: uuid.NewString(), Column: column, Operator: op, Value: value, IsActive: true}
}

// DateWindow is the cross-cutting active date range shared by all charts.
// Bounds are inclusive and compared at day granularity.
type DateWindow struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// IsActive reports whether at least one bound is set.
func (w DateWindow) IsActive() bool { return w.From != nil || w.To != nil }

// ============================================================================
// DUAL AXIS
// ============================================================================

// DualAxisConfig assigns metrics to independent left/right Y axes.
// A nil config means single-axis.
type DualAxisConfig struct {
	LeftMetrics  []string `json:"leftMetrics"`
	RightMetrics []string `json:"rightMetrics"`
	LeftLabel    string   `json:"leftLabel"`
	RightLabel   string   `json:"rightLabel"`
}

// ============================================================================
// CHART CONFIG — one chart's full transformation input
// ============================================================================

// ChartConfig bundles everything the pipeline needs for one chart besides
// the dataset itself and the container geometry.
type ChartConfig struct {
	Type             ChartType         `json:"type"`
	Mapping          FieldMapping      `json:"mapping"`
	ChartFilters     []ChartFilter     `json:"chartFilters,omitempty"`
	DashboardFilters []DashboardFilter `json:"dashboardFilters,omitempty"`
	DateWindow       DateWindow        `json:"dateWindow"`
	DateColumn       string            `json:"dateColumn,omitempty"` // empty → auto-detect
	Granularity      Granularity       `json:"granularity,omitempty"`

	// LabelRotation is the user's axis label preference:
	// "auto", "horizontal", "diagonal" or "vertical". Empty means auto.
	LabelRotation string `json:"labelRotation,omitempty"`
}

// IsConfigured reports whether the mapping names at least one axis role.
// An unconfigured chart is not an error; the caller renders a placeholder.
func (c ChartConfig) IsConfigured() bool {
	m := c.Mapping
	return m.XAxis != "" || m.Category != "" || m.YAxis != "" || m.Value != "" ||
		len(m.Values) > 0 || (m.Formula != "" && m.FormulaAlias != "")
}
