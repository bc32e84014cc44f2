package layout

// ============================================================================
// CONTAINER SIZING + FEATURE GATING
// ============================================================================
// Width breakpoints gate visual features: legend and grid need at least a
// medium container, secondary labels need a large one. Below the small
// breakpoint the chart signals a too-small fallback instead of computing
// geometry.
// ============================================================================

// Width breakpoints in pixels.
const (
	BreakpointSmall  = 320
	BreakpointMedium = 480
	BreakpointLarge  = 720
)

// Container is the host surface's current pixel dimensions.
type Container struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ContainerSizing is the derived sizing state, recomputed (debounced)
// whenever the host container resizes.
type ContainerSizing struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	MeetsMinimums bool    `json:"meetsMinimums"`
	IsConstrained bool    `json:"isConstrained"`
}

// Features flags which visual elements fit the current container.
type Features struct {
	ShowLegend          bool `json:"showLegend"`
	ShowGrid            bool `json:"showGrid"`
	ShowSecondaryLabels bool `json:"showSecondaryLabels"`
	TooSmall            bool `json:"tooSmall"`
}

// minDims holds per-chart-type minimum dimensions.
type minDims struct {
	width, height float64
}

var chartMinimums = map[string]minDims{
	"line":      {280, 180},
	"bar":       {280, 180},
	"area":      {280, 180},
	"combo":     {320, 200},
	"pie":       {220, 220},
	"scatter":   {280, 200},
	"heatmap":   {360, 240},
	"treemap":   {300, 220},
	"scorecard": {140, 90},
	"gauge":     {180, 140},
}

var defaultMinimums = minDims{280, 180}

// ComputeSizing derives ContainerSizing for a chart type from the raw
// container dimensions.
func ComputeSizing(chartType string, c Container) ContainerSizing {
	min, ok := chartMinimums[chartType]
	if !ok {
		min = defaultMinimums
	}
	return ContainerSizing{
		Width:         c.Width,
		Height:        c.Height,
		MeetsMinimums: c.Width >= min.width && c.Height >= min.height,
		IsConstrained: c.Width < BreakpointMedium || c.Height < min.height*1.25,
	}
}

// ComputeFeatures gates feature flags at the width breakpoints.
func ComputeFeatures(s ContainerSizing) Features {
	if s.Width < BreakpointSmall || !s.MeetsMinimums {
		return Features{TooSmall: true}
	}
	return Features{
		ShowLegend:          s.Width >= BreakpointMedium,
		ShowGrid:            s.Width >= BreakpointMedium,
		ShowSecondaryLabels: s.Width >= BreakpointLarge,
	}
}
