package layout

import (
	"math"

	"golang.org/x/image/font"
)

// ============================================================================
// AXIS GEOMETRY — rotation, margins, label interval
// ============================================================================
// An explicit user rotation preference applies a fixed margin formula.
// Auto mode samples up to 15 labels, measures their pixel widths, and
// rotates only when the estimated label footprint exceeds the available
// plot width. Margins derive from the measured widths, each clamped:
// bottom ≤ min(25% of height, 80px), left ≤ 20% of width.
// ============================================================================

// RotationPref is the user's label rotation preference.
type RotationPref string

const (
	RotationAuto       RotationPref = "auto"
	RotationHorizontal RotationPref = "horizontal"
	RotationDiagonal   RotationPref = "diagonal"
	RotationVertical   RotationPref = "vertical"
)

// AxisLayout is the derived axis geometry, a pure function of the
// aggregated labels, container size and rotation preference.
type AxisLayout struct {
	RotationDegrees int     `json:"rotationDegrees"`
	BottomMargin    float64 `json:"bottomMargin"`
	LeftMargin      float64 `json:"leftMargin"`
	RightMargin     float64 `json:"rightMargin"`
	TopMargin       float64 `json:"topMargin"`

	// XAxisInterval is how many labels to skip between shown ticks:
	// 0 shows every label, N shows every (N+1)th. A value of count-1
	// degrades to start/end-only.
	XAxisInterval int `json:"xAxisInterval"`
}

const (
	labelGap          = 8
	labelSampleLimit  = 15
	baseBottomMargin  = 28
	baseTopMargin     = 16
	baseRightMargin   = 16
	dualAxisRightPad  = 48
	longLabelRunes    = 12
	maxBottomMarginPx = 80
)

// ComputeAxisLayout derives axis geometry for the current container.
// xLabels are the category labels in display order; yLabels are the
// formatted tick labels of the value axis (used for the left margin).
func ComputeAxisLayout(face font.Face, xLabels, yLabels []string, width, height float64, pref RotationPref, hasRightAxis bool) AxisLayout {
	out := AxisLayout{
		TopMargin:   baseTopMargin,
		RightMargin: baseRightMargin,
	}
	if hasRightAxis {
		out.RightMargin = dualAxisRightPad
	}

	out.LeftMargin = clamp(maxLabelWidth(face, yLabels)+16, 40, width*0.20)

	sampled := sampleLabels(xLabels, labelSampleLimit)
	maxW := maxLabelWidth(face, sampled)
	bottomCap := math.Min(height*0.25, maxBottomMarginPx)

	switch pref {
	case RotationHorizontal:
		out.RotationDegrees = 0
		out.BottomMargin = clamp(40, baseBottomMargin, bottomCap)
	case RotationDiagonal:
		out.RotationDegrees = -45
		out.BottomMargin = clamp(70, baseBottomMargin, bottomCap)
	case RotationVertical:
		out.RotationDegrees = -90
		out.BottomMargin = clamp(90, baseBottomMargin, bottomCap)
	default:
		out.RotationDegrees = autoRotation(sampled, maxW, width-out.LeftMargin-out.RightMargin)
		if out.RotationDegrees == 0 {
			out.BottomMargin = baseBottomMargin
		} else {
			rad := math.Abs(float64(out.RotationDegrees)) * math.Pi / 180
			out.BottomMargin = clamp(maxW*math.Sin(rad)+24, baseBottomMargin, bottomCap)
		}
	}

	out.XAxisInterval = labelInterval(len(xLabels), maxW, out.RotationDegrees, width-out.LeftMargin-out.RightMargin)
	return out
}

// autoRotation rotates only when the horizontal label footprint exceeds
// the plot width, escalating from -30° to -45° for long labels.
func autoRotation(labels []string, maxW, plotWidth float64) int {
	if len(labels) == 0 || plotWidth <= 0 {
		return 0
	}
	footprint := float64(len(labels)) * (maxW + labelGap)
	if footprint <= plotWidth {
		return 0
	}
	longest := 0
	for _, l := range labels {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	if longest > longLabelRunes {
		return -45
	}
	return -30
}

// labelInterval thins tick labels when more categories exist than fit at
// the current spacing: start/end-only when almost nothing fits, otherwise
// every Nth with N = ceil(count/maxFitting) - 1, floored at 1.
func labelInterval(count int, maxW float64, rotation int, plotWidth float64) int {
	if count <= 1 || plotWidth <= 0 {
		return 0
	}

	spacing := maxW + labelGap
	if rotation != 0 {
		rad := math.Abs(float64(rotation)) * math.Pi / 180
		// Rotated labels shrink horizontally; a fully vertical label
		// occupies roughly one line height.
		spacing = math.Max(maxW*math.Cos(rad), 14) + labelGap
	}

	fitting := int(plotWidth / spacing)
	if fitting >= count {
		return 0
	}
	if fitting <= 2 {
		return count - 1 // start and end only
	}

	n := int(math.Ceil(float64(count)/float64(fitting))) - 1
	if n < 1 {
		n = 1
	}
	return n
}

// sampleLabels spreads up to limit samples evenly across the label list.
func sampleLabels(labels []string, limit int) []string {
	if len(labels) <= limit {
		return labels
	}
	step := float64(len(labels)-1) / float64(limit-1)
	out := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, labels[int(math.Round(float64(i)*step))])
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
