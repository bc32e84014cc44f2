// Package layout computes container-aware chart geometry: which visual
// features fit, how axis labels rotate, and how overflowing text truncates.
// All values are pixels. Nothing here draws — renderers consume the output.
package layout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// ============================================================================
// TEXT MEASUREMENT
// ============================================================================
// Label decisions need real pixel widths, not character counts. A fixed
// 7x13 face approximates the renderer's tick font closely enough for
// margin and truncation math; callers with the actual font pass it in.
// ============================================================================

// DefaultFace is the fallback measuring face.
var DefaultFace font.Face = basicfont.Face7x13

// MeasureText returns the rendered pixel width of s under face.
// A nil face measures with DefaultFace.
func MeasureText(face font.Face, s string) float64 {
	if face == nil {
		face = DefaultFace
	}
	d := font.Drawer{Face: face}
	return float64(d.MeasureString(s).Ceil())
}

// maxLabelWidth measures the widest string in labels.
func maxLabelWidth(face font.Face, labels []string) float64 {
	var max float64
	for _, l := range labels {
		if w := MeasureText(face, l); w > max {
			max = w
		}
	}
	return max
}
