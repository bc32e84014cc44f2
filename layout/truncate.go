package layout

import "golang.org/x/image/font"

// ============================================================================
// LABEL TRUNCATION — binary search for the longest fitting prefix
// ============================================================================

const ellipsis = "…"

// TruncateLabel shortens text so its measured width (including a trailing
// ellipsis) fits maxWidth. Returns the display text and whether it was
// truncated. Text that already fits comes back unchanged.
func TruncateLabel(face font.Face, text string, maxWidth float64) (string, bool) {
	if text == "" || maxWidth <= 0 {
		return "", text != ""
	}
	if MeasureText(face, text) <= maxWidth {
		return text, false
	}

	runes := []rune(text)

	// Longest prefix length whose prefix+ellipsis fits.
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if MeasureText(face, string(runes[:mid])+ellipsis) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	if lo == 0 {
		return ellipsis, true
	}
	return string(runes[:lo]) + ellipsis, true
}
