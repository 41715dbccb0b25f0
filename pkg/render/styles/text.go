package styles

import (
	"bytes"
	"encoding/xml"
	"math"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 14.0
	ellipsis        = ".."
)

// HeaderFontSize is the label size used inside the header band of
// non-leaf rectangles.
const HeaderFontSize = 12.0

// FontSize returns a font size that fits a label of n characters into a
// w by h box, clamped to a readable range.
func FontSize(w, h float64, n int) float64 {
	n = max(1, n)
	byHeight := h * fontHeightRatio
	byWidth := (w * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// MaxChars returns how many characters of the given font size fit in width.
func MaxChars(width, fontSize float64) int {
	if fontSize <= 0 {
		return 0
	}
	return int(width * fontWidthRatio / (fontSize * fontCharWidth))
}

// FitLabel truncates label to at most maxChars runes, marking the cut with
// "..". It returns "" when not even a few characters fit.
func FitLabel(label string, maxChars int) string {
	if maxChars < 3 {
		return ""
	}
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxChars-len(ellipsis)]) + ellipsis
}

// CanLabel reports whether a box is large enough to carry any text.
func CanLabel(w, h float64) bool {
	return w >= fontSizeMin*3*fontCharWidth && h >= fontSizeMin+2
}

// EscapeXML escapes s for use as SVG text or attribute content.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Size formats an entry size as bytes ("1.2 kB").
func Size(v float64) string {
	if !(v > 0) || math.IsInf(v, 0) {
		return "0 B"
	}
	return humanize.Bytes(uint64(math.Round(v)))
}

// Percent formats part/total as a percentage with up to two decimals.
func Percent(part, total float64) string {
	if !(total > 0) {
		return "0%"
	}
	return humanize.FtoaWithDigits(part/total*100, 2) + "%"
}
