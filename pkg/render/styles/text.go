package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.35
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 16.0
)

// FontSize picks a label size that fits text of the given length into a
// box of w × h pixels.
func FontSize(w, h float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := h * fontHeightRatio
	byWidth := (w * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
