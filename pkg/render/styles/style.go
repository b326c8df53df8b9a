// Package styles holds the fixed visual table used by every drawing sink.
package styles

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/housesketch/pkg/site"
)

// Style describes how one zone category is painted.
type Style struct {
	Fill        string  // Hex fill color, or "none"
	Stroke      string  // Hex stroke color
	StrokeWidth float64 // Stroke width in pixels
	Dash        string  // SVG stroke-dasharray, empty for solid
}

// Dashed reports whether the outline is dashed.
func (s Style) Dashed() bool { return s.Dash != "" }

// DashPattern returns Dash as numbers, nil for a solid line.
func (s Style) DashPattern() []float64 {
	if s.Dash == "" {
		return nil
	}
	var out []float64
	for _, part := range strings.Split(s.Dash, ",") {
		if v, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Filled reports whether the zone has a visible fill.
func (s Style) Filled() bool { return s.Fill != "" && s.Fill != "none" }

var table = map[site.Category]Style{
	site.CategoryLot:     {Fill: "#eeeeee", Stroke: "#333333", StrokeWidth: 2},
	site.CategoryGarden:  {Fill: "#c8e6c9", Stroke: "#66bb6a", StrokeWidth: 1},
	site.CategoryParking: {Fill: "#bdbdbd", Stroke: "#616161", StrokeWidth: 1.5, Dash: "6,4"},
	site.CategoryHouse:   {Fill: "#9e9e9e", Stroke: "#424242", StrokeWidth: 2},
	site.CategoryPool:    {Fill: "#b3e5fc", Stroke: "#0288d1", StrokeWidth: 1.5},
	site.CategoryFence:   {Fill: "none", Stroke: "#d32f2f", StrokeWidth: 2, Dash: "8,4"},
	site.CategoryRoom:    {Fill: "#ffe0b2", Stroke: "#8d6e63", StrokeWidth: 1},
}

// For returns the style of a category. Unknown categories fall back to the
// lot style.
func For(c site.Category) Style {
	if s, ok := table[c]; ok {
		return s
	}
	return table[site.CategoryLot]
}

// Categories lists the styled categories in paint order.
var Categories = []site.Category{
	site.CategoryLot,
	site.CategoryGarden,
	site.CategoryParking,
	site.CategoryHouse,
	site.CategoryPool,
	site.CategoryFence,
	site.CategoryRoom,
}

// ClassName is the CSS class used for a category.
func ClassName(c site.Category) string { return "zone-" + string(c) }

// RenderCSS writes the embedded style sheet: one class per category plus
// the text classes.
func RenderCSS(buf *bytes.Buffer) {
	buf.WriteString("  <style>\n")
	for _, c := range Categories {
		s := table[c]
		fmt.Fprintf(buf, "    .%s { fill: %s; stroke: %s; stroke-width: %s;", ClassName(c), s.Fill, s.Stroke, formatFloat(s.StrokeWidth))
		if s.Dashed() {
			fmt.Fprintf(buf, " stroke-dasharray: %s;", s.Dash)
		}
		buf.WriteString(" }\n")
	}
	buf.WriteString("    .label { font-family: Helvetica, Arial, sans-serif; fill: #212121; }\n")
	buf.WriteString("    .title { font-family: Helvetica, Arial, sans-serif; font-weight: bold; fill: #212121; }\n")
	buf.WriteString("  </style>\n")
}

// RGB parses a "#rrggbb" color. ok is false for "none" or malformed input.
func RGB(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
