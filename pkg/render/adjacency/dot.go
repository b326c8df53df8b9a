package adjacency

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/housesketch/pkg/render/sink"
	"github.com/matzehuels/housesketch/pkg/site"
)

// StairsLabel marks the cell that connects floors.
const StairsLabel = "Stairs"

// Floor is one level of the house.
type Floor struct {
	Number int
	Title  string
	Cells  []site.Zone
}

// Options configures adjacency diagram rendering.
type Options struct {
	// Scale in pixels per meter. When positive, node labels include the
	// room dimensions in meters.
	Scale float64
}

// FloorsOf builds the preset room grid of every floor of a layout.
func FloorsOf(l site.Layout) []Floor {
	out := make([]Floor, 0, max(l.Lot.Floors, 0))
	for n := 1; n <= l.Lot.Floors; n++ {
		out = append(out, Floor{
			Number: n,
			Title:  sink.FloorTitle(n),
			Cells:  sink.FloorCells(l.Footprint.Pixels, sink.FloorRooms(n)),
		})
	}
	return out
}

// Adjacent reports whether a and b face each other across a gap of at most
// maxGap pixels with overlapping extents along the shared wall.
func Adjacent(a, b site.Rect, maxGap float64) bool {
	overlapX := math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X)
	overlapY := math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y)

	gapX := math.Max(b.X-a.Right(), a.X-b.Right())
	gapY := math.Max(b.Y-a.Bottom(), a.Y-b.Bottom())

	sideBySide := gapX >= 0 && gapX <= maxGap && overlapY > 0
	stacked := gapY >= 0 && gapY <= maxGap && overlapX > 0
	return sideBySide || stacked
}

// Edge joins two cells by index.
type Edge struct{ From, To int }

// Edges lists the adjacent pairs among labeled cells, lower index first.
func Edges(cells []site.Zone) []Edge {
	maxGap := 2*sink.CellInset + 0.5
	var out []Edge
	for i := range cells {
		if cells[i].Label == "" {
			continue
		}
		for j := i + 1; j < len(cells); j++ {
			if cells[j].Label == "" {
				continue
			}
			if Adjacent(cells[i].Rect, cells[j].Rect, maxGap) {
				out = append(out, Edge{From: i, To: j})
			}
		}
	}
	return out
}

// ToDOT converts floors to an undirected Graphviz graph, one cluster per
// floor. The result can be rendered with [RenderSVG].
func ToDOT(floors []Floor, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#ffe0b2\", fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#8d6e63\"];\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, f := range floors {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", f.Number)
		fmt.Fprintf(&buf, "    label=%q;\n", f.Title)
		buf.WriteString("    style=\"rounded\";\n")
		buf.WriteString("    color=\"#9e9e9e\";\n")
		for i, c := range f.Cells {
			if c.Label == "" {
				continue
			}
			fmt.Fprintf(&buf, "    %q [label=%q];\n", nodeID(f.Number, i), fmtLabel(c, opts))
		}
		for _, e := range Edges(f.Cells) {
			fmt.Fprintf(&buf, "    %q -- %q;\n", nodeID(f.Number, e.From), nodeID(f.Number, e.To))
		}
		buf.WriteString("  }\n")
	}

	for i := 1; i < len(floors); i++ {
		lo, okLo := stairs(floors[i-1])
		hi, okHi := stairs(floors[i])
		if okLo && okHi {
			fmt.Fprintf(&buf, "  %q -- %q [style=dashed];\n",
				nodeID(floors[i-1].Number, lo), nodeID(floors[i].Number, hi))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(floor, cell int) string { return fmt.Sprintf("f%d_r%d", floor, cell) }

func stairs(f Floor) (int, bool) {
	for i, c := range f.Cells {
		if strings.EqualFold(c.Label, StairsLabel) {
			return i, true
		}
	}
	return 0, false
}

func fmtLabel(c site.Zone, opts Options) string {
	if opts.Scale <= 0 {
		return c.Label
	}
	m := c.Rect.Div(opts.Scale)
	return fmt.Sprintf("%s\n%.1f × %.1f m", c.Label, m.W, m.H)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return stripProlog(normalizeViewBox(buf.Bytes())), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// stripProlog drops the XML declaration and doctype so the SVG can be
// inlined in HTML.
func stripProlog(svg []byte) []byte {
	if i := bytes.Index(svg, []byte("<svg")); i > 0 {
		return svg[i:]
	}
	return svg
}
