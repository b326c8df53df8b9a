package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/housesketch/pkg/render/styles"
	"github.com/matzehuels/housesketch/pkg/site"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	note     string
	title    string
	captions bool
}

// WithLotLabel prints the lot's dimensions and area at its top-left corner.
func WithLotLabel(lot site.Lot) SVGOption { return func(r *svgRenderer) { r.note = LotLabel(lot) } }

// WithTitle sets the heading drawn above the zones.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithoutCaptions suppresses zone captions.
func WithoutCaptions() SVGOption { return func(r *svgRenderer) { r.captions = false } }

// RenderSitePlan draws zones on a canvas of the given size.
func RenderSitePlan(zones []site.Zone, canvasW, canvasH float64, opts ...SVGOption) []byte {
	return RenderSVG(Drawing{Name: "site-plan", Width: canvasW, Height: canvasH, Zones: zones}, opts...)
}

// RenderFloorPlan draws the room grid of one floor. The result is sized to
// the footprint plus padding and a title band.
func RenderFloorPlan(footprint site.Rect, labels []string, title string, opts ...SVGOption) []byte {
	return RenderSVG(floorDrawing(footprint, labels, title), opts...)
}

// RenderSVG draws any drawing. Options override the drawing's own title and
// note.
func RenderSVG(d Drawing, opts ...SVGOption) []byte {
	r := svgRenderer{note: d.Note, title: d.Title, captions: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := max(d.Width, 1), max(d.Height, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	styles.RenderCSS(&buf)

	for _, z := range paintOrder(d.Zones) {
		renderZone(&buf, z)
	}
	if r.captions {
		for _, z := range d.Zones {
			renderCaption(&buf, z)
		}
	}
	if r.note != "" {
		renderNote(&buf, d.Zones, r.note)
	}
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%.1f" y="%.1f" font-size="16">%s</text>`+"\n",
			floorPadding, floorPadding+16, styles.EscapeXML(r.title))
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderZone(buf *bytes.Buffer, z site.Zone) {
	fmt.Fprintf(buf, `  <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f"/>`+"\n",
		styles.ClassName(z.Category), z.X, z.Y, z.W, z.H)
}

func renderCaption(buf *bytes.Buffer, z site.Zone) {
	if !hasCaption(z) {
		return
	}
	size := styles.FontSize(z.W, z.H, len(z.Label))
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		z.CenterX(), z.CenterY(), size, styles.EscapeXML(z.Label))
}

// hasCaption excludes the lot and fence outlines, which are described by the
// note and by their stroke.
func hasCaption(z site.Zone) bool {
	if z.Label == "" || z.W <= 0 || z.H <= 0 {
		return false
	}
	return z.Category != site.CategoryLot && z.Category != site.CategoryFence
}

func renderNote(buf *bytes.Buffer, zones []site.Zone, note string) {
	x, y := floorPadding, floorPadding
	if len(zones) > 0 {
		x, y = zones[0].X, zones[0].Y
	}
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" font-size="12">%s</text>`+"\n",
		x+6, y+16, styles.EscapeXML(note))
}
