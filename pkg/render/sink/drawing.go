package sink

import (
	"fmt"

	"github.com/matzehuels/housesketch/pkg/site"
)

// Drawing is a single page of output: a canvas with zones painted in order.
type Drawing struct {
	Name   string      // File stem, e.g. "site-plan"
	Title  string      // Heading printed above the zones, may be empty
	Note   string      // Text anchored at the top-left of the first zone
	Width  float64     // Canvas width in pixels
	Height float64     // Canvas height in pixels
	Zones  []site.Zone // Painted in order, outlines last
}

// paintOrder returns zones with fence outlines moved behind everything else,
// so filled zones never hide them. The relative order is otherwise kept.
func paintOrder(zones []site.Zone) []site.Zone {
	out := make([]site.Zone, 0, len(zones))
	var outlines []site.Zone
	for _, z := range zones {
		if z.Category == site.CategoryFence {
			outlines = append(outlines, z)
			continue
		}
		out = append(out, z)
	}
	return append(out, outlines...)
}

// LotLabel describes a lot with its dimensions and area.
func LotLabel(lot site.Lot) string {
	return fmt.Sprintf("Lot %.2f m × %.2f m (%.1f m²)", lot.Width, lot.Length, lot.Area())
}

// SiteDrawing returns the site plan of a layout.
func SiteDrawing(l site.Layout) Drawing {
	return Drawing{
		Name:   "site-plan",
		Note:   LotLabel(l.Lot),
		Width:  l.CanvasWidth,
		Height: l.CanvasHeight,
		Zones:  l.Zones,
	}
}

// FloorDrawing returns the plan of floor n (1-based) of a layout, labeled with
// the preset rooms for that floor.
func FloorDrawing(l site.Layout, n int) Drawing {
	d := floorDrawing(l.Footprint.Pixels, FloorRooms(n), FloorTitle(n))
	d.Name = fmt.Sprintf("floor-%d", n)
	return d
}

// FloorDrawings returns one drawing per floor of the layout's lot.
func FloorDrawings(l site.Layout) []Drawing {
	out := make([]Drawing, 0, max(l.Lot.Floors, 0))
	for n := 1; n <= l.Lot.Floors; n++ {
		out = append(out, FloorDrawing(l, n))
	}
	return out
}

// AllDrawings returns the site plan followed by every floor plan.
func AllDrawings(l site.Layout) []Drawing {
	return append([]Drawing{SiteDrawing(l)}, FloorDrawings(l)...)
}
