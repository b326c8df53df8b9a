package sink

import (
	"fmt"

	"github.com/matzehuels/housesketch/pkg/site"
)

const (
	GridCols  = 2
	GridRows  = 3
	GridCells = GridCols * GridRows

	// CellInset is the gap between a room rectangle and its grid slot.
	CellInset = 4.0

	floorPadding = 20.0
	titleBand    = 28.0
)

var groundFloorRooms = []string{"Living Room", "Kitchen", "Dining Room", "Guest Bedroom", "Bathroom", "Stairs"}

var upperFloorRooms = []string{"Master Bedroom", "Bedroom 2", "Bedroom 3", "Bathroom", "Family Room", "Stairs"}

// GroundFloorRooms returns the room preset of the first floor.
func GroundFloorRooms() []string { return append([]string(nil), groundFloorRooms...) }

// UpperFloorRooms returns the room preset shared by every floor above the first.
func UpperFloorRooms() []string { return append([]string(nil), upperFloorRooms...) }

// FloorRooms returns the preset for floor n, counting from 1.
func FloorRooms(n int) []string {
	if n <= 1 {
		return GroundFloorRooms()
	}
	return UpperFloorRooms()
}

// FloorTitle is the heading of floor n.
func FloorTitle(n int) string {
	if n <= 1 {
		return "Floor 1 (ground)"
	}
	return fmt.Sprintf("Floor %d", n)
}

// FloorCells splits the footprint into the 2 × 3 room grid. Cell i takes
// labels[i]; missing labels leave the cell unlabeled and labels past the
// sixth are ignored.
func FloorCells(footprint site.Rect, labels []string) []site.Zone {
	cellW := footprint.W / GridCols
	cellH := footprint.H / GridRows

	cells := make([]site.Zone, GridCells)
	for i := range cells {
		slot := site.Rect{
			X: footprint.X + float64(i%GridCols)*cellW,
			Y: footprint.Y + float64(i/GridCols)*cellH,
			W: cellW,
			H: cellH,
		}
		cells[i] = site.Zone{Category: site.CategoryRoom, Rect: slot.Inset(CellInset)}
		if i < len(labels) {
			cells[i].Label = labels[i]
		}
	}
	return cells
}

// floorDrawing places the footprint at the drawing origin and lays the room
// grid over it.
func floorDrawing(footprint site.Rect, labels []string, title string) Drawing {
	local := site.Rect{X: floorPadding, Y: floorPadding + titleBand, W: footprint.W, H: footprint.H}
	zones := append([]site.Zone{{Category: site.CategoryHouse, Rect: local}}, FloorCells(local, labels)...)
	return Drawing{
		Name:   "floor",
		Title:  title,
		Width:  local.W + 2*floorPadding,
		Height: local.H + 2*floorPadding + titleBand,
		Zones:  zones,
	}
}
