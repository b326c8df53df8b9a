package sink_test

import (
	"fmt"

	"github.com/matzehuels/housesketch/pkg/render/sink"
	"github.com/matzehuels/housesketch/pkg/site"
)

func ExampleFloorCells() {
	fp := site.Rect{X: 0, Y: 0, W: 200, H: 300}
	for _, c := range sink.FloorCells(fp, sink.GroundFloorRooms()) {
		fmt.Printf("%-14s %5.1f %5.1f\n", c.Label, c.X, c.Y)
	}
	// Output:
	// Living Room      4.0   4.0
	// Kitchen        104.0   4.0
	// Dining Room      4.0 104.0
	// Guest Bedroom  104.0 104.0
	// Bathroom         4.0 204.0
	// Stairs         104.0 204.0
}

func ExampleLotLabel() {
	fmt.Println(sink.LotLabel(site.Lot{Width: 10, Length: 20.25}))
	// Output: Lot 10.00 m × 20.25 m (202.5 m²)
}
