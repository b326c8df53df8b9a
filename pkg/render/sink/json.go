package sink

import (
	"encoding/json"

	"github.com/matzehuels/housesketch/pkg/rooms"
	"github.com/matzehuels/housesketch/pkg/site"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	rooms  *rooms.Allocation
	prompt string
	indent bool
}

// WithJSONRooms includes the room area estimate.
func WithJSONRooms(a rooms.Allocation) JSONOption { return func(r *jsonRenderer) { r.rooms = &a } }

// WithJSONPrompt records the image prompt built for the same inputs.
func WithJSONPrompt(p string) JSONOption { return func(r *jsonRenderer) { r.prompt = p } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Lot       site.Lot          `json:"lot"`
	Features  []string          `json:"features"`
	Scale     float64           `json:"scale_px_per_m"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Zones     []site.Zone       `json:"zones"`
	Footprint site.Footprint    `json:"footprint"`
	Floors    []jsonFloor       `json:"floors"`
	Rooms     *rooms.Allocation `json:"rooms,omitempty"`
	Prompt    string            `json:"prompt,omitempty"`
}

type jsonFloor struct {
	Number int         `json:"number"`
	Title  string      `json:"title"`
	Cells  []site.Zone `json:"cells"`
}

// RenderJSON serializes a layout. Floor cells are given in the layout's
// pixel space, on top of the footprint.
func RenderJSON(l site.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Lot:       l.Lot,
		Features:  l.Features.Strings(),
		Scale:     l.Scale,
		Width:     l.CanvasWidth,
		Height:    l.CanvasHeight,
		Zones:     l.Zones,
		Footprint: l.Footprint,
		Floors:    make([]jsonFloor, 0, max(l.Lot.Floors, 0)),
		Rooms:     r.rooms,
		Prompt:    r.prompt,
	}
	for n := 1; n <= l.Lot.Floors; n++ {
		out.Floors = append(out.Floors, jsonFloor{
			Number: n,
			Title:  FloorTitle(n),
			Cells:  FloorCells(l.Footprint.Pixels, FloorRooms(n)),
		})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
