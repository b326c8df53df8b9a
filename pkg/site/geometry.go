package site

// Rect is an axis-aligned rectangle. X and Y locate the top-left corner; the
// Y axis grows downward as in SVG.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Right returns the X coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the Y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center point.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center point.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Area returns W × H.
func (r Rect) Area() float64 { return r.W * r.H }

// Inset shrinks the rectangle by d on every side. Width and height never go
// below zero.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		X: r.X + d,
		Y: r.Y + d,
		W: max(0, r.W-2*d),
		H: max(0, r.H-2*d),
	}
}

// Div divides every coordinate by f. It converts pixel rectangles back to
// meters when f is the layout scale.
func (r Rect) Div(f float64) Rect {
	if f == 0 {
		return r
	}
	return Rect{X: r.X / f, Y: r.Y / f, W: r.W / f, H: r.H / f}
}

// Category is the semantic kind of a zone. It selects the render style.
type Category string

// Zone categories.
const (
	CategoryLot     Category = "lot"
	CategoryGarden  Category = "garden"
	CategoryParking Category = "parking"
	CategoryHouse   Category = "house"
	CategoryPool    Category = "pool"
	CategoryFence   Category = "fence"
	CategoryRoom    Category = "room"
)

// Zone is a labeled rectangle of the drawing.
type Zone struct {
	Category Category `json:"category"`
	Label    string   `json:"label,omitempty"`
	Rect
}
