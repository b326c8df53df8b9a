package site

import "math"

const (
	// MaxCanvasWidth is the default maximum pixel width of the lot drawing.
	MaxCanvasWidth = 800.0

	// CanvasHeightRatio bounds the lot's pixel height to this fraction of
	// the maximum canvas width.
	CanvasHeightRatio = 0.7

	// MaxScale caps the scale in pixels per meter so tiny lots are not
	// blown up to fill the canvas.
	MaxScale = 40.0

	// Padding is the pixel margin around the lot rectangle.
	Padding = 20.0

	// FenceInset is how far the fence outline sits inside the lot boundary.
	FenceInset = 3.0

	// MinFootprintHeight is the smallest pixel height of the house footprint.
	MinFootprintHeight = 60.0

	// PoolInset is the gap between the pool and the footprint edges.
	PoolInset = 10.0
)

// Proportions of the lot (or footprint) reserved for each zone.
const (
	gardenHeightRatio  = 0.15
	parkingWidthRatio  = 0.22
	parkingHeightRatio = 0.18
	poolWidthRatio     = 0.22
	poolHeightRatio    = 0.25
)

// Lot describes a plot of land in meters and the number of floors to build.
type Lot struct {
	Width  float64 `json:"width_m"`
	Length float64 `json:"length_m"`
	Floors int     `json:"floors"`
}

// Area returns the lot area in square meters.
func (l Lot) Area() float64 { return l.Width * l.Length }

// Footprint is the house outline in pixel and meter space.
type Footprint struct {
	Pixels Rect    `json:"pixels"`
	Meters Rect    `json:"meters"`
	AreaM2 float64 `json:"area_m2"`
}

// Layout is the result of [ComputeLayout].
type Layout struct {
	Lot          Lot        `json:"lot"`
	Features     FeatureSet `json:"-"`
	Scale        float64    `json:"scale"`
	Padding      float64    `json:"padding"`
	CanvasWidth  float64    `json:"canvas_width"`
	CanvasHeight float64    `json:"canvas_height"`
	LotRect      Rect       `json:"lot_rect"`
	Zones        []Zone     `json:"zones"`
	Footprint    Footprint  `json:"footprint"`
}

// Zone returns the first zone of the given category.
func (l Layout) Zone(c Category) (Zone, bool) {
	for _, z := range l.Zones {
		if z.Category == c {
			return z, true
		}
	}
	return Zone{}, false
}

// Option configures [ComputeLayout].
type Option func(*options)

type options struct {
	maxCanvasWidth float64
	maxScale       float64
	padding        float64
}

// WithMaxCanvasWidth overrides [MaxCanvasWidth]. Non-positive values are ignored.
func WithMaxCanvasWidth(w float64) Option {
	return func(o *options) {
		if w > 0 {
			o.maxCanvasWidth = w
		}
	}
}

// WithMaxScale overrides [MaxScale]. Zero disables the cap.
func WithMaxScale(s float64) Option {
	return func(o *options) {
		if s >= 0 {
			o.maxScale = s
		}
	}
}

// WithPadding overrides [Padding]. Negative values are ignored.
func WithPadding(p float64) Option {
	return func(o *options) {
		if p >= 0 {
			o.padding = p
		}
	}
}

// Scale returns the pixels-per-meter factor for a lot of the given size. It
// is the largest factor keeping the lot within maxWidth pixels wide and
// CanvasHeightRatio × maxWidth pixels high, capped at maxScale when maxScale
// is positive. Non-positive or non-finite dimensions yield 1.0.
func Scale(widthM, lengthM, maxWidth, maxScale float64) float64 {
	if !positive(widthM) || !positive(lengthM) || !positive(maxWidth) {
		return 1.0
	}
	s := min(maxWidth/widthM, maxWidth*CanvasHeightRatio/lengthM)
	if maxScale > 0 {
		s = min(s, maxScale)
	}
	if !positive(s) {
		return 1.0
	}
	return s
}

// ComputeLayout packs the zones of lot according to features. It never
// fails: degenerate dimensions produce a degenerate but well-defined layout.
func ComputeLayout(lot Lot, features FeatureSet, opts ...Option) Layout {
	o := options{maxCanvasWidth: MaxCanvasWidth, maxScale: MaxScale, padding: Padding}
	for _, opt := range opts {
		opt(&o)
	}

	scale := Scale(lot.Width, lot.Length, o.maxCanvasWidth, o.maxScale)
	lotRect := Rect{
		X: o.padding,
		Y: o.padding,
		W: pixels(lot.Width, scale),
		H: pixels(lot.Length, scale),
	}

	zones := []Zone{{Category: CategoryLot, Label: "Lot", Rect: lotRect}}
	// The fence traces the lot and reserves nothing.
	if features.Has(Fence) {
		zones = append(zones, Zone{Category: CategoryFence, Label: "Fence", Rect: lotRect.Inset(FenceInset)})
	}
	top := lotRect.Y

	var gardenH float64
	if features.Has(Garden) {
		gardenH = lotRect.H * gardenHeightRatio
		zones = append(zones, Zone{
			Category: CategoryGarden,
			Label:    "Garden",
			Rect:     Rect{X: lotRect.X, Y: top, W: lotRect.W, H: gardenH},
		})
	}

	var parkingH float64
	if features.Has(Parking) {
		w := lotRect.W * parkingWidthRatio
		parkingH = lotRect.H * parkingHeightRatio
		zones = append(zones, Zone{
			Category: CategoryParking,
			Label:    "Parking",
			Rect:     Rect{X: lotRect.Right() - w, Y: top + gardenH, W: w, H: parkingH},
		})
	}

	house := Rect{X: lotRect.X, Y: top + gardenH + parkingH, W: lotRect.W}
	house.H = lotRect.Bottom() - house.Y
	if house.H < MinFootprintHeight {
		// Clamped footprints grow upward from the lot's bottom edge and may
		// cover garden and parking.
		house.H = MinFootprintHeight
		house.Y = lotRect.Bottom() - house.H
	}
	zones = append(zones, Zone{Category: CategoryHouse, Label: "House", Rect: house})

	if features.Has(Pool) {
		w := lotRect.W * poolWidthRatio
		h := house.H * poolHeightRatio
		zones = append(zones, Zone{
			Category: CategoryPool,
			Label:    "Pool",
			Rect: Rect{
				X: house.Right() - w - PoolInset,
				Y: house.Bottom() - h - PoolInset,
				W: w,
				H: h,
			},
		})
	}

	meters := house.Div(scale)
	return Layout{
		Lot:          lot,
		Features:     features,
		Scale:        scale,
		Padding:      o.padding,
		CanvasWidth:  lotRect.W + 2*o.padding,
		CanvasHeight: lotRect.H + 2*o.padding,
		LotRect:      lotRect,
		Zones:        zones,
		Footprint: Footprint{
			Pixels: house,
			Meters: meters,
			AreaM2: meters.W * meters.H,
		},
	}
}

func pixels(meters, scale float64) float64 {
	if !positive(meters) {
		return 0
	}
	return meters * scale
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
