// Package site computes the site plan of a house lot.
//
// A [Lot] (width and length in meters plus a floor count) and a [FeatureSet]
// go in; a [Layout] comes out. The layout holds a list of [Zone] rectangles in
// pixel space (lot boundary, fence, garden, parking, house footprint, pool)
// and the derived house [Footprint] in both pixel and meter space.
//
// # Packing order
//
// Zones are placed in a fixed order, each only when its feature is selected:
//
//  1. Fence: an inset dashed outline tracing the lot boundary. It reserves
//     no interior space.
//  2. Garden: the top 15% of the lot as a full-width strip.
//  3. Parking: 22% of the lot width by 18% of its height, anchored to the
//     right edge directly below the garden (or at the top without one).
//  4. House: everything below garden and parking, never shorter than
//     [MinFootprintHeight] pixels. A clamped footprint is anchored to the
//     bottom of the lot and may overlap garden and parking.
//  5. Pool: drawn inside the bottom-right corner of the footprint. It does
//     not reduce the footprint area.
//
// # Scale
//
// The lot is drawn at the largest uniform scale that keeps it within
// [MaxCanvasWidth] pixels wide and 70% of that high, capped at [MaxScale]
// pixels per meter. Non-positive dimensions fall back to a scale of 1.0, so
// [ComputeLayout] is total over any numeric input and never panics.
//
// Everything in this package is a pure function of its inputs and safe for
// concurrent use.
package site
