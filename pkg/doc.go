// Package pkg provides the core libraries for housesketch site and floor
// plans.
//
// # Overview
//
// housesketch turns a rectangular lot, a floor count and a set of outdoor
// features into a site plan, one floor plan per floor, an estimate of room
// areas and a prompt for text-to-image models. The pkg directory is
// organized into four areas:
//
//  1. Domain logic: [site], [rooms], [prompt]
//  2. Rendering: [render] and its subpackages
//  3. Infrastructure: [cache], [config], [httputil], [observability]
//  4. Orchestration: [pipeline], with image providers in [imagegen]
//
// # Architecture
//
// The typical data flow:
//
//	lot dimensions + features
//	         ↓
//	    [site] package (zones and house footprint)
//	         ↓
//	    [rooms] package (area per room)   [prompt] package (image prompt)
//	         ↓                                    ↓
//	    [render/sink] (SVG/PNG/PDF/JSON/XLSX)   [imagegen] (Replicate, Stability)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/housesketch/pkg/render/sink"
//	    "github.com/matzehuels/housesketch/pkg/rooms"
//	    "github.com/matzehuels/housesketch/pkg/site"
//	)
//
//	features := site.NewFeatureSet(site.Garden, site.Parking)
//	l := site.ComputeLayout(site.Lot{Width: 10, Length: 20, Floors: 2}, features)
//	a := rooms.Estimate(l.Footprint.AreaM2, 2, features)
//	svg := sink.RenderSVG(sink.SiteDrawing(l), sink.WithLotLabel(l.Lot))
//
// Most callers use [pipeline.Runner] instead, which validates input, caches
// rendered artifacts and fires [observability] hooks.
//
// # Errors
//
// Packages return coded errors from [errors]. The code decides the exit
// status of the CLI and the HTTP status of the server.
//
// [site]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/site
// [rooms]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/rooms
// [prompt]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/prompt
// [render]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/config
// [httputil]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/pipeline#Runner
// [imagegen]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/imagegen
// [errors]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/errors
//
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/housesketch/pkg/render/sink
package pkg
