// Package render turns computed site layouts into drawings.
//
// The [sink] subpackage writes site and floor plans as SVG, PDF, PNG, JSON
// and XLSX. The [adjacency] subpackage draws which rooms touch each other as
// a Graphviz graph. Colors and stroke patterns for every zone category live
// in [styles].
//
// This package itself only holds [ToPNG], which rasterizes SVG with the
// external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(sink.SiteDrawing(layout))
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [sink]: github.com/matzehuels/housesketch/pkg/render/sink
// [adjacency]: github.com/matzehuels/housesketch/pkg/render/adjacency
// [styles]: github.com/matzehuels/housesketch/pkg/render/styles
package render
