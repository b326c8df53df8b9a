// Package sink renders site layouts into output formats.
//
// # Drawings
//
// Every output is built from a [Drawing]: a titled canvas holding an ordered
// list of zones. [SiteDrawing] produces the site plan of a layout and
// [FloorDrawing] one floor plan per floor.
//
// # Formats
//
//   - SVG: [RenderSitePlan], [RenderFloorPlan] and [RenderSVG]. Output has no
//     XML prolog, so it can be embedded inline in HTML or written to a file.
//   - PDF: [RenderPDF] draws vector pages with gofpdf, one page per drawing.
//   - PNG: [RenderPNG] rasterizes the SVG with rsvg-convert.
//   - JSON: [RenderJSON] serializes zones, floors and the room estimate.
//   - XLSX: [RenderSchedule] writes the room schedule with excelize.
//
// # Floor Grid
//
// Floor plans split the footprint into a fixed 2 × 3 grid. Labels fill the
// cells in row-major order. Cells without a label are drawn empty and labels
// beyond the sixth are dropped without notice, so callers wanting more rooms
// per floor need a different grid, not a longer list.
package sink
