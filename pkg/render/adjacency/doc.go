// Package adjacency draws which rooms of a floor plan share a wall.
//
// Each floor becomes a Graphviz cluster whose nodes are the labeled cells of
// the room grid. Cells that touch across a wall are joined by an edge, and
// stairs on consecutive floors are joined by a dashed edge:
//
//	floors := adjacency.FloorsOf(layout)
//	dot := adjacency.ToDOT(floors, adjacency.Options{Scale: layout.Scale})
//	svg, err := adjacency.RenderSVG(ctx, dot)
//
// The DOT text is the intermediate form, so it can be stored or rendered with
// any Graphviz engine.
package adjacency
