package pipeline

import (
	"context"
	"fmt"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/render"
	"github.com/matzehuels/housesketch/pkg/render/adjacency"
	"github.com/matzehuels/housesketch/pkg/render/sink"
	"github.com/matzehuels/housesketch/pkg/rooms"
	"github.com/matzehuels/housesketch/pkg/site"
)

// AdjacencyName is the artifact name of the room adjacency diagram.
const AdjacencyName = "room-adjacency"

// DocumentName is the artifact name of outputs that bundle every view
// (PDF, JSON and XLSX).
const DocumentName = "house-plan"

// Render produces the artifacts for one format. The options must have been
// validated.
func Render(ctx context.Context, l site.Layout, a rooms.Allocation, prompt string, format string, opts Options) ([]Artifact, error) {
	switch format {
	case FormatSVG:
		return renderDrawings(ctx, l, format, opts)
	case FormatPNG:
		if !render.Available() {
			return nil, herrors.New(herrors.ErrCodeUnsupported,
				"png export requires rsvg-convert (brew install librsvg, apt install librsvg2-bin)")
		}
		return renderDrawings(ctx, l, format, opts)
	case FormatPDF:
		data, err := sink.RenderPDF(drawings(l, opts), sink.WithDocumentTitle(sink.LotLabel(l.Lot)))
		if err != nil {
			return nil, err
		}
		return []Artifact{newArtifact(DocumentName, format, "", l.Lot, data)}, nil
	case FormatJSON:
		data, err := sink.RenderJSON(l, sink.WithJSONRooms(a), sink.WithJSONPrompt(prompt), sink.WithJSONIndent())
		if err != nil {
			return nil, err
		}
		return []Artifact{newArtifact(DocumentName, format, "", l.Lot, data)}, nil
	case FormatXLSX:
		data, err := sink.RenderSchedule(l, a)
		if err != nil {
			return nil, err
		}
		return []Artifact{newArtifact(DocumentName, format, "", l.Lot, data)}, nil
	default:
		return nil, ValidateFormat(format)
	}
}

// drawings returns the site and floor drawings selected by opts.Views.
func drawings(l site.Layout, opts Options) []sink.Drawing {
	var out []sink.Drawing
	if opts.Wants(ViewSite) {
		out = append(out, sink.SiteDrawing(l))
	}
	if opts.Wants(ViewFloors) {
		out = append(out, sink.FloorDrawings(l)...)
	}
	return out
}

func renderDrawings(ctx context.Context, l site.Layout, format string, opts Options) ([]Artifact, error) {
	var out []Artifact

	if opts.Wants(ViewSite) {
		a, err := renderDrawing(ctx, sink.SiteDrawing(l), format, ViewSite, l.Lot)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if opts.Wants(ViewFloors) {
		for _, d := range sink.FloorDrawings(l) {
			a, err := renderDrawing(ctx, d, format, ViewFloors, l.Lot)
			if err != nil {
				return nil, err
			}
			out = append(out, a)
		}
	}
	if opts.Wants(ViewAdjacency) {
		a, err := renderAdjacency(ctx, l, format)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func renderDrawing(ctx context.Context, d sink.Drawing, format, view string, lot site.Lot) (Artifact, error) {
	if format == FormatSVG {
		return newArtifact(d.Name, format, view, lot, sink.RenderSVG(d)), nil
	}
	data, err := sink.RenderPNG(ctx, d)
	if err != nil {
		return Artifact{}, herrors.Wrap(herrors.ErrCodeInternal, err, "render %s as png", d.Name)
	}
	return newArtifact(d.Name, format, view, lot, data), nil
}

func renderAdjacency(ctx context.Context, l site.Layout, format string) (Artifact, error) {
	dot := adjacency.ToDOT(adjacency.FloorsOf(l), adjacency.Options{Scale: l.Scale})
	svg, err := adjacency.RenderSVG(ctx, dot)
	if err != nil {
		return Artifact{}, herrors.Wrap(herrors.ErrCodeInternal, err, "render adjacency diagram")
	}
	if format == FormatSVG {
		return newArtifact(AdjacencyName, format, ViewAdjacency, l.Lot, svg), nil
	}
	data, err := render.ToPNG(ctx, svg, 2)
	if err != nil {
		return Artifact{}, herrors.Wrap(herrors.ErrCodeInternal, err, "render adjacency diagram as png")
	}
	return newArtifact(AdjacencyName, format, ViewAdjacency, l.Lot, data), nil
}

func newArtifact(name, format, view string, lot site.Lot, data []byte) Artifact {
	return Artifact{
		Name:      name,
		Format:    format,
		View:      view,
		MediaType: MediaTypes[format],
		FileName:  sink.FileName(name, lot, format),
		Data:      data,
	}
}

// String describes an artifact for logs.
func (a Artifact) String() string {
	return fmt.Sprintf("%s (%d bytes)", a.FileName, len(a.Data))
}
