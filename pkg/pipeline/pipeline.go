// Package pipeline runs the housesketch plan pipeline.
//
// The CLI and the HTTP server share this package so both validate input and
// produce artifacts the same way. A run has three stages:
//
//  1. Layout: place the lot, garden, parking, house, pool and fence
//  2. Rooms: estimate the room areas of the house
//  3. Render: draw the requested views in the requested formats
//
// Image generation is a separate step: [Runner.Generate] builds the prompt
// for the same options and hands it to the configured provider.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Plan(ctx, pipeline.Options{
//	    Width:    10,
//	    Length:   20,
//	    Floors:   2,
//	    Features: []string{"garden", "parking"},
//	    Formats:  []string{"svg", "pdf"},
//	})
//	for _, a := range result.Artifacts {
//	    os.WriteFile(a.FileName, a.Data, 0o644)
//	}
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/housesketch/pkg/cache"
	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/rooms"
	"github.com/matzehuels/housesketch/pkg/site"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultUnit is the unit lot dimensions are given in.
	DefaultUnit = "m"

	// DefaultFloors is used when no floor count is given.
	DefaultFloors = 1

	// DefaultDetail is the prompt detail level used when none is given.
	DefaultDetail = 0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// View constants select which drawings are rendered.
const (
	ViewSite      = "site"
	ViewFloors    = "floors"
	ViewAdjacency = "adjacency"
)

// ValidFormats lists the supported output formats in render order.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatXLSX}

// ValidViews lists the supported views in render order.
var ValidViews = []string{ViewSite, ViewFloors, ViewAdjacency}

// MediaTypes maps formats to their media type.
var MediaTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all inputs of a plan run. It doubles as the JSON body of
// the server API.
type Options struct {
	// Lot
	Width    float64  `json:"width"`
	Length   float64  `json:"length"`
	Unit     string   `json:"unit,omitempty"`
	Floors   int      `json:"floors,omitempty"`
	Features []string `json:"features,omitempty"`

	// Prompt
	Style  string `json:"style,omitempty"`
	Detail int    `json:"detail,omitempty"`

	// Render
	Formats        []string `json:"formats,omitempty"`
	Views          []string `json:"views,omitempty"`
	MaxCanvasWidth float64  `json:"max_canvas_width,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	features  site.FeatureSet
	validated bool
}

// Result contains the outputs of a plan run.
type Result struct {
	Layout    site.Layout
	Rooms     rooms.Allocation
	Prompt    string
	Artifacts []Artifact

	// PlanHash fingerprints the inputs that shape the drawings.
	PlanHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Artifact is one rendered file.
type Artifact struct {
	Name      string `json:"name"` // e.g. "site-plan", "floor-2"
	Format    string `json:"format"`
	View      string `json:"view,omitempty"`
	MediaType string `json:"media_type"`
	FileName  string `json:"file_name"` // e.g. "floor-2_10x20m.svg"
	Data      []byte `json:"data"`
}

// Find returns the first artifact with the given name and format.
func (r *Result) Find(name, format string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Name == name && a.Format == format {
			return a, true
		}
	}
	return Artifact{}, false
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Zones      int
	Artifacts  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return herrors.New(herrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateView checks that a view is supported.
func ValidateView(view string) error {
	if !slices.Contains(ValidViews, view) {
		return herrors.New(herrors.ErrCodeInvalidView,
			"invalid view: %q (must be one of: %s)", view, strings.Join(ValidViews, ", "))
	}
	return nil
}

// ValidateViews checks that all views are supported.
func ValidateViews(views []string) error {
	for _, v := range views {
		if err := ValidateView(v); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every input and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateInput(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateViews(o.Views); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateInput checks the lot, floors, features and prompt inputs. Render
// options are not touched; [Runner.Prompt] and [Runner.Generate] only need
// this.
func (o *Options) ValidateInput() error {
	o.Unit = strings.ToLower(strings.TrimSpace(o.Unit))
	if o.Unit == "" {
		o.Unit = DefaultUnit
	}
	if err := herrors.ValidateUnit(o.Unit); err != nil {
		return err
	}
	if o.Floors == 0 {
		o.Floors = DefaultFloors
	}
	lot := o.Lot()
	if err := herrors.ValidateLot(lot.Width, lot.Length); err != nil {
		return err
	}
	if err := herrors.ValidateFloors(o.Floors); err != nil {
		return err
	}
	if err := herrors.ValidateDetail(o.Detail); err != nil {
		return err
	}
	if err := herrors.ValidateStyle(o.Style); err != nil {
		return err
	}

	fs, err := site.ParseFeatures(o.Features)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInvalidFeature, err, "%s", err.Error())
	}
	o.features = fs

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults renders SVG of the site and floor views when nothing
// else is requested.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if len(o.Views) == 0 {
		o.Views = []string{ViewSite, ViewFloors}
	}
	if o.MaxCanvasWidth <= 0 {
		o.MaxCanvasWidth = site.MaxCanvasWidth
	}
}

// Lot returns the lot in meters. Centimeter input is divided by 100.
func (o *Options) Lot() site.Lot {
	f := 1.0
	if o.Unit == "cm" {
		f = 0.01
	}
	return site.Lot{Width: o.Width * f, Length: o.Length * f, Floors: o.Floors}
}

// FeatureSet returns the parsed features. It is empty until the options
// have been validated.
func (o *Options) FeatureSet() site.FeatureSet {
	return o.features
}

// Wants reports whether a view is requested.
func (o *Options) Wants(view string) bool { return slices.Contains(o.Views, view) }

// planKey is the subset of options that shapes the rendered artifacts. The
// raw dimensions and unit are kept next to the metric lot because the prompt
// embedded in document formats echoes them.
type planKey struct {
	Lot            site.Lot `json:"lot"`
	Width          float64  `json:"width"`
	Length         float64  `json:"length"`
	Unit           string   `json:"unit"`
	Features       []string `json:"features"`
	Style          string   `json:"style"`
	Detail         int      `json:"detail"`
	MaxCanvasWidth float64  `json:"max_canvas_width"`
}

// PlanHash fingerprints the validated inputs.
func (o *Options) PlanHash() string {
	return cache.HashJSON(planKey{
		Lot:            o.Lot(),
		Width:          o.Width,
		Length:         o.Length,
		Unit:           o.Unit,
		Features:       o.features.Strings(),
		Style:          strings.TrimSpace(o.Style),
		Detail:         o.Detail,
		MaxCanvasWidth: o.MaxCanvasWidth,
	})
}
