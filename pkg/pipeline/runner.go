package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/housesketch/pkg/cache"
	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/imagegen"
	"github.com/matzehuels/housesketch/pkg/observability"
	"github.com/matzehuels/housesketch/pkg/prompt"
	"github.com/matzehuels/housesketch/pkg/rooms"
	"github.com/matzehuels/housesketch/pkg/site"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Generator produces images for [Runner.Generate]. Nil disables image
	// generation.
	Generator imagegen.Generator

	// Image holds the size and sampling parameters of generated images.
	// The prompt fields are filled in per call.
	Image imagegen.Request
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Image: imagegen.Request{
			Width:    1024,
			Height:   1024,
			Steps:    30,
			Guidance: 7.5,
		},
	}
}

// Plan runs layout → rooms → render.
func (r *Runner) Plan(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	lot := opts.Lot()

	result := &Result{PlanHash: opts.PlanHash()}

	// Stage 1: Layout
	hooks.OnLayoutStart(ctx, lot.Width, lot.Length, lot.Floors)
	layoutStart := time.Now()
	result.Layout = site.ComputeLayout(lot, opts.FeatureSet(), site.WithMaxCanvasWidth(opts.MaxCanvasWidth))
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Zones = len(result.Layout.Zones)
	hooks.OnLayoutComplete(ctx, result.Stats.Zones, result.Layout.Footprint.AreaM2, result.Stats.LayoutTime)

	r.Logger.Info("computed layout",
		"lot", lot.Area(),
		"scale", result.Layout.Scale,
		"footprint", result.Layout.Footprint.AreaM2,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Rooms
	result.Rooms = rooms.Estimate(result.Layout.Footprint.AreaM2, lot.Floors, opts.FeatureSet())
	result.Prompt = prompt.Build(promptRequest(opts))

	r.Logger.Debug("estimated rooms", "net_area", result.Rooms.NetArea)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats, opts.Views)
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, len(artifacts), result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.Artifacts = len(artifacts)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"views", opts.Views,
		"artifacts", len(artifacts),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders every requested format of a computed result.
// Each format is cached separately under the plan hash; the boolean reports
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) ([]Artifact, bool, error) {
	cacheHooks := observability.Cache()
	allCached := true
	var out []Artifact

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(res.PlanHash, cache.ArtifactKeyOpts{Format: format, View: viewKey(opts)})

		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached []Artifact
			if json.Unmarshal(data, &cached) == nil {
				cacheHooks.OnCacheHit(ctx, "artifact")
				out = append(out, cached...)
				continue
			}
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
		allCached = false

		rendered, err := Render(ctx, res.Layout, res.Rooms, res.Prompt, format, opts)
		if err != nil {
			return nil, false, err
		}
		if data, err := json.Marshal(rendered); err == nil {
			if r.Cache.Set(ctx, key, data, cache.ArtifactTTL) == nil {
				cacheHooks.OnCacheSet(ctx, "artifact", len(data))
			}
		}
		out = append(out, rendered...)
	}
	return out, allCached, nil
}

func viewKey(opts Options) string { return strings.Join(opts.Views, ",") }

// Prompt validates the lot and prompt inputs and returns the image prompt.
func (r *Runner) Prompt(opts Options) (string, error) {
	if err := opts.ValidateInput(); err != nil {
		return "", err
	}
	return prompt.Build(promptRequest(opts)), nil
}

func promptRequest(opts Options) prompt.Request {
	return prompt.Request{
		Width:    opts.Width,
		Length:   opts.Length,
		Unit:     opts.Unit,
		Floors:   opts.Floors,
		Features: opts.FeatureSet(),
		Style:    opts.Style,
		Detail:   opts.Detail,
	}
}

// Generation is the outcome of [Runner.Generate].
type Generation struct {
	Prompt   string          `json:"prompt"`
	Image    *imagegen.Image `json:"image"`
	Duration time.Duration   `json:"duration"`
}

// Generate builds the prompt for opts and sends it to the configured
// generator. It blocks until the provider finishes or ctx is cancelled.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Generation, error) {
	p, err := r.Prompt(opts)
	if err != nil {
		return nil, err
	}
	if r.Generator == nil {
		return nil, herrors.New(herrors.ErrCodeUnsupported, "image generation is not configured")
	}

	req := r.Image
	req.Prompt = p
	req.NegativePrompt = prompt.NegativePrompt

	hooks := observability.Pipeline()
	provider := r.Generator.Name()
	hooks.OnImageStart(ctx, provider)
	r.Logger.Info("generating image", "provider", provider)

	start := time.Now()
	img, err := r.Generator.Generate(ctx, req)
	elapsed := time.Since(start)
	hooks.OnImageComplete(ctx, provider, elapsed, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("generated image", "provider", provider, "id", img.ID, "cached", img.Cached, "duration", elapsed)
	return &Generation{Prompt: p, Image: img, Duration: elapsed}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
