package imagegen

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/housesketch/pkg/cache"
	"github.com/matzehuels/housesketch/pkg/observability"
)

// Cached wraps a Generator and stores its results. Identical requests to the
// same provider and model return the stored image with Cached set.
type Cached struct {
	gen   Generator
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCached wraps gen. A nil keyer uses [cache.DefaultKeyer]; a zero ttl
// uses [cache.ImageTTL].
func NewCached(gen Generator, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = cache.ImageTTL
	}
	return &Cached{gen: gen, cache: c, keyer: keyer, ttl: ttl}
}

// Name implements Generator.
func (c *Cached) Name() string { return c.gen.Name() }

// Key returns the cache key req is stored under.
func (c *Cached) Key(req Request) string {
	var model string
	if m, ok := c.gen.(interface{ Model() string }); ok {
		model = m.Model()
	}
	return c.keyer.ImageKey(c.gen.Name(), req.Prompt, cache.ImageKeyOpts{
		Model:          model,
		NegativePrompt: req.NegativePrompt,
		Width:          req.Width,
		Height:         req.Height,
		Steps:          req.Steps,
		Guidance:       req.Guidance,
	})
}

// Generate returns the cached image for req or calls the wrapped generator.
// Cache failures are ignored; generation errors are never cached.
func (c *Cached) Generate(ctx context.Context, req Request) (*Image, error) {
	key := c.Key(req)
	hooks := observability.Cache()

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var img Image
		if json.Unmarshal(data, &img) == nil {
			hooks.OnCacheHit(ctx, "image")
			img.Cached = true
			return &img, nil
		}
	}
	hooks.OnCacheMiss(ctx, "image")

	img, err := c.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(img); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, "image", len(data))
		}
	}
	return img, nil
}
