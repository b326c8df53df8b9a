package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level
// structured log lines. Errors are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Register installs h for all hook categories.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, widthM, lengthM float64, floors int) {
	h.logger.Debug("layout start", "width", widthM, "length", lengthM, "floors", floors)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, zones int, footprintM2 float64, d time.Duration) {
	h.logger.Debug("layout complete", "zones", zones, "footprint_m2", footprintM2, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats, views []string) {
	h.logger.Debug("render start", "formats", formats, "views", views)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, artifacts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "took", d, "err", err)
		return
	}
	h.logger.Debug("render complete", "artifacts", artifacts, "took", d)
}

func (h *LogHooks) OnImageStart(_ context.Context, provider string) {
	h.logger.Debug("image generation start", "provider", provider)
}

func (h *LogHooks) OnImageComplete(_ context.Context, provider string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("image generation failed", "provider", provider, "took", d, "err", err)
		return
	}
	h.logger.Debug("image generation complete", "provider", provider, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}
