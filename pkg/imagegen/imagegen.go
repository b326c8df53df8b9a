// Package imagegen sends house sketch prompts to hosted text-to-image
// services.
//
// Two providers are supported:
//
//   - [Replicate]: creates a prediction and polls its status every
//     PollInterval until it succeeds, fails or is canceled. The result is
//     an image URL.
//   - [Stability]: a single synchronous request that returns the image
//     bytes.
//
// [New] picks the provider from configuration and [Cached] stores results
// in a [cache.Cache] so an identical prompt is not paid for twice.
//
// The image reference a provider returns is opaque to this module; it is
// displayed or saved, never inspected.
package imagegen

import (
	"context"
	"strings"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

// Provider names.
const (
	ProviderReplicate = "replicate"
	ProviderStability = "stability"
)

// Request is one text-to-image call.
type Request struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"steps"`
	Guidance       float64 `json:"guidance"`
}

// Validate reports an empty prompt or non-positive size.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return herrors.New(herrors.ErrCodeInvalidInput, "prompt is empty")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return herrors.New(herrors.ErrCodeInvalidInput, "image size must be positive, got %dx%d", r.Width, r.Height)
	}
	return nil
}

// Image is a generated picture. Either URL or Data is set.
type Image struct {
	ID        string `json:"id"`
	Provider  string `json:"provider"`
	URL       string `json:"url,omitempty"`
	Data      []byte `json:"data,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Cached    bool   `json:"cached,omitempty"`
}

// Generator turns a prompt into an image.
type Generator interface {
	// Name returns the provider name used in cache keys and logs.
	Name() string

	// Generate blocks until the provider returns a final result or ctx is
	// cancelled.
	Generate(ctx context.Context, req Request) (*Image, error)
}

// errNoOutput is returned when a provider reports success without an image.
func errNoOutput() error {
	return herrors.New(herrors.ErrCodeEmptyOutput, "image generation returned no output")
}
