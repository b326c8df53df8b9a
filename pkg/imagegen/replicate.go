package imagegen

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/httputil"
)

// ReplicateBaseURL is the public Replicate API endpoint.
const ReplicateBaseURL = "https://api.replicate.com"

// Prediction states reported by Replicate.
const (
	statusStarting   = "starting"
	statusProcessing = "processing"
	statusSucceeded  = "succeeded"
	statusFailed     = "failed"
	statusCanceled   = "canceled"
)

// ReplicateOptions configures [NewReplicate].
type ReplicateOptions struct {
	Token        string
	Version      string
	BaseURL      string        // defaults to ReplicateBaseURL
	PollInterval time.Duration // defaults to 2s
	Timeout      time.Duration // per HTTP call, defaults to 60s
}

// Replicate generates images through Replicate predictions.
type Replicate struct {
	client  *Client
	version string
	poll    time.Duration
}

// NewReplicate creates a Replicate generator.
func NewReplicate(opts ReplicateOptions) *Replicate {
	if opts.BaseURL == "" {
		opts.BaseURL = ReplicateBaseURL
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Replicate{
		client: NewClient(opts.BaseURL, opts.Timeout, map[string]string{
			"Authorization": "Bearer " + opts.Token,
		}),
		version: opts.Version,
		poll:    opts.PollInterval,
	}
}

// Name implements Generator.
func (r *Replicate) Name() string { return ProviderReplicate }

type predictionInput struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"num_inference_steps,omitempty"`
	Guidance       float64 `json:"guidance_scale,omitempty"`
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
}

func (p *prediction) terminal() bool {
	switch p.Status {
	case statusSucceeded, statusFailed, statusCanceled:
		return true
	}
	return false
}

// firstOutput returns the first image URL. SDXL answers with a list; some
// models return a single string.
func (p *prediction) firstOutput() string {
	var list []string
	if json.Unmarshal(p.Output, &list) == nil {
		for _, s := range list {
			if s != "" {
				return s
			}
		}
		return ""
	}
	var single string
	if json.Unmarshal(p.Output, &single) == nil {
		return single
	}
	return ""
}

func (p *prediction) errorText() string {
	var s string
	if json.Unmarshal(p.Error, &s) == nil && s != "" {
		return s
	}
	if len(p.Error) > 0 && string(p.Error) != "null" {
		return string(p.Error)
	}
	return "no reason given"
}

// Generate creates a prediction and polls it until a terminal status. The
// wait is bounded only by ctx.
func (r *Replicate) Generate(ctx context.Context, req Request) (*Image, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var p prediction
	body := predictionRequest{
		Version: r.version,
		Input: predictionInput{
			Prompt:         req.Prompt,
			NegativePrompt: req.NegativePrompt,
			Width:          req.Width,
			Height:         req.Height,
			Steps:          req.Steps,
			Guidance:       req.Guidance,
		},
	}
	if err := r.client.PostJSON(ctx, "/v1/predictions", body, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, herrors.New(herrors.ErrCodeProviderFailed, "prediction has no id")
	}

	// The create response already carries a status, so the first GET waits
	// one interval.
	first := true
	err := httputil.Poll(ctx, r.poll, func(ctx context.Context) (bool, error) {
		if first {
			first = false
			return p.terminal(), nil
		}
		if err := r.client.GetJSON(ctx, "/v1/predictions/"+url.PathEscape(p.ID), &p); err != nil {
			return false, err
		}
		return p.terminal(), nil
	})
	if err != nil {
		return nil, err
	}

	switch p.Status {
	case statusFailed:
		return nil, herrors.New(herrors.ErrCodeProviderFailed, "image generation failed: %s", p.errorText())
	case statusCanceled:
		return nil, herrors.New(herrors.ErrCodeProviderFailed, "image generation was canceled")
	}

	out := p.firstOutput()
	if out == "" {
		return nil, errNoOutput()
	}
	if err := herrors.ValidateURL(out); err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeProviderFailed, err, "image generation returned an unusable URL")
	}
	return &Image{ID: p.ID, Provider: ProviderReplicate, URL: out}, nil
}

// Model returns the model version predictions are created with.
func (r *Replicate) Model() string { return r.version }
