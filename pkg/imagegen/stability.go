package imagegen

import (
	"bytes"
	"context"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

// StabilityBaseURL is the public Stability AI API endpoint.
const StabilityBaseURL = "https://api.stability.ai"

const stabilityCorePath = "/v2beta/stable-image/generate/core"

// aspectRatios are the ratios the Stable Image Core endpoint accepts.
var aspectRatios = []struct {
	name  string
	ratio float64
}{
	{"21:9", 21.0 / 9}, {"16:9", 16.0 / 9}, {"3:2", 3.0 / 2}, {"5:4", 5.0 / 4},
	{"1:1", 1}, {"4:5", 4.0 / 5}, {"2:3", 2.0 / 3}, {"9:16", 9.0 / 16}, {"9:21", 9.0 / 21},
}

// StabilityOptions configures [NewStability].
type StabilityOptions struct {
	APIKey  string
	BaseURL string        // defaults to StabilityBaseURL
	Timeout time.Duration // defaults to 60s
}

// Stability generates images with the Stable Image Core endpoint.
type Stability struct {
	client *Client
}

// NewStability creates a Stability generator.
func NewStability(opts StabilityOptions) *Stability {
	if opts.BaseURL == "" {
		opts.BaseURL = StabilityBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Stability{
		client: NewClient(opts.BaseURL, opts.Timeout, map[string]string{
			"Authorization": "Bearer " + opts.APIKey,
		}),
	}
}

// Name implements Generator.
func (s *Stability) Name() string { return ProviderStability }

// Generate posts the prompt and returns the PNG bytes.
func (s *Stability) Generate(ctx context.Context, req Request) (*Image, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := [][2]string{
		{"prompt", req.Prompt},
		{"aspect_ratio", AspectRatio(req.Width, req.Height)},
		{"output_format", "png"},
	}
	if req.NegativePrompt != "" {
		fields = append(fields, [2]string{"negative_prompt", req.NegativePrompt})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeInternal, err, "encode request")
		}
	}
	if err := w.Close(); err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, err, "encode request")
	}

	data, mediaType, err := s.client.PostRaw(ctx, stabilityCorePath, w.FormDataContentType(), &body,
		map[string]string{"Accept": "image/*"})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errNoOutput()
	}
	if mediaType == "" || !strings.HasPrefix(mediaType, "image/") {
		mediaType = "image/png"
	}
	return &Image{
		ID:        uuid.NewString(),
		Provider:  ProviderStability,
		Data:      data,
		MediaType: mediaType,
	}, nil
}

// AspectRatio returns the supported aspect ratio closest to width:height.
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return "1:1"
	}
	want := float64(width) / float64(height)
	best, bestDiff := "1:1", math.Inf(1)
	for _, ar := range aspectRatios {
		if d := math.Abs(math.Log(want / ar.ratio)); d < bestDiff {
			best, bestDiff = ar.name, d
		}
	}
	return best
}

// Model returns the Stability model family in use.
func (s *Stability) Model() string { return "stable-image-core" }
