package imagegen

import (
	"github.com/matzehuels/housesketch/pkg/config"
	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

// New returns the generator selected by cfg.Provider. It fails with
// MISSING_CREDENTIALS when the provider's token is unset and with
// UNSUPPORTED when image generation is disabled.
func New(cfg config.ImageGenConfig) (Generator, error) {
	token, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderReplicate:
		return NewReplicate(ReplicateOptions{
			Token:        token,
			Version:      cfg.Version,
			BaseURL:      cfg.BaseURL,
			PollInterval: cfg.PollInterval,
			Timeout:      cfg.RequestTimeout,
		}), nil
	case config.ProviderStability:
		return NewStability(StabilityOptions{
			APIKey:  token,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.RequestTimeout,
		}), nil
	default:
		return nil, herrors.New(herrors.ErrCodeUnsupported, "unknown image provider %q", cfg.Provider)
	}
}

// RequestFromConfig fills the size and sampling parameters of a request
// from cfg.
func RequestFromConfig(cfg config.ImageGenConfig, prompt, negative string) Request {
	return Request{
		Prompt:         prompt,
		NegativePrompt: negative,
		Width:          cfg.Width,
		Height:         cfg.Height,
		Steps:          cfg.Steps,
		Guidance:       cfg.Guidance,
	}
}
