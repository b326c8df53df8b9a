package cache

// ImageKeyOpts holds the request parameters that change a generated image.
type ImageKeyOpts struct {
	Model          string  `json:"model"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Steps          int     `json:"steps"`
	Guidance       float64 `json:"guidance"`
}

// ArtifactKeyOpts identifies one rendered output of a plan.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	View   string `json:"view"`
	Floor  int    `json:"floor,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ImageKey identifies a generated image for a provider and prompt.
	ImageKey(provider, prompt string, opts ImageKeyOpts) string

	// ArtifactKey identifies a rendered artifact of the plan with the given
	// input hash.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key layout.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ImageKey returns "image:<provider>:<hash>".
func (DefaultKeyer) ImageKey(provider, prompt string, opts ImageKeyOpts) string {
	return hashKey("image:"+provider, prompt, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
