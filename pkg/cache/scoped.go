package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis database without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ImageKey generates a prefixed key for generated images.
func (k *ScopedKeyer) ImageKey(provider, prompt string, opts ImageKeyOpts) string {
	return k.prefix + k.inner.ImageKey(provider, prompt, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
