package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several workspaces share one cache backend (a single
// Redis instance serving multiple admin deployments, say) and their entries
// must not collide.
//
// Example usage:
//
//	// Workspace-specific keys
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:acme:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
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

// ModelKey generates a prefixed key for model snapshot caching.
func (k *ScopedKeyer) ModelKey(source, contentHash string) string {
	return k.prefix + k.inner.ModelKey(source, contentHash)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(modelHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(modelHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
