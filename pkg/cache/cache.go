// Package cache provides content-addressed caching for pipeline results.
//
// The layout engine is pure, so memoization lives here instead: every stage
// result (parsed model, computed geometry, rendered artifact) is stored
// under a key derived from a hash of its inputs. Two backends are provided,
// a file cache for single-machine CLI use and a Redis cache for deployments
// where several admin processes share state, plus a null cache that disables
// caching entirely.
//
// Keys never embed mutable state, only content hashes, so a cache entry can
// never be stale — the TTLs merely bound how long abandoned entries linger.
package cache

import (
	"context"
	"time"
)

// Default TTLs per key type.
const (
	TTLModel    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores pipeline byte payloads keyed by content-derived strings.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKeyOpts captures the options that change computed geometry.
type LayoutKeyOpts struct {
	Categories []string `json:"categories"`
	Fallback   string   `json:"fallback"`
}

// ArtifactKeyOpts captures the options that change a rendered artifact.
// Fields that only affect one format are left zero for the others, so an
// SVG key is not fragmented by DOT flags.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style"`
	Scale    float64 `json:"scale,omitempty"`    // PNG raster scale
	Detailed bool    `json:"detailed,omitempty"` // DOT node detail
	Ranked   bool    `json:"ranked,omitempty"`   // DOT rank pinning
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// ModelKey generates a key for a parsed model snapshot.
	ModelKey(source, contentHash string) string

	// LayoutKey generates a key for computed geometry.
	LayoutKey(modelHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ModelKey generates a key for a parsed model snapshot.
func (k *DefaultKeyer) ModelKey(source, contentHash string) string {
	return hashKey("model", source, contentHash)
}

// LayoutKey generates a key for computed geometry.
func (k *DefaultKeyer) LayoutKey(modelHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", modelHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
