package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/typegrid/typegrid/pkg/cache"
	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/model"
	"github.com/typegrid/typegrid/pkg/observability"
	"github.com/typegrid/typegrid/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// HashModel returns the content hash of a model's canonical JSON form.
// Layout cache keys and API ETags build on this hash.
func HashModel(m *model.Model) string {
	data, _ := json.Marshal(m)
	return cache.Hash(data)
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source())
	m, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	observability.Pipeline().OnLoadComplete(ctx, opts.Source(), typeCount(m), time.Since(loadStart), err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Model = m
	result.ModelHash = HashModel(m)
	result.Warnings = m.Lint()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.TypeCount = len(m.CardTypes)
	result.Stats.RelationCount = len(m.Relations)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded model",
		"source", opts.Source(),
		"types", len(m.CardTypes),
		"relations", len(m.Relations),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, len(m.CardTypes), len(m.Relations))
	geo, layoutHit, err := r.LayoutWithCacheInfo(ctx, m, opts)
	observability.Pipeline().OnLayoutComplete(ctx, len(geo.Nodes), time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Geometry = geo
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.PlacedNodes = len(geo.Nodes)
	result.Stats.RoutedEdges = len(geo.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(geo.Nodes),
		"edges", len(geo.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, geo, m, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the model with caching and returns cache hit info.
//
// Only manifest loads go through the cache: the key is content-addressed
// (path plus a hash of the file bytes), so a cache hit skips re-parsing and
// re-validating an unchanged manifest. Store loads always read the backend,
// since hashing would require the very content the load produces.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*model.Model, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	if opts.Model != "" {
		m, err := opts.Store.Get(ctx, opts.Model)
		return m, false, err
	}

	data, format, err := readManifest(opts.Manifest)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.ModelKey(opts.Manifest, cache.Hash(data))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var m model.Model
			if err := json.Unmarshal(cached, &m); err == nil {
				observability.Cache().OnCacheHit(ctx, "model")
				return &m, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "model")
	}

	m, err := parseManifest(data, format, opts.Manifest)
	if err != nil {
		return nil, false, err
	}

	// Cache the validated model in canonical JSON form
	if !opts.Refresh {
		if out, err := json.Marshal(m); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, out, cache.TTLModel)
			observability.Cache().OnCacheSet(ctx, "model", len(out))
		}
	}

	return m, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*model.Model, error) {
	m, _, err := r.LoadWithCacheInfo(ctx, opts)
	return m, err
}

// LayoutWithCacheInfo computes geometry with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, m *model.Model, opts Options) (diagram.Geometry, bool, error) {
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(HashModel(m), opts.LayoutKeyOpts(m))

	// Try cache first
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached diagram.Geometry
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	geo := ComputeLayout(m, opts)

	// Cache the result
	if !opts.Refresh {
		if data, err := json.Marshal(geo); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return geo, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, m *model.Model, opts Options) (diagram.Geometry, error) {
	geo, _, err := r.LayoutWithCacheInfo(ctx, m, opts)
	return geo, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
//
// The artifact key hashes the model together with the geometry: the SVG
// draws display names and colors straight from the model, so geometry alone
// would serve stale artifacts after a pure rename.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, geo diagram.Geometry, m *model.Model, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	docData, err := json.Marshal(render.Document{Model: m, Geometry: geo})
	if err != nil {
		return nil, false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	contentHash := cache.Hash(docData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil // All artifacts from cache
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	rendered, err := RenderArtifacts(geo, m, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if !opts.Refresh {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, geo diagram.Geometry, m *model.Model, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, geo, m, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func typeCount(m *model.Model) int {
	if m == nil {
		return 0
	}
	return len(m.CardTypes)
}
