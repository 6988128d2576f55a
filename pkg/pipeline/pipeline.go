// Package pipeline provides the core diagram pipeline for typegrid.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI, API, and watcher components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a metamodel from a manifest file or a model store
//  2. Layout: Compute the layered diagram geometry for the model
//  3. Render: Generate output in various formats (SVG, JSON, DOT, PNG, PDF)
//
// Each stage can be run independently or as part of the complete pipeline.
// The layout engine itself is a pure function; all memoization happens here,
// keyed on content hashes of each stage's inputs.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Manifest: "enterprise.toml",
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	m, err := runner.Load(ctx, opts)
//
//	// Layout with an existing model
//	geo, err := runner.Layout(ctx, m, opts)
//
//	// Render with existing geometry
//	artifacts, err := runner.Render(ctx, geo, m, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/typegrid/typegrid/pkg/cache"
	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/errors"
	"github.com/typegrid/typegrid/pkg/model"
	"github.com/typegrid/typegrid/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Watcher
// =============================================================================

const (
	// DefaultStyle is the default visual style for rendered diagrams.
	DefaultStyle = render.StyleSimple

	// DefaultScale is the default raster scale for PNG export.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	render.StyleSimple:    true,
	render.StyleBlueprint: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of Manifest and Model must be set:
	// Manifest is a manifest file path, Model a name in the store.
	Manifest string `json:"manifest,omitempty"`
	Model    string `json:"model,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"` // bypass cached stage results

	// Layout options. Categories overrides the layer order declared by the
	// model; Fallback renames the catch-all layer for unmatched categories.
	Categories []string `json:"categories,omitempty"`
	Fallback   string   `json:"fallback,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Scale    float64  `json:"scale,omitempty"`    // PNG raster scale
	Detailed bool     `json:"detailed,omitempty"` // include category and field counts in DOT labels
	Ranked   bool     `json:"ranked,omitempty"`   // pin categories to shared ranks in DOT

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Store  model.Store `json:"-"` // backend for Model loads

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the loaded metamodel.
	Model *model.Model

	// ModelHash is the content hash of the model's canonical JSON form.
	ModelHash string

	// Geometry is the computed diagram layout.
	Geometry diagram.Geometry

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings holds lint findings on the loaded model (dangling relation
	// endpoints, unlabeled relations). They never fail the pipeline.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TypeCount     int // card types in the model
	RelationCount int // relations in the model
	PlacedNodes   int // visible types placed by layout
	RoutedEdges   int // relations routed by layout
	LoadTime      time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the parsed model came from cache
	LayoutHit bool // Whether the geometry came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be one of: simple, blueprint)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for the load stage.
func (o *Options) ValidateForLoad() error {
	if o.Manifest == "" && o.Model == "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest path or model name is required")
	}
	if o.Manifest != "" && o.Model != "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest and model are mutually exclusive")
	}
	if o.Model != "" && o.Store == nil {
		return errors.New(errors.ErrCodeInvalidInput, "model loads require a store")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// Source names the model source for logs, hooks, and cache keys:
// "manifest:<path>" or "store:<name>".
func (o *Options) Source() string {
	if o.Manifest != "" {
		return "manifest:" + o.Manifest
	}
	return "store:" + o.Model
}

// LayoutConfig builds the diagram configuration for a model. Explicit
// option overrides win, then the model's declared categories, then the
// engine defaults.
func (o *Options) LayoutConfig(m *model.Model) diagram.Config {
	cfg := diagram.DefaultConfig()
	if len(o.Categories) > 0 {
		cfg.Categories = o.Categories
	} else if m != nil && len(m.Categories) > 0 {
		cfg.Categories = m.Categories
	}
	if o.Fallback != "" {
		cfg.Fallback = o.Fallback
	}
	return cfg
}

// LayoutKeyOpts returns cache key options for the layout stage. The key
// covers exactly the configuration [Options.LayoutConfig] derives, so a
// category override never serves geometry computed under another order.
func (o *Options) LayoutKeyOpts(m *model.Model) cache.LayoutKeyOpts {
	cfg := o.LayoutConfig(m)
	return cache.LayoutKeyOpts{
		Categories: cfg.Categories,
		Fallback:   cfg.Fallback,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Format-specific knobs enter the key only for the format they affect.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
	}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatDOT:
		opts.Detailed = o.Detailed
		opts.Ranked = o.Ranked
	}
	return opts
}
