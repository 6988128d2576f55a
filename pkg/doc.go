// Package pkg provides the core libraries for typegrid metamodel diagramming.
//
// # Overview
//
// Typegrid turns a typed metamodel - card types, their fields, and the
// relations between them - into a deterministic layered diagram with
// orthogonally routed edges. The pkg directory is organized into four
// main areas:
//
//  1. [model] - The metamodel itself (types, relations, manifests, stores)
//  2. [diagram] - Layered layout and edge routing
//  3. [render] - Output formats (SVG, DOT, JSON, PNG, PDF)
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow through typegrid:
//
//	Manifest (TOML/JSON/YAML) or Store (file/MongoDB)
//	         ↓
//	    [model] package (parse + validate)
//	         ↓
//	    [diagram] package (layers, ordering, placement, routing)
//	         ↓
//	    [render] package (SVG/DOT/JSON output)
//	         ↓
//	    SVG/PNG/PDF/JSON/DOT artifacts
//
// # Quick Start
//
// Load a manifest and render it:
//
//	import (
//	    "github.com/typegrid/typegrid/pkg/diagram"
//	    "github.com/typegrid/typegrid/pkg/model"
//	    "github.com/typegrid/typegrid/pkg/render"
//	)
//
//	// 1. Load and validate the manifest
//	m, _ := model.Load("architecture.toml")
//
//	// 2. Compute the layout
//	nodes, edges := m.Snapshot()
//	geo := diagram.Layout(nodes, edges, diagram.Config{
//	    Categories: m.CategoriesOrDefault(),
//	})
//
//	// 3. Render to SVG
//	svg := render.RenderSVG(geo, render.WithModel(m))
//
// # Main Packages
//
// ## Metamodel
//
// [model] - Card types, fields, and relation types with validation and
// lint rules. Manifests round-trip through TOML, JSON, and YAML. The
// [model.Store] interface persists named models; backends exist for a
// directory of JSON documents and for MongoDB.
//
// ## Layout
//
// [diagram] - The layout engine. Card types are grouped into category
// layers, ordered within each layer to reduce edge crossings, placed on
// a grid, and connected with orthogonal edge paths routed through
// corridors between the layers. Same input, same output: the engine has
// no randomness.
//
// ## Rendering
//
// [render] - Geometry to artifact conversion. SVG is the primary output
// with two styles (simple, blueprint); DOT feeds Graphviz; the JSON
// document embeds the model and geometry for downstream tooling; PNG and
// PDF rasterize the SVG via librsvg.
//
// ## Orchestration
//
// [pipeline] - The staged load → layout → render pipeline shared by the
// CLI, the HTTP API, and the watcher. Stage results are cached under
// content-addressed keys, so editing a manifest invalidates exactly the
// stages whose inputs changed.
//
// [cache] - Cache backends for pipeline stage results: local filesystem,
// Redis, and a null cache. Keys never embed mutable state, only content
// hashes.
//
// [errors] - Error codes shared by all surfaces. Codes classify errors
// for exit codes and HTTP status mapping; [errors.UserMessage] renders
// them for humans.
//
// [observability] - Pipeline execution hooks for timing and stage
// outcome reporting.
//
// [buildinfo] - Version information injected at build time.
//
// # Common Workflows
//
// Run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Manifest: "architecture.toml",
//	    Formats:  []string{"svg", "json"},
//	})
//
// Store and serve models:
//
//	store, _ := model.NewFileStore("")
//	store.Put(ctx, "crm", m)
//
// Export the relation graph for Graphviz:
//
//	dot := render.ToDOT(m, render.DOTOptions{Ranked: true})
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/diagram/...    # Specific package
//	go test -run Example         # Examples only
//
// [model]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/model
// [model.Store]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/model#Store
// [diagram]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/diagram
// [render]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/cache
// [errors]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/errors
// [errors.UserMessage]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/errors#UserMessage
// [observability]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/typegrid/typegrid/pkg/buildinfo
package pkg
