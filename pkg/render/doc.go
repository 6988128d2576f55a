// Package render turns computed diagram geometry into deliverable
// artifacts.
//
// # Overview
//
// This package contains the output side of the pipeline. It provides:
//
//   - SVG rendering of layered diagrams ([RenderSVG], with [Simple] and
//     [Blueprint] styles)
//   - The JSON artifact for the admin UI and cache ([Document])
//   - Graphviz relation overviews ([ToDOT], [RenderDOTSVG])
//   - Generic format conversion ([ToPDF], [ToPNG])
//
// # Layered Diagram
//
// [RenderSVG] walks a [diagram.Geometry] and draws layer bands, tinted
// type boxes, rounded relation paths with arrowheads, and the placed
// labels. The model is optional; it contributes display names, colors,
// and hover titles:
//
//	nodes, edges := m.Snapshot()
//	geo := diagram.Layout(nodes, edges, diagram.DefaultConfig())
//	svg := render.RenderSVG(geo, render.WithModel(m), render.WithStyle(render.Blueprint{}))
//
// Output is byte-for-byte deterministic for a given geometry, model, and
// style.
//
// # Relation Overview
//
// [ToDOT] exports the raw relation graph for Graphviz as a second,
// force-directed view of the same model:
//
//	dot := render.ToDOT(m, render.DOTOptions{Ranked: true})
//	svg, err := render.RenderDOTSVG(ctx, dot)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
// tool (from librsvg):
//
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
package render
