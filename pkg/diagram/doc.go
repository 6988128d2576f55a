// Package diagram computes layered metamodel diagrams: category layers of
// type boxes with orthogonally routed, labelled relation edges.
//
// # Overview
//
// The package turns a flat list of typed nodes and directed edges into
// complete render-ready geometry. Nodes are grouped into horizontal layers by
// category, edges are routed through the gaps between layers on dedicated
// horizontal tracks and vertical corridors, and each edge label is placed
// near its edge while avoiding nodes and previously placed labels.
//
// The entry point is [Layout]:
//
//	geo := diagram.Layout(nodes, edges, diagram.DefaultConfig())
//	for key, rect := range geo.Nodes { ... }
//	for key, path := range geo.Edges { ... }
//
// [Layout] is a pure function. The same nodes, edges, and [Config] always
// produce an identical [Geometry]; every ordering decision inside the
// pipeline is either derived from geometry or broken by input position, so
// callers can diff or hash results across runs. Memoization is deliberately
// left to the caller (see the pipeline package's cache keys).
//
// # Algorithm
//
// Layout runs a fixed pipeline over the inputs:
//
//  1. Group visible nodes into layers by category, ordered by
//     [Config.Categories] with a trailing fallback layer; empty layers are
//     omitted.
//  2. Classify each edge as downward, upward, same-layer, or self-loop, and
//     expand it into the ordered list of layer gaps it crosses.
//  3. Assign ports: the exit and entry offsets along node top/bottom faces,
//     ordered by the horizontal position of the opposite endpoint.
//  4. Assign one horizontal track per edge per crossed gap, ordered by the
//     edge's interpolated x position, so no two edges share a y in a gap.
//  5. Route multi-gap edges through vertical corridors between node columns,
//     spreading edges that share a corridor.
//  6. Emit waypoint polylines (rounded at render time via [RoundPath]) and
//     place labels by first-fit probing around the natural anchor.
//
// Same-layer edges bypass tracks and corridors entirely: they arc through
// the band above their own layer, stacked outward per layer in input order.
//
// # Determinism
//
// All sorts are stable and every comparison falls back to input order on
// ties. No map iteration feeds an ordered result. Two processes laying out
// the same model render byte-identical artifacts.
//
// # Concurrency
//
// [Layout] shares no state between calls and is safe to invoke from any
// number of goroutines. A [Geometry] is immutable once returned as long as
// callers refrain from mutating its maps and slices.
package diagram
