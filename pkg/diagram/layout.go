package diagram

// Layout computes complete render-ready geometry for one metamodel
// snapshot: node rectangles grouped into category layers, orthogonal edge
// polylines routed through the gaps between layers, and a collision-probed
// anchor for every edge label.
//
// # Algorithm
//
//  1. Group visible nodes into category layers ([Config.Categories] order,
//     unmatched categories in a trailing fallback layer, empty layers
//     omitted).
//  2. Classify every edge (down, up, same-layer arc, self-loop) and expand
//     it into the gaps it crosses; edges touching unknown or hidden nodes
//     are dropped.
//  3. Size and place the frame: layer rows centered against the widest row,
//     gap bands grown to fit their track and arc demand.
//  4. Allocate ports along node faces, one track per edge per gap, and
//     corridor lanes for straight-through layer transits.
//  5. Emit waypoint polylines and place labels first-fit around their
//     natural anchors.
//
// # Determinism
//
// The result is a pure function of the inputs. Identical nodes, edges, and
// cfg yield an identical Geometry across calls and processes: all internal
// sorts are stable with ties broken by input position, and no map iteration
// influences an ordered decision. Callers may cache results keyed on a hash
// of the inputs.
//
// # Nil Handling
//
// Nil or empty nodes return an empty Geometry with zero extents and
// non-nil, empty maps. Nil edges lay out unconnected nodes. cfg fields left
// zero fall back to [DefaultConfig] values.
//
// # Performance
//
// Runs in O(n log n) over nodes plus O(e·g + e log e) over edges, where g
// is the number of gaps an edge crosses. Metamodels are small (tens of
// nodes, hundreds of edges), so a full recompute per edit is cheaper than
// maintaining incremental state.
func Layout(nodes []Node, edges []Edge, cfg Config) Geometry {
	cfg = cfg.withDefaults()

	layers := buildLayers(nodes, cfg)
	if len(layers) == 0 {
		return Geometry{Nodes: map[string]Rect{}, Edges: map[string]EdgePath{}}
	}

	routes, trackCount, arcCount := classifyEdges(edges, layers)
	f := planFrame(layers, trackCount, arcCount, cfg)

	ports := assignPorts(routes, f, cfg)
	tracks := assignTracks(routes, f, cfg)
	lanes := assignCorridors(routes, f, cfg)
	labels := placeLabels(routes, ports, tracks, lanes, f, cfg)

	geo := Geometry{
		Width:  f.width,
		Height: f.height,
		Nodes:  f.rects,
		Edges:  make(map[string]EdgePath, len(routes)),
		Layers: f.layers,
	}
	for i, r := range routes {
		geo.Edges[r.edge.Key] = EdgePath{
			Kind:     r.kind,
			Points:   buildPath(r, ports[i], tracks[i], lanes[i], f, cfg),
			Label:    labels[i].at,
			LabelBox: labels[i].box,
		}
	}
	return geo
}
