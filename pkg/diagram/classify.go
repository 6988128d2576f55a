package diagram

// route is the classified travel plan of one edge before any geometry
// exists: its direction class, the ordered gaps it crosses, and its input
// position, which is the tie-breaker for every later sort.
type route struct {
	edge Edge
	seq  int
	kind PathKind
	src  int // source layer index
	dst  int // target layer index

	// gaps lists the gap indices the edge crosses, in travel order:
	// ascending for downward edges, descending for upward ones.
	gaps []int

	// arcLayer and arcIdx position same-layer arcs and self-loops in the
	// stack above their layer. arcIdx counts per layer in input order.
	arcLayer int
	arcIdx   int
}

// classifyEdges resolves each edge against the placed layers and expands it
// into a route. Edges with a missing or hidden endpoint are dropped; layout
// treats them as not part of the diagram rather than an error. Alongside the
// routes it tallies how many edges cross each gap (track demand) and how
// many arcs stack above each layer.
func classifyEdges(edges []Edge, layers []layer) (routes []route, trackCount, arcCount []int) {
	layerOf := make(map[string]int, 16)
	for i, ly := range layers {
		for _, n := range ly.nodes {
			layerOf[n.Key] = i
		}
	}

	nGaps := len(layers) - 1
	if nGaps < 0 {
		nGaps = 0
	}
	trackCount = make([]int, nGaps)
	arcCount = make([]int, len(layers))

	for i, e := range edges {
		s, okS := layerOf[e.Source]
		t, okT := layerOf[e.Target]
		if !okS || !okT {
			continue
		}
		r := route{edge: e, seq: i, src: s, dst: t}
		switch {
		case e.Source == e.Target:
			r.kind = PathLoop
			r.arcLayer = s
			r.arcIdx = arcCount[s]
			arcCount[s]++
		case s == t:
			r.kind = PathArc
			r.arcLayer = s
			r.arcIdx = arcCount[s]
			arcCount[s]++
		case s < t:
			r.kind = PathDown
			for g := s; g < t; g++ {
				r.gaps = append(r.gaps, g)
				trackCount[g]++
			}
		default:
			r.kind = PathUp
			for g := s - 1; g >= t; g-- {
				r.gaps = append(r.gaps, g)
				trackCount[g]++
			}
		}
		routes = append(routes, r)
	}
	return routes, trackCount, arcCount
}
