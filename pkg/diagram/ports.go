package diagram

import (
	"cmp"
	"slices"
)

// portPair is the resolved attachment of one route: the point it leaves its
// source node from and the point it enters its target node at.
type portPair struct {
	src Point
	dst Point
}

// assignPorts spreads edge attachment points along node faces. Downward
// edges leave through the source's bottom face and enter the target's top
// face; upward edges do the opposite; arcs and self-loops use top faces
// only, a loop taking two adjacent ports on its node.
//
// Ports on a face are ordered by the horizontal center of the opposite
// endpoint so edges fan out toward where they are headed instead of
// crossing right at the node border. Ties fall back to input order. Each
// face spreads its k ports evenly across the face width inset by
// PortMargin; a single port lands on the face center.
func assignPorts(routes []route, f frame, cfg Config) []portPair {
	type faceKey struct {
		node string
		top  bool
	}
	type demand struct {
		route  int
		entry  bool
		otherX float64
		seq    int
		half   int // orders the two ports of a self-loop
	}

	byFace := make(map[faceKey][]demand, 16)
	add := func(fc faceKey, d demand) { byFace[fc] = append(byFace[fc], d) }

	for i, r := range routes {
		srcX := f.rects[r.edge.Source].CenterX()
		dstX := f.rects[r.edge.Target].CenterX()
		switch r.kind {
		case PathDown:
			add(faceKey{r.edge.Source, false}, demand{route: i, otherX: dstX, seq: r.seq})
			add(faceKey{r.edge.Target, true}, demand{route: i, entry: true, otherX: srcX, seq: r.seq})
		case PathUp:
			add(faceKey{r.edge.Source, true}, demand{route: i, otherX: dstX, seq: r.seq})
			add(faceKey{r.edge.Target, false}, demand{route: i, entry: true, otherX: srcX, seq: r.seq})
		case PathArc:
			add(faceKey{r.edge.Source, true}, demand{route: i, otherX: dstX, seq: r.seq})
			add(faceKey{r.edge.Target, true}, demand{route: i, entry: true, otherX: srcX, seq: r.seq})
		case PathLoop:
			add(faceKey{r.edge.Source, true}, demand{route: i, otherX: srcX, seq: r.seq})
			add(faceKey{r.edge.Source, true}, demand{route: i, entry: true, otherX: srcX, seq: r.seq, half: 1})
		}
	}

	// Each face resolves independently, so map order does not matter: every
	// (route, side) slot is written exactly once.
	ports := make([]portPair, len(routes))
	for fc, ds := range byFace {
		slices.SortStableFunc(ds, func(a, b demand) int {
			if c := cmp.Compare(a.otherX, b.otherX); c != 0 {
				return c
			}
			if c := cmp.Compare(a.seq, b.seq); c != 0 {
				return c
			}
			return cmp.Compare(a.half, b.half)
		})

		rect := f.rects[fc.node]
		left, span := rect.X+cfg.PortMargin, rect.W-2*cfg.PortMargin
		if span <= 0 {
			left, span = rect.X, rect.W
		}
		y := rect.Bottom()
		if fc.top {
			y = rect.Y
		}
		k := float64(len(ds))
		for i, d := range ds {
			p := Point{X: left + span*(float64(i)+0.5)/k, Y: y}
			if d.entry {
				ports[d.route].dst = p
			} else {
				ports[d.route].src = p
			}
		}
	}
	return ports
}
