package diagram

import (
	"cmp"
	"slices"
)

// assignTracks reserves a dedicated horizontal track for every edge in every
// gap it crosses, so no two horizontal runs in a gap ever share a y
// coordinate. The result is parallel to routes: out[i][j] is the track y for
// routes[i].gaps[j].
//
// Within a gap, edges are ordered by their interpolated x position at that
// gap: an edge crossing m gaps is sampled at fraction (j+1)/(m+1) of the way
// from its source center to its target center for its j-th crossing. Edges
// heading left therefore take higher tracks on the left side of the canvas
// and lower ones on the right, which keeps long runs roughly parallel to
// their overall direction. Ties fall back to input order, and tracks spread
// symmetrically around the gap center.
func assignTracks(routes []route, f frame, cfg Config) [][]float64 {
	type crossing struct {
		route int
		leg   int // index into routes[route].gaps
		x     float64
		seq   int
	}

	perGap := make([][]crossing, len(f.gaps))
	for i, r := range routes {
		if len(r.gaps) == 0 {
			continue
		}
		sx := f.rects[r.edge.Source].CenterX()
		tx := f.rects[r.edge.Target].CenterX()
		m := float64(len(r.gaps))
		for j, g := range r.gaps {
			frac := (float64(j) + 1) / (m + 1)
			perGap[g] = append(perGap[g], crossing{route: i, leg: j, x: sx + (tx-sx)*frac, seq: r.seq})
		}
	}

	out := make([][]float64, len(routes))
	for i, r := range routes {
		if n := len(r.gaps); n > 0 {
			out[i] = make([]float64, n)
		}
	}
	for g, cs := range perGap {
		slices.SortStableFunc(cs, func(a, b crossing) int {
			if c := cmp.Compare(a.x, b.x); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
		for i, c := range cs {
			out[c.route][c.leg] = f.gaps[g].trackY(i, len(cs), cfg)
		}
	}
	return out
}
