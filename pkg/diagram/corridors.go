package diagram

import "math"

// corridor is one bookable vertical lane bundle through a layer: the free
// strip between two node columns (or between a border node and the canvas
// edge), inset by the configured clearance. used counts occupants so lanes
// can spread without colliding.
type corridor struct {
	centerX   float64
	halfWidth float64
	capacity  int
	used      int
}

// newCorridor derives a corridor from a free strip [lo, hi). Strips too
// narrow for the clearance on both sides yield no corridor. Capacity grows
// with width: one center lane plus a symmetric pair per CorridorSpread step
// of half-width.
func newCorridor(lo, hi float64, cfg Config) (corridor, bool) {
	half := (hi-lo)/2 - cfg.CorridorClearance
	if half < 0 {
		return corridor{}, false
	}
	return corridor{
		centerX:   (lo + hi) / 2,
		halfWidth: half,
		capacity:  1 + 2*int(half/cfg.CorridorSpread),
	}, true
}

// layerCorridors enumerates the free vertical strips of one layer, left to
// right: canvas edge to first node, between adjacent nodes, last node to
// canvas edge. Band keys are already in x order from frame planning.
func layerCorridors(band LayerBand, f frame, cfg Config) []corridor {
	var cs []corridor
	lo := 0.0
	for _, k := range band.Keys {
		r := f.rects[k]
		if c, ok := newCorridor(lo, r.X, cfg); ok {
			cs = append(cs, c)
		}
		lo = r.Right()
	}
	if c, ok := newCorridor(lo, f.width, cfg); ok {
		cs = append(cs, c)
	}
	return cs
}

// spreadOffset alternates lane occupants around the corridor center:
// 0, +s, -s, +2s, -2s, ...
func spreadOffset(k int, step float64) float64 {
	if k == 0 {
		return 0
	}
	mag := float64((k+1)/2) * step
	if k%2 == 1 {
		return mag
	}
	return -mag
}

// takeCorridor books a lane in the corridor nearest ideal that still has
// room. When every corridor is full it over-subscribes the nearest one and
// clamps the lane offset to the corridor width; with no corridors at all
// (a layer row spanning the whole canvas under an unusual config) the ideal
// x passes through unchanged. Distance ties resolve to the leftmost
// corridor.
func takeCorridor(cs []corridor, ideal float64, cfg Config) float64 {
	if len(cs) == 0 {
		return ideal
	}
	pick := -1
	for i := range cs {
		if cs[i].used >= cs[i].capacity {
			continue
		}
		if pick < 0 || math.Abs(cs[i].centerX-ideal) < math.Abs(cs[pick].centerX-ideal) {
			pick = i
		}
	}
	if pick < 0 {
		for i := range cs {
			if pick < 0 || math.Abs(cs[i].centerX-ideal) < math.Abs(cs[pick].centerX-ideal) {
				pick = i
			}
		}
	}
	c := &cs[pick]
	off := spreadOffset(c.used, cfg.CorridorSpread)
	c.used++
	off = max(-c.halfWidth, min(c.halfWidth, off))
	return c.centerX + off
}

// assignCorridors books a vertical lane for every layer an edge passes
// straight through. An edge crossing gaps j and j+1 consecutively transits
// the layer between them; its ideal x is the source-to-target interpolation
// sampled midway between the two gap fractions. The result is parallel to
// routes: out[i][j] is the lane x between routes[i].gaps[j] and
// routes[i].gaps[j+1]. Routes book lanes in input order, so occupancy, and
// with it every lane position, is reproducible.
func assignCorridors(routes []route, f frame, cfg Config) [][]float64 {
	perLayer := make([][]corridor, len(f.layers))
	built := make([]bool, len(f.layers))
	corridorsFor := func(l int) []corridor {
		if !built[l] {
			perLayer[l] = layerCorridors(f.layers[l], f, cfg)
			built[l] = true
		}
		return perLayer[l]
	}

	out := make([][]float64, len(routes))
	for i, r := range routes {
		if len(r.gaps) < 2 {
			continue
		}
		sx := f.rects[r.edge.Source].CenterX()
		tx := f.rects[r.edge.Target].CenterX()
		m := float64(len(r.gaps))
		xs := make([]float64, len(r.gaps)-1)
		for j := 0; j < len(r.gaps)-1; j++ {
			transit := max(r.gaps[j], r.gaps[j+1])
			frac := (2*float64(j) + 3) / (2 * (m + 1))
			xs[j] = takeCorridor(corridorsFor(transit), sx+(tx-sx)*frac, cfg)
		}
		out[i] = xs
	}
	return out
}
