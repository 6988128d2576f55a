package diagram

// layer groups the visible nodes of one category, preserving input order.
type layer struct {
	category string
	nodes    []Node
}

// buildLayers groups visible nodes into layers ordered by cfg.Categories,
// with a trailing fallback layer for unmatched categories. Layers that end
// up empty are omitted so the vertical space collapses; within a layer,
// nodes keep their input order.
func buildLayers(nodes []Node, cfg Config) []layer {
	order := make(map[string]int, len(cfg.Categories))
	for i, c := range cfg.Categories {
		order[c] = i
	}

	buckets := make([][]Node, len(cfg.Categories)+1)
	for _, n := range nodes {
		if n.Hidden {
			continue
		}
		idx, ok := order[n.Category]
		if !ok {
			idx = len(cfg.Categories) // fallback bucket
		}
		buckets[idx] = append(buckets[idx], n)
	}

	layers := make([]layer, 0, len(buckets))
	for i, b := range buckets {
		if len(b) == 0 {
			continue
		}
		cat := cfg.Fallback
		if i < len(cfg.Categories) {
			cat = cfg.Categories[i]
		}
		layers = append(layers, layer{category: cat, nodes: b})
	}
	return layers
}

// gapBand is the horizontal band between two adjacent layers. Tracks are
// spread symmetrically around its vertical center.
type gapBand struct {
	top    float64
	bottom float64
	tracks int
}

func (g gapBand) centerY() float64 { return (g.top + g.bottom) / 2 }

// trackY returns the y coordinate of track i of n in this gap, spread around
// the gap center at TrackSpacing intervals.
func (g gapBand) trackY(i, n int, cfg Config) float64 {
	return g.centerY() + (float64(i)-float64(n-1)/2)*cfg.TrackSpacing
}

// frame is the placed skeleton of the diagram: canvas extents, one rectangle
// per node, the layer bands, and the gap bands between them. Everything
// downstream of coordinate planning reads positions from here.
type frame struct {
	width  float64
	height float64
	rects  map[string]Rect
	layers []LayerBand
	gaps   []gapBand
}

func nodeW(n Node, cfg Config) float64 {
	if n.Width > 0 {
		return n.Width
	}
	return cfg.NodeWidth
}

func nodeH(n Node, cfg Config) float64 {
	if n.Height > 0 {
		return n.Height
	}
	return cfg.NodeHeight
}

// arcRise returns the vertical room n stacked arcs consume above a layer's
// top border.
func arcRise(n int, cfg Config) float64 {
	if n <= 0 {
		return 0
	}
	return cfg.ArcBase + float64(n-1)*cfg.ArcStep
}

// gapHeight sizes one inter-layer band. The configured minimum grows when
// the gap's track block, or the arc stack of the layer below it, needs more
// room than LayerGapY provides.
func gapHeight(tracks, arcsBelow int, cfg Config) float64 {
	h := cfg.LayerGapY
	if tracks > 0 {
		h = max(h, float64(tracks-1)*cfg.TrackSpacing+2*cfg.GapMargin)
	}
	if arcsBelow > 0 {
		h = max(h, arcRise(arcsBelow, cfg)+cfg.GapMargin)
	}
	return h
}

// planFrame assigns concrete coordinates to layers and nodes. Each layer row
// is centered horizontally against the widest row; vertical placement
// accumulates top padding, layer heights, and gap heights. trackCount holds
// one entry per gap, arcCount one entry per layer (arcs rise into the gap
// above their layer, or into the top margin for the first layer).
func planFrame(layers []layer, trackCount, arcCount []int, cfg Config) frame {
	f := frame{rects: make(map[string]Rect, 16)}

	rowW := make([]float64, len(layers))
	rowH := make([]float64, len(layers))
	contentW := 0.0
	for i, ly := range layers {
		w, h := 0.0, 0.0
		for j, n := range ly.nodes {
			if j > 0 {
				w += cfg.NodeGapX
			}
			w += nodeW(n, cfg)
			h = max(h, nodeH(n, cfg))
		}
		rowW[i], rowH[i] = w, h
		contentW = max(contentW, w)
	}
	f.width = contentW + 2*cfg.Padding

	y := cfg.Padding
	if len(arcCount) > 0 {
		y += arcRise(arcCount[0], cfg)
	}
	for i, ly := range layers {
		if i > 0 {
			g := gapBand{top: y, tracks: trackCount[i-1]}
			g.bottom = y + gapHeight(trackCount[i-1], arcCount[i], cfg)
			f.gaps = append(f.gaps, g)
			y = g.bottom
		}
		x := cfg.Padding + (contentW-rowW[i])/2
		band := LayerBand{Category: ly.category, Y: y, Height: rowH[i]}
		for _, n := range ly.nodes {
			w, h := nodeW(n, cfg), nodeH(n, cfg)
			f.rects[n.Key] = Rect{X: x, Y: y + (rowH[i]-h)/2, W: w, H: h}
			band.Keys = append(band.Keys, n.Key)
			x += w + cfg.NodeGapX
		}
		f.layers = append(f.layers, band)
		y += rowH[i]
	}
	f.height = y + cfg.Padding
	return f
}
