package diagram

import "unicode/utf8"

// placedLabel is the final position of one edge label: the text anchor and
// the rectangle the label occupies. Empty labels keep their natural anchor
// and a zero box so they never block other labels.
type placedLabel struct {
	at  Point
	box Rect
}

// labelBox estimates the rectangle a label occupies when centered on at.
// Width is a per-rune estimate; exact text metrics belong to the renderer.
func labelBox(text string, at Point, cfg Config) Rect {
	w := cfg.LabelCharWidth*float64(utf8.RuneCountInString(text)) + 2*cfg.LabelPad
	return Rect{X: at.X - w/2, Y: at.Y - cfg.LabelHeight/2, W: w, H: cfg.LabelHeight}
}

// labelAnchor returns the natural label position of a routed edge: the
// midpoint of its middle track segment, or the apex midpoint for arcs and
// self-loops.
func labelAnchor(r route, p portPair, tracks, lanes []float64, f frame, cfg Config) Point {
	if r.kind == PathArc || r.kind == PathLoop {
		arcY := f.layers[r.arcLayer].Y - (cfg.ArcBase + float64(r.arcIdx)*cfg.ArcStep)
		return Point{X: (p.src.X + p.dst.X) / 2, Y: arcY}
	}
	mid := (len(tracks) - 1) / 2
	enter := p.src.X
	if mid > 0 {
		enter = lanes[mid-1]
	}
	exit := p.dst.X
	if mid < len(lanes) {
		exit = lanes[mid]
	}
	return Point{X: (enter + exit) / 2, Y: tracks[mid]}
}

// placeLabels resolves every edge label against the already-placed diagram.
// Node rectangles start out occupied; labels are then placed one route at a
// time in input order, each successful placement extending the occupied set
// for the routes after it. Placement is first-fit: an accepted position is
// final even if a later probe would have sat closer to the anchor.
func placeLabels(routes []route, ports []portPair, tracks, lanes [][]float64, f frame, cfg Config) []placedLabel {
	occupied := make([]Rect, 0, len(f.rects)+len(routes))
	for _, r := range f.rects {
		occupied = append(occupied, r)
	}

	out := make([]placedLabel, len(routes))
	for i, r := range routes {
		anchor := labelAnchor(r, ports[i], tracks[i], lanes[i], f, cfg)
		if r.edge.Label == "" {
			out[i] = placedLabel{at: anchor}
			continue
		}
		at, box := probeLabel(r.edge.Label, anchor, occupied, cfg)
		occupied = append(occupied, box)
		out[i] = placedLabel{at: at, box: box}
	}
	return out
}

// probeLabel slides a label around its anchor until its box clears every
// occupied rectangle: the anchor itself first, then vertical offsets of
// increasing magnitude alternating upward and downward, then horizontal
// shifts at whole label widths alternating right and left. When every probe
// collides the label keeps the last probed position, degraded but present;
// a label is never dropped.
func probeLabel(text string, anchor Point, occupied []Rect, cfg Config) (Point, Rect) {
	at, box := anchor, labelBox(text, anchor, cfg)
	try := func(dx, dy float64) bool {
		at = Point{X: anchor.X + dx, Y: anchor.Y + dy}
		box = labelBox(text, at, cfg)
		return !overlapsAny(box, occupied)
	}
	if try(0, 0) {
		return at, box
	}
	for k := 1; k <= cfg.LabelProbeTries; k++ {
		d := float64(k) * cfg.LabelProbeStep
		if try(0, -d) || try(0, d) {
			return at, box
		}
	}
	w := box.W
	for k := 1; k <= cfg.LabelShiftTries; k++ {
		d := float64(k) * w
		if try(d, 0) || try(-d, 0) {
			return at, box
		}
	}
	return at, box
}

func overlapsAny(r Rect, rs []Rect) bool {
	for _, o := range rs {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}
