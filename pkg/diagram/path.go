package diagram

import "math"

// buildPath emits the waypoint polyline for one classified route. Layer
// crossers leave their source port vertically to the first track, run
// horizontally along each track, and switch tracks through corridor lanes
// until the last track aligns them with the target port:
//
//	src ─ (srcX, track0) ─ (lane0, track0) ─ (lane0, track1) ─ ... ─ (dstX, trackN) ─ dst
//
// Arcs and self-loops skip tracks entirely and square over the top of their
// layer at the route's stacked arc height. Consecutive duplicate waypoints
// (a port already aligned with its lane, say) collapse.
func buildPath(r route, p portPair, tracks, lanes []float64, f frame, cfg Config) []Point {
	var pts []Point
	add := func(x, y float64) {
		if n := len(pts); n > 0 && pts[n-1].X == x && pts[n-1].Y == y {
			return
		}
		pts = append(pts, Point{X: x, Y: y})
	}

	switch r.kind {
	case PathArc, PathLoop:
		arcY := f.layers[r.arcLayer].Y - (cfg.ArcBase + float64(r.arcIdx)*cfg.ArcStep)
		add(p.src.X, p.src.Y)
		add(p.src.X, arcY)
		add(p.dst.X, arcY)
		add(p.dst.X, p.dst.Y)
	default:
		add(p.src.X, p.src.Y)
		x := p.src.X
		for i, t := range tracks {
			add(x, t)
			if i < len(lanes) {
				add(lanes[i], t)
				x = lanes[i]
				continue
			}
			add(p.dst.X, t)
			x = p.dst.X
		}
		add(p.dst.X, p.dst.Y)
	}
	return pts
}

// PathOp identifies one drawing command of a rounded path.
type PathOp string

const (
	OpMove PathOp = "M"
	OpLine PathOp = "L"
	OpQuad PathOp = "Q" // quadratic corner, control point at the waypoint
)

// PathCmd is one step of a rounded path in drawing order. X and Y are the
// command endpoint; CX and CY carry the control point for OpQuad and are
// zero otherwise. The fields map directly onto SVG path syntax.
type PathCmd struct {
	Op PathOp  `json:"op" bson:"op"`
	X  float64 `json:"x" bson:"x"`
	Y  float64 `json:"y" bson:"y"`
	CX float64 `json:"cx,omitempty" bson:"cx,omitempty"`
	CY float64 `json:"cy,omitempty" bson:"cy,omitempty"`
}

// RoundPath converts a waypoint polyline into drawing commands with rounded
// turns. Each corner is cut short of the waypoint on both sides and bridged
// by a quadratic curve whose control point is the waypoint itself; the
// effective radius shrinks to half of either adjacent segment when the
// segments are shorter than 2*radius, so neighboring corners never overlap.
// Collinear waypoints pass through as plain line commands. Fewer than two
// points yield nil.
func RoundPath(pts []Point, radius float64) []PathCmd {
	if len(pts) < 2 {
		return nil
	}
	cmds := make([]PathCmd, 0, 2*len(pts))
	cmds = append(cmds, PathCmd{Op: OpMove, X: pts[0].X, Y: pts[0].Y})
	for i := 1; i < len(pts)-1; i++ {
		ax, ay := pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y
		bx, by := pts[i+1].X-pts[i].X, pts[i+1].Y-pts[i].Y
		alen, blen := math.Hypot(ax, ay), math.Hypot(bx, by)
		if alen == 0 || blen == 0 || math.Abs(ax*by-ay*bx) < 1e-9 {
			cmds = append(cmds, PathCmd{Op: OpLine, X: pts[i].X, Y: pts[i].Y})
			continue
		}
		r := min(radius, alen/2, blen/2)
		cmds = append(cmds,
			PathCmd{Op: OpLine, X: pts[i].X - ax/alen*r, Y: pts[i].Y - ay/alen*r},
			PathCmd{
				Op: OpQuad,
				X:  pts[i].X + bx/blen*r, Y: pts[i].Y + by/blen*r,
				CX: pts[i].X, CY: pts[i].Y,
			},
		)
	}
	cmds = append(cmds, PathCmd{Op: OpLine, X: pts[len(pts)-1].X, Y: pts[len(pts)-1].Y})
	return cmds
}
