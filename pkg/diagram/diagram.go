package diagram

// Node is one type box to place on the diagram. Nodes are constructed fresh
// from the upstream card-type list on every layout pass and never mutated in
// place; a changed node set means a full recompute.
type Node struct {
	Key      string  // Unique identifier
	Category string  // Layer key; unknown categories land in the fallback layer
	Width    float64 // Display width (0 uses Config.NodeWidth)
	Height   float64 // Display height (0 uses Config.NodeHeight)
	Hidden   bool    // Hidden nodes are excluded from layout entirely
}

// Edge is one directed relation between two nodes. The reverse label is
// carried through for consumers (tooltips, popups); layout never reads it.
type Edge struct {
	Key          string // Unique identifier
	Source       string // Source node key
	Target       string // Target node key
	Label        string // Forward label placed on the edge
	ReverseLabel string // Reverse-direction label (consumer only)
}

// Point is a coordinate in diagram space. Y grows downward, matching SVG.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Right returns the x coordinate of the rectangle's right border.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the rectangle's bottom border.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// Overlaps reports whether r and o share interior area. Rectangles that only
// touch along a border do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// SpansX reports whether x falls strictly inside the rectangle's horizontal
// extent. Used to assert that corridor transits clear node bodies.
func (r Rect) SpansX(x float64) bool { return x > r.X && x < r.Right() }

// PathKind classifies the routed shape of an edge.
type PathKind string

const (
	// PathDown is an edge travelling from a higher layer to a lower one.
	PathDown PathKind = "down"
	// PathUp is an edge travelling from a lower layer to a higher one.
	PathUp PathKind = "up"
	// PathArc is a same-layer edge routed as an arc above its layer.
	PathArc PathKind = "arc"
	// PathLoop is a self-referential edge drawn as a loop above its node.
	PathLoop PathKind = "loop"
)

// EdgePath is the routed geometry of one edge: an ordered waypoint polyline
// (always at least two points), the resolved label anchor, and the label's
// occupied rectangle. Consumers draw the polyline with rounded corners via
// [RoundPath].
type EdgePath struct {
	Kind     PathKind `json:"kind" bson:"kind"`
	Points   []Point  `json:"points" bson:"points"`
	Label    Point    `json:"label" bson:"label"`
	LabelBox Rect     `json:"label_box" bson:"label_box"`
}

// Geometry is the complete layout result handed to renderers: node
// rectangles, per-edge polylines with label anchors, the placed layer bands,
// and canvas extents sufficient to contain everything including same-layer
// arc headroom. It is recomputed wholesale on every input change; nothing is
// retained between calls.
type Geometry struct {
	Width  float64             `json:"width" bson:"width"`
	Height float64             `json:"height" bson:"height"`
	Nodes  map[string]Rect     `json:"nodes" bson:"nodes"`
	Edges  map[string]EdgePath `json:"edges" bson:"edges"`
	Layers []LayerBand         `json:"layers" bson:"layers"`
}

// LayerBand describes one placed category layer, top to bottom. Renderers use
// it to paint category backgrounds; layout consumers can ignore it.
type LayerBand struct {
	Category string   `json:"category" bson:"category"`
	Y        float64  `json:"y" bson:"y"`
	Height   float64  `json:"height" bson:"height"`
	Keys     []string `json:"keys" bson:"keys"`
}

// Config carries every caller-tunable constant of the layout. The zero value
// is not usable; start from [DefaultConfig] and override fields as needed.
type Config struct {
	// Categories is the canonical layer order. Nodes whose category is not
	// listed are grouped into a fallback layer that always sorts last.
	Categories []string
	// Fallback names the catch-all layer for unmatched categories.
	Fallback string

	// Node slot dimensions and spacing.
	NodeWidth  float64
	NodeHeight float64
	NodeGapX   float64
	// LayerGapY is the minimum height of the band between adjacent layers.
	// A band grows beyond this when its track block or arc headroom needs
	// the room.
	LayerGapY float64
	// Padding is the margin between the canvas border and the content.
	Padding float64

	// TrackSpacing separates parallel horizontal tracks within a gap.
	TrackSpacing float64
	// GapMargin keeps the outermost tracks away from the adjacent layers.
	GapMargin float64

	// PortMargin trims both ends of a node face before ports are spread
	// along it.
	PortMargin float64

	// CorridorSpread separates parallel edges sharing a vertical corridor.
	CorridorSpread float64
	// CorridorClearance keeps corridor lanes away from node borders.
	CorridorClearance float64

	// ArcBase is the height of the first same-layer arc above its layer;
	// ArcStep raises each additional arc stacked in the same layer.
	ArcBase float64
	ArcStep float64

	// CornerRadius rounds polyline turns. The effective radius at a corner
	// never exceeds half of either adjacent segment.
	CornerRadius float64

	// Label box estimation and overlap probing.
	LabelCharWidth float64
	LabelHeight    float64
	LabelPad       float64
	LabelProbeStep float64
	// LabelProbeTries bounds the vertical probe magnitudes; LabelShiftTries
	// bounds the horizontal label-width multiples probed afterwards.
	LabelProbeTries int
	LabelShiftTries int
}

// DefaultConfig returns the layout constants used by the admin diagram. The
// category list matches the model package's default architecture categories.
func DefaultConfig() Config {
	return Config{
		Categories:        []string{"strategy", "process", "application", "technology"},
		Fallback:          "other",
		NodeWidth:         160,
		NodeHeight:        48,
		NodeGapX:          40,
		LayerGapY:         72,
		Padding:           24,
		TrackSpacing:      12,
		GapMargin:         16,
		PortMargin:        18,
		CorridorSpread:    8,
		CorridorClearance: 6,
		ArcBase:           14,
		ArcStep:           10,
		CornerRadius:      6,
		LabelCharWidth:    7,
		LabelHeight:       16,
		LabelPad:          4,
		LabelProbeStep:    10,
		LabelProbeTries:   6,
		LabelShiftTries:   3,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig so partially
// populated configs stay usable.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Categories == nil {
		c.Categories = def.Categories
	}
	if c.Fallback == "" {
		c.Fallback = def.Fallback
	}
	if c.NodeWidth <= 0 {
		c.NodeWidth = def.NodeWidth
	}
	if c.NodeHeight <= 0 {
		c.NodeHeight = def.NodeHeight
	}
	if c.NodeGapX <= 0 {
		c.NodeGapX = def.NodeGapX
	}
	if c.LayerGapY <= 0 {
		c.LayerGapY = def.LayerGapY
	}
	if c.Padding <= 0 {
		c.Padding = def.Padding
	}
	if c.TrackSpacing <= 0 {
		c.TrackSpacing = def.TrackSpacing
	}
	if c.GapMargin <= 0 {
		c.GapMargin = def.GapMargin
	}
	if c.PortMargin <= 0 {
		c.PortMargin = def.PortMargin
	}
	if c.CorridorSpread <= 0 {
		c.CorridorSpread = def.CorridorSpread
	}
	if c.CorridorClearance <= 0 {
		c.CorridorClearance = def.CorridorClearance
	}
	if c.ArcBase <= 0 {
		c.ArcBase = def.ArcBase
	}
	if c.ArcStep <= 0 {
		c.ArcStep = def.ArcStep
	}
	if c.CornerRadius <= 0 {
		c.CornerRadius = def.CornerRadius
	}
	if c.LabelCharWidth <= 0 {
		c.LabelCharWidth = def.LabelCharWidth
	}
	if c.LabelHeight <= 0 {
		c.LabelHeight = def.LabelHeight
	}
	if c.LabelPad <= 0 {
		c.LabelPad = def.LabelPad
	}
	if c.LabelProbeStep <= 0 {
		c.LabelProbeStep = def.LabelProbeStep
	}
	if c.LabelProbeTries <= 0 {
		c.LabelProbeTries = def.LabelProbeTries
	}
	if c.LabelShiftTries <= 0 {
		c.LabelShiftTries = def.LabelShiftTries
	}
	return c
}
