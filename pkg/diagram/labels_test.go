package diagram

import "testing"

func TestProbeLabelPrefersUpward(t *testing.T) {
	cfg := DefaultConfig()
	occupied := []Rect{{X: 0, Y: 0, W: 100, H: 100}}

	// The anchor sits inside the blocked square; the first clear spot on
	// the vertical probe ladder is six steps up.
	at, box := probeLabel("x", Point{X: 50, Y: 50}, occupied, cfg)

	want := Point{X: 50, Y: 50 - 6*cfg.LabelProbeStep}
	if at != want {
		t.Errorf("Label should climb out upward, got %v want %v", at, want)
	}
	if overlapsAny(box, occupied) {
		t.Errorf("Accepted box %v still overlaps", box)
	}
}

func TestProbeLabelExhaustionKeepsLastPosition(t *testing.T) {
	cfg := DefaultConfig()
	// Tall block that defeats every vertical and horizontal probe for a
	// one-rune label anchored at its center.
	occupied := []Rect{{X: 0, Y: -200, W: 100, H: 500}}

	at, _ := probeLabel("x", Point{X: 50, Y: 50}, occupied, cfg)

	// Last probe is the third left shift of one label width (15 wide for
	// one rune at default metrics).
	want := Point{X: 50 - 3*15, Y: 50}
	if at != want {
		t.Errorf("Exhausted probing should keep the last position, got %v want %v", at, want)
	}
}

func TestLayoutSparseLabelsDoNotOverlap(t *testing.T) {
	nodes := []Node{
		{Key: "App", Category: "application"},
		{Key: "T1", Category: "technology"},
		{Key: "T2", Category: "technology"},
	}
	edges := []Edge{
		{Key: "left", Source: "App", Target: "T1", Label: "owns"},
		{Key: "right", Source: "App", Target: "T2", Label: "uses"},
	}

	geo := Layout(nodes, edges, DefaultConfig())

	boxes := map[string]Rect{}
	for key, path := range geo.Edges {
		for nk, r := range geo.Nodes {
			if path.LabelBox.Overlaps(r) {
				t.Errorf("Label of %s overlaps node %s", key, nk)
			}
		}
		for ok, ob := range boxes {
			if path.LabelBox.Overlaps(ob) {
				t.Errorf("Labels of %s and %s overlap", key, ok)
			}
		}
		boxes[key] = path.LabelBox
	}
}

func TestLayoutDenseLabelsAllPlaced(t *testing.T) {
	// Eight parallel labeled edges between the same two nodes leave no
	// clean spot for every label. Placement must still terminate with a
	// label for each edge.
	nodes := []Node{
		{Key: "a", Category: "application"},
		{Key: "b", Category: "technology"},
	}
	var edges []Edge
	for _, k := range []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7", "e8"} {
		edges = append(edges, Edge{Key: k, Source: "a", Target: "b", Label: "relates to"})
	}

	geo := Layout(nodes, edges, DefaultConfig())

	if len(geo.Edges) != len(edges) {
		t.Fatalf("All edges should be routed, got %d of %d", len(geo.Edges), len(edges))
	}
	for key, path := range geo.Edges {
		if len(path.Points) < 2 {
			t.Errorf("Edge %s has %d waypoints", key, len(path.Points))
		}
		if path.LabelBox.W == 0 {
			t.Errorf("Edge %s lost its label box", key)
		}
	}
}

func TestLayoutEmptyLabelTakesNoSpace(t *testing.T) {
	nodes := []Node{
		{Key: "App", Category: "application"},
		{Key: "Objective", Category: "technology"},
	}
	edges := []Edge{
		{Key: "named", Source: "App", Target: "Objective", Label: "supports"},
		{Key: "blank", Source: "App", Target: "Objective"},
	}

	geo := Layout(nodes, edges, DefaultConfig())

	blank := geo.Edges["blank"]
	if (blank.LabelBox != Rect{}) {
		t.Errorf("Blank label should occupy no space, got %v", blank.LabelBox)
	}
	if (blank.Label == Point{}) {
		t.Error("Blank label should still carry its anchor")
	}

	named := geo.Edges["named"]
	if named.LabelBox.W != 64 {
		t.Errorf("Label box width should be 64 for 8 runes, got %f", named.LabelBox.W)
	}
}
