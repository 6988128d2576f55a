package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/errors"
)

func TestStyleByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Style
		wantErr bool
	}{
		{"", Simple{}, false},
		{"simple", Simple{}, false},
		{"blueprint", Blueprint{}, false},
		{"neon", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StyleByName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidStyle) {
					t.Errorf("StyleByName(%q) err = %v, want INVALID_STYLE", tt.name, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("StyleByName(%q) = %v, %v; want %v", tt.name, got, err, tt.want)
			}
		})
	}
}

func TestSimpleRenderNode(t *testing.T) {
	s := Simple{}

	tests := []struct {
		name     string
		box      Box
		contains []string
	}{
		{
			name: "category tint",
			box: Box{
				Key: "goal", Label: "Goal", Category: "strategy",
				Rect: diagram.Rect{X: 10, Y: 20, W: 160, H: 48},
			},
			contains: []string{
				`<rect`,
				`id="node-goal"`,
				`class="node"`,
				`x="10.00"`,
				`y="20.00"`,
				`width="160.00"`,
				`height="48.00"`,
				`fill="#fdeecd"`,
				`stroke="#333"`,
			},
		},
		{
			name: "explicit color wins",
			box: Box{
				Key: "db", Category: "technology", Color: "#ffccaa",
				Rect: diagram.Rect{W: 100, H: 40},
			},
			contains: []string{`fill="#ffccaa"`},
		},
		{
			name: "unknown category falls back",
			box: Box{
				Key: "misc", Category: "misc",
				Rect: diagram.Rect{W: 100, H: 40},
			},
			contains: []string{`fill="` + fallbackFill + `"`},
		},
		{
			name: "special chars escaped",
			box: Box{
				Key:  "a<b",
				Rect: diagram.Rect{W: 10, H: 10},
			},
			contains: []string{`id="node-a&lt;b"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s.RenderNode(&buf, tt.box)
			output := buf.String()

			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("RenderNode() output missing %q\nGot: %s", want, output)
				}
			}
		})
	}
}

func TestSimpleRenderTextEscapesXML(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderText(&buf, Box{
		Key:   "x",
		Label: "A & B",
		Rect:  diagram.Rect{W: 100, H: 30},
	})
	output := buf.String()

	if !strings.Contains(output, "A &amp; B") {
		t.Errorf("RenderText() should escape & in label: %s", output)
	}
	if !strings.Contains(output, `text-anchor="middle"`) {
		t.Errorf("RenderText() missing centered anchor: %s", output)
	}
}

func TestSimpleRenderEdge(t *testing.T) {
	s := Simple{}

	cmds := diagram.RoundPath([]diagram.Point{{X: 0, Y: 0}, {X: 0, Y: 50}}, 6)
	var buf bytes.Buffer
	s.RenderEdge(&buf, Path{Key: "supports", Kind: diagram.PathDown, Cmds: cmds, Title: "A supports B"})
	output := buf.String()

	expected := []string{
		`<path`,
		`id="edge-supports"`,
		`d="M 0.00 0.00 L 0.00 50.00"`,
		`fill="none"`,
		`stroke="#333"`,
		`marker-end="url(#arrow)"`,
		`<title>A supports B</title>`,
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("RenderEdge() output missing %q\nGot: %s", want, output)
		}
	}
	if strings.Contains(output, "stroke-dasharray") {
		t.Errorf("down edges should be solid: %s", output)
	}
}

func TestSimpleRenderEdgeDashByKind(t *testing.T) {
	tests := []struct {
		kind diagram.PathKind
		dash string
	}{
		{diagram.PathUp, `stroke-dasharray="6,4"`},
		{diagram.PathArc, `stroke-dasharray="2,3"`},
		{diagram.PathLoop, `stroke-dasharray="2,3"`},
	}
	cmds := diagram.RoundPath([]diagram.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, 6)

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var buf bytes.Buffer
			Simple{}.RenderEdge(&buf, Path{Key: "e", Kind: tt.kind, Cmds: cmds})
			if !strings.Contains(buf.String(), tt.dash) {
				t.Errorf("kind %s missing %q: %s", tt.kind, tt.dash, buf.String())
			}
		})
	}
}

func TestSimpleRenderLabel(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderLabel(&buf, Path{
		Key:      "supports",
		Label:    "supports",
		LabelBox: diagram.Rect{X: 100, Y: 200, W: 64, H: 16},
	})
	output := buf.String()

	for _, want := range []string{
		`class="edge-label-bg"`,
		`x="100.00"`,
		`width="64.00"`,
		`>supports</text>`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("RenderLabel() output missing %q\nGot: %s", want, output)
		}
	}
}

func TestSimpleRenderLabelSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderLabel(&buf, Path{Key: "e"})
	if buf.Len() != 0 {
		t.Errorf("empty labels should render nothing, got %q", buf.String())
	}
}

func TestSimpleRenderBandIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderBand(&buf, Band{Category: "strategy", Width: 500, Height: 48})
	if buf.Len() != 0 {
		t.Errorf("Simple bands should render nothing, got %q", buf.String())
	}
}

func TestBlueprintRenderCanvasAndBand(t *testing.T) {
	b := Blueprint{}

	var buf bytes.Buffer
	b.RenderCanvas(&buf, 400, 300)
	if !strings.Contains(buf.String(), `fill="`+blueprintCanvas+`"`) {
		t.Errorf("RenderCanvas() missing background fill: %s", buf.String())
	}

	buf.Reset()
	b.RenderBand(&buf, Band{Category: "application", Index: 1, Y: 100, Height: 48, Width: 400})
	output := buf.String()
	if !strings.Contains(output, `opacity="0.04"`) {
		t.Errorf("odd bands should be shaded: %s", output)
	}
	if !strings.Contains(output, ">application</text>") {
		t.Errorf("band caption missing: %s", output)
	}

	buf.Reset()
	b.RenderBand(&buf, Band{Category: "strategy", Index: 0, Y: 0, Height: 48, Width: 400})
	if strings.Contains(buf.String(), "opacity") {
		t.Errorf("even bands should not be shaded: %s", buf.String())
	}
}

func TestPathData(t *testing.T) {
	cmds := diagram.RoundPath([]diagram.Point{
		{X: 0, Y: 0}, {X: 0, Y: 50}, {X: 40, Y: 50},
	}, 6)
	got := pathData(cmds)
	want := "M 0.00 0.00 L 0.00 44.00 Q 0.00 50.00 6.00 50.00 L 40.00 50.00"
	if got != want {
		t.Errorf("pathData() = %q, want %q", got, want)
	}
}
