package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/errors"
)

// Style names accepted by [StyleByName] and the CLI --style flag.
const (
	StyleSimple    = "simple"
	StyleBlueprint = "blueprint"
)

// Style defines the visual appearance for diagram rendering.
// Implementations control how layer bands, type boxes, relation paths, and
// labels are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (markers, filters, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderCanvas writes the background layer, if the style has one.
	RenderCanvas(buf *bytes.Buffer, width, height float64)
	// RenderBand writes the background for one category layer.
	RenderBand(buf *bytes.Buffer, b Band)
	// RenderNode writes the box for one card type.
	RenderNode(buf *bytes.Buffer, n Box)
	// RenderText writes a card type's label text.
	RenderText(buf *bytes.Buffer, n Box)
	// RenderEdge writes one routed relation path.
	RenderEdge(buf *bytes.Buffer, e Path)
	// RenderLabel writes one relation label at its placed box.
	RenderLabel(buf *bytes.Buffer, e Path)
}

// StyleByName resolves a style name from the CLI or API.
func StyleByName(name string) (Style, error) {
	switch name {
	case "", StyleSimple:
		return Simple{}, nil
	case StyleBlueprint:
		return Blueprint{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle,
			"unknown style: %q (want %s or %s)", name, StyleSimple, StyleBlueprint)
	}
}

// Box contains all data needed to render a single card type.
type Box struct {
	Key      string       // Card type key
	Label    string       // Display text
	Category string       // Resolved layer category
	Color    string       // Explicit fill override (hex), empty for palette
	Rect     diagram.Rect // Position and dimensions
}

// Path contains positioning data for rendering one relation.
type Path struct {
	Key      string            // Relation key
	Kind     diagram.PathKind  // down, up, arc, or loop
	Cmds     []diagram.PathCmd // Rounded drawing commands
	Title    string            // Hover title (forward and reverse reading)
	Label    string            // Placed label text, empty for none
	LabelBox diagram.Rect      // Label extent; zero when Label is empty
}

// Band describes one category layer background.
type Band struct {
	Category string
	Index    int
	Y        float64
	Height   float64
	Width    float64
}

// categoryFills is the default palette for the canonical categories.
// Unknown categories share the fallback tint.
var categoryFills = map[string]string{
	"strategy":    "#fdeecd",
	"process":     "#d9ecf5",
	"application": "#d6e8d5",
	"technology":  "#e3ddf0",
}

const fallbackFill = "#ececec"

func fillFor(n Box) string {
	if n.Color != "" {
		return n.Color
	}
	if fill, ok := categoryFills[n.Category]; ok {
		return fill
	}
	return fallbackFill
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// pathData assembles the d attribute from rounded path commands.
func pathData(cmds []diagram.PathCmd) string {
	var buf bytes.Buffer
	for i, c := range cmds {
		if i > 0 {
			buf.WriteByte(' ')
		}
		switch c.Op {
		case diagram.OpQuad:
			fmt.Fprintf(&buf, "Q %.2f %.2f %.2f %.2f", c.CX, c.CY, c.X, c.Y)
		default:
			fmt.Fprintf(&buf, "%s %.2f %.2f", c.Op, c.X, c.Y)
		}
	}
	return buf.String()
}

func dashFor(kind diagram.PathKind) string {
	switch kind {
	case diagram.PathUp:
		return "6,4"
	case diagram.PathArc, diagram.PathLoop:
		return "2,3"
	default:
		return ""
	}
}

// =============================================================================
// Simple - light admin style
// =============================================================================

// Simple is the default style: category-tinted boxes on a white canvas,
// dark ink for paths and text.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">` + "\n")
	buf.WriteString(`      <path d="M 0 1 L 9 5 L 0 9 z" fill="#333"/>` + "\n")
	buf.WriteString("    </marker>\n  </defs>\n")
}

func (Simple) RenderCanvas(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="white"/>`+"\n", width, height)
}

// RenderBand writes nothing: the box tints carry the category.
func (Simple) RenderBand(buf *bytes.Buffer, b Band) {}

func (Simple) RenderNode(buf *bytes.Buffer, n Box) {
	fmt.Fprintf(buf,
		`  <rect id="node-%s" class="node" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" ry="4" fill="%s" stroke="#333" stroke-width="1"/>`+"\n",
		escapeXML(n.Key), n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H, fillFor(n))
}

func (Simple) RenderText(buf *bytes.Buffer, n Box) {
	fmt.Fprintf(buf,
		`  <text class="node-text" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica,Arial,sans-serif" font-size="13" fill="#1a1a1a">%s</text>`+"\n",
		n.Rect.CenterX(), n.Rect.CenterY(), escapeXML(n.Label))
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Path) {
	dash := ""
	if d := dashFor(e.Kind); d != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, d)
	}
	fmt.Fprintf(buf,
		`  <path id="edge-%s" class="edge" d="%s" fill="none" stroke="#333" stroke-width="1.5"%s marker-end="url(#arrow)">`,
		escapeXML(e.Key), pathData(e.Cmds), dash)
	if e.Title != "" {
		fmt.Fprintf(buf, "<title>%s</title>", escapeXML(e.Title))
	}
	buf.WriteString("</path>\n")
}

func (Simple) RenderLabel(buf *bytes.Buffer, e Path) {
	if e.Label == "" || e.LabelBox.W == 0 {
		return
	}
	fmt.Fprintf(buf,
		`  <rect class="edge-label-bg" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="white" opacity="0.9"/>`+"\n",
		e.LabelBox.X, e.LabelBox.Y, e.LabelBox.W, e.LabelBox.H)
	fmt.Fprintf(buf,
		`  <text class="edge-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica,Arial,sans-serif" font-size="11" fill="#444">%s</text>`+"\n",
		e.LabelBox.CenterX(), e.LabelBox.CenterY(), escapeXML(e.Label))
}

// =============================================================================
// Blueprint - dark technical style
// =============================================================================

// Blueprint renders white-ink line work on a dark blue canvas with painted
// layer bands, in the manner of an architecture drawing.
type Blueprint struct{}

const (
	blueprintCanvas = "#0d2137"
	blueprintInk    = "#9cc3f5"
	blueprintText   = "#dbe9ff"
	blueprintMuted  = "#5d80a8"
)

func (Blueprint) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrow-bp" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">` + "\n")
	fmt.Fprintf(buf, `      <path d="M 0 1 L 9 5 L 0 9 z" fill="%s"/>`+"\n", blueprintInk)
	buf.WriteString("    </marker>\n  </defs>\n")
}

func (Blueprint) RenderCanvas(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		width, height, blueprintCanvas)
}

func (Blueprint) RenderBand(buf *bytes.Buffer, b Band) {
	if b.Index%2 == 1 {
		fmt.Fprintf(buf, `  <rect x="0" y="%.2f" width="%.2f" height="%.2f" fill="#ffffff" opacity="0.04"/>`+"\n",
			b.Y, b.Width, b.Height)
	}
	fmt.Fprintf(buf,
		`  <text x="8" y="%.2f" font-family="Menlo,monospace" font-size="10" letter-spacing="2" fill="%s">%s</text>`+"\n",
		b.Y+12, blueprintMuted, escapeXML(b.Category))
}

func (Blueprint) RenderNode(buf *bytes.Buffer, n Box) {
	stroke := blueprintInk
	if n.Color != "" {
		stroke = n.Color
	}
	fmt.Fprintf(buf,
		`  <rect id="node-%s" class="node" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" ry="2" fill="#123152" stroke="%s" stroke-width="1"/>`+"\n",
		escapeXML(n.Key), n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H, stroke)
}

func (Blueprint) RenderText(buf *bytes.Buffer, n Box) {
	fmt.Fprintf(buf,
		`  <text class="node-text" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Menlo,monospace" font-size="12" fill="%s">%s</text>`+"\n",
		n.Rect.CenterX(), n.Rect.CenterY(), blueprintText, escapeXML(n.Label))
}

func (Blueprint) RenderEdge(buf *bytes.Buffer, e Path) {
	dash := ""
	if d := dashFor(e.Kind); d != "" {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, d)
	}
	fmt.Fprintf(buf,
		`  <path id="edge-%s" class="edge" d="%s" fill="none" stroke="%s" stroke-width="1.2"%s marker-end="url(#arrow-bp)">`,
		escapeXML(e.Key), pathData(e.Cmds), blueprintInk, dash)
	if e.Title != "" {
		fmt.Fprintf(buf, "<title>%s</title>", escapeXML(e.Title))
	}
	buf.WriteString("</path>\n")
}

func (Blueprint) RenderLabel(buf *bytes.Buffer, e Path) {
	if e.Label == "" || e.LabelBox.W == 0 {
		return
	}
	fmt.Fprintf(buf,
		`  <rect class="edge-label-bg" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="%s" opacity="0.85"/>`+"\n",
		e.LabelBox.X, e.LabelBox.Y, e.LabelBox.W, e.LabelBox.H, blueprintCanvas)
	fmt.Fprintf(buf,
		`  <text class="edge-label" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Menlo,monospace" font-size="10" fill="%s">%s</text>`+"\n",
		e.LabelBox.CenterX(), e.LabelBox.CenterY(), blueprintText, escapeXML(e.Label))
}

var (
	_ Style = Simple{}
	_ Style = Blueprint{}
)
