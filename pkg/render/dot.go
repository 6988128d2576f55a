package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/typegrid/typegrid/pkg/model"
)

// DOTOptions configures metamodel DOT export.
type DOTOptions struct {
	// Detailed includes the category and field count in node labels.
	// When false, only the display name is shown.
	Detailed bool
	// Ranked pins each category's types to a shared rank so the Graphviz
	// overview mirrors the layered diagram's vertical order.
	Ranked bool
}

// ToDOT converts a metamodel to Graphviz DOT format for the relation
// overview. The resulting DOT string can be rendered with [RenderDOTSVG]
// or [RenderDOTPNG].
//
// Nodes and edges follow model order, so output is stable for a given
// model. Hidden types are skipped along with the relations touching them.
func ToDOT(m *model.Model, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph typegrid {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	visible := make(map[string]bool, len(m.CardTypes))
	for i := range m.CardTypes {
		t := &m.CardTypes[i]
		if t.Hidden {
			continue
		}
		visible[t.Key] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", t.Key, strings.Join(dotAttrs(t, opts.Detailed), ", "))
	}

	if opts.Ranked {
		buf.WriteString("\n")
		writeRanks(&buf, m, visible)
	}

	buf.WriteString("\n")
	for i := range m.Relations {
		r := &m.Relations[i]
		if !visible[r.Source] || !visible[r.Target] {
			continue
		}
		if r.Name != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", r.Source, r.Target, r.Name)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", r.Source, r.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(t *model.CardType, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", dotLabel(t, detailed))}
	if fill, ok := categoryFills[t.Category]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	if t.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", t.Color))
	}
	return attrs
}

func dotLabel(t *model.CardType, detailed bool) string {
	if !detailed {
		return t.DisplayName()
	}
	parts := []string{t.DisplayName()}
	if t.Category != "" {
		parts = append(parts, "category: "+t.Category)
	}
	if n := len(t.Fields); n > 0 {
		parts = append(parts, fmt.Sprintf("fields: %d", n))
	}
	return strings.Join(parts, "\n")
}

// writeRanks groups visible types into one rank=same block per category,
// in the model's category order with unmatched categories last.
func writeRanks(buf *bytes.Buffer, m *model.Model, visible map[string]bool) {
	order := m.CategoriesOrDefault()
	indexOf := make(map[string]int, len(order))
	for i, c := range order {
		indexOf[c] = i
	}

	groups := make([][]string, len(order)+1)
	for i := range m.CardTypes {
		t := &m.CardTypes[i]
		if !visible[t.Key] {
			continue
		}
		idx, ok := indexOf[t.Category]
		if !ok {
			idx = len(order)
		}
		groups[idx] = append(groups[idx], t.Key)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		buf.WriteString("  { rank=same;")
		for _, key := range group {
			fmt.Fprintf(buf, " %q;", key)
		}
		buf.WriteString(" }\n")
	}
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
// Returns SVG bytes ready for display or conversion with [ToPDF] or [ToPNG].
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderDOTPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderDOTPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderDOTSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's svg tag so the viewBox starts at the
// origin and the width/height attributes match it in pixels.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
