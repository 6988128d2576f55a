package render

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/model"
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  Style
	model  *model.Model
	radius float64
}

// WithStyle selects the visual style. Defaults to [Simple].
func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithModel attaches the metamodel for display names, colors, and relation
// titles. Without it, boxes are labeled with their keys and edges carry no
// labels.
func WithModel(m *model.Model) SVGOption { return func(r *svgRenderer) { r.model = m } }

// WithCornerRadius overrides the path corner rounding. Pass the layout
// config's CornerRadius so paths and geometry agree.
func WithCornerRadius(radius float64) SVGOption {
	return func(r *svgRenderer) { r.radius = radius }
}

// RenderSVG draws a computed geometry as a standalone SVG document.
//
// Element order is background, layer bands, relation paths, type boxes,
// box labels, then relation labels, so labels always sit on top. Nodes and
// edges are emitted in key order: identical geometry renders to identical
// bytes.
func RenderSVG(geo diagram.Geometry, opts ...SVGOption) []byte {
	r := svgRenderer{style: Simple{}, radius: diagram.DefaultConfig().CornerRadius}
	for _, opt := range opts {
		opt(&r)
	}

	boxes := buildBoxes(geo, r.model)
	paths := buildPaths(geo, r.model, r.radius)

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		geo.Width, geo.Height, geo.Width, geo.Height)

	r.style.RenderDefs(&buf)
	r.style.RenderCanvas(&buf, geo.Width, geo.Height)
	for i, band := range geo.Layers {
		r.style.RenderBand(&buf, Band{
			Category: band.Category,
			Index:    i,
			Y:        band.Y,
			Height:   band.Height,
			Width:    geo.Width,
		})
	}
	for _, p := range paths {
		r.style.RenderEdge(&buf, p)
	}
	for _, b := range boxes {
		r.style.RenderNode(&buf, b)
	}
	for _, b := range boxes {
		r.style.RenderText(&buf, b)
	}
	for _, p := range paths {
		r.style.RenderLabel(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func buildBoxes(geo diagram.Geometry, m *model.Model) []Box {
	keys := make([]string, 0, len(geo.Nodes))
	for key := range geo.Nodes {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	boxes := make([]Box, 0, len(keys))
	for _, key := range keys {
		b := Box{Key: key, Label: key, Rect: geo.Nodes[key]}
		if m != nil {
			if t, ok := m.Type(key); ok {
				b.Label = t.DisplayName()
				b.Category = t.Category
				b.Color = t.Color
			}
		}
		boxes = append(boxes, b)
	}
	return boxes
}

func buildPaths(geo diagram.Geometry, m *model.Model, radius float64) []Path {
	keys := make([]string, 0, len(geo.Edges))
	for key := range geo.Edges {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	paths := make([]Path, 0, len(keys))
	for _, key := range keys {
		ep := geo.Edges[key]
		p := Path{
			Key:      key,
			Kind:     ep.Kind,
			Cmds:     diagram.RoundPath(ep.Points, radius),
			Title:    key,
			LabelBox: ep.LabelBox,
		}
		if m != nil {
			if rel, ok := m.Relation(key); ok {
				p.Label = rel.Name
				p.Title = edgeTitle(m, rel)
			}
		}
		paths = append(paths, p)
	}
	return paths
}

// edgeTitle builds the hover text for a relation: the forward reading, and
// the reverse reading when a reverse label exists.
func edgeTitle(m *model.Model, rel *model.RelationType) string {
	srcName, dstName := rel.Source, rel.Target
	if t, ok := m.Type(rel.Source); ok {
		srcName = t.DisplayName()
	}
	if t, ok := m.Type(rel.Target); ok {
		dstName = t.DisplayName()
	}

	title := fmt.Sprintf("%s %s %s", srcName, rel.DisplayName(), dstName)
	if rel.ReverseName != "" {
		title += fmt.Sprintf("; %s %s %s", dstName, rel.ReverseName, srcName)
	}
	return title
}
