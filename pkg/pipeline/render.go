package pipeline

import (
	"fmt"

	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/errors"
	"github.com/typegrid/typegrid/pkg/model"
	"github.com/typegrid/typegrid/pkg/render"
)

// RenderArtifacts generates output artifacts in the requested formats.
//
// SVG is rendered at most once per call: PNG and PDF are conversions of the
// same bytes, so requesting all three costs one SVG pass. DOT is generated
// from the model alone and ignores the computed geometry.
func RenderArtifacts(geo diagram.Geometry, m *model.Model, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	style, err := render.StyleByName(opts.Style)
	if err != nil {
		return nil, err
	}

	var svg []byte
	svgFor := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(geo, render.WithModel(m), render.WithStyle(style))
		}
		return svg
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgFor()
		case FormatJSON:
			data, err = render.MarshalDocument(render.Document{
				Model:    m,
				Geometry: geo,
				Style:    opts.Style,
			})
		case FormatDOT:
			data = []byte(render.ToDOT(m, render.DOTOptions{
				Detailed: opts.Detailed,
				Ranked:   opts.Ranked,
			}))
		case FormatPNG:
			data, err = render.ToPNG(svgFor(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(svgFor())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
