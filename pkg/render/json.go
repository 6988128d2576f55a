package render

import (
	"encoding/json"

	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/errors"
	"github.com/typegrid/typegrid/pkg/model"
)

// Document is the JSON artifact for the admin UI, the API, and the cache:
// the computed geometry together with the model it was computed from and
// the render options needed to reproduce the drawing.
type Document struct {
	Model    *model.Model     `json:"model,omitempty" bson:"model,omitempty"`
	Geometry diagram.Geometry `json:"geometry" bson:"geometry"`
	Style    string           `json:"style,omitempty" bson:"style,omitempty"`
}

// MarshalDocument encodes a document as pretty-printed JSON.
func MarshalDocument(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDocument decodes and validates a document. Geometry produced by
// the layout engine always passes; the checks guard against hand-edited or
// truncated payloads coming back through the API or cache.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse document")
	}
	if err := validateGeometry(d.Geometry); err != nil {
		return Document{}, err
	}
	return d, nil
}

func validateGeometry(g diagram.Geometry) error {
	if g.Width < 0 || g.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "negative canvas: %g x %g", g.Width, g.Height)
	}
	for key, r := range g.Nodes {
		if key == "" {
			return errors.New(errors.ErrCodeInvalidInput, "node with empty key")
		}
		if r.W < 0 || r.H < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "node %s has a negative extent", key)
		}
	}
	for key, ep := range g.Edges {
		if key == "" {
			return errors.New(errors.ErrCodeInvalidInput, "edge with empty key")
		}
		if len(ep.Points) < 2 {
			return errors.New(errors.ErrCodeInvalidInput, "edge %s has %d points, want at least 2", key, len(ep.Points))
		}
	}
	return nil
}
