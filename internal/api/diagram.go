package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/typegrid/typegrid/pkg/pipeline"
	"github.com/typegrid/typegrid/pkg/render"
)

// =============================================================================
// Diagram Endpoints
// =============================================================================

// Diagram endpoints run the shared pipeline runner against the stored model.
// Query parameters:
//
//	model      store entry to render (default "default")
//	style      visual style override (simple, blueprint)
//	categories comma-separated layer order override
//	fallback   catch-all layer name for unmatched categories
//	refresh    bypass cached stage results when truthy
//	detailed   DOT only: include category and field counts in labels
//	ranked     DOT only: pin categories to shared ranks

func (s *Server) handleDiagramSVG(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, pipeline.FormatSVG, "image/svg+xml")
}

func (s *Server) handleDiagramJSON(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, pipeline.FormatJSON, "application/json")
}

func (s *Server) handleDiagramDOT(w http.ResponseWriter, r *http.Request) {
	s.serveDiagram(w, r, pipeline.FormatDOT, "text/vnd.graphviz")
}

// handleOverviewSVG serves the Graphviz-rendered relation overview. The
// layered diagram at /api/diagram.svg stays the primary view; this one lets
// Graphviz lay out the raw relation graph.
func (s *Server) handleOverviewSVG(w http.ResponseWriter, r *http.Request) {
	opts := s.diagramOptions(r, pipeline.FormatDOT)
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	svg, err := render.RenderDOTSVG(r.Context(), string(result.Artifacts[pipeline.FormatDOT]))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("X-Model-Hash", result.ModelHash)
	_, _ = w.Write(svg)
}

func (s *Server) serveDiagram(w http.ResponseWriter, r *http.Request, format, contentType string) {
	opts := s.diagramOptions(r, format)
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Model-Hash", result.ModelHash)
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(result.Artifacts[format])
}

// diagramOptions builds pipeline options from a diagram request.
func (s *Server) diagramOptions(r *http.Request, format string) pipeline.Options {
	q := r.URL.Query()
	opts := pipeline.Options{
		Model:   modelName(r),
		Store:   s.store,
		Formats: []string{format},
		Style:   s.style,
		Logger:  s.logger,
	}
	if style := q.Get("style"); style != "" {
		opts.Style = style
	}
	if cats := splitList(q.Get("categories")); len(cats) > 0 {
		opts.Categories = cats
	}
	if fb := q.Get("fallback"); fb != "" {
		opts.Fallback = fb
	}
	opts.Refresh = boolParam(q.Get("refresh"))
	if format == pipeline.FormatDOT {
		opts.Detailed = boolParam(q.Get("detailed"))
		opts.Ranked = boolParam(q.Get("ranked"))
	}
	return opts
}

// splitList parses a comma-separated query value, dropping blanks.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// boolParam parses a truthy query value; absent or malformed means false.
func boolParam(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
