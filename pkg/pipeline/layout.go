package pipeline

import (
	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/model"
)

// ComputeLayout runs the layered layout engine over a model snapshot.
//
// The engine itself is deterministic and total: every visible card type is
// placed and every relation between visible endpoints is routed, so there
// is no error path. Category order comes from [Options.LayoutConfig].
func ComputeLayout(m *model.Model, opts Options) diagram.Geometry {
	nodes, edges := m.Snapshot()
	return diagram.Layout(nodes, edges, opts.LayoutConfig(m))
}
