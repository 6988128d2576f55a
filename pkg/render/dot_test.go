package render

import (
	"strings"
	"testing"

	"github.com/typegrid/typegrid/pkg/model"
)

func dotModel() *model.Model {
	return &model.Model{
		Name:       "landscape",
		Categories: []string{"strategy", "application", "technology"},
		CardTypes: []model.CardType{
			{Key: "capability", Name: "Capability", Category: "strategy", Fields: []model.Field{
				{Key: "owner"}, {Key: "maturity"},
			}},
			{Key: "crm", Name: "CRM", Category: "application", Color: "#36a3ff"},
			{Key: "db", Name: "Database", Category: "technology"},
			{Key: "server", Name: "Server", Category: "technology"},
			{Key: "legacy", Name: "Legacy", Category: "application", Hidden: true},
		},
		Relations: []model.RelationType{
			{Key: "supports", Name: "supports", Source: "crm", Target: "capability"},
			{Key: "stores", Name: "stores data in", Source: "crm", Target: "db"},
			{Key: "db-runs-on", Source: "db", Target: "server"},
			{Key: "replaces", Name: "replaces", Source: "crm", Target: "legacy"},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(dotModel(), DOTOptions{})

	expected := []string{
		"digraph typegrid {",
		"rankdir=TB;",
		`"capability" [label="Capability", fillcolor="#fdeecd"]`,
		`"crm" [label="CRM", fillcolor="#d6e8d5", color="#36a3ff"]`,
		`"crm" -> "capability" [label="supports"];`,
		`"crm" -> "db" [label="stores data in"];`,
	}
	for _, want := range expected {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q", want)
		}
	}
}

func TestToDOTSkipsHidden(t *testing.T) {
	dot := ToDOT(dotModel(), DOTOptions{})

	if strings.Contains(dot, "legacy") {
		t.Error("ToDOT() should omit hidden types")
	}
	if strings.Contains(dot, "replaces") {
		t.Error("ToDOT() should omit edges touching hidden types")
	}
}

func TestToDOTUnlabeledEdge(t *testing.T) {
	dot := ToDOT(dotModel(), DOTOptions{})

	if !strings.Contains(dot, `"db" -> "server";`) {
		t.Error("ToDOT() should emit unlabeled relations without a label attribute")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(dotModel(), DOTOptions{Detailed: true})

	if !strings.Contains(dot, "category: strategy") {
		t.Error("detailed labels should include the category")
	}
	if !strings.Contains(dot, "fields: 2") {
		t.Error("detailed labels should include the field count")
	}
}

func TestToDOTRanked(t *testing.T) {
	dot := ToDOT(dotModel(), DOTOptions{Ranked: true})

	// Only technology has two visible types; single-member groups are
	// omitted because rank=same with one node is a no-op.
	if !strings.Contains(dot, `{ rank=same; "db"; "server"; }`) {
		t.Errorf("ToDOT(ranked) missing technology rank group:\n%s", dot)
	}
	if strings.Contains(dot, `{ rank=same; "capability";`) {
		t.Error("ToDOT(ranked) should omit single-member rank groups")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	m := dotModel()
	if ToDOT(m, DOTOptions{Ranked: true}) != ToDOT(m, DOTOptions{Ranked: true}) {
		t.Error("ToDOT() should be deterministic")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := `<?xml version="1.0"?>` + "\n" +
		`<svg width="150pt" height="100pt" viewBox="0.00 0.00 300.50 200.25" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`

	out := string(normalizeViewBox([]byte(in)))

	if !strings.Contains(out, `viewBox="0 0 300.50 200.25"`) {
		t.Errorf("normalizeViewBox() viewBox not rewritten: %s", out)
	}
	if !strings.Contains(out, `width="300" height="200"`) {
		t.Errorf("normalizeViewBox() dimensions not in pixels: %s", out)
	}
	if strings.Contains(out, "150pt") {
		t.Error("normalizeViewBox() should drop the pt dimensions")
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg><rect/></svg>`)
	out := normalizeViewBox(in)
	if string(out) != string(in) {
		t.Error("normalizeViewBox() without a viewBox should return input unchanged")
	}
}
