package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/typegrid/typegrid/pkg/model"
)

func browserModel() *model.Model {
	return &model.Model{
		Name:       "crm",
		Categories: []string{"strategy", "application", "technology"},
		CardTypes: []model.CardType{
			{Key: "capability", Name: "Capability", Category: "strategy", Fields: []model.Field{
				{Key: "owner", Name: "Owner", Kind: model.FieldText, Required: true},
				{Key: "maturity", Name: "Maturity", Kind: model.FieldSelect},
			}},
			{Key: "application", Name: "Application", Category: "application"},
			{Key: "server", Name: "Server", Category: "technology"},
		},
		Relations: []model.RelationType{
			{Key: "supports", Name: "supports", ReverseName: "is supported by", Source: "application", Target: "capability"},
			{Key: "runs-on", Name: "runs on", Source: "application", Target: "server", Cardinality: "many-to-one"},
		},
	}
}

// key builds the tea.KeyMsg for a key name as Update sees it.
func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press feeds one key and returns the updated model.
func press(t *testing.T, m InspectModel, k string) (InspectModel, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(key(k))
	im, ok := updated.(InspectModel)
	if !ok {
		t.Fatalf("Update returned %T, want InspectModel", updated)
	}
	return im, cmd
}

func TestInspectModelNavigation(t *testing.T) {
	m := NewInspectModel(browserModel())

	if m.Cursor != 0 {
		t.Fatalf("initial cursor = %d, want 0", m.Cursor)
	}

	m, _ = press(t, m, "down")
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}

	m, _ = press(t, m, "j")
	if m.Cursor != 2 {
		t.Errorf("cursor after j = %d, want 2", m.Cursor)
	}

	// Bottom of the list, further down is a no-op.
	m, _ = press(t, m, "down")
	if m.Cursor != 2 {
		t.Errorf("cursor after down at bottom = %d, want 2", m.Cursor)
	}

	m, _ = press(t, m, "up")
	m, _ = press(t, m, "k")
	m, _ = press(t, m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor after ups = %d, want 0", m.Cursor)
	}
}

func TestInspectModelTabSwitchesPane(t *testing.T) {
	m := NewInspectModel(browserModel())
	m, _ = press(t, m, "down")

	m, _ = press(t, m, "tab")
	if m.Pane != paneRelations {
		t.Fatalf("pane after tab = %v, want paneRelations", m.Pane)
	}
	if m.Cursor != 0 {
		t.Errorf("cursor after pane switch = %d, want 0", m.Cursor)
	}

	m, _ = press(t, m, "tab")
	if m.Pane != paneTypes {
		t.Errorf("pane after second tab = %v, want paneTypes", m.Pane)
	}
}

func TestInspectModelEnterOpensFields(t *testing.T) {
	m := NewInspectModel(browserModel())

	m, _ = press(t, m, "enter")
	if m.Pane != paneFields {
		t.Fatalf("pane after enter = %v, want paneFields", m.Pane)
	}
	if m.Detail == nil || m.Detail.Key != "capability" {
		t.Fatalf("Detail = %+v, want capability", m.Detail)
	}

	m, _ = press(t, m, "esc")
	if m.Pane != paneTypes {
		t.Errorf("pane after esc = %v, want paneTypes", m.Pane)
	}
	if m.Detail != nil {
		t.Errorf("Detail after esc = %+v, want nil", m.Detail)
	}
}

func TestInspectModelQuitKeys(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := NewInspectModel(browserModel())
		_, cmd := press(t, m, k)
		if cmd == nil {
			t.Errorf("key %q: cmd = nil, want tea.Quit", k)
		}
	}

	// Esc quits from a list pane but only backs out of the fields pane.
	m := NewInspectModel(browserModel())
	_, cmd := press(t, m, "esc")
	if cmd == nil {
		t.Error("esc on types pane: cmd = nil, want tea.Quit")
	}

	m = NewInspectModel(browserModel())
	m, _ = press(t, m, "enter")
	_, cmd = press(t, m, "esc")
	if cmd != nil {
		t.Error("esc on fields pane: cmd != nil, want back navigation")
	}
}

func TestInspectModelScrolling(t *testing.T) {
	src := browserModel()
	m := NewInspectModel(src)
	m.Height = 2

	m, _ = press(t, m, "down")
	m, _ = press(t, m, "down")
	if m.Offset != 1 {
		t.Errorf("offset after scrolling past window = %d, want 1", m.Offset)
	}

	m, _ = press(t, m, "up")
	m, _ = press(t, m, "up")
	if m.Offset != 0 {
		t.Errorf("offset after scrolling back = %d, want 0", m.Offset)
	}
}

func TestInspectModelWindowSize(t *testing.T) {
	m := NewInspectModel(browserModel())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = updated.(InspectModel)
	if m.Height != 22 {
		t.Errorf("height after resize = %d, want 22", m.Height)
	}

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	m = updated.(InspectModel)
	if m.Height != 5 {
		t.Errorf("height floor = %d, want 5", m.Height)
	}
}

func TestInspectModelViewTypes(t *testing.T) {
	m := NewInspectModel(browserModel())

	view := m.View()
	for _, want := range []string{"crm", "capability", "Application", "strategy"} {
		if !strings.Contains(view, want) {
			t.Errorf("types view missing %q", want)
		}
	}
	if !strings.Contains(view, "[1/3]") {
		t.Errorf("types view missing position footer, got tail %q", view[len(view)-20:])
	}
}

func TestInspectModelViewRelations(t *testing.T) {
	m := NewInspectModel(browserModel())
	m, _ = press(t, m, "tab")

	view := m.View()
	for _, want := range []string{"supports", "runs on", "many-to-one", "Application → Server"} {
		if !strings.Contains(view, want) {
			t.Errorf("relations view missing %q", want)
		}
	}
}

func TestInspectModelViewFields(t *testing.T) {
	m := NewInspectModel(browserModel())
	m, _ = press(t, m, "enter")

	view := m.View()
	for _, want := range []string{"Capability", "owner", "maturity", "select"} {
		if !strings.Contains(view, want) {
			t.Errorf("fields view missing %q", want)
		}
	}

	// Both reading directions of relations touching the type.
	if !strings.Contains(view, "is supported by ← Application") {
		t.Errorf("fields view missing reverse relation reading")
	}
}

func TestTouchingRelations(t *testing.T) {
	m := NewInspectModel(browserModel())

	lines := m.touchingRelations("application")
	want := []string{
		"supports → Capability",
		"runs on → Server",
	}
	if len(lines) != len(want) {
		t.Fatalf("touchingRelations() = %v, want %v", lines, want)
	}
	for i, l := range lines {
		if l != want[i] {
			t.Errorf("touchingRelations()[%d] = %q, want %q", i, l, want[i])
		}
	}
}
