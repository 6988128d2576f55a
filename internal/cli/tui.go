package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/typegrid/typegrid/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectPane identifies which pane the browser is showing.
type inspectPane int

const (
	paneTypes inspectPane = iota
	paneRelations
	paneFields
)

// =============================================================================
// InspectModel - Interactive metamodel browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a metamodel. It has a
// types pane and a relations pane (tab switches between them), plus a
// per-type fields pane reached with enter.
type InspectModel struct {
	Model  *model.Model
	Pane   inspectPane
	Cursor int
	Offset int
	Height int

	// Detail is the type whose fields pane is open, nil otherwise.
	Detail *model.CardType
}

// NewInspectModel creates a browser over m, starting on the types pane.
func NewInspectModel(m *model.Model) InspectModel {
	return InspectModel{
		Model:  m,
		Pane:   paneTypes,
		Height: 15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

// rowCount reports how many rows the current pane has.
func (m InspectModel) rowCount() int {
	switch m.Pane {
	case paneRelations:
		return len(m.Model.Relations)
	case paneFields:
		if m.Detail == nil {
			return 0
		}
		return len(m.Detail.Fields)
	default:
		return len(m.Model.CardTypes)
	}
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Pane == paneFields {
				m.Pane = paneTypes
				m.Detail = nil
				m.Cursor = 0
				m.Offset = 0
				return m, nil
			}
			return m, tea.Quit
		case "tab", "right", "left":
			switch m.Pane {
			case paneTypes:
				m.Pane = paneRelations
			case paneRelations:
				m.Pane = paneTypes
			default:
				return m, nil
			}
			m.Cursor = 0
			m.Offset = 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rowCount()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.Pane == paneTypes && m.Cursor < len(m.Model.CardTypes) {
				m.Detail = &m.Model.CardTypes[m.Cursor]
				m.Pane = paneFields
				m.Cursor = 0
				m.Offset = 0
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	switch m.Pane {
	case paneRelations:
		return m.viewRelations()
	case paneFields:
		return m.viewFields()
	default:
		return m.viewTypes()
	}
}

func (m InspectModel) viewTypes() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Types — " + m.modelName()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ relations  ⏎ fields  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Model.CardTypes) {
		end = len(m.Model.CardTypes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Model.CardTypes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		category := t.Category
		if category == "" {
			category = "—"
		}

		rows = append(rows, []string{
			cursor,
			t.Key,
			t.DisplayName(),
			category,
			fmt.Sprintf("%d", len(t.Fields)),
			fmt.Sprintf("%d", m.relationCount(t.Key)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Name", "Category", "Fields", "Relations").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Model.CardTypes) {
				return lipgloss.NewStyle()
			}
			ct := m.Model.CardTypes[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorDim)
			}
			if ct.Hidden {
				base = base.Foreground(colorDim)
			}
			if isCurrent {
				if col < 4 && !ct.Hidden {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.position(), len(m.Model.CardTypes))))

	return b.String()
}

func (m InspectModel) viewRelations() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Relations — " + m.modelName()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ types  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Model.Relations) {
		end = len(m.Model.Relations)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Model.Relations[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		cardinality := r.Cardinality
		if cardinality == "" {
			cardinality = "—"
		}

		rows = append(rows, []string{
			cursor,
			r.Key,
			r.DisplayName(),
			m.typeName(r.Source) + " → " + m.typeName(r.Target),
			cardinality,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Label", "Endpoints", "Cardinality").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Model.Relations) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			if actualIdx == m.Cursor {
				if col < 4 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.position(), len(m.Model.Relations))))

	return b.String()
}

func (m InspectModel) viewFields() string {
	var b strings.Builder

	if m.Detail == nil {
		return ""
	}
	t := m.Detail

	b.WriteString(StyleTitle.Render("Fields — " + t.DisplayName()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  esc back  q quit"))
	b.WriteString("\n\n")

	printKeyValueTo(&b, "Key", t.Key)
	if t.Category != "" {
		printKeyValueTo(&b, "Category", t.Category)
	}
	if t.Color != "" {
		printKeyValueTo(&b, "Color", t.Color)
	}
	if t.Hidden {
		printKeyValueTo(&b, "Hidden", "yes")
	}
	b.WriteString("\n")

	if len(t.Fields) == 0 {
		b.WriteString(listDimStyle.Render("  no fields declared"))
		b.WriteString("\n")
	} else {
		end := m.Offset + m.Height
		if end > len(t.Fields) {
			end = len(t.Fields)
		}

		rows := [][]string{}
		for i := m.Offset; i < end; i++ {
			f := t.Fields[i]

			cursor := "  "
			if i == m.Cursor {
				cursor = "▸ "
			}

			kind := f.Kind
			if kind == "" {
				kind = model.FieldText
			}

			required := ""
			if f.Required {
				required = "✓"
			}

			rows = append(rows, []string{cursor, f.Key, f.Name, kind, required})
		}

		headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("", "Key", "Name", "Kind", "Required").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				if m.Offset+row == m.Cursor {
					return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
				}
				return lipgloss.NewStyle()
			})

		b.WriteString(tbl.Render())
		b.WriteString("\n")
	}

	if refs := m.touchingRelations(t.Key); len(refs) > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  Relations:"))
		b.WriteString("\n")
		for _, line := range refs {
			b.WriteString(listDimStyle.Render("    " + line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func (m InspectModel) modelName() string {
	if m.Model.Name != "" {
		return m.Model.Name
	}
	return "untitled"
}

// position is the 1-based cursor position shown in the footer, 0 when
// the pane is empty.
func (m InspectModel) position() int {
	if m.rowCount() == 0 {
		return 0
	}
	return m.Cursor + 1
}

// typeName resolves a type key to its display name, falling back to the
// raw key for dangling references.
func (m InspectModel) typeName(key string) string {
	if t, ok := m.Model.Type(key); ok {
		return t.DisplayName()
	}
	return key
}

// relationCount counts relations with key as either endpoint.
func (m InspectModel) relationCount(key string) int {
	n := 0
	for _, r := range m.Model.Relations {
		if r.Source == key || r.Target == key {
			n++
		}
	}
	return n
}

// touchingRelations renders both reading directions for every relation
// touching the type: "supports → Application" for outgoing edges and
// "is supported by ← Capability" for incoming ones.
func (m InspectModel) touchingRelations(key string) []string {
	var lines []string
	for i := range m.Model.Relations {
		r := &m.Model.Relations[i]
		switch {
		case r.Source == key:
			lines = append(lines, fmt.Sprintf("%s → %s", r.DisplayName(), m.typeName(r.Target)))
		case r.Target == key:
			label := r.ReverseName
			if label == "" {
				label = r.DisplayName()
			}
			lines = append(lines, fmt.Sprintf("%s ← %s", label, m.typeName(r.Source)))
		}
	}
	return lines
}

// printKeyValueTo writes a styled key/value line into a builder, for use
// inside bubbletea views where output goes through View() rather than
// straight to the terminal.
func printKeyValueTo(b *strings.Builder, key, value string) {
	b.WriteString(fmt.Sprintf("  %s %s\n", StyleDim.Render(key+":"), StyleValue.Render(value)))
}
