package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/typegrid/typegrid/pkg/model"
)

// inspectCommand creates the inspect command for browsing a manifest.
func (c *CLI) inspectCommand() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "inspect [manifest]",
		Short: "Browse the types, relations and fields of a manifest",
		Long: `Browse the types, relations and fields of a manifest.

Opens an interactive browser: tab switches between the types and relations
panes, enter opens the fields of the selected type. With --summary a static
overview is printed instead, suitable for pipes and scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], summary)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print a static summary instead of the interactive browser")

	return cmd
}

// runInspect loads the manifest and opens the browser or prints a summary.
func (c *CLI) runInspect(path string, summary bool) error {
	m, err := model.Load(path)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	if summary {
		printModelSummary(m)
		return nil
	}

	p := tea.NewProgram(NewInspectModel(m))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	return nil
}

// printModelSummary prints a static overview of the metamodel.
func printModelSummary(m *model.Model) {
	name := m.Name
	if name == "" {
		name = "untitled"
	}

	printKeyValue("Model", name)
	printKeyValue("Categories", strings.Join(m.CategoriesOrDefault(), ", "))
	printKeyValue("Types", fmt.Sprintf("%d", len(m.CardTypes)))
	printKeyValue("Relations", fmt.Sprintf("%d", len(m.Relations)))
	printNewline()

	for i := range m.CardTypes {
		t := &m.CardTypes[i]
		line := t.Key
		if t.Name != "" {
			line += " (" + t.Name + ")"
		}
		if t.Category != "" {
			line += " [" + t.Category + "]"
		}
		if t.Hidden {
			line += " hidden"
		}
		printDetail("%s", line)
	}

	if len(m.Relations) > 0 {
		printNewline()
		for i := range m.Relations {
			r := &m.Relations[i]
			printDetail("%s: %s → %s", r.DisplayName(), r.Source, r.Target)
		}
	}
}
