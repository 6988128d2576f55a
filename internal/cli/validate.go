package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typegrid/typegrid/pkg/model"
)

// validateCommand creates the validate command for checking manifests.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Check a manifest for errors and lint warnings",
		Long: `Check a manifest for errors and lint warnings.

Structural errors (bad keys, duplicates, relations without endpoints) fail
validation. Lint findings (dangling endpoint references, relations that will
not be drawn, unlabeled relations) are reported as warnings; with --strict
they fail the command too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat lint warnings as errors")

	return cmd
}

// runValidate loads the manifest and reports errors and warnings.
func (c *CLI) runValidate(path string, strict bool) error {
	m, err := model.Load(path)
	if err != nil {
		printError("Manifest is invalid")
		printDetail("%v", err)
		return fmt.Errorf("validate %s: %w", path, err)
	}

	warnings := m.Lint()
	printWarnings(warnings)

	if len(warnings) > 0 && strict {
		return fmt.Errorf("validate %s: %d lint warning(s)", path, len(warnings))
	}

	name := m.Name
	if name == "" {
		name = path
	}
	printSuccess("Manifest %s is valid", name)
	printStats(len(m.CardTypes), len(m.Relations), false)
	if len(warnings) == 0 {
		printDetail("no lint warnings")
	}

	return nil
}
