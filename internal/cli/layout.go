package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typegrid/typegrid/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output        string
		categoriesStr string
		noCache       bool
	)
	opts := pipeline.Options{
		Formats: []string{pipeline.FormatJSON},
	}

	cmd := &cobra.Command{
		Use:   "layout [manifest]",
		Short: "Compute diagram geometry from a manifest",
		Long: `Compute diagram geometry from a manifest.

The layout command loads a manifest and computes node placement and edge
routes without rendering a drawing. The output is a JSON document carrying
the model snapshot and its geometry, the same format 'render -f json'
produces, suitable for custom renderers or the admin UI.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Manifest = args[0]
			opts.Categories = parseCategories(categoriesStr)
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <manifest>.layout.json)")
	cmd.Flags().StringVar(&categoriesStr, "categories", "", "layer order override (comma-separated)")
	cmd.Flags().StringVar(&opts.Fallback, "fallback", "", "layer name for unmatched categories")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout executes load and layout and writes the geometry document.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Manifest, filepath.Ext(opts.Manifest))
		outputPath = base + ".layout.json"
	}

	if err := writeFile(outputPath, result.Artifacts[pipeline.FormatJSON]); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.TypeCount, result.Stats.RelationCount, result.CacheInfo.LayoutHit)
	printWarnings(result.Warnings)
	printNewline()
	printNextStep("Render", "typegrid render "+opts.Manifest)

	return nil
}
