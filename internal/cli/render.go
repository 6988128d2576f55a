package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typegrid/typegrid/pkg/pipeline"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output        string
		formatsStr    string
		categoriesStr string
		noCache       bool
	)
	opts := pipeline.Options{
		Style: pipeline.DefaultStyle,
		Scale: pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "render [manifest]",
		Short: "Render a metamodel manifest as a layered diagram",
		Long: `Render a metamodel manifest as a layered diagram.

The render command loads a manifest (TOML, JSON, or YAML), computes the
layered layout, and writes the diagram in one or more formats. SVG is the
primary output; JSON exports the geometry document, DOT the relation graph
for Graphviz, and PNG/PDF rasterize the SVG.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Manifest = args[0]
			opts.Formats = parseFormats(formatsStr)
			opts.Categories = parseCategories(categoriesStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateStyle(opts.Style); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: simple (default), blueprint")
	cmd.Flags().StringVar(&categoriesStr, "categories", "", "layer order override (comma-separated)")
	cmd.Flags().StringVar(&opts.Fallback, "fallback", "", "layer name for unmatched categories")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster scale for png output")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include category and field counts in dot labels")
	cmd.Flags().BoolVar(&opts.Ranked, "ranked", false, "pin categories to shared ranks in dot output")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Manifest))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Manifest,
		output:    output,
	})
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.Manifest)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.TypeCount, result.Stats.RelationCount, result.CacheInfo.RenderHit)
	printWarnings(result.Warnings)
	printNewline()
	printNextStep("Watch for changes", "typegrid watch "+opts.Manifest)

	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // manifest path, used to derive output names
	output    string // explicit output file or base path
}

// writeArtifacts writes rendered artifacts to disk and returns the paths
// written, in format order. With a single format and an explicit output the
// file goes exactly there; otherwise each format lands at base.<format>,
// where base derives from the output flag or the input name.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && p.output != "" {
		if err := writeFile(p.output, p.artifacts[p.formats[0]]); err != nil {
			return nil, err
		}
		return []string{p.output}, nil
	}

	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := base + "." + format
		if err := writeFile(path, p.artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in a
// format extension (.svg, .png, ...), that extension is stripped so siblings
// like base.json do not become base.svg.json.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
