package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/typegrid/typegrid/pkg/pipeline"
)

// watchCommand creates the watch command for continuous re-rendering.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output        string
		formatsStr    string
		categoriesStr string
		noCache       bool
		debounceMS    int
	)
	opts := pipeline.Options{
		Style: pipeline.DefaultStyle,
		Scale: pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "watch [manifest]",
		Short: "Re-render a diagram whenever the manifest changes",
		Long: `Re-render a diagram whenever the manifest changes.

Watches the manifest file and re-runs the render pipeline on every save,
debounced so editors that fire several events per write trigger a single
render. Render failures are reported and watching continues, so a manifest
can be fixed without restarting. Stop with ctrl+c.`,
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
			return c.runWatch(cmd.Context(), opts, output, noCache, time.Duration(debounceMS)*time.Millisecond)
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
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&debounceMS, "debounce", defaultDebounce, "milliseconds to wait after a save before rendering")

	return cmd
}

// runWatch renders once, then re-renders on every manifest change until
// the context is cancelled.
func (c *CLI) runWatch(ctx context.Context, opts pipeline.Options, output string, noCache bool, debounce time.Duration) error {
	manifest, err := filepath.Abs(opts.Manifest)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", opts.Manifest, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Logger = c.Logger

	// Editors replace the file on save, which drops a watch on the file
	// itself. Watch the directory and filter events by name instead.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(manifest)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(manifest), err)
	}

	printInfo("Watching %s", opts.Manifest)
	printDetail("press ctrl+c to stop")
	c.renderPass(ctx, runner, opts, output)

	var (
		timer    *time.Timer
		renderCh = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != manifest {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case renderCh <- struct{}{}:
				default:
				}
			})

		case <-renderCh:
			c.renderPass(ctx, runner, opts, output)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			printNewline()
			printInfo("Stopped watching")
			return ctx.Err()
		}
	}
}

// renderPass runs the pipeline once and reports the outcome. Errors are
// printed, not returned: a broken manifest should not end the watch.
func (c *CLI) renderPass(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) {
	start := time.Now()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		printError("Render failed")
		printDetail("%v", err)
		return
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Manifest,
		output:    output,
	})
	if err != nil {
		printError("Write failed")
		printDetail("%v", err)
		return
	}

	printSuccess("Rendered in %s", time.Since(start).Round(time.Millisecond))
	for _, p := range paths {
		printFile(p)
	}
	printWarnings(result.Warnings)
}
