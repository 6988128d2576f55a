package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/typegrid/typegrid/internal/api"
	"github.com/typegrid/typegrid/pkg/pipeline"
)

// serveCommand creates the serve command for the model admin API.
func (c *CLI) serveCommand() *cobra.Command {
	// Deployments keep TYPEGRID_* settings in a .env next to the binary.
	// Load before reading flag defaults; a missing file is fine.
	_ = godotenv.Load()

	var (
		addr     string
		storeDir string
		style    string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the model admin API over HTTP",
		Long: `Serve the model admin API over HTTP.

Exposes stored models for editing (types, relations, fields) and renders
diagrams on demand at /api/diagram.svg, .json and .dot. Models live in the
store directory as JSON documents, or in MongoDB when TYPEGRID_MONGO_URI
is set. Flags fall back to TYPEGRID_ADDR, TYPEGRID_STORE_DIR and
TYPEGRID_STYLE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateStyle(style); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), addr, storeDir, style, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", getenv("TYPEGRID_ADDR", ":8080"), "listen address")
	cmd.Flags().StringVar(&storeDir, "store-dir", getenv("TYPEGRID_STORE_DIR", ""), "model store directory (default ~/.config/typegrid/models)")
	cmd.Flags().StringVar(&style, "style", getenv("TYPEGRID_STYLE", pipeline.DefaultStyle), "visual style: simple (default), blueprint")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the API server and blocks until the context is
// cancelled, then shuts down gracefully.
func (c *CLI) runServe(ctx context.Context, addr, storeDir, style string, noCache bool) error {
	store, err := newStore(ctx, storeDir)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer store.Close()

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg := api.DefaultConfig()
	cfg.Address = addr

	server := api.NewServer(store, runner, c.Logger, cfg, api.WithStyle(style))

	printInfo("Serving the typegrid API on %s", addr)
	printDetail("press ctrl+c to stop")

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	printInfo("Server stopped")
	return nil
}
