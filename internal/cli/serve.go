package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/housesketch/internal/server"
	herrors "github.com/matzehuels/housesketch/pkg/errors"
)

// serveCommand creates the serve command for the web form and JSON API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web form and JSON API",
		Long: `Serve the web form and JSON API.

The form at / draws plans in the browser and offers PDF, JSON and XLSX
downloads. The API lives under /api; see the server package for routes.
Image generation is enabled when the configured provider has credentials
and is rate limited per the [ratelimit] config section.`,
		Example: `  housesketch serve
  housesketch serve --addr :9090 --no-cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if err := c.withGenerator(runner); err != nil {
				printWarning("Image generation disabled: %s", herrors.UserMessage(err))
			}

			cfg := c.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			srv := server.New(runner, c.Logger, server.WithRateLimit(c.cfg.RateLimit.RPS, c.cfg.RateLimit.Burst))
			printInfo("Serving on %s", StyleLink.Render(cfg.Addr))
			return srv.ListenAndServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
