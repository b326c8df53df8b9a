package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/housesketch/pkg/pipeline"
)

// generateCommand creates the generate command that calls the configured
// image provider.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		lot     lotFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "generate " + lotArgs,
		Short: "Generate a sketch image with a text-to-image provider",
		Long: `Generate a sketch image with a text-to-image provider.

The provider is chosen in the config file (imagegen.provider) and needs
REPLICATE_API_TOKEN or STABILITY_API_KEY in the environment or a .env file.
Providers that return image bytes are written to --output; providers that
return a URL print it.

Identical requests are served from the cache.`,
		Example: `  housesketch generate 10 20 --floors 2 --features garden,pool
  housesketch generate 10 20 --style "scandinavian" -o sketch.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lot.options(args)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	lot.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "image file (default sketch_<lot>.<ext>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := c.withGenerator(runner); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Building prompt...")
	spinner.Start()

	if _, err := runner.Prompt(opts); err != nil {
		spinner.StopWithError("Invalid lot")
		return err
	}
	spinner.SetMessage(fmt.Sprintf("Waiting for %s...", runner.Generator.Name()))

	g, err := runner.Generate(ctx, opts)
	if err != nil {
		spinner.StopWithError("Image generation failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Generated image in %s", g.Duration.Round(100*time.Millisecond)))

	printDetail("%s", g.Prompt)
	if g.Image.Cached {
		printDetail("served from cache")
	}

	if len(g.Image.Data) == 0 {
		printKeyValue("URL", StyleLink.Render(g.Image.URL))
		return nil
	}

	if output == "" {
		output = fmt.Sprintf("sketch_%gx%gm%s", opts.Lot().Width, opts.Lot().Length, imageExt(g.Image.MediaType))
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, g.Image.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printFile(output)
	return nil
}

func imageExt(mediaType string) string {
	switch {
	case strings.Contains(mediaType, "jpeg"):
		return ".jpg"
	case strings.Contains(mediaType, "webp"):
		return ".webp"
	default:
		return ".png"
	}
}
