package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/housesketch/pkg/pipeline"
	"github.com/matzehuels/housesketch/pkg/render/sink"
	"github.com/matzehuels/housesketch/pkg/site"
)

// planCommand creates the plan command that renders drawings to files.
func (c *CLI) planCommand() *cobra.Command {
	var (
		lot     lotFlags
		formats []string
		views   []string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "plan " + lotArgs,
		Short: "Draw the site plan and floor plans of a lot",
		Long: `Draw the site plan and floor plans of a lot.

WIDTH and LENGTH are the lot dimensions. The plan places the requested
outdoor features on the lot, fits the house into the remaining space and
draws one plan per floor.

Drawings are written to the output directory, named after the drawing and
the lot, e.g. site-plan_10x20m.svg. The pdf, json and xlsx formats bundle all
drawings into one house-plan file.

Results are cached locally for faster subsequent runs.`,
		Example: `  housesketch plan 10 20 --floors 2 --features garden,parking
  housesketch plan 1200 2500 --unit cm -f svg,pdf -o plans/
  housesketch plan 10 20 --view adjacency --pick`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lot.options(args)
			if err != nil {
				return err
			}
			opts.Formats = formats
			opts.Views = views
			return c.runPlan(cmd.Context(), opts, output, noCache)
		},
	}

	lot.register(cmd)
	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "output format(s): svg (default), png, pdf, json, xlsx")
	cmd.Flags().StringSliceVar(&views, "view", nil, "drawings: site, floors (default both), adjacency")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger)

	spinner := newSpinnerWithContext(ctx, "Drawing plan...")
	spinner.Start()

	res, err := runner.Plan(ctx, opts)
	if err != nil {
		spinner.StopWithError("Plan failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(output, res.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Drew %s", sink.LotLabel(res.Layout.Lot))
	printPlanStats(res.Stats.Zones, res.Layout.Lot.Floors, res.Layout.Footprint.AreaM2, res.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	prog.done("plan")

	fmt.Fprintln(stdout)
	printNextStep("Estimate rooms", fmt.Sprintf("housesketch rooms %s", lotCommandArgs(res.Layout)))
	return nil
}

// writeArtifacts writes each artifact to dir under its file name.
func writeArtifacts(dir string, artifacts []pipeline.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		p := filepath.Join(dir, a.FileName)
		if err := os.WriteFile(p, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// lotCommandArgs repeats the lot of l, in meters, for a follow-up command.
func lotCommandArgs(l site.Layout) string {
	s := fmt.Sprintf("%g %g", l.Lot.Width, l.Lot.Length)
	if l.Lot.Floors > 1 {
		s += fmt.Sprintf(" --floors %d", l.Lot.Floors)
	}
	if l.Features.Len() > 0 {
		s += " --features " + l.Features.String()
	}
	return s
}
