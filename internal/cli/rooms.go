package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/housesketch/pkg/render/sink"
	"github.com/matzehuels/housesketch/pkg/rooms"
	"github.com/matzehuels/housesketch/pkg/site"
)

// roomsCommand creates the rooms command that prints the area estimate.
func (c *CLI) roomsCommand() *cobra.Command {
	var (
		lot    lotFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "rooms " + lotArgs,
		Short: "Estimate room areas for a lot",
		Long: `Estimate room areas for a lot.

The usable area is 85% of the house footprint times the number of floors.
It is split across eleven rooms by fixed shares; a pool or garden enlarges
the living and relaxation rooms.`,
		Example: `  housesketch rooms 10 20 --floors 2 --features garden,parking
  housesketch rooms 10 20 --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lot.options(args)
			if err != nil {
				return err
			}
			if err := opts.ValidateInput(); err != nil {
				return err
			}

			l := site.ComputeLayout(opts.Lot(), opts.FeatureSet())
			a := rooms.Estimate(l.Footprint.AreaM2, opts.Floors, opts.FeatureSet())

			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}

			printKeyValue("Lot", sink.LotLabel(l.Lot))
			printKeyValue("Footprint", fmt.Sprintf("%.1f m² (%.1f x %.1f m)", l.Footprint.AreaM2, l.Footprint.Meters.W, l.Footprint.Meters.H))
			printKeyValue("Floors", fmt.Sprintf("%d", opts.Floors))
			fmt.Fprintln(stdout, roomTable(a))
			return nil
		},
	}

	lot.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the allocation as JSON")

	return cmd
}
