package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/housesketch/pkg/pipeline"
	"github.com/matzehuels/housesketch/pkg/prompt"
)

// promptCommand creates the prompt command.
func (c *CLI) promptCommand() *cobra.Command {
	var (
		lot      lotFlags
		negative bool
	)

	cmd := &cobra.Command{
		Use:   "prompt " + lotArgs,
		Short: "Print the text-to-image prompt for a lot",
		Long: `Print the text-to-image prompt for a lot.

The prompt describes the lot size, the floor count and the features. Higher
--detail levels repeat the quality keywords. The output is plain text and
can be piped to other tools.`,
		Example: `  housesketch prompt 10 20 --floors 2 --features garden,parking
  housesketch prompt 10 20 --style modern --detail 50 --negative`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := lot.options(args)
			if err != nil {
				return err
			}
			p, err := pipeline.NewRunner(nil, nil, loggerFromContext(cmd.Context())).Prompt(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, p)
			if negative {
				fmt.Fprintln(stdout, prompt.NegativePrompt)
			}
			return nil
		},
	}

	lot.register(cmd)
	cmd.Flags().BoolVar(&negative, "negative", false, "also print the negative prompt on a second line")

	return cmd
}
