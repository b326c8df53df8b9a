package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	herrors "github.com/matzehuels/housesketch/pkg/errors"
	"github.com/matzehuels/housesketch/pkg/pipeline"
	"github.com/matzehuels/housesketch/pkg/site"
)

// lotArgs documents the positional arguments shared by lot commands.
const lotArgs = "WIDTH LENGTH"

// lotFlags are the lot and prompt flags shared by plan, rooms, prompt and
// generate.
type lotFlags struct {
	unit     string
	floors   int
	features []string
	style    string
	detail   int
	pick     bool
}

func (f *lotFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.unit, "unit", "u", pipeline.DefaultUnit, "unit of WIDTH and LENGTH: "+strings.Join(herrors.Units, ", "))
	fl.IntVarP(&f.floors, "floors", "n", pipeline.DefaultFloors, "number of floors (1-10)")
	fl.StringSliceVar(&f.features, "features", nil, "outdoor features (comma-separated): "+strings.Join(featureTags(), ", "))
	fl.StringVar(&f.style, "style", "", "architectural style added to the prompt, e.g. modern")
	fl.IntVar(&f.detail, "detail", pipeline.DefaultDetail, "prompt detail level (0-100, steps of 25)")
	fl.BoolVar(&f.pick, "pick", false, "choose features interactively")

	_ = cmd.RegisterFlagCompletionFunc("features", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return featureTags(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("unit", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return herrors.Units, cobra.ShellCompDirectiveNoFileComp
	})
}

// options builds pipeline options from WIDTH LENGTH and the flags.
func (f *lotFlags) options(args []string) (pipeline.Options, error) {
	width, err := parseDimension("width", args[0])
	if err != nil {
		return pipeline.Options{}, err
	}
	length, err := parseDimension("length", args[1])
	if err != nil {
		return pipeline.Options{}, err
	}

	features := f.features
	if f.pick {
		if features, err = pickFeatures(features); err != nil {
			return pipeline.Options{}, err
		}
	}

	return pipeline.Options{
		Width:    width,
		Length:   length,
		Unit:     f.unit,
		Floors:   f.floors,
		Features: features,
		Style:    f.style,
		Detail:   f.detail,
	}, nil
}

func parseDimension(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, herrors.New(herrors.ErrCodeInvalidLot, "%s must be a number, got %q", name, s)
	}
	return v, nil
}

func featureTags() []string {
	tags := make([]string, len(site.AllFeatures))
	for i, f := range site.AllFeatures {
		tags[i] = string(f)
	}
	return tags
}
