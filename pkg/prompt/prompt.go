// Package prompt turns a lot description into the natural-language prompt
// handed to a text-to-image provider.
package prompt

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/housesketch/pkg/site"
)

const (
	// Tail is appended to every prompt.
	Tail = ", top view and perspective, clean design, high detail, blueprint style"

	// Boost is repeated once per DetailStep of the detail level.
	Boost = ", ultra detailed, sharp linework, intricate architectural details"

	// DetailStep is the detail width of one Boost repetition.
	DetailStep = 25

	// MaxDetail is the upper bound of the detail slider.
	MaxDetail = 100
)

// NegativePrompt lists traits the providers that accept one should avoid.
const NegativePrompt = "blurry, low resolution, distorted perspective, watermark, text artifacts, people, cars"

// Request holds the inputs of [Build]. Width and Length are echoed in Unit
// and are never converted.
type Request struct {
	Width    float64
	Length   float64
	Unit     string
	Floors   int
	Features site.FeatureSet
	Style    string
	Detail   int
}

// Build assembles the prompt for r. It is pure and never fails.
func Build(r Request) string {
	var b strings.Builder

	unit := r.Unit
	if unit == "" {
		unit = "m"
	}
	b.WriteString("Architectural sketch of a ")
	b.WriteString(formatNumber(r.Width))
	b.WriteString(" x ")
	b.WriteString(formatNumber(r.Length))
	b.WriteString(" ")
	b.WriteString(unit)
	b.WriteString(" house with ")
	b.WriteString(strconv.Itoa(r.Floors))
	if r.Floors == 1 {
		b.WriteString(" floor")
	} else {
		b.WriteString(" floors")
	}

	if style := strings.TrimSpace(r.Style); style != "" {
		b.WriteString(", ")
		b.WriteString(style)
		b.WriteString(" style")
	}

	if labels := FeatureLabels(r.Features); len(labels) > 0 {
		b.WriteString(", including: ")
		b.WriteString(strings.Join(labels, ", "))
	}

	b.WriteString(Tail)
	for range BoostCount(r.Detail) {
		b.WriteString(Boost)
	}
	return b.String()
}

// BoostCount is the number of Boost repetitions for a detail level. Levels
// outside [0, MaxDetail] are clamped.
func BoostCount(detail int) int {
	return min(max(detail, 0), MaxDetail) / DetailStep
}

// FeatureLabels returns the title-cased labels of fs in canonical order.
func FeatureLabels(fs site.FeatureSet) []string {
	list := fs.List()
	if len(list) == 0 {
		return nil
	}
	caser := cases.Title(language.English)
	out := make([]string, len(list))
	for i, f := range list {
		out[i] = caser.String(f.Label())
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
