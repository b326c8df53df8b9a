package sink

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/housesketch/pkg/site"
)

// FileName builds a descriptive download name such as
// "site-plan_10x20m.svg".
func FileName(stem string, lot site.Lot, ext string) string {
	return fmt.Sprintf("%s_%sx%sm.%s", stem, trimFloat(lot.Width), trimFloat(lot.Length), ext)
}

func trimFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
