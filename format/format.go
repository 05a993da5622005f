package format

import (
	"strings"

	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/util"
)

const Separator = " | "

// Lines groups per-measure symbols into lines of width bars. A width of
// zero or less falls back to the default.
func Lines(symbols []string, width int) []string {
	if width <= 0 {
		width = constants.BarsPerLine
	}
	var res []string
	for _, bars := range util.Chunk(symbols, width) {
		res = append(res, strings.Join(bars, Separator))
	}
	return res
}

func Render(symbols []string, width int) string {
	return strings.Join(Lines(symbols, width), "\n")
}
