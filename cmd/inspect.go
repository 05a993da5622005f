package cmd

import (
	"fmt"
	"strings"

	"github.com/rheminthsimeon/melodistiq/chord"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/format"
	"github.com/rheminthsimeon/melodistiq/harmony"
	"github.com/rheminthsimeon/melodistiq/score"
	"github.com/rheminthsimeon/melodistiq/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Prints the chordified measures of a MIDI file",
	Long: `Prints every measure of a MIDI file after chordifying it: the pitch
groups it holds, the chord symbol it reduces to, and a count of every
distinct simultaneity in the piece.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(cmd, args[0])
	},
}

func inspect(cmd *cobra.Command, path string) error {
	s, err := score.Parse(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "time signature: %d/%d\n", s.TimeSignature.Numerator, s.TimeSignature.Denominator)

	simultaneities := make(map[string]int)
	var symbols []string
	for _, m := range s.Chordify().ToMeasures() {
		symbol, polyphonic, err := harmony.MeasureChord(m)
		if err != nil {
			symbol += " (" + err.Error() + ")"
		}
		symbols = append(symbols, symbol)
		var groups []string
		for _, e := range m.Elements {
			groups = append(groups, fmt.Sprintf("%g+%g[%s]", e.Offset, e.Duration, strings.Join(e.Names(), " ")))
			simultaneities[chord.CreateChordKey(e.Pitches)]++
		}
		fmt.Fprintf(out, "measure %d: %s polyphonic=%t %s\n", m.Number, symbol, polyphonic, strings.Join(groups, " "))
	}

	fmt.Fprintf(out, "progression:\n%s\n", format.Render(symbols, constants.BarsPerLine))

	counts := make([]int, 0, len(simultaneities))
	for _, key := range util.GetKeys(simultaneities) {
		fmt.Fprintf(out, "key: %v count: %v\n", key, simultaneities[key])
		counts = append(counts, simultaneities[key])
	}
	fmt.Fprintf(out, "%d groups, %d distinct\n", util.Sum(counts), len(counts))
	return nil
}
