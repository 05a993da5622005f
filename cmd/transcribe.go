package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/chord"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/util"
	"github.com/rheminthsimeon/melodistiq/workspace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio> <out.mid>",
	Short: "Writes the melody of a recording to a MIDI file",
	Long: `Separates a recording, picks the stem with the most pitched content,
tracks its pitch and writes the resulting notes to a Standard MIDI File.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[1]
		if !util.HasExt(in, constants.AudioExtensions...) {
			return fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, util.Ext(in))
		}

		ws, err := workspace.Create(constants.GetWorkDir())
		if err != nil {
			return err
		}
		defer ws.Cleanup()

		notes, err := newAnalyzer(newLogger(os.Stderr)).TranscribeToMIDI(context.Background(), ws, in, out)
		if err != nil {
			return err
		}
		for _, n := range notes {
			fmt.Fprintf(cmd.OutOrStdout(), "%7.3fs %6.3fs %s\n", n.Start, n.Duration, chord.PitchName(n.Pitch))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d notes to %s\n", len(notes), out)
		return nil
	},
}
