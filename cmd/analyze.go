package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/rheminthsimeon/melodistiq/util"
	"github.com/rheminthsimeon/melodistiq/workspace"
	"github.com/spf13/cobra"
)

var asJSON bool

func init() {
	analyzeCmd.Flags().BoolVar(&asJSON, "json", false, "print the API response body instead of text")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyzes a MIDI file or a recording",
	Long:  `Prints the scale and the chord progression (or melody) of a MIDI file or an audio recording.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := analyze(context.Background(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON {
			return json.NewEncoder(out).Encode(model.NewAnalyzeResponse(res))
		}
		fmt.Fprintf(out, "%s (%s)\n%s\n", res.Scale, res.Kind, res.Text())
		return nil
	},
}

func analyze(ctx context.Context, path string) (*model.AnalysisResult, error) {
	analyzer := newAnalyzer(newLogger(os.Stderr))
	switch {
	case util.HasExt(path, constants.MidiExtensions...):
		return analyzer.AnalyzeMIDI(ctx, path)
	case util.HasExt(path, constants.AudioExtensions...):
		ws, err := workspace.Create(constants.GetWorkDir())
		if err != nil {
			return nil, err
		}
		defer ws.Cleanup()
		return analyzer.AnalyzeAudio(ctx, ws, path)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, util.Ext(path))
	}
}
