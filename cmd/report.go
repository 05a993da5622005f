package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/workspace"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <audio>",
	Short: "Reports the harmonic activity score of every stem",
	Long:  `Separates a recording and prints the score of each non-percussive stem along with the one that would be transcribed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := workspace.Create(constants.GetWorkDir())
		if err != nil {
			return err
		}
		defer ws.Cleanup()

		best, scores, err := newAnalyzer(newLogger(os.Stderr)).StemReport(context.Background(), ws, args[0])
		if err != nil && !errors.Is(err, apperrors.ErrNoMelodicContent) {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-8s %s\n", "stem", "score")
		for _, s := range scores {
			fmt.Fprintf(out, "%-8s %.3f\n", s.Stem, s.Score)
		}
		if best == "" {
			fmt.Fprintln(out, "no stem carries melodic content")
			return nil
		}
		fmt.Fprintf(out, "selected: %s\n", best)
		return nil
	},
}
