package cmd

import (
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/exec"
	"github.com/rheminthsimeon/melodistiq/pipeline"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "melodistiq",
	Short: "Chord and melody transcription",
	Long: `melodistiq reads a MIDI file or an audio recording and writes out the
scale plus a bar-by-bar chord progression, or the notes being played when
the piece never sounds two pitches at once.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env is fine, the environment may already be set
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// newLogger writes text logs to w. The server logs to stdout; commands that
// print results log to stderr.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newAnalyzer(logger *slog.Logger) *pipeline.Analyzer {
	runner := exec.NewRunner(constants.GetPythonPath(), constants.GetScriptsDir())
	return pipeline.New(runner, logger)
}
