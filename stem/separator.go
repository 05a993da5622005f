package stem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/exec"
)

// Separator splits a recording into named WAV stems.
type Separator interface {
	Separate(ctx context.Context, inputPath, outDir string) (map[string]string, error)
}

// CommandSeparator runs the demucs wrapper script, which writes one
// <stem>.wav per source into the output directory.
type CommandSeparator struct {
	runner *exec.Runner
	Script string
	Model  string
}

func NewCommandSeparator(runner *exec.Runner, script string) *CommandSeparator {
	return &CommandSeparator{runner: runner, Script: script, Model: "htdemucs_6s"}
}

func (s *CommandSeparator) Separate(ctx context.Context, inputPath, outDir string) (map[string]string, error) {
	if err := s.runner.CheckScript(s.Script); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create stem dir: %w", err)
	}

	result, err := s.runner.RunScript(ctx, s.Script, inputPath, outDir, "--model", s.Model)
	if err != nil {
		if result != nil && result.ExitCode != 0 {
			return nil, apperrors.NewProcessError("demucs", "stem_separation", result.ExitCode, result.Stderr, err)
		}
		return nil, fmt.Errorf("stem separation: %w", err)
	}

	stems := map[string]string{}
	for _, name := range constants.StemNames {
		path := filepath.Join(outDir, name+".wav")
		if _, err := os.Stat(path); err == nil {
			stems[name] = path
		}
	}
	if len(stems) == 0 {
		return nil, fmt.Errorf("no stems found in %s", outDir)
	}
	return stems, nil
}
