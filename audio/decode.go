package audio

import (
	"context"
	"fmt"

	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/exec"
	"github.com/rheminthsimeon/melodistiq/util"
)

const ffmpeg = "ffmpeg"

// Decoder loads any supported recording. WAV is read directly; everything
// else goes through ffmpeg first.
type Decoder struct {
	runner *exec.Runner
}

func NewDecoder(runner *exec.Runner) *Decoder {
	return &Decoder{runner: runner}
}

// ToWAV returns a path to a PCM WAV rendition of inputPath, writing to
// scratch only when a conversion is needed.
func (d *Decoder) ToWAV(ctx context.Context, inputPath, scratch string) (string, error) {
	if util.HasExt(inputPath, ".wav") {
		return inputPath, nil
	}
	if err := d.runner.CheckTool(ffmpeg); err != nil {
		return "", err
	}
	result, err := d.runner.Run(ctx, ffmpeg, "-y", "-loglevel", "error", "-i", inputPath, "-c:a", "pcm_s16le", scratch)
	if err != nil {
		if result != nil {
			return "", apperrors.NewProcessError(ffmpeg, "transcode", result.ExitCode, result.Stderr, err)
		}
		return "", fmt.Errorf("transcode: %w", err)
	}
	return scratch, nil
}

func (d *Decoder) Load(ctx context.Context, inputPath, scratch string) ([]float64, int, error) {
	path, err := d.ToWAV(ctx, inputPath, scratch)
	if err != nil {
		return nil, 0, err
	}
	return ReadWAVMono(path)
}
