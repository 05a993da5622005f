// Package audio decodes recordings into mono sample slices and computes the
// frame features used to rank stems.
package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/util"
)

// ReadWAVMono decodes a PCM WAV file, averages its channels and scales
// samples to [-1, 1].
func ReadWAVMono(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: invalid wav file: %s", apperrors.ErrCorruptedFile, filepath.Base(path))
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperrors.ErrCorruptedFile, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("%w: invalid wav buffer: %s", apperrors.ErrCorruptedFile, filepath.Base(path))
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	full := float64(audio.IntMaxSignedValue(bitDepth))
	if full == 0 {
		return nil, 0, fmt.Errorf("%w: unsupported bit depth %d", apperrors.ErrUnsupportedFormat, bitDepth)
	}

	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		out[i] = sum / float64(ch) / full
	}
	return out, buf.Format.SampleRate, nil
}

// WriteMonoWAV writes 16-bit PCM, clipping samples outside [-1, 1].
func WriteMonoWAV(path string, samples []float64, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	const bitDepth = 16
	full := float64(audio.IntMaxSignedValue(bitDepth))
	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(math.Round(util.Clamp(s, -1, 1) * full))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func ResampleIfNeeded(in []float64, fromRate int, toRate int) ([]float64, error) {
	if fromRate == toRate {
		return in, nil
	}
	r, err := dspresample.NewForRates(
		float64(fromRate),
		float64(toRate),
		dspresample.WithQuality(dspresample.QualityBest),
	)
	if err != nil {
		return nil, err
	}
	return r.Process(in), nil
}
