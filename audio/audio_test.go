package audio

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rheminthsimeon/melodistiq/apperrors"
	"github.com/rheminthsimeon/melodistiq/exec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sr = 22050

func sine(freq, seconds, amp float64) []float64 {
	res := make([]float64, int(seconds*sr))
	for i := range res {
		res[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sr)
	}
	return res
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tone.wav")
	in := sine(440, 0.25, 0.5)
	in[0] = 2 // clipped on write
	require.NoError(t, WriteMonoWAV(path, in, sr))

	out, rate, err := ReadWAVMono(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(sr, rate)
	require.Len(t, out, len(in))
	assert.InDelta(1, out[0], 1e-4)
	for i := 1; i < len(in); i++ {
		assert.InDelta(in[i], out[i], 1e-4)
	}
}

func TestReadWAVMonoRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a riff file"), 0o644))

	_, _, err := ReadWAVMono(path)
	assert.ErrorIs(t, err, apperrors.ErrCorruptedFile)
}

func TestReadWAVMonoMissingFile(t *testing.T) {
	_, _, err := ReadWAVMono(filepath.Join(t.TempDir(), "nope.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResampleIfNeeded(t *testing.T) {
	in := sine(440, 0.5, 0.5)
	same, err := ResampleIfNeeded(in, sr, sr)
	require.NoError(t, err)
	assert.Equal(t, in, same)

	down, err := ResampleIfNeeded(sine(440, 1, 0.5), 44100, sr)
	require.NoError(t, err)
	assert.InDelta(t, 11025, len(down), 200)
}

func TestFrameCount(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(1, DefaultFraming.Count(0))
	assert.Equal(1, DefaultFraming.Count(511))
	assert.Equal(2, DefaultFraming.Count(512))
	assert.Equal(44, DefaultFraming.Count(sr))
}

func TestRMS(t *testing.T) {
	rms := DefaultFraming.RMS(sine(440, 1, 0.5))

	assert := assert.New(t)
	assert.Len(rms, 44)
	assert.InDelta(0.5/math.Sqrt2, rms[20], 0.01)
	// the first frame is half padding
	assert.Less(rms[0], rms[20])

	for _, v := range DefaultFraming.RMS(make([]float64, sr)) {
		assert.Zero(v)
	}
}

func TestChromaPeaksAtPitchClass(t *testing.T) {
	chroma, err := DefaultFraming.Chroma(sine(440, 1, 0.5), sr)
	require.NoError(t, err)

	frame := chroma[20]
	assert := assert.New(t)
	assert.InDelta(1, frame[9], 1e-9)
	for pc, v := range frame {
		if pc != 9 {
			assert.Less(v, 0.6, "pitch class %d", pc)
		}
	}
}

func TestChromaOfSilenceIsZero(t *testing.T) {
	chroma, err := DefaultFraming.Chroma(make([]float64, 4096), sr)
	require.NoError(t, err)
	assert.Len(t, chroma, 9)
	for _, frame := range chroma {
		assert.Equal(t, [12]float64{}, frame)
	}
}

func TestChromaRejectsBadRate(t *testing.T) {
	_, err := DefaultFraming.Chroma(nil, 0)
	assert.Error(t, err)
}

func TestDecoderPassesWAVThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.WAV")
	require.NoError(t, WriteMonoWAV(path, sine(220, 0.1, 0.3), sr))

	d := NewDecoder(exec.NewRunner("sh", dir))
	got, err := d.ToWAV(context.Background(), path, filepath.Join(dir, "scratch.wav"))
	require.NoError(t, err)
	assert.Equal(t, path, got)

	samples, rate, err := d.Load(context.Background(), path, filepath.Join(dir, "scratch.wav"))
	require.NoError(t, err)
	assert.Equal(t, sr, rate)
	assert.Len(t, samples, 2205)
}
