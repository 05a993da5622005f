package audio

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/rheminthsimeon/melodistiq/constants"
)

// chroma ignores energy below C1 and above this ceiling
const (
	chromaMinFreq = 32.70319566257483
	chromaMaxFreq = 5000.0
)

// Framing describes centered analysis frames: frame i is stamped
// i*Hop/sampleRate and spans Length samples around that point.
type Framing struct {
	Length int
	Hop    int
}

var DefaultFraming = Framing{Length: constants.FrameLength, Hop: constants.HopLength}

func (fr Framing) Count(numSamples int) int {
	return 1 + numSamples/fr.Hop
}

func (fr Framing) pad(samples []float64) []float64 {
	padded := make([]float64, len(samples)+fr.Length)
	copy(padded[fr.Length/2:], samples)
	return padded
}

// RMS returns the root mean square of every frame.
func (fr Framing) RMS(samples []float64) []float64 {
	padded := fr.pad(samples)
	res := make([]float64, fr.Count(len(samples)))
	for i := range res {
		var sum float64
		for _, v := range padded[i*fr.Hop : i*fr.Hop+fr.Length] {
			sum += v * v
		}
		res[i] = math.Sqrt(sum / float64(fr.Length))
	}
	return res
}

// Chroma folds the power spectrum of every frame onto 12 pitch classes
// (index 0 is C) and scales each frame so its strongest class is 1.
func (fr Framing) Chroma(samples []float64, sampleRate int) ([][12]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	plan, err := algofft.NewPlanReal64(fr.Length)
	if err != nil {
		return nil, fmt.Errorf("fft plan: %w", err)
	}

	bins := fr.Length/2 + 1
	classOf := make([]int, bins)
	ceiling := math.Min(float64(sampleRate)/2, chromaMaxFreq)
	for k := range classOf {
		f := float64(k) * float64(sampleRate) / float64(fr.Length)
		if f < chromaMinFreq || f > ceiling {
			classOf[k] = -1
			continue
		}
		midi := int(math.Round(12*math.Log2(f/440) + 69))
		classOf[k] = ((midi % 12) + 12) % 12
	}

	hann := window.Hann(fr.Length)
	padded := fr.pad(samples)
	buf := make([]float64, fr.Length)
	spec := make([]complex128, bins)

	res := make([][12]float64, fr.Count(len(samples)))
	for i := range res {
		for j, v := range padded[i*fr.Hop : i*fr.Hop+fr.Length] {
			buf[j] = v * hann[j]
		}
		plan.Forward(spec, buf)

		var frame [12]float64
		for k, c := range spec {
			if pc := classOf[k]; pc >= 0 {
				frame[pc] += real(c)*real(c) + imag(c)*imag(c)
			}
		}
		peak := 0.0
		for _, v := range frame {
			peak = math.Max(peak, v)
		}
		if peak > 0 {
			for pc := range frame {
				frame[pc] /= peak
			}
		}
		res[i] = frame
	}
	return res, nil
}
