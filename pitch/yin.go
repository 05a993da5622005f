// Package pitch estimates a fundamental frequency per frame of a mono
// signal.
package pitch

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/model"
)

type Tracker interface {
	Track(samples []float64, sampleRate int, minFreq, maxFreq float64, frameLength int) ([]model.PitchFrame, error)
}

// YIN is the de Cheveigne and Kawahara estimator. The lag product of each
// frame is computed with a fast convolution rather than the quadratic sum.
type YIN struct {
	Threshold float64
	HopLength int
	// frames whose analysis window is quieter than this are unvoiced
	SilenceRMS float64
}

func NewYIN() *YIN {
	return &YIN{Threshold: 0.1, HopLength: constants.HopLength, SilenceRMS: 1e-4}
}

var ErrBadParameters = errors.New("invalid pitch tracking parameters")

// Track returns one frame per hop. Frames are centered, so frame i covers
// samples around i*hop and is stamped i*hop/sampleRate.
func (y *YIN) Track(samples []float64, sampleRate int, minFreq, maxFreq float64, frameLength int) ([]model.PitchFrame, error) {
	hop := y.HopLength
	if hop <= 0 {
		hop = constants.HopLength
	}
	if sampleRate <= 0 || frameLength < 4 || minFreq <= 0 || maxFreq <= minFreq {
		return nil, fmt.Errorf("%w: rate=%d frame=%d range=[%g, %g]", ErrBadParameters, sampleRate, frameLength, minFreq, maxFreq)
	}

	window := frameLength / 2
	tauMin := int(math.Floor(float64(sampleRate) / maxFreq))
	if tauMin < 1 {
		tauMin = 1
	}
	tauMax := int(math.Ceil(float64(sampleRate) / minFreq))
	if tauMax > frameLength-window {
		tauMax = frameLength - window
	}
	if tauMax <= tauMin+1 {
		return nil, fmt.Errorf("%w: lag range [%d, %d] is empty", ErrBadParameters, tauMin, tauMax)
	}

	padded := make([]float64, len(samples)+frameLength)
	copy(padded[frameLength/2:], samples)
	n := 1 + len(samples)/hop

	frame := make([]float32, frameLength)
	kernel := make([]float32, window)
	lagProduct := make([]float32, frameLength+window-1)
	energy := make([]float64, frameLength+1)
	cmnd := make([]float64, tauMax+1)

	res := make([]model.PitchFrame, n)
	for i := 0; i < n; i++ {
		t := float64(i*hop) / float64(sampleRate)
		x := padded[i*hop : i*hop+frameLength]

		energy[0] = 0
		for j, v := range x {
			frame[j] = float32(v)
			energy[j+1] = energy[j] + v*v
		}
		e0 := energy[window]
		if math.Sqrt(e0/float64(window)) < y.SilenceRMS {
			res[i] = model.UnvoicedFrame(t)
			continue
		}

		for j := 0; j < window; j++ {
			kernel[j] = frame[window-1-j]
		}
		if err := algofft.ConvolveReal(lagProduct, frame, kernel); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		cmnd[0] = 1
		running := 0.0
		for tau := 1; tau <= tauMax; tau++ {
			eTau := energy[tau+window] - energy[tau]
			d := e0 + eTau - 2*float64(lagProduct[window-1+tau])
			if d < 0 {
				d = 0
			}
			running += d
			if running == 0 {
				cmnd[tau] = 1
			} else {
				cmnd[tau] = d * float64(tau) / running
			}
		}

		res[i] = y.pick(cmnd, tauMin, tauMax, sampleRate, minFreq, maxFreq, t)
	}
	return res, nil
}

func (y *YIN) pick(cmnd []float64, tauMin, tauMax, sampleRate int, minFreq, maxFreq, t float64) model.PitchFrame {
	best := -1
	for tau := tauMin; tau < tauMax; tau++ {
		if cmnd[tau] < y.Threshold {
			for tau+1 < tauMax && cmnd[tau+1] < cmnd[tau] {
				tau++
			}
			best = tau
			break
		}
	}

	dipped := best >= 0
	if !dipped {
		best = tauMin
		for tau := tauMin; tau < tauMax; tau++ {
			if cmnd[tau] < cmnd[best] {
				best = tau
			}
		}
	}

	prob := math.Max(0, math.Min(1, 1-cmnd[best]))
	if !dipped {
		f := model.UnvoicedFrame(t)
		f.VoicedProb = prob / 2
		return f
	}

	period := float64(best) + parabolicShift(cmnd, best)
	freq := float64(sampleRate) / period
	if freq < minFreq || freq > maxFreq {
		return model.UnvoicedFrame(t)
	}
	return model.PitchFrame{Time: t, Frequency: freq, VoicedProb: prob}
}

// parabolicShift is the vertex offset of the parabola through the three
// points around i.
func parabolicShift(v []float64, i int) float64 {
	if i <= 0 || i >= len(v)-1 {
		return 0
	}
	a, b, c := v[i-1], v[i], v[i+1]
	denom := a - 2*b + c
	if denom == 0 {
		return 0
	}
	shift := 0.5 * (a - c) / denom
	if math.Abs(shift) > 1 {
		return 0
	}
	return shift
}
