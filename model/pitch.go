package model

import "math"

// PitchFrame is one frame of pitch tracker output. Frequency is NaN when
// the tracker found no pitch.
type PitchFrame struct {
	Time       float64
	Frequency  float64
	VoicedProb float64
}

func UnvoicedFrame(t float64) PitchFrame {
	return PitchFrame{Time: t, Frequency: math.NaN()}
}
