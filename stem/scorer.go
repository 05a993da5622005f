// Package stem separates a recording into instrument stems and picks the
// one most likely to carry the harmony.
package stem

import (
	"fmt"
	"log/slog"

	"github.com/rheminthsimeon/melodistiq/audio"
	"github.com/rheminthsimeon/melodistiq/constants"
	"gonum.org/v1/gonum/stat"
)

// Scorer rates how much simultaneous pitched energy a stem carries: the
// mean number of strong chroma bins over the stem's non-silent frames.
type Scorer struct {
	Framing    audio.Framing
	SampleRate int
	Logger     *slog.Logger
}

func NewScorer(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{Framing: audio.DefaultFraming, SampleRate: constants.ScoringSampleRate, Logger: logger}
}

func (s *Scorer) ScoreSamples(samples []float64, sampleRate int) (float64, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	samples, err := audio.ResampleIfNeeded(samples, sampleRate, s.SampleRate)
	if err != nil {
		return 0, fmt.Errorf("resample: %w", err)
	}
	chroma, err := s.Framing.Chroma(samples, s.SampleRate)
	if err != nil {
		return 0, err
	}
	return ActivityScore(chroma, s.Framing.RMS(samples)), nil
}

// ScoreFile never panics; a failure inside the feature code comes back as
// an error.
func (s *Scorer) ScoreFile(path string) (score float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			score, err = 0, fmt.Errorf("scoring %s panicked: %v", path, r)
		}
	}()
	samples, rate, err := audio.ReadWAVMono(path)
	if err != nil {
		return 0, err
	}
	return s.ScoreSamples(samples, rate)
}

// ActivityScore averages, over frames louder than the silence floor, the
// count of chroma bins above the activity threshold.
func ActivityScore(chroma [][12]float64, rms []float64) float64 {
	var counts []float64
	for i, frame := range chroma {
		if i >= len(rms) || rms[i] < constants.SilenceRMSThreshold {
			continue
		}
		active := 0
		for _, v := range frame {
			if v > constants.ChromaActivityThreshold {
				active++
			}
		}
		counts = append(counts, float64(active))
	}
	if len(counts) == 0 {
		return 0
	}
	return stat.Mean(counts, nil)
}
