package score

import (
	"errors"
	"math"

	"github.com/rheminthsimeon/melodistiq/chord"
	"gonum.org/v1/gonum/stat"
)

var ErrEmptyScore = errors.New("score has no notes")

type Mode string

const (
	MajorMode Mode = "major"
	MinorMode Mode = "minor"
)

// Krumhansl-Kessler probe tone profiles, tonic first.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

type Key struct {
	Tonic int
	Mode  Mode
}

func (k Key) TonicName() string {
	return chord.PitchName(k.Tonic)
}

func (k Key) String() string {
	return k.TonicName() + " " + string(k.Mode)
}

// PitchClassHistogram sums sounding time per pitch class.
func (s *Score) PitchClassHistogram() []float64 {
	hist := make([]float64, 12)
	for _, e := range s.Flatten() {
		for _, p := range e.Pitches {
			hist[chord.PitchClass(p)] += e.Duration
		}
	}
	return hist
}

func shiftProfile(profile []float64, tonic int) []float64 {
	shifted := make([]float64, 12)
	for i := range shifted {
		shifted[i] = profile[(i-tonic+12)%12]
	}
	return shifted
}

// AnalyzeKey correlates the duration-weighted pitch class histogram with
// every major and minor key profile and returns the best match.
func (s *Score) AnalyzeKey() (Key, error) {
	hist := s.PitchClassHistogram()
	var total float64
	for _, v := range hist {
		total += v
	}
	if total == 0 {
		return Key{}, ErrEmptyScore
	}

	best := Key{Tonic: 0, Mode: MajorMode}
	bestScore := math.Inf(-1)
	for tonic := 0; tonic < 12; tonic++ {
		for _, mode := range []Mode{MajorMode, MinorMode} {
			profile := majorProfile
			if mode == MinorMode {
				profile = minorProfile
			}
			r := stat.Correlation(hist, shiftProfile(profile, tonic), nil)
			if !math.IsNaN(r) && r > bestScore {
				best, bestScore = Key{Tonic: tonic, Mode: mode}, r
			}
		}
	}
	return best, nil
}
