// Package harmony reduces measures to one chord symbol each, and falls
// back to listing notes when the piece never plays two pitches at once.
package harmony

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/rheminthsimeon/melodistiq/chord"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/format"
	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/rheminthsimeon/melodistiq/score"
)

type Reduction struct {
	Scale        string
	IsMonophonic bool
	Chords       []string
	Melody       []string
}

type Reducer struct {
	Logger *slog.Logger
}

func NewReducer(logger *slog.Logger) *Reducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reducer{Logger: logger}
}

// Reduce estimates the key on the original parts and reads chords and
// notes from the chordified score.
func (r *Reducer) Reduce(s *score.Score) (*Reduction, error) {
	key, err := s.AnalyzeKey()
	if err != nil {
		return nil, fmt.Errorf("analyze key: %w", err)
	}
	return r.ReduceMeasures(s.Chordify().ToMeasures(), key), nil
}

func (r *Reducer) ReduceMeasures(measures []score.Measure, key score.Key) *Reduction {
	res := &Reduction{Scale: key.String(), IsMonophonic: true}
	for _, m := range measures {
		symbol, polyphonic, err := MeasureChord(m)
		if err != nil {
			r.Logger.Warn("root detection failed", slog.Int("measure", m.Number), slog.Any("error", err))
		}
		if polyphonic {
			res.IsMonophonic = false
		}
		res.Chords = append(res.Chords, symbol)
		res.Melody = append(res.Melody, MeasureNotes(m))
	}
	return res
}

// MeasureChord names a measure after its first group only. The polyphonic
// flag looks at every group.
func MeasureChord(m score.Measure) (symbol string, polyphonic bool, err error) {
	if len(m.Elements) == 0 {
		return constants.NoChord, false, nil
	}
	for _, e := range m.Elements {
		if e.IsChord() {
			polyphonic = true
			break
		}
	}
	c, err := chord.Symbol(m.Elements[0].Pitches)
	if err != nil {
		return constants.NoChord, polyphonic, err
	}
	return c.String(), polyphonic, nil
}

func MeasureNotes(m score.Measure) string {
	if len(m.Elements) == 0 {
		return constants.RestToken
	}
	var parts []string
	for _, e := range m.Elements {
		if len(e.Pitches) == 0 {
			continue
		}
		parts = append(parts, strings.Join(e.Names(), "-"))
	}
	if len(parts) == 0 {
		return constants.RestToken
	}
	return strings.Join(parts, " ")
}

func (r *Reduction) Result() *model.AnalysisResult {
	if r.IsMonophonic {
		lines := append([]string{constants.MelodyPrefix}, format.Lines(r.Melody, constants.BarsPerLine)...)
		return &model.AnalysisResult{Kind: model.KindMelody, Scale: r.Scale, Lines: lines}
	}
	return &model.AnalysisResult{
		Kind:  model.KindChords,
		Scale: r.Scale,
		Lines: format.Lines(r.Chords, constants.BarsPerLine),
	}
}
