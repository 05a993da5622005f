// Package score is a small symbolic music model: notes and simultaneous
// pitch groups placed in quarter lengths, split into measures.
package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/rheminthsimeon/melodistiq/chord"
	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/midi"
	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/rheminthsimeon/melodistiq/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

const eps = 1e-9

// Element is a single note or a group of pitches starting together.
// Offsets and durations are in quarter lengths.
type Element struct {
	Offset   float64
	Duration float64
	Pitches  []int
}

func (e Element) End() float64 {
	return e.Offset + e.Duration
}

func (e Element) IsNote() bool {
	return len(e.Pitches) == 1
}

func (e Element) IsChord() bool {
	return len(e.Pitches) > 1
}

func (e Element) Names() []string {
	names := make([]string, 0, len(e.Pitches))
	for _, p := range e.Pitches {
		names = append(names, chord.PitchName(p))
	}
	return names
}

type TimeSignature struct {
	Numerator   int
	Denominator int
}

var CommonTime = TimeSignature{Numerator: 4, Denominator: 4}

func (ts TimeSignature) BarLength() float64 {
	if ts.Numerator <= 0 || ts.Denominator <= 0 {
		return CommonTime.BarLength()
	}
	return float64(ts.Numerator) * 4 / float64(ts.Denominator)
}

type Score struct {
	Parts         [][]Element
	TimeSignature TimeSignature
}

type Measure struct {
	Number   int
	Elements []Element
}

// Quantize snaps a quarter length to the export tick grid.
func Quantize(ql float64) float64 {
	return math.Round(ql*constants.TicksPerQuarter) / constants.TicksPerQuarter
}

func Parse(path string) (*Score, error) {
	s, err := midi.ReadMidiFile(path)
	if err != nil {
		return nil, err
	}
	return FromSMF(s)
}

func FromSMF(s *smf.SMF) (*Score, error) {
	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks.Resolution() == 0 {
		return nil, fmt.Errorf("unsupported midi time format: %v", s.TimeFormat)
	}
	resolution := float64(ticks.Resolution())

	res := &Score{TimeSignature: CommonTime}
	foundTimeSignature := false
	for _, track := range s.Tracks {
		var part []Element
		var absTicks int64
		open := make(map[[2]uint8][]int64)
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			var ch, key, vel uint8
			switch {
			case evt.Message.GetNoteStart(&ch, &key, &vel):
				k := [2]uint8{ch, key}
				open[k] = append(open[k], absTicks)
			case evt.Message.GetNoteEnd(&ch, &key):
				k := [2]uint8{ch, key}
				starts := open[k]
				if len(starts) == 0 {
					continue
				}
				start := starts[0]
				open[k] = starts[1:]
				if absTicks > start {
					part = append(part, Element{
						Offset:   float64(start) / resolution,
						Duration: float64(absTicks-start) / resolution,
						Pitches:  []int{int(key)},
					})
				}
			default:
				if num, denom, ok := midi.TimeSignature(evt.Message); ok && !foundTimeSignature && num > 0 {
					res.TimeSignature = TimeSignature{Numerator: num, Denominator: denom}
					foundTimeSignature = true
				}
			}
		}
		if len(part) > 0 {
			sortElements(part)
			res.Parts = append(res.Parts, part)
		}
	}
	return res, nil
}

// FromNoteEvents lays segmented notes end to end in a single part. Seconds
// become quarter lengths through a fixed factor; gaps between notes are
// dropped.
func FromNoteEvents(notes []model.NoteEvent) *Score {
	var part []Element
	var offset float64
	for _, n := range notes {
		ql := Quantize(n.Duration * constants.QuarterLengthFactor)
		if ql <= 0 {
			continue
		}
		part = append(part, Element{Offset: offset, Duration: ql, Pitches: []int{n.Pitch}})
		offset += ql
	}
	res := &Score{TimeSignature: CommonTime}
	if len(part) > 0 {
		res.Parts = append(res.Parts, part)
	}
	return res
}

func (s *Score) Flatten() []Element {
	var res []Element
	for _, part := range s.Parts {
		res = append(res, part...)
	}
	sortElements(res)
	return res
}

func (s *Score) Duration() float64 {
	var end float64
	for _, e := range s.Flatten() {
		end = util.Max(end, e.End())
	}
	return end
}

// Chordify collapses all parts into one, with one element per span in
// which the set of sounding pitches does not change.
func (s *Score) Chordify() *Score {
	elements := s.Flatten()
	var bounds []float64
	for _, e := range elements {
		bounds = append(bounds, e.Offset, e.End())
	}
	bounds = util.Unique(bounds)

	// elements is sorted by offset and bounds only grow, so an element
	// joins the sounding set once and leaves it for good.
	var part, sounding []Element
	next := 0
	for i := 0; i+1 < len(bounds); i++ {
		start, end := bounds[i], bounds[i+1]
		if end-start < eps {
			continue
		}
		for next < len(elements) && elements[next].Offset <= start+eps {
			sounding = append(sounding, elements[next])
			next++
		}
		kept := sounding[:0]
		var pitches []int
		for _, e := range sounding {
			if e.End() >= end-eps {
				kept = append(kept, e)
				pitches = append(pitches, e.Pitches...)
			}
		}
		sounding = kept
		if len(pitches) == 0 {
			continue
		}
		part = append(part, Element{Offset: start, Duration: end - start, Pitches: util.Unique(pitches)})
	}

	res := &Score{TimeSignature: s.TimeSignature}
	if len(part) > 0 {
		res.Parts = append(res.Parts, part)
	}
	return res
}

// ToMeasures splits the score at bar lines. Elements crossing a bar line
// are cut in two. Bars with nothing sounding come back empty.
func (s *Score) ToMeasures() []Measure {
	bar := s.TimeSignature.BarLength()
	elements := s.Flatten()
	count := int(math.Ceil(s.Duration()/bar - eps))

	measures := make([]Measure, count)
	for i := range measures {
		measures[i].Number = i + 1
	}
	for _, e := range elements {
		start := e.Offset
		for start < e.End()-eps {
			idx := int(math.Floor(start/bar + eps))
			if idx >= count {
				break
			}
			segEnd := util.Min(e.End(), float64(idx+1)*bar)
			measures[idx].Elements = append(measures[idx].Elements, Element{
				Offset:   start,
				Duration: segEnd - start,
				Pitches:  e.Pitches,
			})
			start = segEnd
		}
	}
	for i := range measures {
		sortElements(measures[i].Elements)
	}
	return measures
}

// ToSMF writes the score as a single track at the export tempo.
func (s *Score) ToSMF() *smf.SMF {
	var notes []midi.Note
	for _, e := range s.Flatten() {
		start := uint32(math.Round(e.Offset * constants.TicksPerQuarter))
		dur := uint32(math.Round(e.Duration * constants.TicksPerQuarter))
		for _, p := range e.Pitches {
			notes = append(notes, midi.Note{Key: uint8(util.Clamp(p, 0, 127)), Start: start, Duration: dur})
		}
	}
	return midi.BuildSMF(notes, constants.TicksPerQuarter, constants.ExportTempo,
		s.TimeSignature.Numerator, s.TimeSignature.Denominator)
}

func sortElements(elements []Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		if math.Abs(elements[i].Offset-elements[j].Offset) > eps {
			return elements[i].Offset < elements[j].Offset
		}
		return lowest(elements[i]) < lowest(elements[j])
	})
}

func lowest(e Element) int {
	if len(e.Pitches) == 0 {
		return math.MaxInt
	}
	return e.Pitches[0]
}
