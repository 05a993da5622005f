// Package segment turns a frame-by-frame pitch track into discrete notes.
//
// The segmenter is a two-state machine. Idle means no note is open;
// Sounding holds the pitch and start time of the open note. Step is a pure
// transition function so sequences of frames can be replayed in tests.
package segment

import (
	"math"

	"github.com/rheminthsimeon/melodistiq/constants"
	"github.com/rheminthsimeon/melodistiq/model"
)

type State struct {
	Sounding bool
	Pitch    int
	Start    float64
}

var Idle = State{}

func Sounding(pitch int, start float64) State {
	return State{Sounding: true, Pitch: pitch, Start: start}
}

// IsActive reports whether a frame carries a usable pitch.
func IsActive(f model.PitchFrame) bool {
	return f.VoicedProb > constants.VoicedProbThreshold &&
		!math.IsNaN(f.Frequency) && f.Frequency > 0
}

// MidiNumber rounds a frequency to the nearest MIDI note, A4 = 440 Hz.
func MidiNumber(freq float64) int {
	return int(math.Round(12*math.Log2(freq/440) + 69))
}

func closeNote(s State, end float64) *model.NoteEvent {
	if !s.Sounding {
		return nil
	}
	duration := end - s.Start
	if duration <= constants.MinNoteDuration {
		return nil
	}
	return &model.NoteEvent{Pitch: s.Pitch, Start: s.Start, Duration: duration}
}

// Step feeds one frame to the machine. The returned note is non-nil when
// the frame closed a note long enough to keep.
func Step(s State, f model.PitchFrame) (State, *model.NoteEvent) {
	if !IsActive(f) {
		return Idle, closeNote(s, f.Time)
	}
	pitch := MidiNumber(f.Frequency)
	if !s.Sounding {
		return Sounding(pitch, f.Time), nil
	}
	if pitch == s.Pitch {
		return s, nil
	}
	return Sounding(pitch, f.Time), closeNote(s, f.Time)
}

// Finish closes whatever is still sounding at the last frame's time.
func Finish(s State, lastTime float64) *model.NoteEvent {
	return closeNote(s, lastTime)
}

func Segment(frames []model.PitchFrame) []model.NoteEvent {
	var notes []model.NoteEvent
	state := Idle
	for _, f := range frames {
		var note *model.NoteEvent
		state, note = Step(state, f)
		if note != nil {
			notes = append(notes, *note)
		}
	}
	if len(frames) > 0 {
		if note := Finish(state, frames[len(frames)-1].Time); note != nil {
			notes = append(notes, *note)
		}
	}
	return notes
}
