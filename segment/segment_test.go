package segment

import (
	"math"
	"testing"

	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hop = 512.0 / 22050.0

func frames(n int, fn func(i int) (freq, prob float64)) []model.PitchFrame {
	res := make([]model.PitchFrame, n)
	for i := range res {
		freq, prob := fn(i)
		res[i] = model.PitchFrame{Time: float64(i) * hop, Frequency: freq, VoicedProb: prob}
	}
	return res
}

func TestSilentTrackYieldsNoNotes(t *testing.T) {
	silent := frames(200, func(int) (float64, float64) { return math.NaN(), 0 })
	assert.Empty(t, Segment(silent))
}

func TestUnvoicedTrackYieldsNoNotes(t *testing.T) {
	unvoiced := frames(200, func(int) (float64, float64) { return 440, 0.3 })
	assert.Empty(t, Segment(unvoiced))
}

func TestEmptyTrack(t *testing.T) {
	assert.Empty(t, Segment(nil))
}

func TestConstantPitchIsOneNote(t *testing.T) {
	track := frames(100, func(int) (float64, float64) { return 440, 0.9 })
	notes := Segment(track)

	require.Len(t, notes, 1)
	assert := assert.New(t)
	assert.Equal(69, notes[0].Pitch)
	assert.Equal(0.0, notes[0].Start)
	assert.InDelta(track[99].Time, notes[0].Duration, 1e-12)
}

func TestNoteEndsAtFirstInactiveFrame(t *testing.T) {
	track := frames(60, func(i int) (float64, float64) {
		if i >= 10 && i < 40 {
			return 261.63, 0.8
		}
		return math.NaN(), 0.1
	})
	notes := Segment(track)

	require.Len(t, notes, 1)
	assert := assert.New(t)
	assert.Equal(60, notes[0].Pitch)
	assert.InDelta(track[10].Time, notes[0].Start, 1e-12)
	assert.InDelta(track[40].Time-track[10].Time, notes[0].Duration, 1e-12)
}

func TestJitterWithinASemitoneDoesNotSplit(t *testing.T) {
	track := frames(50, func(i int) (float64, float64) {
		if i%2 == 0 {
			return 436, 0.9
		}
		return 446, 0.9
	})
	assert.Len(t, Segment(track), 1)
}

func TestAlternatingPitchEveryFrameYieldsNothing(t *testing.T) {
	track := frames(200, func(i int) (float64, float64) {
		if i%2 == 0 {
			return 440, 0.9
		}
		return 493.88, 0.9
	})
	assert.Empty(t, Segment(track))
}

func TestPitchChangeClosesAndReopens(t *testing.T) {
	track := frames(40, func(i int) (float64, float64) {
		if i < 20 {
			return 440, 0.9
		}
		return 523.25, 0.9
	})
	notes := Segment(track)

	require.Len(t, notes, 2)
	assert := assert.New(t)
	assert.Equal(69, notes[0].Pitch)
	assert.Equal(72, notes[1].Pitch)
	assert.InDelta(track[20].Time, notes[1].Start, 1e-12)
	assert.InDelta(notes[0].End(), notes[1].Start, 1e-12)
}

func TestShortNoteBetweenLongOnesIsDropped(t *testing.T) {
	track := frames(60, func(i int) (float64, float64) {
		switch {
		case i < 20:
			return 440, 0.9
		case i < 22:
			return 466.16, 0.9
		default:
			return 440, 0.9
		}
	})
	notes := Segment(track)

	require.Len(t, notes, 2)
	assert.Equal(t, 69, notes[0].Pitch)
	assert.Equal(t, 69, notes[1].Pitch)
	assert.InDelta(t, track[22].Time, notes[1].Start, 1e-12)
}

func TestInvalidFrequenciesAreInactive(t *testing.T) {
	assert := assert.New(t)
	assert.False(IsActive(model.PitchFrame{Frequency: math.NaN(), VoicedProb: 1}))
	assert.False(IsActive(model.PitchFrame{Frequency: 0, VoicedProb: 1}))
	assert.False(IsActive(model.PitchFrame{Frequency: -220, VoicedProb: 1}))
	assert.False(IsActive(model.PitchFrame{Frequency: 220, VoicedProb: 0.5}))
	assert.True(IsActive(model.PitchFrame{Frequency: 220, VoicedProb: 0.51}))
}

func TestStepTransitions(t *testing.T) {
	active := func(t, f float64) model.PitchFrame { return model.PitchFrame{Time: t, Frequency: f, VoicedProb: 1} }
	assert := assert.New(t)

	s, note := Step(Idle, active(0, 440))
	assert.Equal(Sounding(69, 0), s)
	assert.Nil(note)

	s, note = Step(s, active(0.1, 440))
	assert.Equal(Sounding(69, 0), s)
	assert.Nil(note)

	s, note = Step(s, active(0.2, 880))
	assert.Equal(Sounding(81, 0.2), s)
	assert.Equal(&model.NoteEvent{Pitch: 69, Start: 0, Duration: 0.2}, note)

	s, note = Step(s, model.UnvoicedFrame(0.22))
	assert.Equal(Idle, s)
	assert.Nil(note)

	s, note = Step(s, model.UnvoicedFrame(0.3))
	assert.Equal(Idle, s)
	assert.Nil(note)
}

func TestFinishUsesMinimumDuration(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(Finish(Idle, 1))
	assert.Nil(Finish(Sounding(60, 0), 0.05))
	assert.Equal(&model.NoteEvent{Pitch: 60, Start: 0, Duration: 0.0625}, Finish(Sounding(60, 0), 0.0625))
	assert.Equal(&model.NoteEvent{Pitch: 60, Start: 1, Duration: 0.5}, Finish(Sounding(60, 1), 1.5))
}

func TestMidiNumber(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(69, MidiNumber(440))
	assert.Equal(60, MidiNumber(261.63))
	assert.Equal(36, MidiNumber(65.41))
	assert.Equal(96, MidiNumber(2093))
}
