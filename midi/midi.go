package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Note is a note in ticks, as written to or read from a track.
type Note struct {
	Key      uint8
	Start    uint32
	Duration uint32
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("Error reading midi file... %w", err)
	}
	return ReadMidi(bytes.NewReader(dat))
}

func ReadMidi(r io.Reader) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("Error parsing midi file... %v", r)
		}
	}()

	res, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("Error parsing midi file... %w", err)
	}
	if _, ok := res.TimeFormat.(smf.MetricTicks); !ok {
		return nil, errors.New("Error parsing midi file... only metric time formats are supported")
	}
	return res, nil
}

func WriteMidiFile(path string, s *smf.SMF) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create midi file: %w", err)
	}
	defer f.Close()

	if _, err := s.WriteTo(f); err != nil {
		return fmt.Errorf("write midi file: %w", err)
	}
	return nil
}

// TimeSignature decodes a raw time signature meta event (FF 58 04 nn dd cc bb).
func TimeSignature(msg []byte) (num, denom int, ok bool) {
	if len(msg) < 5 || msg[0] != 0xFF || msg[1] != 0x58 || msg[2] < 2 {
		return 0, 0, false
	}
	return int(msg[3]), 1 << msg[4], true
}

func metaTimeSignature(num, denom int) []byte {
	pow := uint8(math.Round(math.Log2(float64(denom))))
	return []byte{0xFF, 0x58, 0x04, uint8(num), pow, 24, 8}
}

func metaTempo(bpm float64) []byte {
	mpq := uint32(math.Round(60000000 / bpm))
	return []byte{0xFF, 0x51, 0x03, byte(mpq >> 16), byte(mpq >> 8), byte(mpq)}
}

type noteEvent struct {
	tick      uint32
	key       uint8
	isNoteOff bool
}

// BuildSMF writes notes into a single-track file on channel 0.
func BuildSMF(notes []Note, ticksPerQuarter uint16, bpm float64, num, denom int) *smf.SMF {
	var events []noteEvent
	for _, n := range notes {
		if n.Duration == 0 {
			continue
		}
		events = append(events,
			noteEvent{tick: n.Start, key: n.Key},
			noteEvent{tick: n.Start + n.Duration, key: n.Key, isNoteOff: true})
	}

	// prioritize smaller ticks then note off
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isNoteOff && !events[j].isNoteOff
	})

	var track smf.Track
	track.Add(0, metaTempo(bpm))
	track.Add(0, metaTimeSignature(num, denom))
	var last uint32
	for _, evt := range events {
		delta := evt.tick - last
		last = evt.tick
		if evt.isNoteOff {
			track.Add(delta, midi.NoteOff(0, evt.key))
		} else {
			track.Add(delta, midi.NoteOn(0, evt.key, 100))
		}
	}
	track.Close(0)

	var res smf.SMF
	res.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	res.Tracks = append(res.Tracks, track)
	return &res
}
