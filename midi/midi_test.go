package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func collectNotes(t *testing.T, s *smf.SMF) []Note {
	var res []Note
	for _, track := range s.Tracks {
		var absTicks uint32
		open := map[uint8]uint32{}
		for _, evt := range track {
			absTicks += evt.Delta
			var ch, key, vel uint8
			switch {
			case evt.Message.GetNoteStart(&ch, &key, &vel):
				open[key] = absTicks
			case evt.Message.GetNoteEnd(&ch, &key):
				res = append(res, Note{Key: key, Start: open[key], Duration: absTicks - open[key]})
			}
		}
	}
	return res
}

func TestBuildSMFRoundTrip(t *testing.T) {
	notes := []Note{
		{Key: 60, Start: 0, Duration: 480},
		{Key: 64, Start: 0, Duration: 480},
		{Key: 67, Start: 480, Duration: 960},
	}
	s := BuildSMF(notes, 480, 120, 3, 4)

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	parsed, err := ReadMidi(&buf)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(smf.MetricTicks(480), parsed.TimeFormat)
	assert.ElementsMatch(notes, collectNotes(t, parsed))

	found := false
	for _, evt := range parsed.Tracks[0] {
		if num, denom, ok := TimeSignature(evt.Message); ok {
			assert.Equal(3, num)
			assert.Equal(4, denom)
			found = true
		}
	}
	assert.True(found)
}

func TestTimeSignatureRejectsOtherMessages(t *testing.T) {
	_, _, ok := TimeSignature([]byte{0x90, 60, 100})
	assert.False(t, ok)

	num, denom, ok := TimeSignature([]byte{0xFF, 0x58, 0x04, 6, 3, 24, 8})
	assert.True(t, ok)
	assert.Equal(t, 6, num)
	assert.Equal(t, 8, denom)
}

func TestReadMidiFileMissing(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}

func TestReadMidiFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mid")
	require.NoError(t, os.WriteFile(path, []byte("definitely not midi"), 0644))

	_, err := ReadMidiFile(path)
	assert.Error(t, err)
}

func TestWriteMidiFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mid")
	s := BuildSMF([]Note{{Key: 69, Start: 0, Duration: 240}}, 480, 120, 4, 4)
	require.NoError(t, WriteMidiFile(path, s))

	parsed, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Note{{Key: 69, Start: 0, Duration: 240}}, collectNotes(t, parsed))
}
