package chord

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/stretchr/testify/assert"
)

func TestCreateChordKeySortsNotes(t *testing.T) {
	notes := []int{67, 60, 64}

	assert := assert.New(t)
	assert.Equal("60-64-67", CreateChordKey(notes))
	assert.Equal([]int{67, 60, 64}, notes)
}

func TestPitchNameIgnoresOctave(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C", PitchName(60))
	assert.Equal("C", PitchName(36))
	assert.Equal("F#", PitchName(66))
	assert.Equal("Bb", PitchName(70))
}

func TestRootOfTriadsInAnyInversion(t *testing.T) {
	cases := []struct {
		notes []int
		root  string
	}{
		{[]int{60, 64, 67}, "C"},
		{[]int{64, 67, 72}, "C"},
		{[]int{67, 72, 76}, "C"},
		{[]int{57, 60, 64}, "A"},
		{[]int{60, 64, 69}, "A"},
		{[]int{59, 62, 65}, "B"},
		{[]int{55, 59, 62, 65}, "G"},
		{[]int{62}, "D"},
		{[]int{48, 55}, "C"},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%v", c.notes), func(t *testing.T) {
			root, err := RootName(c.notes)
			assert.NoError(t, err)
			assert.Equal(t, c.root, root)
		})
	}
}

func TestAugmentedRootFallsBackToBass(t *testing.T) {
	root, err := RootName([]int{64, 68, 72})
	assert.NoError(t, err)
	assert.Equal(t, "E", root)
}

func TestRootTieGoesToLowestNote(t *testing.T) {
	assert := assert.New(t)

	root, err := Root([]int{64, 67, 71, 72})
	assert.NoError(err)
	assert.Equal(4, root)

	root, err = Root([]int{60, 64, 67, 71})
	assert.NoError(err)
	assert.Equal(0, root)
}

func TestRootOfEmptyGroupFails(t *testing.T) {
	_, err := Root(nil)

	var rdf *RootDetectionFailed
	assert.True(t, errors.As(err, &rdf))
}

func TestTriadQualities(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsMinorTriad([]int{57, 60, 64}))
	assert.True(IsMinorTriad([]int{45, 57, 60, 64}))
	assert.True(IsDiminishedTriad([]int{59, 62, 65}))
	assert.True(IsAugmentedTriad([]int{60, 64, 68}))

	assert.False(IsMinorTriad([]int{60, 64, 67}))
	assert.False(IsMinorTriad([]int{57, 60, 64, 67}))
	assert.False(IsAugmentedTriad([]int{60, 67}))
	assert.False(IsMinorTriad(nil))
}

func TestSymbol(t *testing.T) {
	cases := []struct {
		notes []int
		want  string
	}{
		{[]int{60, 64, 67}, "C"},
		{[]int{57, 60, 64}, "Am"},
		{[]int{59, 62, 65}, "Bdim"},
		{[]int{60, 64, 68}, "Caug"},
		{[]int{55, 59, 62, 65}, "G"},
		{[]int{62}, "D"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			s, err := Symbol(c.notes)
			assert.NoError(t, err)
			assert.Equal(t, c.want, s.String())
		})
	}
}

func TestSymbolOfEmptyGroupIsNoChord(t *testing.T) {
	s, err := Symbol([]int{})

	assert := assert.New(t)
	assert.Error(err)
	assert.Equal(model.NoChord, s.Quality)
	assert.Equal("N.C.", s.String())
}
