package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rheminthsimeon/melodistiq/model"
	"github.com/rheminthsimeon/melodistiq/util"
)

var pitchClassNames = [12]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "G#", "A", "Bb", "B"}

// RootDetectionFailed is returned by Root when a group has no pitch to
// build a chord on.
type RootDetectionFailed struct {
	Notes []int
}

func (e *RootDetectionFailed) Error() string {
	return fmt.Sprintf("cannot find root of chord %v", e.Notes)
}

func PitchClass(note int) int {
	return ((note % 12) + 12) % 12
}

// PitchName is the octave-less name of a MIDI note.
func PitchName(note int) string {
	return pitchClassNames[PitchClass(note)]
}

func PitchClasses(notes []int) []int {
	pcs := make([]int, 0, len(notes))
	for _, n := range notes {
		pcs = append(pcs, PitchClass(n))
	}
	return util.Unique(pcs)
}

func CreateChordKey(notes []int) string {
	sorted := append([]int(nil), notes...)
	sort.Ints(sorted)
	parts := make([]string, 0, len(sorted))
	for _, note := range sorted {
		parts = append(parts, fmt.Sprintf("%v", note))
	}
	return strings.Join(parts, "-")
}

// weight of the interval above a candidate root, in semitones
func intervalWeight(interval int) int {
	switch interval {
	case 3, 4, 7:
		return 2
	case 6, 8, 10, 11:
		return 1
	}
	return 0
}

// Root picks the pitch class that best explains the group as a stack of
// thirds. Ties go to the lowest sounding note, so an inverted seventh
// chord is named after its bass: E-G-B-C gives E, C-E-G-B gives C.
func Root(notes []int) (int, error) {
	if len(notes) == 0 {
		return 0, &RootDetectionFailed{Notes: notes}
	}
	pcs := PitchClasses(notes)
	bass := append([]int(nil), notes...)
	sort.Ints(bass)

	best, bestScore := -1, -1
	for _, n := range bass {
		candidate := PitchClass(n)
		score := 0
		for _, pc := range pcs {
			if pc != candidate {
				score += intervalWeight(PitchClass(pc - candidate))
			}
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, nil
}

func RootName(notes []int) (string, error) {
	root, err := Root(notes)
	if err != nil {
		return "", err
	}
	return pitchClassNames[root], nil
}

func isTriad(notes []int, third, fifth int) bool {
	pcs := PitchClasses(notes)
	if len(pcs) != 3 {
		return false
	}
	root, err := Root(notes)
	if err != nil {
		return false
	}
	intervals := []int{0, 0, 0}
	for i, pc := range pcs {
		intervals[i] = PitchClass(pc - root)
	}
	sort.Ints(intervals)
	return intervals[1] == third && intervals[2] == fifth
}

func IsMinorTriad(notes []int) bool {
	return isTriad(notes, 3, 7)
}

func IsDiminishedTriad(notes []int) bool {
	return isTriad(notes, 3, 6)
}

func IsAugmentedTriad(notes []int) bool {
	return isTriad(notes, 4, 8)
}

// Symbol names a group by root and triad quality. Anything that is not a
// minor, diminished or augmented triad is reported by its bare root.
func Symbol(notes []int) (model.ChordSymbol, error) {
	root, err := RootName(notes)
	if err != nil {
		return model.ChordSymbol{Quality: model.NoChord}, err
	}
	c := model.ChordSymbol{Root: root, Quality: model.Major}
	switch {
	case IsMinorTriad(notes):
		c.Quality = model.Minor
	case IsDiminishedTriad(notes):
		c.Quality = model.Diminished
	case IsAugmentedTriad(notes):
		c.Quality = model.Augmented
	}
	return c, nil
}
