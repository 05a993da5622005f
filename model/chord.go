package model

type Quality uint8

const (
	Major Quality = iota
	Minor
	Diminished
	Augmented
	NoChord
)

var qualitySuffixes = map[Quality]string{
	Major:      "",
	Minor:      "m",
	Diminished: "dim",
	Augmented:  "aug",
}

// ChordSymbol is the one chord reported for a measure.
type ChordSymbol struct {
	Root    string
	Quality Quality
}

func (c ChordSymbol) String() string {
	if c.Quality == NoChord || c.Root == "" {
		return "N.C."
	}
	return c.Root + qualitySuffixes[c.Quality]
}
