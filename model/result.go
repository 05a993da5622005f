package model

import "strings"

type Kind string

const (
	KindChords Kind = "chords"
	KindMelody Kind = "melody"
)

// AnalysisResult is what a request ultimately returns.
type AnalysisResult struct {
	Kind  Kind
	Scale string
	// Lines holds the formatted bars, 4 per line. For melody results the
	// first line is the fallback notice.
	Lines []string
}

func (r AnalysisResult) Text() string {
	return strings.Join(r.Lines, "\n")
}
