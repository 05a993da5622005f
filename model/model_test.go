package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChordSymbolString(t *testing.T) {
	cases := map[string]ChordSymbol{
		"C":    {Root: "C", Quality: Major},
		"Am":   {Root: "A", Quality: Minor},
		"Bdim": {Root: "B", Quality: Diminished},
		"Caug": {Root: "C", Quality: Augmented},
		"N.C.": {Quality: NoChord},
	}
	for want, c := range cases {
		t.Run(want, func(t *testing.T) {
			assert.Equal(t, want, c.String())
		})
	}
}

func TestMissingRootRendersAsNoChord(t *testing.T) {
	assert.Equal(t, "N.C.", ChordSymbol{Quality: Minor}.String())
}

func TestAnalyzeResponseJoinsLines(t *testing.T) {
	r := &AnalysisResult{Kind: KindChords, Scale: "C major", Lines: []string{"C | C | Am | Am", "C | Am"}}
	resp := NewAnalyzeResponse(r)

	assert := assert.New(t)
	assert.Equal(KindChords, resp.Type)
	assert.Equal("C major", resp.Scale)
	assert.Equal("C | C | Am | Am\nC | Am", resp.Content)
}
