package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiveMeasuresMakeTwoLines(t *testing.T) {
	lines := Lines([]string{"C", "C", "Am", "Am", "F"}, 4)

	assert := assert.New(t)
	assert.Len(lines, 2)
	assert.Equal("C | C | Am | Am", lines[0])
	assert.Equal("F", lines[1])
}

func TestExactMultipleHasNoTrailingLine(t *testing.T) {
	lines := Lines([]string{"C", "G", "Am", "F", "C", "G", "F", "C"}, 4)
	assert.Equal(t, []string{"C | G | Am | F", "C | G | F | C"}, lines)
}

func TestNoSymbolsNoLines(t *testing.T) {
	assert.Empty(t, Lines(nil, 4))
}

func TestDefaultWidth(t *testing.T) {
	lines := Lines([]string{"a", "b", "c", "d", "e", "f"}, 0)
	assert.Equal(t, []string{"a | b | c | d", "e | f"}, lines)
}

func TestRenderKeepsOrder(t *testing.T) {
	out := Render([]string{"C E G", "Rest", "A"}, 2)
	assert.Equal(t, "C E G | Rest\nA", out)
}
