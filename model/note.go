package model

// NoteEvent is a discrete note produced by segmenting a pitch track.
// Times are in seconds.
type NoteEvent struct {
	Pitch    int
	Start    float64
	Duration float64
}

func (n NoteEvent) End() float64 {
	return n.Start + n.Duration
}
