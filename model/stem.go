package model

type StemScore struct {
	Stem  string
	Score float64
}
