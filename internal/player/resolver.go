package player

import "github.com/mgpai22/subtity/internal/subtitle"

// index of the cue active at t, or -1.
// Every cue is checked and the last one containing t wins, so with
// overlapping ranges the later entry is shown.
func Resolve(cues []subtitle.Cue, t float64) int {
	idx := -1
	for i, c := range cues {
		if c.Contains(t) {
			idx = i
		}
	}
	return idx
}
