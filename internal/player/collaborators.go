package player

import "math"

// playback position source, usually a media player
type Clock interface {
	// current position in seconds
	CurrentTime() float64
	// media the clock is playing, empty when unknown
	SourceRef() string
}

// draws the lines resolved for one tick
type Renderer interface {
	Render(frame Frame)
}

// measures rendered text for the current style
type FontMetrics interface {
	LineHeight(family string, size float64) float64
}

// display mode chosen by the host
type Mode int

const (
	ModeNone Mode = iota
	ModeContainer
	ModeCanvas
)

func (m Mode) String() string {
	switch m {
	case ModeContainer:
		return "container"
	case ModeCanvas:
		return "canvas"
	default:
		return "none"
	}
}

// what a Renderer receives on every update.
// Index is -1 and Lines is nil when no cue covers the playback time.
type Frame struct {
	Time  float64
	Index int
	Lines []string
	Style Style
}

// line height estimate used when the host does not measure fonts
type ApproxMetrics struct{}

func (ApproxMetrics) LineHeight(family string, size float64) float64 {
	return math.Ceil(size * 1.2)
}
