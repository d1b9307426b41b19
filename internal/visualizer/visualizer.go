// Package visualizer draws the recent history of a motion value.
package visualizer

import "github.com/olivier-w/mechanics/internal/motion"

// Visualizer renders inspector frames as terminal art.
type Visualizer interface {
	Name() string
	Update(frames []motion.FrameData, scale Scale, width, height int)
	View() string
}

// Scale maps output values onto [0, 1].
type Scale struct {
	Min float64
	Max float64
}

// Of normalises v, clamping to the range.
func (s Scale) Of(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return clamp01((v - s.Min) / (s.Max - s.Min))
}

// Span is the width of the range.
func (s Scale) Span() float64 { return s.Max - s.Min }

// Modes returns all available visualizers.
func Modes() []Visualizer {
	return []Visualizer{
		NewTrace(),
		NewPhase(),
	}
}
