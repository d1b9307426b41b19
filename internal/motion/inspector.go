package motion

import (
	"github.com/olivier-w/mechanics/internal/spec"
	"github.com/olivier-w/mechanics/internal/spring"
)

// FrameData is everything a motion value computed in one tick.
type FrameData struct {
	FrameNanos        int64
	Input             float64
	Direction         spec.InputDirection
	DragOffset        float64
	Output            float64
	OutputTarget      float64
	Segment           spec.SegmentKey
	SegmentChanged    bool
	Spring            spring.State
	SpringParameters  spring.Parameters
	GuaranteeFraction float64
	IsStable          bool
}

// DebugInspector keeps the most recent frames of a motion value for tooling.
// It is not meant for production use.
type DebugInspector struct {
	frames *ring[FrameData]
}

func newDebugInspector(capacity int) *DebugInspector {
	return &DebugInspector{frames: newRing[FrameData](capacity)}
}

// Frames returns up to n recent frames, oldest first. n <= 0 returns all.
func (d *DebugInspector) Frames(n int) []FrameData {
	if n <= 0 {
		n = len(d.frames.buf)
	}
	return d.frames.last(n)
}

// Latest returns the most recent frame.
func (d *DebugInspector) Latest() (FrameData, bool) {
	f := d.frames.last(1)
	if len(f) == 0 {
		return FrameData{}, false
	}
	return f[0], true
}

// Len is the number of frames recorded.
func (d *DebugInspector) Len() int { return d.frames.size() }

// Clear drops all recorded frames.
func (d *DebugInspector) Clear() { d.frames.clear() }

func (d *DebugInspector) record(f FrameData) { d.frames.push(f) }
