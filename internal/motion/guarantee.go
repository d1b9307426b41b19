package motion

import (
	"math"

	"github.com/olivier-w/mechanics/internal/spec"
)

type guaranteeSignal uint8

const (
	signalNone guaranteeSignal = iota
	signalInput
	signalDrag
)

// guaranteeState tracks progress towards a guarantee's delta. Progress is a
// high-water mark: moving back does not give the animation more time.
type guaranteeState struct {
	signal   guaranteeSignal
	start    float64
	limit    float64
	sign     float64
	progress float64
}

var noGuarantee = guaranteeState{}

// startGuarantee arms the guarantee of entry for a segment travelled in
// direction. InputDelta counts from the breakpoint itself, GestureDragDelta
// from the drag offset at the moment of crossing.
func startGuarantee(entry spec.Breakpoint, direction spec.InputDirection, dragOffset float64) guaranteeState {
	switch g := entry.Guarantee.(type) {
	case spec.InputDelta:
		return guaranteeState{signal: signalInput, start: entry.Position, limit: g.Delta, sign: direction.Sign()}
	case spec.GestureDragDelta:
		return guaranteeState{signal: signalDrag, start: dragOffset, limit: g.Delta, sign: direction.Sign()}
	}
	return noGuarantee
}

func (g guaranteeState) active() bool { return g.signal != signalNone }

func (g guaranteeState) advance(input, dragOffset float64) guaranteeState {
	var v float64
	switch g.signal {
	case signalInput:
		v = input
	case signalDrag:
		v = dragOffset
	default:
		return g
	}
	g.progress = math.Max(g.progress, (v-g.start)*g.sign)
	return g
}

// fraction is how much of the guarantee has been used up, in [0, 1].
func (g guaranteeState) fraction() float64 {
	if !g.active() {
		return 0
	}
	return math.Min(1, math.Max(0, g.progress/g.limit))
}

func (g guaranteeState) complete() bool {
	return g.active() && g.progress >= g.limit
}
