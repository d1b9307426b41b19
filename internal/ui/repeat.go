package ui

// SweepMode drives the drag offset without key presses.
type SweepMode int

const (
	SweepOff SweepMode = iota
	SweepBounce
	SweepRamp
)

// Next cycles to the next sweep mode.
func (s SweepMode) Next() SweepMode {
	switch s {
	case SweepOff:
		return SweepBounce
	case SweepBounce:
		return SweepRamp
	default:
		return SweepOff
	}
}

// String returns the name of the sweep mode.
func (s SweepMode) String() string {
	switch s {
	case SweepBounce:
		return "bounce"
	case SweepRamp:
		return "ramp"
	default:
		return "off"
	}
}

// Icon returns a visual indicator for the sweep mode.
func (s SweepMode) Icon() string {
	switch s {
	case SweepBounce:
		return "[sweep ↔]"
	case SweepRamp:
		return "[sweep ↗]"
	default:
		return ""
	}
}

// sweepStep moves offset by step towards the end of [lo, hi] given by dir,
// returning the new offset and direction. Bounce reverses at the ends, ramp
// jumps back to lo.
func (s SweepMode) sweepStep(offset, dir, step, lo, hi float64) (float64, float64) {
	if dir == 0 {
		dir = 1
	}
	next := offset + dir*step
	switch s {
	case SweepBounce:
		if next >= hi {
			return hi, -1
		}
		if next <= lo {
			return lo, 1
		}
	case SweepRamp:
		if next > hi {
			return lo, 1
		}
		dir = 1
	}
	return next, dir
}
