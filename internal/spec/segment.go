package spec

import "fmt"

// SegmentKey identifies a segment of one direction of a spec. The same pair
// of breakpoints traversed in opposite directions yields two keys.
type SegmentKey struct {
	Min       BreakpointKey
	Max       BreakpointKey
	Direction InputDirection
}

func (k SegmentKey) String() string {
	return fmt.Sprintf("[%v..%v %v]", k.Min, k.Max, k.Direction)
}

// SegmentData is the resolved view of the segment the input is currently in.
type SegmentData struct {
	Spec          *MotionSpec
	MinBreakpoint Breakpoint
	MaxBreakpoint Breakpoint
	Direction     InputDirection
	Mapping       Mapping
}

// Key returns the identity of the segment.
func (s SegmentData) Key() SegmentKey {
	return SegmentKey{Min: s.MinBreakpoint.Key, Max: s.MaxBreakpoint.Key, Direction: s.Direction}
}

// EntryBreakpoint is the breakpoint the input crosses to enter the segment.
func (s SegmentData) EntryBreakpoint() Breakpoint {
	if s.Direction == Min {
		return s.MaxBreakpoint
	}
	return s.MinBreakpoint
}

// ExitBreakpoint is the breakpoint on the far side of the direction of travel.
func (s SegmentData) ExitBreakpoint() Breakpoint {
	if s.Direction == Min {
		return s.MinBreakpoint
	}
	return s.MaxBreakpoint
}

// IsValidForInput reports whether the segment still applies to position and
// direction. Only the exit side is checked; an input that drifts back over
// the entry breakpoint without reversing direction stays in the segment.
func (s SegmentData) IsValidForInput(position float64, direction InputDirection) bool {
	if direction != s.Direction {
		return false
	}
	if direction == Max {
		return position < s.MaxBreakpoint.Position
	}
	return position > s.MinBreakpoint.Position
}

// Contains reports whether position lies within the segment's breakpoints,
// both ends inclusive.
func (s SegmentData) Contains(position float64) bool {
	return position >= s.MinBreakpoint.Position && position <= s.MaxBreakpoint.Position
}

// Equal reports whether s and o describe the same segment of the same spec
// with the same mapping.
func (s SegmentData) Equal(o SegmentData) bool {
	return s.Spec == o.Spec &&
		s.Key() == o.Key() &&
		s.MinBreakpoint.Position == o.MinBreakpoint.Position &&
		s.MaxBreakpoint.Position == o.MaxBreakpoint.Position &&
		SameMapping(s.Mapping, o.Mapping)
}

func (s SegmentData) String() string {
	return fmt.Sprintf("segment(%v..%v %v)", s.MinBreakpoint, s.MaxBreakpoint, s.Direction)
}
