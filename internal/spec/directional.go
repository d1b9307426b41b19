package spec

import (
	"fmt"
	"math"
	"sort"
)

// DirectionalMotionSpec describes the motion for one direction of travel:
// an ordered list of breakpoints and one mapping per segment between them.
// It is immutable once built.
type DirectionalMotionSpec struct {
	breakpoints []Breakpoint
	mappings    []Mapping
	semantics   []SegmentSemanticValues
	index       map[BreakpointKey]int
}

// EmptyDirectional maps every input to itself.
var EmptyDirectional = mustDirectional(
	[]Breakpoint{MinLimit, MaxLimit},
	[]Mapping{Identity},
)

// NewDirectionalMotionSpec validates the breakpoints, mappings and
// semantics. breakpoints must start with MinLimit, end with MaxLimit and be
// sorted by position; there must be exactly one mapping per segment.
func NewDirectionalMotionSpec(breakpoints []Breakpoint, mappings []Mapping, semantics ...SegmentSemanticValues) (*DirectionalMotionSpec, error) {
	n := len(breakpoints)
	if n < 2 {
		return nil, invalidf("need at least 2 breakpoints, got %d", n)
	}
	if breakpoints[0].Key != MinLimitKey || !math.IsInf(breakpoints[0].Position, -1) {
		return nil, invalidf("first breakpoint must be minLimit, got %v", breakpoints[0])
	}
	if breakpoints[n-1].Key != MaxLimitKey || !math.IsInf(breakpoints[n-1].Position, 1) {
		return nil, invalidf("last breakpoint must be maxLimit, got %v", breakpoints[n-1])
	}
	if len(mappings) != n-1 {
		return nil, invalidf("%d breakpoints need %d mappings, got %d", n, n-1, len(mappings))
	}

	index := make(map[BreakpointKey]int, n)
	for i, b := range breakpoints {
		if i > 0 && i < n-1 {
			if err := b.validateInner(); err != nil {
				return nil, err
			}
		}
		if i > 0 && b.Position < breakpoints[i-1].Position {
			return nil, invalidf("breakpoint %v is not sorted after %v", b, breakpoints[i-1])
		}
		if _, dup := index[b.Key]; dup {
			return nil, invalidf("duplicate breakpoint key %v", b.Key)
		}
		index[b.Key] = i
	}
	for i, m := range mappings {
		if err := validateMapping(m); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}

	seen := make(map[*keyInfo]bool, len(semantics))
	for _, col := range semantics {
		if col.key == nil {
			return nil, invalidf("semantics without a key")
		}
		if seen[col.key] {
			return nil, invalidf("duplicate semantics for key %q", col.key.label)
		}
		seen[col.key] = true
		if col.Len() != len(mappings) || len(col.present) != len(col.values) {
			return nil, invalidf("semantics %q has %d values for %d segments", col.key.label, col.Len(), len(mappings))
		}
	}

	bps := make([]Breakpoint, n)
	copy(bps, breakpoints)
	for i := range bps {
		bps[i].Guarantee = orNone(bps[i].Guarantee)
	}
	ms := make([]Mapping, len(mappings))
	copy(ms, mappings)
	sem := make([]SegmentSemanticValues, len(semantics))
	copy(sem, semantics)

	return &DirectionalMotionSpec{breakpoints: bps, mappings: ms, semantics: sem, index: index}, nil
}

// MustDirectional is like NewDirectionalMotionSpec but panics on error.
// Meant for static spec tables.
func MustDirectional(breakpoints []Breakpoint, mappings []Mapping, semantics ...SegmentSemanticValues) *DirectionalMotionSpec {
	return mustDirectional(breakpoints, mappings, semantics...)
}

func mustDirectional(breakpoints []Breakpoint, mappings []Mapping, semantics ...SegmentSemanticValues) *DirectionalMotionSpec {
	d, err := NewDirectionalMotionSpec(breakpoints, mappings, semantics...)
	if err != nil {
		panic(err)
	}
	return d
}

// Breakpoints returns a copy of the breakpoints, sentinels included.
func (d *DirectionalMotionSpec) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(d.breakpoints))
	copy(out, d.breakpoints)
	return out
}

// Breakpoint returns breakpoint i.
func (d *DirectionalMotionSpec) Breakpoint(i int) Breakpoint { return d.breakpoints[i] }

// Mapping returns the mapping of segment i, which spans breakpoints i and i+1.
func (d *DirectionalMotionSpec) Mapping(i int) Mapping { return d.mappings[i] }

// SegmentCount is the number of segments.
func (d *DirectionalMotionSpec) SegmentCount() int { return len(d.mappings) }

// FindBreakpointIndex returns the index i of the breakpoint that starts the
// segment containing position, so that
// breakpoints[i].Position <= position < breakpoints[i+1].Position.
func (d *DirectionalMotionSpec) FindBreakpointIndex(position float64) (int, error) {
	if !isFinite(position) {
		return -1, invalidf("breakpoint lookup at %v", position)
	}
	// First breakpoint strictly after position; minLimit never qualifies
	// and maxLimit always does.
	after := sort.Search(len(d.breakpoints), func(i int) bool {
		return d.breakpoints[i].Position > position
	})
	return after - 1, nil
}

// segmentIndexAt resolves the segment for position when travelling in
// direction. Travelling towards Min, a position exactly on a breakpoint
// belongs to the segment below it.
func (d *DirectionalMotionSpec) segmentIndexAt(position float64, direction InputDirection) (int, error) {
	if direction == Max {
		return d.FindBreakpointIndex(position)
	}
	if !isFinite(position) {
		return -1, invalidf("breakpoint lookup at %v", position)
	}
	atOrAfter := sort.Search(len(d.breakpoints), func(i int) bool {
		return d.breakpoints[i].Position >= position
	})
	return atOrAfter - 1, nil
}

// FindBreakpointIndexByKey returns the index of the breakpoint with key, or -1.
func (d *DirectionalMotionSpec) FindBreakpointIndexByKey(key BreakpointKey) int {
	if i, ok := d.index[key]; ok {
		return i
	}
	return -1
}

// FindSegmentIndex returns the index of the segment bounded by min and max,
// or -1 when the two keys are not adjacent breakpoints of this spec.
func (d *DirectionalMotionSpec) FindSegmentIndex(min, max BreakpointKey) int {
	i := d.FindBreakpointIndexByKey(min)
	if i < 0 || i+1 >= len(d.breakpoints) || d.breakpoints[i+1].Key != max {
		return -1
	}
	return i
}

// semanticsAt returns every semantic value set on segment i.
func (d *DirectionalMotionSpec) semanticsAt(i int) []SemanticValue {
	var out []SemanticValue
	for _, col := range d.semantics {
		if v, ok := col.at(i); ok {
			out = append(out, v)
		}
	}
	return out
}

func (d *DirectionalMotionSpec) semanticAt(i int, key *keyInfo) (SemanticValue, bool) {
	for _, col := range d.semantics {
		if col.key == key {
			return col.at(i)
		}
	}
	return SemanticValue{}, false
}
