package spec

import (
	"fmt"

	"github.com/olivier-w/mechanics/internal/spring"
)

// DefaultResetSpring animates output changes caused by swapping specs.
var DefaultResetSpring = spring.Parameters{Stiffness: spring.StiffnessMedium, DampingRatio: spring.DampingRatioNoBouncy}

// SegmentChangeHandler customises what happens when the input leaves
// current. Returning ok == false falls back to SegmentAtInput. The handler
// may return current itself to hold on to it, or any other segment,
// including one the spec does not contain.
type SegmentChangeHandler func(current SegmentData, position float64, direction InputDirection) (next SegmentData, ok bool)

// MotionSpec is the complete description of how a motion value behaves. It
// is immutable and may be shared by any number of motion values.
type MotionSpec struct {
	maxDirection *DirectionalMotionSpec
	minDirection *DirectionalMotionSpec
	resetSpring  spring.Parameters
	handlers     map[SegmentKey]SegmentChangeHandler
}

// Option configures a MotionSpec.
type Option func(*MotionSpec)

// WithMinDirection sets a separate spec for input travelling towards Min.
func WithMinDirection(d *DirectionalMotionSpec) Option {
	return func(s *MotionSpec) { s.minDirection = d }
}

// WithResetSpring sets the spring used when a motion value switches to this spec.
func WithResetSpring(p spring.Parameters) Option {
	return func(s *MotionSpec) { s.resetSpring = p }
}

// WithSegmentHandler installs a handler for leaving the segment key.
func WithSegmentHandler(key SegmentKey, h SegmentChangeHandler) Option {
	return func(s *MotionSpec) {
		if s.handlers == nil {
			s.handlers = make(map[SegmentKey]SegmentChangeHandler)
		}
		s.handlers[key] = h
	}
}

// EmptyMotionSpec maps every input to itself in both directions.
var EmptyMotionSpec = MustMotionSpec(EmptyDirectional)

// NewMotionSpec builds a spec. Without WithMinDirection both directions use
// maxDirection.
func NewMotionSpec(maxDirection *DirectionalMotionSpec, opts ...Option) (*MotionSpec, error) {
	if maxDirection == nil {
		return nil, invalidf("nil max direction spec")
	}
	s := &MotionSpec{maxDirection: maxDirection, resetSpring: DefaultResetSpring}
	for _, opt := range opts {
		opt(s)
	}
	if s.minDirection == nil {
		s.minDirection = maxDirection
	}
	if err := s.resetSpring.Validate(); err != nil {
		return nil, fmt.Errorf("%w: reset spring: %w", ErrInvalidArgument, err)
	}
	for key, h := range s.handlers {
		if h == nil {
			return nil, invalidf("nil segment handler for %v", key)
		}
	}
	return s, nil
}

// MustMotionSpec is like NewMotionSpec but panics on error.
func MustMotionSpec(maxDirection *DirectionalMotionSpec, opts ...Option) *MotionSpec {
	s, err := NewMotionSpec(maxDirection, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns the directional spec for direction.
func (s *MotionSpec) Get(direction InputDirection) *DirectionalMotionSpec {
	if direction == Min {
		return s.minDirection
	}
	return s.maxDirection
}

// MaxDirection returns the spec used while travelling towards Max.
func (s *MotionSpec) MaxDirection() *DirectionalMotionSpec { return s.maxDirection }

// MinDirection returns the spec used while travelling towards Min.
func (s *MotionSpec) MinDirection() *DirectionalMotionSpec { return s.minDirection }

// ResetSpring returns the spring used when switching to this spec.
func (s *MotionSpec) ResetSpring() spring.Parameters { return s.resetSpring }

// SegmentAtInput resolves the segment for position and direction.
func (s *MotionSpec) SegmentAtInput(position float64, direction InputDirection) (SegmentData, error) {
	d := s.Get(direction)
	i, err := d.segmentIndexAt(position, direction)
	if err != nil {
		return SegmentData{}, err
	}
	return SegmentData{
		Spec:          s,
		MinBreakpoint: d.breakpoints[i],
		MaxBreakpoint: d.breakpoints[i+1],
		Direction:     direction,
		Mapping:       d.mappings[i],
	}, nil
}

// OnChangeSegment is called once current is no longer valid for position
// and direction, and returns the segment to continue with.
func (s *MotionSpec) OnChangeSegment(current SegmentData, position float64, direction InputDirection) (SegmentData, error) {
	if h, ok := s.handlers[current.Key()]; ok {
		if next, ok := h(current, position, direction); ok {
			return next, nil
		}
	}
	return s.SegmentAtInput(position, direction)
}

// ContainsSegment reports whether key names a segment of this spec.
func (s *MotionSpec) ContainsSegment(key SegmentKey) bool {
	return s.Get(key.Direction).FindSegmentIndex(key.Min, key.Max) >= 0
}

// Semantics returns the semantic values attached to the segment key.
func (s *MotionSpec) Semantics(key SegmentKey) ([]SemanticValue, error) {
	d := s.Get(key.Direction)
	i := d.FindSegmentIndex(key.Min, key.Max)
	if i < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoSuchSegment, key)
	}
	return d.semanticsAt(i), nil
}

// SemanticState returns the value of semantic for the segment key. ok is
// false when the segment carries no value for it; an unknown segment is an
// error.
func SemanticState[T any](s *MotionSpec, key SegmentKey, semantic SemanticKey[T]) (value T, ok bool, err error) {
	d := s.Get(key.Direction)
	i := d.FindSegmentIndex(key.Min, key.Max)
	if i < 0 {
		return value, false, fmt.Errorf("%w: %v", ErrNoSuchSegment, key)
	}
	v, found := d.semanticAt(i, semantic.k)
	if !found {
		return value, false, nil
	}
	value, ok = v.Value.(T)
	return value, ok, nil
}

// PreventDirectionChangeWithinCurrentSegment keeps the current segment when
// the direction reverses while the input is still between its breakpoints.
func PreventDirectionChangeWithinCurrentSegment(current SegmentData, position float64, direction InputDirection) (SegmentData, bool) {
	if direction != current.Direction && current.Contains(position) {
		return current, true
	}
	return SegmentData{}, false
}
