package motion

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/olivier-w/mechanics/internal/gesture"
	"github.com/olivier-w/mechanics/internal/spec"
	"github.com/olivier-w/mechanics/internal/spring"
)

// DefaultStableThreshold is the displacement below which a spring counts as settled.
const DefaultStableThreshold = 0.01

// ErrAlreadyRunning is returned when a loop or motion value is already being driven.
var ErrAlreadyRunning = errors.New("motion value is already running")

// TickResult tells the driver whether more frames are needed.
type TickResult uint8

const (
	// Idle means the output is at rest; tick again once NeedsTick reports true.
	Idle TickResult = iota
	// Animating means a spring is still moving; tick again next frame.
	Animating
)

func (r TickResult) String() string {
	if r == Animating {
		return "animating"
	}
	return "idle"
}

// discontinuity is the spring animation started by the last segment or spec change.
type discontinuity struct {
	spring     spring.Parameters
	startNanos int64
}

// MotionValue maps a live input through a MotionSpec and smooths every jump
// in the mapped output with a spring.
//
// A MotionValue is not safe for concurrent use. All calls, including reads
// of the input and gesture context, must come from the goroutine that ticks it.
type MotionValue struct {
	input           func() float64
	gestureContext  gesture.Context
	spec            *spec.MotionSpec
	stableThreshold float64
	label           string
	source          *MotionValue
	inspector       *DebugInspector

	// Captured by the last tick.
	segment        spec.SegmentData
	guarantee      guaranteeState
	animation      discontinuity
	springState    spring.State
	ticked         bool
	frameNanos     int64
	lastInput      float64
	lastDirection  spec.InputDirection
	lastDragOffset float64
	lastSpec       *spec.MotionSpec
	output         float64
	outputTarget   float64
	generation     uint64

	running atomic.Bool
}

// Option configures a MotionValue.
type Option func(*MotionValue)

// WithStableThreshold overrides DefaultStableThreshold.
func WithStableThreshold(threshold float64) Option {
	return func(mv *MotionValue) { mv.stableThreshold = threshold }
}

// WithLabel names the value in logs and debug output.
func WithLabel(label string) Option {
	return func(mv *MotionValue) { mv.label = label }
}

// WithInitialSpringState starts the value with a displaced spring.
func WithInitialSpringState(s spring.State) Option {
	return func(mv *MotionValue) { mv.springState = s }
}

// WithDebugInspector records the last capacity frames.
func WithDebugInspector(capacity int) Option {
	return func(mv *MotionValue) { mv.inspector = newDebugInspector(capacity) }
}

// New creates a motion value reading input every frame.
func New(input func() float64, gc gesture.Context, s *spec.MotionSpec, opts ...Option) (*MotionValue, error) {
	if input == nil || gc == nil || s == nil {
		return nil, fmt.Errorf("%w: motion value needs an input, a gesture context and a spec", spec.ErrInvalidArgument)
	}
	mv := &MotionValue{
		input:           input,
		gestureContext:  gc,
		spec:            s,
		stableThreshold: DefaultStableThreshold,
	}
	for _, opt := range opts {
		opt(mv)
	}
	if math.IsNaN(mv.stableThreshold) || mv.stableThreshold <= 0 {
		return nil, fmt.Errorf("%w: stable threshold %v", spec.ErrInvalidArgument, mv.stableThreshold)
	}

	in, dir := input(), gc.Direction()
	seg, err := s.SegmentAtInput(in, dir)
	if err != nil {
		return nil, fmt.Errorf("initial segment: %w", err)
	}
	mv.segment = seg
	mv.animation = discontinuity{spring: s.ResetSpring()}
	mv.lastInput = in
	mv.lastDirection = dir
	mv.lastDragOffset = gc.DragOffset()
	mv.lastSpec = s
	mv.outputTarget = seg.Mapping.Map(in)
	mv.output = mv.outputTarget + mv.springState.Displacement
	return mv, nil
}

// Derive creates a motion value whose input is this value's output. Both
// share the gesture context. Loops tick the source before the derived value.
func (mv *MotionValue) Derive(s *spec.MotionSpec, opts ...Option) (*MotionValue, error) {
	d, err := New(mv.Output, mv.gestureContext, s, opts...)
	if err != nil {
		return nil, err
	}
	d.source = mv
	return d, nil
}

// Output is the animated value computed by the last tick.
func (mv *MotionValue) Output() float64 { return mv.output }

// OutputTarget is the output without the spring displacement.
func (mv *MotionValue) OutputTarget() float64 { return mv.outputTarget }

// IsStable reports whether the spring was at rest after the last tick.
func (mv *MotionValue) IsStable() bool { return mv.springState.IsAtRest() }

// SegmentKey identifies the current segment.
func (mv *MotionValue) SegmentKey() spec.SegmentKey { return mv.segment.Key() }

// Segment returns the current segment.
func (mv *MotionValue) Segment() spec.SegmentData { return mv.segment }

// SpringState returns the current displacement and velocity.
func (mv *MotionValue) SpringState() spring.State { return mv.springState }

// SpringParameters returns the spring as tuned for the current guarantee progress.
func (mv *MotionValue) SpringParameters() spring.Parameters { return mv.tunedSpring() }

// Spec returns the spec in use.
func (mv *MotionValue) Spec() *spec.MotionSpec { return mv.spec }

// SetSpec swaps the spec. The next tick blends the current output into the
// new spec with its reset spring.
func (mv *MotionValue) SetSpec(s *spec.MotionSpec) error {
	if s == nil {
		return fmt.Errorf("%w: nil spec", spec.ErrInvalidArgument)
	}
	mv.spec = s
	return nil
}

// GestureContext returns the gesture context driving the value.
func (mv *MotionValue) GestureContext() gesture.Context { return mv.gestureContext }

// Label returns the debug label.
func (mv *MotionValue) Label() string { return mv.label }

// Source returns the value this one derives from, or nil.
func (mv *MotionValue) Source() *MotionValue { return mv.source }

// Inspector returns the debug inspector, or nil when not enabled.
func (mv *MotionValue) Inspector() *DebugInspector { return mv.inspector }

// Generation increases every time a tick observes a changed input,
// direction, drag offset or spec.
func (mv *MotionValue) Generation() uint64 { return mv.generation }

// NeedsTick reports whether a tick would change anything: the spring is
// moving, or the input, gesture or spec differ from the last tick.
func (mv *MotionValue) NeedsTick() bool {
	if !mv.ticked || !mv.springState.IsAtRest() {
		return true
	}
	return mv.spec != mv.lastSpec ||
		mv.input() != mv.lastInput ||
		mv.gestureContext.Direction() != mv.lastDirection ||
		mv.gestureContext.DragOffset() != mv.lastDragOffset
}

// Get returns the semantic value of the current segment for key.
func Get[T any](mv *MotionValue, key spec.SemanticKey[T]) (T, bool) {
	var zero T
	s := mv.segment.Spec
	if s == nil {
		return zero, false
	}
	v, ok, err := spec.SemanticState(s, mv.segment.Key(), key)
	if err != nil {
		return zero, false
	}
	return v, ok
}

// Tick computes the frame at frameNanos. Timestamps must not decrease.
func (mv *MotionValue) Tick(frameNanos int64) (TickResult, error) {
	input := mv.input()
	direction := mv.gestureContext.Direction()
	dragOffset := mv.gestureContext.DragOffset()
	if math.IsNaN(input) || math.IsInf(input, 0) {
		return Idle, fmt.Errorf("%w: input %v", spec.ErrInvalidArgument, input)
	}

	var elapsed time.Duration
	if mv.ticked {
		if frameNanos < mv.frameNanos {
			return Idle, fmt.Errorf("%w: frame time %d before %d", spec.ErrInvalidArgument, frameNanos, mv.frameNanos)
		}
		elapsed = time.Duration(frameNanos - mv.frameNanos)
	}

	if !mv.ticked || input != mv.lastInput || direction != mv.lastDirection ||
		dragOffset != mv.lastDragOffset || mv.spec != mv.lastSpec {
		mv.generation++
	}

	// Time passes under the animation of the previous frame.
	state := mv.springState
	if !state.IsAtRest() {
		mv.guarantee = mv.guarantee.advance(input, dragOffset)
		state = state.Step(mv.tunedSpring(), elapsed, mv.stableThreshold)
		if mv.guarantee.complete() {
			state = spring.AtRest
		}
	}

	// Then the input may have moved on to another segment.
	changed := false
	switch {
	case mv.spec != mv.lastSpec:
		next, err := mv.spec.SegmentAtInput(input, direction)
		if err != nil {
			return Idle, err
		}
		state = state.AddDisplacement(mv.segment.Mapping.Map(input) - next.Mapping.Map(input))
		mv.animation = discontinuity{spring: mv.spec.ResetSpring(), startNanos: frameNanos}
		mv.guarantee = noGuarantee
		mv.segment = next
		changed = true

	case !mv.segment.IsValidForInput(input, direction):
		next, err := mv.spec.OnChangeSegment(mv.segment, input, direction)
		if err != nil {
			return Idle, err
		}
		if next.Equal(mv.segment) {
			break
		}
		state = state.AddDisplacement(-jump(mv.segment, next, input))
		entry := next.EntryBreakpoint()
		if !entry.IsSentinel() {
			mv.animation = discontinuity{spring: entry.Spring, startNanos: frameNanos}
		} else {
			mv.animation.startNanos = frameNanos
		}
		mv.guarantee = startGuarantee(entry, next.Direction, dragOffset).advance(input, dragOffset)
		if mv.guarantee.complete() {
			state = spring.AtRest
		}
		mv.segment = next
		changed = true
	}

	if !state.IsAtRest() && state.IsStable(mv.tunedSpring(), mv.stableThreshold) {
		state = spring.AtRest
	}
	mv.springState = state
	mv.outputTarget = mv.segment.Mapping.Map(input)
	mv.output = mv.outputTarget + state.Displacement

	mv.ticked = true
	mv.frameNanos = frameNanos
	mv.lastInput = input
	mv.lastDirection = direction
	mv.lastDragOffset = dragOffset
	mv.lastSpec = mv.spec

	if mv.inspector != nil {
		mv.inspector.record(FrameData{
			FrameNanos:        frameNanos,
			Input:             input,
			Direction:         direction,
			DragOffset:        dragOffset,
			Output:            mv.output,
			OutputTarget:      mv.outputTarget,
			Segment:           mv.segment.Key(),
			SegmentChanged:    changed,
			Spring:            state,
			SpringParameters:  mv.tunedSpring(),
			GuaranteeFraction: mv.guarantee.fraction(),
			IsStable:          state.IsAtRest(),
		})
	}

	if state.IsAtRest() {
		return Idle, nil
	}
	return Animating, nil
}

func (mv *MotionValue) tunedSpring() spring.Parameters {
	if !mv.guarantee.active() {
		return mv.animation.spring
	}
	return spring.Lerp(mv.animation.spring, spring.Snap, mv.guarantee.fraction())
}

// jump returns how much the target output changes when moving from one
// segment to the next. Breakpoints crossed within one directional spec
// contribute the difference of the adjacent mappings at their position;
// any other change is measured at the current input.
func jump(from, to spec.SegmentData, input float64) float64 {
	if from.Spec == to.Spec && from.Direction == to.Direction && to.Spec != nil {
		d := to.Spec.Get(to.Direction)
		i := d.FindSegmentIndex(from.MinBreakpoint.Key, from.MaxBreakpoint.Key)
		j := d.FindSegmentIndex(to.MinBreakpoint.Key, to.MaxBreakpoint.Key)
		if i >= 0 && j >= 0 {
			var delta float64
			for k := i + 1; k <= j; k++ {
				at := d.Breakpoint(k).Position
				delta += d.Mapping(k).Map(at) - d.Mapping(k-1).Map(at)
			}
			for k := i; k > j; k-- {
				at := d.Breakpoint(k).Position
				delta += d.Mapping(k-1).Map(at) - d.Mapping(k).Map(at)
			}
			return delta
		}
	}
	return to.Mapping.Map(input) - from.Mapping.Map(input)
}

func (mv *MotionValue) String() string {
	name := mv.label
	if name == "" {
		name = "motion"
	}
	return fmt.Sprintf("%s(out=%.3f target=%.3f %v %v)", name, mv.output, mv.outputTarget, mv.segment.Key(), mv.springState)
}
