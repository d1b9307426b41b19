package motion

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/olivier-w/mechanics/internal/gesture"
	"github.com/olivier-w/mechanics/internal/spec"
	"github.com/olivier-w/mechanics/internal/spring"
)

const frameNanos = int64(16 * time.Millisecond)

var soft = spring.Parameters{Stiffness: spring.StiffnessLow, DampingRatio: spring.DampingRatioNoBouncy}

// stepSpec jumps from 0 to 1 at 10 and follows the input from 20.
func stepSpec(t *testing.T, opts ...spec.BreakpointOption) *spec.MotionSpec {
	t.Helper()
	d, err := spec.NewDirectionalBuilder(spec.Zero, spec.WithDefaultSpring(soft)).
		ToBreakpoint(10, opts...).ContinueWith(spec.One).
		ToBreakpoint(20).ContinueWith(spec.Identity).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return spec.MustMotionSpec(d)
}

type harness struct {
	t     *testing.T
	input float64
	gc    *gesture.Provided
	mv    *MotionValue
	frame int64
}

func newHarness(t *testing.T, s *spec.MotionSpec, input float64, opts ...Option) *harness {
	t.Helper()
	h := &harness{t: t, input: input, gc: gesture.NewProvided(spec.Max, 0)}
	mv, err := New(func() float64 { return h.input }, h.gc, s, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.mv = mv
	h.tick()
	return h
}

func (h *harness) tick() TickResult {
	h.t.Helper()
	r, err := h.mv.Tick(h.frame)
	if err != nil {
		h.t.Fatalf("Tick: %v", err)
	}
	h.frame += frameNanos
	return r
}

func (h *harness) settle(maxFrames int) {
	h.t.Helper()
	for range maxFrames {
		if h.tick() == Idle {
			return
		}
	}
	h.t.Fatalf("did not settle within %d frames: %v", maxFrames, h.mv)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestOutputFollowsMappingAtRest(t *testing.T) {
	h := newHarness(t, stepSpec(t), 25)
	if !near(h.mv.Output(), 25) || !h.mv.IsStable() {
		t.Fatalf("expected stable identity output 25, got %v", h.mv)
	}
	h.input = 30
	h.tick()
	if !near(h.mv.Output(), 30) || !near(h.mv.OutputTarget(), 30) {
		t.Fatalf("expected output 30, got %v", h.mv)
	}
}

func TestCrossingBreakpointAnimatesJump(t *testing.T) {
	h := newHarness(t, stepSpec(t), 5)
	if h.mv.Output() != 0 {
		t.Fatalf("expected 0, got %v", h.mv.Output())
	}

	h.input = 12
	if r := h.tick(); r != Animating {
		t.Fatalf("expected animating, got %v", r)
	}
	if !near(h.mv.OutputTarget(), 1) {
		t.Fatalf("expected target 1, got %v", h.mv.OutputTarget())
	}
	if !near(h.mv.Output(), 0) {
		t.Fatalf("expected output to start from 0, got %v", h.mv.Output())
	}
	if h.mv.SegmentKey().Min.Label() != "bp1" {
		t.Fatalf("unexpected segment %v", h.mv.SegmentKey())
	}

	prev := h.mv.Output()
	for range 300 {
		if h.tick() == Idle {
			break
		}
		out := h.mv.Output()
		if out < prev-1e-9 || out > 1+1e-9 {
			t.Fatalf("critically damped output should rise monotonically to 1, got %v after %v", out, prev)
		}
		prev = out
	}
	if !h.mv.IsStable() || h.mv.Output() != 1 {
		t.Fatalf("expected output to settle at 1, got %v", h.mv)
	}
}

func TestCrossingSeveralBreakpointsInOneFrame(t *testing.T) {
	h := newHarness(t, stepSpec(t), 5)
	h.input = 30
	h.tick()
	// Jumps: +1 at 10 and +19 at 20. Only the move from 20 to 30 is immediate.
	if !near(h.mv.SpringState().Displacement, -20) {
		t.Fatalf("expected displacement -20, got %v", h.mv.SpringState())
	}
	if !near(h.mv.Output(), 10) {
		t.Fatalf("expected output 10, got %v", h.mv.Output())
	}
}

func TestContinuousMappingDoesNotAnimate(t *testing.T) {
	d, err := spec.NewDirectionalBuilder(spec.Identity).
		ToBreakpoint(10).ContinueWithFractionalInput(0.5).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := newHarness(t, spec.MustMotionSpec(d), 0)
	h.input = 20
	if r := h.tick(); r != Idle {
		t.Fatalf("expected no animation across a continuous breakpoint, got %v", r)
	}
	if !near(h.mv.Output(), 15) {
		t.Fatalf("expected 15, got %v", h.mv.Output())
	}
}

func TestInputDeltaGuaranteeCompletesInTime(t *testing.T) {
	d, err := spec.NewDirectionalBuilder(spec.Zero).
		ToBreakpoint(0, spec.WithSpring(spring.Parameters{Stiffness: spring.StiffnessVeryLow, DampingRatio: 1}),
			spec.WithGuarantee(spec.InputDelta{Delta: 5})).
		ContinueWith(spec.One).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := newHarness(t, spec.MustMotionSpec(d), -1)

	for step := 1; step <= 12; step++ {
		h.input = -1 + 0.5*float64(step)
		h.tick()
		if h.input == 1 && h.mv.IsStable() {
			t.Fatal("expected the soft spring to still be moving shortly after the crossing")
		}
		if h.input >= 5 {
			st := h.mv.SpringState()
			if math.Abs(st.Displacement) > DefaultStableThreshold || math.Abs(st.Velocity) > DefaultStableThreshold {
				t.Fatalf("guarantee missed at input %v: %v", h.input, st)
			}
			if h.mv.Output() != 1 {
				t.Fatalf("expected output 1, got %v", h.mv.Output())
			}
		}
	}
}

func TestGuaranteeTightensSpring(t *testing.T) {
	d, err := spec.NewDirectionalBuilder(spec.Zero).
		ToBreakpoint(0, spec.WithSpring(soft), spec.WithGuarantee(spec.InputDelta{Delta: 10})).
		ContinueWith(spec.One).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := newHarness(t, spec.MustMotionSpec(d), -1)
	h.input = 0
	h.tick()
	if got := h.mv.SpringParameters(); got != soft {
		t.Fatalf("expected untouched spring at the breakpoint, got %v", got)
	}
	h.input = 5
	h.tick()
	if got := h.mv.SpringParameters(); got.Stiffness <= soft.Stiffness || got.Stiffness >= spring.Snap.Stiffness {
		t.Fatalf("expected spring between soft and snap, got %v", got)
	}
	if got := h.mv.guarantee.fraction(); !near(got, 0.5) {
		t.Fatalf("expected guarantee half used, got %v", got)
	}
	// Moving back does not loosen it again.
	stiff := h.mv.SpringParameters().Stiffness
	h.input = 2
	h.tick()
	if got := h.mv.guarantee.fraction(); !near(got, 0.5) {
		t.Fatalf("expected guarantee to keep its high-water mark, got %v", got)
	}
	if got := h.mv.SpringParameters().Stiffness; got != stiff {
		t.Fatalf("expected stiffness to stay at %v, got %v", stiff, got)
	}
}

func TestGestureDragDeltaGuarantee(t *testing.T) {
	d, err := spec.NewDirectionalBuilder(spec.Zero).
		ToBreakpoint(10, spec.WithSpring(spring.Parameters{Stiffness: spring.StiffnessVeryLow, DampingRatio: 1}),
			spec.WithGuarantee(spec.GestureDragDelta{Delta: 3})).
		ContinueWith(spec.One).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := newHarness(t, spec.MustMotionSpec(d), 0)
	h.gc.Set(spec.Max, 100)
	h.input = 11
	h.tick()
	if h.mv.IsStable() {
		t.Fatal("expected animation after crossing")
	}
	// Input stays put; only the drag matters.
	h.gc.Set(spec.Max, 102)
	h.tick()
	h.gc.Set(spec.Max, 103)
	h.tick()
	if !h.mv.IsStable() {
		t.Fatalf("expected drag guarantee to complete, got %v", h.mv.SpringState())
	}
}

func TestSetSpecBlendsWithResetSpring(t *testing.T) {
	h := newHarness(t, stepSpec(t), 15)
	if h.mv.Output() != 1 {
		t.Fatalf("expected 1, got %v", h.mv.Output())
	}
	reset := spring.Parameters{Stiffness: 300, DampingRatio: 0.9}
	other := spec.MustMotionSpec(spec.EmptyDirectional, spec.WithResetSpring(reset))
	if err := h.mv.SetSpec(other); err != nil {
		t.Fatalf("SetSpec: %v", err)
	}
	if !h.mv.NeedsTick() {
		t.Fatal("expected a spec change to need a tick")
	}
	h.tick()
	if !near(h.mv.Output(), 1) || !near(h.mv.OutputTarget(), 15) {
		t.Fatalf("expected output to continue from 1 towards 15, got %v", h.mv)
	}
	if h.mv.SpringParameters() != reset {
		t.Fatalf("expected reset spring, got %v", h.mv.SpringParameters())
	}
	h.settle(600)
	if h.mv.Output() != 15 {
		t.Fatalf("expected 15, got %v", h.mv.Output())
	}
	if err := h.mv.SetSpec(nil); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDirectionalSpecsProvideHysteresis(t *testing.T) {
	up, err := spec.NewDirectionalBuilder(spec.Zero).ToBreakpoint(10).ContinueWith(spec.One).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	down, err := spec.NewDirectionalBuilder(spec.Zero).ToBreakpoint(5).ContinueWith(spec.One).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	s := spec.MustMotionSpec(up, spec.WithMinDirection(down))

	gc, err := gesture.NewDistanceGestureContext(0, spec.Max, 1)
	if err != nil {
		t.Fatalf("gesture: %v", err)
	}
	mv, err := New(gc.DragOffset, gc, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var frame int64
	tick := func(offset float64) {
		gc.SetDragOffset(offset)
		if _, err := mv.Tick(frame); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		frame += frameNanos
	}

	tick(12)
	for range 300 {
		tick(12)
	}
	if mv.Output() != 1 {
		t.Fatalf("expected 1 after crossing 10, got %v", mv.Output())
	}

	tick(7)
	if gc.Direction() != spec.Min {
		t.Fatal("expected direction to flip")
	}
	if mv.Output() != 1 || !mv.IsStable() {
		t.Fatalf("expected no change between the two breakpoints, got %v", mv)
	}

	tick(4)
	if mv.OutputTarget() != 0 {
		t.Fatalf("expected target 0 below 5, got %v", mv.OutputTarget())
	}
}

func TestPreventDirectionChangeKeepsSegment(t *testing.T) {
	key := spec.NewBreakpointKey("ten")
	base := stepSpec(t, spec.WithKey(key))
	seg, err := base.SegmentAtInput(15, spec.Max)
	if err != nil {
		t.Fatalf("segment: %v", err)
	}
	s := spec.MustMotionSpec(base.MaxDirection(), spec.WithSegmentHandler(seg.Key(), spec.PreventDirectionChangeWithinCurrentSegment))

	h := newHarness(t, s, 15)
	h.gc.Set(spec.Min, 0)
	h.input = 14
	h.tick()
	if h.mv.SegmentKey() != seg.Key() {
		t.Fatalf("expected segment to be held, got %v", h.mv.SegmentKey())
	}
	h.input = 9
	h.tick()
	if h.mv.SegmentKey().Max != key || h.mv.SegmentKey().Direction != spec.Min {
		t.Fatalf("expected min segment below 10, got %v", h.mv.SegmentKey())
	}
}

func TestGetSemanticValue(t *testing.T) {
	expanded := spec.NewSemanticKey[bool]("expanded")
	d, err := spec.NewDirectionalBuilder(spec.Zero, spec.WithInitialSemantics(spec.Semantic(expanded, false))).
		ToBreakpoint(10).ContinueWith(spec.One).WithSemantics(spec.Semantic(expanded, true)).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := newHarness(t, spec.MustMotionSpec(d), 0)
	if v, ok := Get(h.mv, expanded); !ok || v {
		t.Fatalf("expected collapsed, got %v %v", v, ok)
	}
	h.input = 11
	h.tick()
	if v, ok := Get(h.mv, expanded); !ok || !v {
		t.Fatalf("expected expanded, got %v %v", v, ok)
	}
	if _, ok := Get(h.mv, spec.NewSemanticKey[bool]("other")); ok {
		t.Fatal("expected unknown semantic to be absent")
	}
}

func TestTickRejectsBadInput(t *testing.T) {
	h := newHarness(t, stepSpec(t), 0)
	h.input = math.NaN()
	if _, err := h.mv.Tick(h.frame); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	h.input = 1
	if _, err := h.mv.Tick(-1); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for time going backwards, got %v", err)
	}
}

func TestNewValidatesArguments(t *testing.T) {
	gc := gesture.NewProvided(spec.Max, 0)
	if _, err := New(nil, gc, spec.EmptyMotionSpec); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	in := func() float64 { return 0 }
	if _, err := New(in, gc, spec.EmptyMotionSpec, WithStableThreshold(0)); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := New(func() float64 { return math.Inf(1) }, gc, spec.EmptyMotionSpec); !errors.Is(err, spec.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestNeedsTickTracksChanges(t *testing.T) {
	h := newHarness(t, stepSpec(t), 0)
	if h.mv.NeedsTick() {
		t.Fatal("expected idle value to need no tick")
	}
	gen := h.mv.Generation()
	h.gc.Set(spec.Max, 3)
	if !h.mv.NeedsTick() {
		t.Fatal("expected drag change to need a tick")
	}
	h.tick()
	if h.mv.Generation() != gen+1 {
		t.Fatalf("expected generation %d, got %d", gen+1, h.mv.Generation())
	}
	h.tick()
	if h.mv.Generation() != gen+1 {
		t.Fatal("expected unchanged inputs to keep the generation")
	}
}

func TestDebugInspectorRecordsFrames(t *testing.T) {
	h := newHarness(t, stepSpec(t), 5, WithDebugInspector(4))
	h.input = 12
	h.tick()
	for range 5 {
		h.tick()
	}
	ins := h.mv.Inspector()
	if ins.Len() != 4 {
		t.Fatalf("expected 4 frames, got %d", ins.Len())
	}
	frames := ins.Frames(0)
	for i := 1; i < len(frames); i++ {
		if frames[i].FrameNanos <= frames[i-1].FrameNanos {
			t.Fatal("expected frames oldest first")
		}
	}
	last, ok := ins.Latest()
	if !ok || last.FrameNanos != frames[len(frames)-1].FrameNanos {
		t.Fatalf("unexpected latest frame %+v", last)
	}
	if last.OutputTarget != 1 {
		t.Fatalf("expected target 1, got %v", last.OutputTarget)
	}
}
