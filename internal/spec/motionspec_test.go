package spec

import (
	"errors"
	"testing"
)

func TestSegmentAtInputAtBreakpoint(t *testing.T) {
	s, b10, b20 := tenTwenty(t)

	seg, err := s.SegmentAtInput(10, Max)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.MinBreakpoint.Position != 10 || seg.MaxBreakpoint.Position != 20 {
		t.Fatalf("expected 10..20, got %v", seg)
	}
	if seg.Mapping != One {
		t.Fatalf("expected One, got %v", seg.Mapping)
	}

	rev, err := s.SegmentAtInput(20, Min)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rev.MinBreakpoint.Key != b10 || rev.MaxBreakpoint.Key != b20 {
		t.Fatalf("expected reverse lookup to resolve 10..20, got %v", rev)
	}
	if rev.Mapping != One {
		t.Fatalf("expected One, got %v", rev.Mapping)
	}
	if rev.Key() == seg.Key() {
		t.Fatal("expected opposite directions to produce distinct keys")
	}
}

func TestSegmentAtInputRejectsNaN(t *testing.T) {
	s, _, _ := tenTwenty(t)
	if _, err := s.SegmentAtInput(nan(), Max); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestIsValidForInput(t *testing.T) {
	s, _, _ := tenTwenty(t)
	positions := []float64{5, 10, 15, 20, 25}

	maxSeg, _ := s.SegmentAtInput(15, Max)
	wantMax := []bool{true, true, true, false, false}
	for i, p := range positions {
		if got := maxSeg.IsValidForInput(p, Max); got != wantMax[i] {
			t.Fatalf("max: IsValidForInput(%v) = %v, want %v", p, got, wantMax[i])
		}
	}

	minSeg, _ := s.SegmentAtInput(15, Min)
	wantMin := []bool{false, false, true, true, true}
	for i, p := range positions {
		if got := minSeg.IsValidForInput(p, Min); got != wantMin[i] {
			t.Fatalf("min: IsValidForInput(%v) = %v, want %v", p, got, wantMin[i])
		}
	}

	if maxSeg.IsValidForInput(15, Min) {
		t.Fatal("expected direction change to invalidate the segment")
	}
}

func TestOnChangeSegmentRoundTrip(t *testing.T) {
	s, _, _ := tenTwenty(t)
	for _, dir := range []InputDirection{Max, Min} {
		for _, x := range []float64{0, 10, 12, 20, 30} {
			seg, err := s.SegmentAtInput(x, dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			next, err := s.OnChangeSegment(seg, x, dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !next.Equal(seg) {
				t.Fatalf("x=%v dir=%v: expected %v, got %v", x, dir, seg, next)
			}
		}
	}
}

func TestOnChangeSegmentHandlers(t *testing.T) {
	base, b10, b20 := tenTwenty(t)
	key := SegmentKey{Min: b10, Max: b20, Direction: Max}

	s, err := NewMotionSpec(base.MaxDirection(), WithSegmentHandler(key, PreventDirectionChangeWithinCurrentSegment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cur, _ := s.SegmentAtInput(15, Max)

	held, _ := s.OnChangeSegment(cur, 14, Min)
	if !held.Equal(cur) {
		t.Fatalf("expected reversal inside segment to be vetoed, got %v", held)
	}
	left, _ := s.OnChangeSegment(cur, 5, Min)
	if left.MaxBreakpoint.Key != b10 {
		t.Fatalf("expected default resolution below 10, got %v", left)
	}

	synthetic := SegmentData{
		Spec:          s,
		MinBreakpoint: MinLimit,
		MaxBreakpoint: MaxLimit,
		Direction:     Max,
		Mapping:       Fixed{Value: 42},
	}
	s2, _ := NewMotionSpec(base.MaxDirection(), WithSegmentHandler(key, func(SegmentData, float64, InputDirection) (SegmentData, bool) {
		return synthetic, true
	}))
	cur2, _ := s2.SegmentAtInput(15, Max)
	got, _ := s2.OnChangeSegment(cur2, 25, Max)
	if got.Mapping.Map(0) != 42 {
		t.Fatalf("expected synthetic segment, got %v", got)
	}
	if s2.ContainsSegment(got.Key()) {
		t.Fatal("expected synthetic segment to be absent from the spec")
	}
}

func TestContainsSegment(t *testing.T) {
	s, b10, b20 := tenTwenty(t)
	if !s.ContainsSegment(SegmentKey{Min: b10, Max: b20, Direction: Max}) {
		t.Fatal("expected max segment to be present")
	}
	if !s.ContainsSegment(SegmentKey{Min: b10, Max: b20, Direction: Min}) {
		t.Fatal("expected min segment to be present via the shared spec")
	}
	if EmptyMotionSpec.ContainsSegment(SegmentKey{Min: b10, Max: b20, Direction: Max}) {
		t.Fatal("expected empty spec to contain no foreign segment")
	}
	if EmptyMotionSpec.ContainsSegment(SegmentKey{Min: NewBreakpointKey("x"), Max: MaxLimitKey}) {
		t.Fatal("expected empty spec to contain no foreign segment")
	}
}

func TestSemantics(t *testing.T) {
	expanded := NewSemanticKey[bool]("expanded")
	label := NewSemanticKey[string]("label")
	b10 := NewBreakpointKey("b10")
	d, err := NewDirectionalBuilder(Zero, WithInitialSemantics(Semantic(expanded, false))).
		ToBreakpoint(10, WithKey(b10)).ContinueWith(One).
		WithSemantics(Semantic(expanded, true), Semantic(label, "open")).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	s := MustMotionSpec(d)

	first := SegmentKey{Min: MinLimitKey, Max: b10, Direction: Max}
	second := SegmentKey{Min: b10, Max: MaxLimitKey, Direction: Max}

	if v, ok, err := SemanticState(s, first, expanded); err != nil || !ok || v {
		t.Fatalf("first segment expanded: got %v %v %v", v, ok, err)
	}
	if v, ok, err := SemanticState(s, second, expanded); err != nil || !ok || !v {
		t.Fatalf("second segment expanded: got %v %v %v", v, ok, err)
	}
	if _, ok, err := SemanticState(s, first, label); err != nil || ok {
		t.Fatalf("expected absent label on first segment, got ok=%v err=%v", ok, err)
	}
	if _, _, err := SemanticState(s, SegmentKey{Min: b10, Max: MinLimitKey}, label); !errors.Is(err, ErrNoSuchSegment) {
		t.Fatalf("expected ErrNoSuchSegment, got %v", err)
	}

	all, err := s.Semantics(second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || !Is(all[0], expanded) || !Is(all[1], label) {
		t.Fatalf("unexpected semantics: %+v", all)
	}
	if _, err := s.Semantics(SegmentKey{Min: b10, Max: b10}); !errors.Is(err, ErrNoSuchSegment) {
		t.Fatalf("expected ErrNoSuchSegment, got %v", err)
	}
}

func TestNewMotionSpecDefaultsMinDirection(t *testing.T) {
	s, _, _ := tenTwenty(t)
	if s.MinDirection() != s.MaxDirection() {
		t.Fatal("expected min direction to default to max direction")
	}
	if _, err := NewMotionSpec(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
