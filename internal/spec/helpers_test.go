package spec

import "testing"

// tenTwenty builds breakpoints at 10 and 20: Zero, One, Identity.
func tenTwenty(t *testing.T) (*MotionSpec, BreakpointKey, BreakpointKey) {
	t.Helper()
	b10, b20 := NewBreakpointKey("b10"), NewBreakpointKey("b20")
	d, err := NewDirectionalBuilder(Zero).
		ToBreakpoint(10, WithKey(b10)).ContinueWith(One).
		ToBreakpoint(20, WithKey(b20)).ContinueWith(Identity).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	s, err := NewMotionSpec(d)
	if err != nil {
		t.Fatalf("motion spec: %v", err)
	}
	return s, b10, b20
}
