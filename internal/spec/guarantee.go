package spec

import "fmt"

// Guarantee bounds how long a discontinuity animation may run, measured in
// something other than time.
//
// The set is closed: GuaranteeNone, InputDelta and GestureDragDelta.
type Guarantee interface {
	guarantee()
}

// GuaranteeNone leaves the spring alone.
type GuaranteeNone struct{}

// InputDelta completes the animation once the input has moved Delta past the
// breakpoint, in the direction of travel.
type InputDelta struct {
	Delta float64
}

// GestureDragDelta completes the animation once the gesture has been dragged
// Delta further since the breakpoint was crossed.
type GestureDragDelta struct {
	Delta float64
}

func (GuaranteeNone) guarantee()    {}
func (InputDelta) guarantee()       {}
func (GestureDragDelta) guarantee() {}

func (GuaranteeNone) String() string      { return "none" }
func (g InputDelta) String() string       { return fmt.Sprintf("inputDelta(%g)", g.Delta) }
func (g GestureDragDelta) String() string { return fmt.Sprintf("dragDelta(%g)", g.Delta) }

func validateGuarantee(g Guarantee) error {
	switch g := g.(type) {
	case nil, GuaranteeNone:
		return nil
	case InputDelta:
		if !isFinite(g.Delta) || g.Delta <= 0 {
			return invalidf("input delta guarantee %v", g.Delta)
		}
	case GestureDragDelta:
		if !isFinite(g.Delta) || g.Delta <= 0 {
			return invalidf("gesture drag delta guarantee %v", g.Delta)
		}
	}
	return nil
}

func orNone(g Guarantee) Guarantee {
	if g == nil {
		return GuaranteeNone{}
	}
	return g
}
