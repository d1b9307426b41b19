// Package preset holds the named motion specs offered by the playground.
package preset

import (
	"errors"
	"fmt"

	"github.com/olivier-w/mechanics/internal/spec"
	"github.com/olivier-w/mechanics/internal/spring"
)

// ErrUnknownPreset is returned by Get for names not in the registry.
var ErrUnknownPreset = errors.New("unknown preset")

// Expanded reports whether a value has passed its expand threshold.
var Expanded = spec.NewSemanticKey[bool]("expanded")

// Preset is a motion spec together with the drag range that exercises it.
type Preset struct {
	Name        string
	Description string

	// Spec maps the drag offset.
	Spec *spec.MotionSpec
	// Derived, when set, maps the output of Spec.
	Derived *spec.MotionSpec

	// Offsets outside [MinOffset, MaxOffset] are clamped by the playground.
	MinOffset float64
	MaxOffset float64
	// Output range of Spec and Derived, used to scale bars.
	MinOutput float64
	MaxOutput float64
}

// Range returns the drag range.
func (p Preset) Range() (float64, float64) { return p.MinOffset, p.MaxOffset }

// Normalize maps an output to [0, 1] for display.
func (p Preset) Normalize(output float64) float64 {
	if p.MaxOutput == p.MinOutput {
		return 0
	}
	f := (output - p.MinOutput) / (p.MaxOutput - p.MinOutput)
	return min(1, max(0, f))
}

var (
	snapKey     = spec.NewBreakpointKey("snap")
	expandKey   = spec.NewBreakpointKey("expand")
	collapseKey = spec.NewBreakpointKey("collapse")
	commitKey   = spec.NewBreakpointKey("commit")
)

var bouncy = spring.Parameters{Stiffness: spring.StiffnessLow, DampingRatio: spring.DampingRatioLowBouncy}

// Registry lists every preset in picker order.
var Registry = []Preset{
	{
		Name:        "snap",
		Description: "steps from 0 to 1 halfway through the drag",
		Spec: spec.MustMotionSpec(spec.NewDirectionalBuilder(spec.Zero).
			ToBreakpoint(50, spec.WithKey(snapKey), spec.WithSpring(bouncy)).
			ContinueWith(spec.One).MustBuild()),
		MinOffset: 0, MaxOffset: 100,
		MinOutput: 0, MaxOutput: 1,
	},
	{
		Name:        "expand",
		Description: "resists, then springs open past 40 and collapses below 30",
		Spec: spec.MustMotionSpec(
			expandSpec(40, expandKey),
			spec.WithMinDirection(expandSpec(30, collapseKey)),
		),
		MinOffset: 0, MaxOffset: 100,
		MinOutput: 0, MaxOutput: 100,
	},
	{
		Name:        "commit",
		Description: "soft jump at 50 that must finish within 15 units of drag",
		Spec: spec.MustMotionSpec(spec.NewDirectionalBuilder(spec.Identity).
			ToBreakpoint(50,
				spec.WithKey(commitKey),
				spec.WithSpring(spring.Parameters{Stiffness: spring.StiffnessVeryLow, DampingRatio: spring.DampingRatioNoBouncy}),
				spec.WithGuarantee(spec.GestureDragDelta{Delta: 15})).
			JumpBy(30).ContinueWithFractionalInput(0.4).
			ToBreakpoint(100).ContinueWithConstantValue().MustBuild()),
		MinOffset: 0, MaxOffset: 100,
		MinOutput: 0, MaxOutput: 100,
	},
	{
		Name:        "chain",
		Description: "a linear drag whose output drives a second, stepped value",
		Spec: spec.MustMotionSpec(spec.NewDirectionalBuilder(spec.Zero).
			ToBreakpoint(10).ContinueWithTargetValue(1).
			ToBreakpoint(90).ContinueWithConstantValue().MustBuild()),
		Derived: spec.MustMotionSpec(spec.NewDirectionalBuilder(spec.Zero, spec.WithInitialSemantics(spec.Semantic(Expanded, false))).
			ToBreakpoint(0.5, spec.WithSpring(spring.Parameters{Stiffness: spring.StiffnessMediumLow, DampingRatio: spring.DampingRatioMediumBouncy})).
			ContinueWith(spec.One).WithSemantics(spec.Semantic(Expanded, true)).MustBuild()),
		MinOffset: 0, MaxOffset: 100,
		MinOutput: 0, MaxOutput: 1,
	},
}

// expandSpec follows the drag at 30% until threshold, then jumps open and
// tracks towards 100.
func expandSpec(threshold float64, key spec.BreakpointKey) *spec.DirectionalMotionSpec {
	return spec.NewDirectionalBuilder(spec.Linear{Factor: 0.3}, spec.WithInitialSemantics(spec.Semantic(Expanded, false))).
		ToBreakpoint(threshold,
			spec.WithKey(key),
			spec.WithSpring(bouncy),
			spec.WithGuarantee(spec.InputDelta{Delta: 20})).
		JumpTo(70).ContinueWithTargetValue(100).WithSemantics(spec.Semantic(Expanded, true)).
		ToBreakpoint(100).ContinueWithConstantValue().MustBuild()
}

// Get retrieves a preset by name.
func Get(name string) (Preset, error) {
	for _, p := range Registry {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Names returns the preset names in registry order.
func Names() []string {
	names := make([]string, len(Registry))
	for i, p := range Registry {
		names[i] = p.Name
	}
	return names
}

// Next returns the preset after name, wrapping around.
func Next(name string) Preset {
	for i, p := range Registry {
		if p.Name == name {
			return Registry[(i+1)%len(Registry)]
		}
	}
	return Registry[0]
}
