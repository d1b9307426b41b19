package spring

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// ErrInvalidParameters is returned for non-finite or out of range spring
// parameters.
var ErrInvalidParameters = errors.New("invalid spring parameters")

// Parameters describes a damped harmonic oscillator with unit mass.
type Parameters struct {
	Stiffness    float64
	DampingRatio float64
}

// Snap is stiff enough to settle within a frame or two.
var Snap = Parameters{Stiffness: 100_000, DampingRatio: 1}

// Common stiffness and damping values.
const (
	StiffnessHigh            = 10_000.0
	StiffnessMedium          = 1_500.0
	StiffnessMediumLow       = 400.0
	StiffnessLow             = 200.0
	StiffnessVeryLow         = 50.0
	DampingRatioNoBouncy     = 1.0
	DampingRatioLowBouncy    = 0.75
	DampingRatioMediumBouncy = 0.5
)

// New returns validated spring parameters.
func New(stiffness, dampingRatio float64) (Parameters, error) {
	p := Parameters{Stiffness: stiffness, DampingRatio: dampingRatio}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Validate checks that stiffness is positive and the damping ratio is
// non-negative, both finite.
func (p Parameters) Validate() error {
	if math.IsNaN(p.Stiffness) || math.IsInf(p.Stiffness, 0) || p.Stiffness <= 0 {
		return fmt.Errorf("%w: stiffness %v", ErrInvalidParameters, p.Stiffness)
	}
	if math.IsNaN(p.DampingRatio) || math.IsInf(p.DampingRatio, 0) || p.DampingRatio < 0 {
		return fmt.Errorf("%w: damping ratio %v", ErrInvalidParameters, p.DampingRatio)
	}
	return nil
}

// IsSnap reports whether p is at least as stiff as Snap.
func (p Parameters) IsSnap() bool {
	return p.Stiffness >= Snap.Stiffness
}

func (p Parameters) String() string {
	return fmt.Sprintf("spring(k=%.1f, ζ=%.2f)", p.Stiffness, p.DampingRatio)
}

// Lerp blends two parameter sets. Stiffness is interpolated in log space so
// that the perceived tightening is even across the range.
func Lerp(start, stop Parameters, fraction float64) Parameters {
	switch {
	case math.IsNaN(fraction) || fraction <= 0:
		return start
	case fraction >= 1:
		return stop
	}
	ls, le := math.Log(start.Stiffness), math.Log(stop.Stiffness)
	return Parameters{
		Stiffness:    math.Exp(ls + (le-ls)*fraction),
		DampingRatio: start.DampingRatio + (stop.DampingRatio-start.DampingRatio)*fraction,
	}
}

// State is the displacement of a spring from its equilibrium and its velocity.
type State struct {
	Displacement float64
	Velocity     float64
}

// AtRest is the zero state.
var AtRest = State{}

// IsAtRest reports whether s is exactly zero.
func (s State) IsAtRest() bool {
	return s == AtRest
}

// AddDisplacement shifts the state, keeping its velocity.
func (s State) AddDisplacement(delta float64) State {
	return State{Displacement: s.Displacement + delta, Velocity: s.Velocity}
}

// IsStable reports whether the energy stored in the spring is below the
// energy of a motionless spring displaced by threshold.
func (s State) IsStable(p Parameters, threshold float64) bool {
	if s.IsAtRest() {
		return true
	}
	energy := p.Stiffness*s.Displacement*s.Displacement + s.Velocity*s.Velocity
	return energy <= p.Stiffness*threshold*threshold
}

// Step advances the spring by elapsed using the closed-form solution of the
// damped oscillator. States that end up stable collapse to AtRest.
func (s State) Step(p Parameters, elapsed time.Duration, threshold float64) State {
	if s.IsAtRest() {
		return AtRest
	}
	if elapsed > 0 {
		dt := elapsed.Seconds()
		h := harmonica.NewSpring(dt, math.Sqrt(p.Stiffness), p.DampingRatio)
		d, v := h.Update(s.Displacement, s.Velocity, 0)
		s = State{Displacement: d, Velocity: v}
	}
	if s.IsStable(p, threshold) {
		return AtRest
	}
	return s
}

func (s State) String() string {
	if s.IsAtRest() {
		return "at rest"
	}
	return fmt.Sprintf("d=%.3f v=%.3f", s.Displacement, s.Velocity)
}
