package spec

import (
	"math"
	"reflect"
)

// Mapping maps an input value to an output value. Implementations must be
// deterministic and continuous; jumps belong at breakpoints.
//
// The set of mappings is closed: Identity, Fixed, Linear and Func.
type Mapping interface {
	Map(input float64) float64
	mapping()
}

type identity struct{}

func (identity) Map(input float64) float64 { return input }
func (identity) mapping()                  {}
func (identity) String() string            { return "identity" }

// Identity returns its input.
var Identity Mapping = identity{}

// Fixed ignores the input.
type Fixed struct {
	Value float64
}

func (f Fixed) Map(float64) float64 { return f.Value }
func (Fixed) mapping()              {}

var (
	Zero = Fixed{Value: 0}
	One  = Fixed{Value: 1}
)

// NewFixed returns a Fixed mapping, rejecting non-finite values.
func NewFixed(value float64) (Fixed, error) {
	if !isFinite(value) {
		return Fixed{}, invalidf("fixed mapping value %v", value)
	}
	return Fixed{Value: value}, nil
}

// Linear computes Factor*input + Offset.
type Linear struct {
	Factor float64
	Offset float64
}

func (l Linear) Map(input float64) float64 { return l.Factor*input + l.Offset }
func (Linear) mapping()                    {}

// NewLinear returns a Linear mapping, rejecting non-finite parameters.
func NewLinear(factor, offset float64) (Linear, error) {
	if !isFinite(factor) || !isFinite(offset) {
		return Linear{}, invalidf("linear mapping factor %v offset %v", factor, offset)
	}
	return Linear{Factor: factor, Offset: offset}, nil
}

// LinearThrough returns the line through (x0, y0) and (x1, y1).
func LinearThrough(x0, y0, x1, y1 float64) (Linear, error) {
	if x0 == x1 {
		return Linear{}, invalidf("linear mapping through identical inputs %v", x0)
	}
	factor := (y1 - y0) / (x1 - x0)
	return NewLinear(factor, y0-factor*x0)
}

// Func adapts an arbitrary continuous function.
type Func func(input float64) float64

func (f Func) Map(input float64) float64 { return f(input) }
func (Func) mapping()                    {}

func validateMapping(m Mapping) error {
	switch m := m.(type) {
	case nil:
		return invalidf("nil mapping")
	case identity:
		return nil
	case Fixed:
		if !isFinite(m.Value) {
			return invalidf("fixed mapping value %v", m.Value)
		}
	case Linear:
		if !isFinite(m.Factor) || !isFinite(m.Offset) {
			return invalidf("linear mapping factor %v offset %v", m.Factor, m.Offset)
		}
	case Func:
		if m == nil {
			return invalidf("nil mapping func")
		}
	}
	return nil
}

// SameMapping reports whether a and b are the same mapping. Funcs compare
// by code pointer.
func SameMapping(a, b Mapping) bool {
	fa, aok := a.(Func)
	fb, bok := b.(Func)
	switch {
	case aok && bok:
		return reflect.ValueOf(fa).Pointer() == reflect.ValueOf(fb).Pointer()
	case aok || bok:
		return false
	}
	return a == b
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
