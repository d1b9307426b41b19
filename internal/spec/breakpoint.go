package spec

import (
	"fmt"
	"math"

	"github.com/olivier-w/mechanics/internal/spring"
)

// Keys of the two sentinel breakpoints every directional spec starts and ends with.
var (
	MinLimitKey = NewBreakpointKey("minLimit")
	MaxLimitKey = NewBreakpointKey("maxLimit")
)

// Breakpoint is a position on the input axis where the mapping, and the
// spring that smooths the change, can switch.
type Breakpoint struct {
	Key       BreakpointKey
	Position  float64
	Spring    spring.Parameters
	Guarantee Guarantee
}

var (
	MinLimit = Breakpoint{Key: MinLimitKey, Position: math.Inf(-1), Spring: spring.Snap, Guarantee: GuaranteeNone{}}
	MaxLimit = Breakpoint{Key: MaxLimitKey, Position: math.Inf(1), Spring: spring.Snap, Guarantee: GuaranteeNone{}}
)

// NewBreakpoint validates and returns an inner breakpoint.
func NewBreakpoint(key BreakpointKey, position float64, s spring.Parameters, g Guarantee) (Breakpoint, error) {
	b := Breakpoint{Key: key, Position: position, Spring: s, Guarantee: orNone(g)}
	if err := b.validateInner(); err != nil {
		return Breakpoint{}, err
	}
	return b, nil
}

// IsSentinel reports whether b is MinLimit or MaxLimit.
func (b Breakpoint) IsSentinel() bool {
	return b.Key == MinLimitKey || b.Key == MaxLimitKey
}

func (b Breakpoint) validateInner() error {
	if b.Key.IsZero() {
		return invalidf("breakpoint at %v has no key", b.Position)
	}
	if b.IsSentinel() {
		return invalidf("sentinel key %v used for an inner breakpoint", b.Key)
	}
	if !isFinite(b.Position) {
		return invalidf("breakpoint %v position %v", b.Key, b.Position)
	}
	if err := b.Spring.Validate(); err != nil {
		return fmt.Errorf("%w: breakpoint %v: %w", ErrInvalidArgument, b.Key, err)
	}
	if err := validateGuarantee(b.Guarantee); err != nil {
		return fmt.Errorf("breakpoint %v: %w", b.Key, err)
	}
	return nil
}

func (b Breakpoint) String() string {
	return fmt.Sprintf("%v@%g", b.Key, b.Position)
}
