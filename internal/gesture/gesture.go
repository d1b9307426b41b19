package gesture

import (
	"errors"
	"fmt"
	"math"

	"github.com/olivier-w/mechanics/internal/spec"
)

// ErrInvalidSlop is returned for a direction change slop that is not a
// positive finite number.
var ErrInvalidSlop = fmt.Errorf("%w: direction change slop", spec.ErrInvalidArgument)

// Context describes the gesture driving a motion value.
type Context interface {
	// Direction is the filtered direction of travel.
	Direction() spec.InputDirection
	// DragOffset is the accumulated gesture distance.
	DragOffset() float64
}

// Provided is a Context whose values are set directly by the caller, for
// inputs that are not gesture driven.
type Provided struct {
	direction  spec.InputDirection
	dragOffset float64
}

// NewProvided returns a Context with fixed values until Set is called.
func NewProvided(direction spec.InputDirection, dragOffset float64) *Provided {
	return &Provided{direction: direction, dragOffset: dragOffset}
}

func (p *Provided) Direction() spec.InputDirection { return p.direction }
func (p *Provided) DragOffset() float64            { return p.dragOffset }

// Set replaces both values.
func (p *Provided) Set(direction spec.InputDirection, dragOffset float64) {
	p.direction = direction
	p.dragOffset = dragOffset
}

// DistanceGestureContext derives the direction from the drag offset. The
// direction only flips once the offset has moved back from the furthest
// point reached by more than the slop, so jitter around a turning point
// does not flicker between directions.
type DistanceGestureContext struct {
	direction  spec.InputDirection
	dragOffset float64
	furthest   float64
	slop       float64
}

// NewDistanceGestureContext returns a context starting at offset, travelling
// in direction. slop must be positive.
func NewDistanceGestureContext(offset float64, direction spec.InputDirection, slop float64) (*DistanceGestureContext, error) {
	if err := validateSlop(slop); err != nil {
		return nil, err
	}
	return &DistanceGestureContext{
		direction:  direction,
		dragOffset: offset,
		furthest:   offset,
		slop:       slop,
	}, nil
}

func (g *DistanceGestureContext) Direction() spec.InputDirection { return g.direction }
func (g *DistanceGestureContext) DragOffset() float64            { return g.dragOffset }

// DirectionChangeSlop returns the current slop.
func (g *DistanceGestureContext) DirectionChangeSlop() float64 { return g.slop }

// SetDragOffset records a new offset and updates the direction.
func (g *DistanceGestureContext) SetDragOffset(value float64) {
	switch g.direction {
	case spec.Max:
		if g.furthest-value > g.slop {
			g.direction = spec.Min
			g.furthest = value
		} else {
			g.furthest = math.Max(g.furthest, value)
		}
	case spec.Min:
		if value-g.furthest > g.slop {
			g.direction = spec.Max
			g.furthest = value
		} else {
			g.furthest = math.Min(g.furthest, value)
		}
	}
	g.dragOffset = value
}

// SetDirectionChangeSlop changes the slop and re-checks whether the current
// offset already warrants a flip under the new value.
func (g *DistanceGestureContext) SetDirectionChangeSlop(slop float64) error {
	if err := validateSlop(slop); err != nil {
		return err
	}
	g.slop = slop
	switch g.direction {
	case spec.Max:
		if g.furthest-g.dragOffset > slop {
			g.direction = spec.Min
			g.furthest = g.dragOffset
		}
	case spec.Min:
		if g.dragOffset-g.furthest > slop {
			g.direction = spec.Max
			g.furthest = g.dragOffset
		}
	}
	return nil
}

// Reset restarts tracking at offset in direction.
func (g *DistanceGestureContext) Reset(offset float64, direction spec.InputDirection) {
	g.direction = direction
	g.dragOffset = offset
	g.furthest = offset
}

func validateSlop(slop float64) error {
	if math.IsNaN(slop) || math.IsInf(slop, 0) || slop <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSlop, slop)
	}
	return nil
}

// IsInvalidSlop reports whether err came from a bad slop value.
func IsInvalidSlop(err error) bool {
	return errors.Is(err, ErrInvalidSlop)
}
