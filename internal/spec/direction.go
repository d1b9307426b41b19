package spec

// InputDirection is the direction of travel of the input. Breakpoints are
// always ordered from Min to Max, whichever way the input moves.
type InputDirection uint8

const (
	Max InputDirection = iota
	Min
)

// Sign is +1 for Max and -1 for Min.
func (d InputDirection) Sign() float64 {
	if d == Min {
		return -1
	}
	return 1
}

// Opposite returns the reverse direction.
func (d InputDirection) Opposite() InputDirection {
	if d == Min {
		return Max
	}
	return Min
}

func (d InputDirection) String() string {
	if d == Min {
		return "min"
	}
	return "max"
}
