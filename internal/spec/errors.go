package spec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks malformed specs, breakpoints, mappings and
	// queries. It always indicates a caller bug.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoSuchSegment is returned by semantic lookups for segments the spec
	// does not contain.
	ErrNoSuchSegment = errors.New("no such segment")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
