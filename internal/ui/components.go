package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/olivier-w/mechanics/internal/spec"
)

// renderRuler draws the drag range with the breakpoints of the active
// direction marked and the current offset as a knob.
func renderRuler(offset, lo, hi float64, marks []float64, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 2 // leave some margin

	col := func(v float64) int {
		if hi == lo {
			return 0
		}
		r := (v - lo) / (hi - lo)
		r = math.Min(1, math.Max(0, r))
		return int(math.Round(r * float64(barWidth-1)))
	}

	cells := make([]rune, barWidth)
	knob := col(offset)
	for i := range cells {
		if i < knob {
			cells[i] = '━'
		} else {
			cells[i] = '─'
		}
	}
	for _, m := range marks {
		if m < lo || m > hi || math.IsInf(m, 0) {
			continue
		}
		cells[col(m)] = '┼'
	}
	cells[knob] = '●'
	return string(cells)
}

// breakpointMarks returns the finite breakpoint positions of d.
func breakpointMarks(d *spec.DirectionalMotionSpec) []float64 {
	var marks []float64
	for _, bp := range d.Breakpoints() {
		if !bp.IsSentinel() {
			marks = append(marks, bp.Position)
		}
	}
	return marks
}

func directionArrow(d spec.InputDirection) string {
	if d == spec.Min {
		return "◀"
	}
	return "▶"
}

func segmentLabel(k spec.SegmentKey) string {
	name := func(b spec.BreakpointKey) string {
		switch b {
		case spec.MinLimitKey:
			return "−∞"
		case spec.MaxLimitKey:
			return "+∞"
		}
		return b.String()
	}
	return fmt.Sprintf("%s…%s", name(k.Min), name(k.Max))
}

func spaces(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}
