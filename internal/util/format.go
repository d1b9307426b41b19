package util

import (
	"fmt"
	"math"
	"time"
)

// FormatValue formats v with three decimals. Values that round to zero
// print without a sign.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	if math.Abs(v) < 0.0005 {
		v = 0
	}
	return fmt.Sprintf("%.3f", v)
}

// FormatDelta formats v with an explicit sign.
func FormatDelta(v float64) string {
	if math.Abs(v) < 0.0005 {
		return "±0.000"
	}
	return fmt.Sprintf("%+.3f", v)
}

// FormatDuration formats a duration as s.mmm, or m:ss.mmm past a minute.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	m := ms / 60000
	s := (ms / 1000) % 60
	if m > 0 {
		return fmt.Sprintf("%d:%02d.%03d", m, s, ms%1000)
	}
	return fmt.Sprintf("%d.%03ds", s, ms%1000)
}
