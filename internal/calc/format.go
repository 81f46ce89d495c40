package calc

import (
	"math"
	"strconv"
)

// FormatFull renders a row-level value without rounding: whole numbers have
// no decimals, everything else uses the shortest exact representation.
func FormatFull(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTotal renders an aggregate rounded to two decimals.
func FormatTotal(v float64) string {
	r := Round(v, ScorePlaces)
	if r == 0 {
		r = 0 // drop the sign of negative zero
	}
	return FormatFull(r)
}

// FormatPercent renders a weight total followed by a percent sign.
func FormatPercent(v float64) string {
	return FormatTotal(v) + "%"
}

// Indicator returns the arrow shown next to a score difference.
func Indicator(diff float64) string {
	switch {
	case diff > 0:
		return "▲"
	case diff < 0:
		return "▼"
	default:
		return "-"
	}
}

// FormatChange renders a score difference as its arrow followed by the
// signed rounded value, e.g. "▼ -3.5".
func FormatChange(diff float64) string {
	return Indicator(diff) + " " + FormatTotal(diff)
}
