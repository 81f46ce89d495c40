// Package calc holds the arithmetic behind evaluation scores and table totals.
// Everything here is pure: no I/O, no shared state.
package calc

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal places used when aggregating.
const (
	WeightPlaces = 1
	ScorePlaces  = 2
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// EvaluationScore returns weight * score / 100, or 0 when either input is NaN.
// The result is not rounded.
func EvaluationScore(weight, score float64) float64 {
	if math.IsNaN(weight) || math.IsNaN(score) {
		return 0
	}
	return weight * score / 100
}

// ParseNumber parses user input leniently. A leading numeric prefix is
// accepted ("12.5kg" is 12.5); anything unparseable yields 0.
func ParseNumber(raw string) float64 {
	match := leadingNumber.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Round rounds half away from zero at the given number of decimal places.
// NaN rounds to 0; infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// orZero treats NaN as a missing value.
func orZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
