// Package validation checks evaluation tables for advisory rule violations.
// It never mutates the document; callers decide whether a violation blocks
// an action or only warns.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/scorecard/internal/calc"
	"github.com/Veraticus/scorecard/internal/model"
)

// Kind identifies which rule a violation broke.
type Kind string

const (
	KindWeightWithoutScore Kind = "weight_without_score"
	KindScoreWithoutWeight Kind = "score_without_weight"
	KindWeightSumNot100    Kind = "weight_sum_not_100"
)

// Target weight sum for a tab and the tolerance allowed around it.
const (
	TargetWeight    = 100.0
	WeightTolerance = 0.1
)

// Violation is one broken rule in one tab.
type Violation struct {
	Tab     string  `json:"tab"`
	Kind    Kind    `json:"type"`
	Message string  `json:"message"`
	Rows    int     `json:"rows,omitempty"`
	Total   float64 `json:"total,omitempty"`
}

// Result is the ordered outcome of validating a document.
type Result struct {
	Violations []Violation
}

// Valid reports whether no rule was broken.
func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Format renders the violations as a numbered list, one per line.
func (r Result) Format() string {
	var b strings.Builder
	for i, v := range r.Violations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, v.Message)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Validate checks every tab in document order.
func Validate(doc model.Document) Result {
	var violations []Violation
	for _, tab := range doc.Tabs {
		violations = append(violations, ValidateTab(tab)...)
	}
	return Result{Violations: violations}
}

// ValidateTab checks a single tab. Empty tabs and tabs without any filled
// row produce nothing.
func ValidateTab(tab model.Tab) []Violation {
	rows := tab.TableData
	if len(rows) == 0 {
		return nil
	}

	var filled []model.Row
	for _, row := range rows {
		if row.IsFilled() {
			filled = append(filled, row)
		}
	}
	if len(filled) == 0 {
		return nil
	}

	var violations []Violation

	weightOnly, scoreOnly := 0, 0
	for _, row := range filled {
		if row.Weight > 0 && missing(row.Score) {
			weightOnly++
		}
		if row.Score > 0 && missing(row.Weight) {
			scoreOnly++
		}
	}

	if weightOnly > 0 {
		violations = append(violations, Violation{
			Tab:     tab.Name,
			Kind:    KindWeightWithoutScore,
			Message: fmt.Sprintf("[%s] %d row(s) have a weight but no score.", tab.Name, weightOnly),
			Rows:    weightOnly,
		})
	}

	if scoreOnly > 0 {
		violations = append(violations, Violation{
			Tab:     tab.Name,
			Kind:    KindScoreWithoutWeight,
			Message: fmt.Sprintf("[%s] %d row(s) have a score but no weight.", tab.Name, scoreOnly),
			Rows:    scoreOnly,
		})
	}

	// The sum rule looks at every row, not only the filled ones.
	hasWeight := false
	for _, row := range rows {
		if row.Weight > 0 {
			hasWeight = true
			break
		}
	}
	total := model.Table(rows).Totals().WeightTotal
	if hasWeight && math.Abs(total-TargetWeight) > WeightTolerance {
		violations = append(violations, Violation{
			Tab:  tab.Name,
			Kind: KindWeightSumNot100,
			Message: fmt.Sprintf("[%s] weights add up to %s; they must total 100%%.",
				tab.Name, calc.FormatPercent(total)),
			Total: total,
		})
	}

	return violations
}

func missing(v float64) bool {
	return v == 0 || math.IsNaN(v)
}
