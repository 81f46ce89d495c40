package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/scorecard/internal/calc"
	"github.com/google/uuid"
)

// Field names an editable column of a Row. The values match the JSON keys
// of the persisted format.
type Field string

const (
	FieldDescription Field = "description"
	FieldStartDate   Field = "startDate"
	FieldEndDate     Field = "endDate"
	FieldWeight      Field = "weight"
	FieldScore       Field = "score"
	FieldPrevWeight  Field = "prevWeight"
	FieldPrevScore   Field = "prevScore"
)

// Fields lists the editable fields in display order.
var Fields = []Field{
	FieldDescription,
	FieldStartDate,
	FieldEndDate,
	FieldPrevWeight,
	FieldPrevScore,
	FieldWeight,
	FieldScore,
}

// ParseField resolves a field name, case-insensitively.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// IsNumeric reports whether the field holds a number.
func (f Field) IsNumeric() bool {
	switch f {
	case FieldWeight, FieldScore, FieldPrevWeight, FieldPrevScore:
		return true
	default:
		return false
	}
}

// IsDate reports whether the field holds a Date.
func (f Field) IsDate() bool {
	return f == FieldStartDate || f == FieldEndDate
}

// Row is one line item of a table. EvaluationScore and PrevEvaluationScore
// are derived and are recomputed whenever their inputs change.
type Row struct {
	ID                  string  `json:"id"`
	Description         string  `json:"description"`
	StartDate           Date    `json:"startDate"`
	EndDate             Date    `json:"endDate"`
	Weight              float64 `json:"weight"`
	Score               float64 `json:"score"`
	EvaluationScore     float64 `json:"evaluationScore"`
	PrevWeight          float64 `json:"prevWeight"`
	PrevScore           float64 `json:"prevScore"`
	PrevEvaluationScore float64 `json:"prevEvaluationScore"`
}

// NewRowID returns a fresh opaque row identifier.
func NewRowID() string {
	return "row-" + uuid.NewString()
}

// Recompute refreshes both derived scores from their inputs.
func (r *Row) Recompute() {
	r.EvaluationScore = calc.EvaluationScore(r.Weight, r.Score)
	r.PrevEvaluationScore = calc.EvaluationScore(r.PrevWeight, r.PrevScore)
}

// Edit returns a copy of the row with field set from raw input. Numeric
// fields parse leniently (bad input becomes 0) and recompute their derived
// score before returning. Date fields reject invalid input with
// ErrInvalidDate and leave the row unchanged; blank input clears the date.
func (r Row) Edit(field Field, raw string) (Row, error) {
	switch field {
	case FieldDescription:
		r.Description = raw
	case FieldStartDate, FieldEndDate:
		d, err := ParseDate(raw)
		if err != nil {
			return r, err
		}
		if field == FieldStartDate {
			r.StartDate = d
		} else {
			r.EndDate = d
		}
	case FieldWeight:
		r.Weight = calc.ParseNumber(raw)
		r.EvaluationScore = calc.EvaluationScore(r.Weight, r.Score)
	case FieldScore:
		r.Score = calc.ParseNumber(raw)
		r.EvaluationScore = calc.EvaluationScore(r.Weight, r.Score)
	case FieldPrevWeight:
		r.PrevWeight = calc.ParseNumber(raw)
		r.PrevEvaluationScore = calc.EvaluationScore(r.PrevWeight, r.PrevScore)
	case FieldPrevScore:
		r.PrevScore = calc.ParseNumber(raw)
		r.PrevEvaluationScore = calc.EvaluationScore(r.PrevWeight, r.PrevScore)
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return r, nil
}

// Value returns the field formatted for editing.
func (r Row) Value(field Field) string {
	switch field {
	case FieldDescription:
		return r.Description
	case FieldStartDate:
		return r.StartDate.Dotted()
	case FieldEndDate:
		return r.EndDate.Dotted()
	case FieldWeight:
		return calc.FormatFull(r.Weight)
	case FieldScore:
		return calc.FormatFull(r.Score)
	case FieldPrevWeight:
		return calc.FormatFull(r.PrevWeight)
	case FieldPrevScore:
		return calc.FormatFull(r.PrevScore)
	default:
		return ""
	}
}

// Figures implements calc.Line.
func (r Row) Figures() calc.Figures {
	return calc.Figures{
		Weight:              r.Weight,
		PrevWeight:          r.PrevWeight,
		EvaluationScore:     r.EvaluationScore,
		PrevEvaluationScore: r.PrevEvaluationScore,
	}
}

// IsFilled reports whether the row carries any input worth validating.
func (r Row) IsFilled() bool {
	return r.Weight > 0 || r.Score > 0 || strings.TrimSpace(r.Description) != ""
}

// HasContent reports whether the row has anything to show in a report.
func (r Row) HasContent() bool {
	return r.Description != "" || !r.StartDate.IsZero() || !r.EndDate.IsZero()
}

// UnmarshalJSON tolerates numbers written as strings, null or "" in files
// produced by older versions; any of those that do not parse become 0.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                  string     `json:"id"`
		Description         string     `json:"description"`
		StartDate           Date       `json:"startDate"`
		EndDate             Date       `json:"endDate"`
		Weight              flexNumber `json:"weight"`
		Score               flexNumber `json:"score"`
		EvaluationScore     flexNumber `json:"evaluationScore"`
		PrevWeight          flexNumber `json:"prevWeight"`
		PrevScore           flexNumber `json:"prevScore"`
		PrevEvaluationScore flexNumber `json:"prevEvaluationScore"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Row{
		ID:                  raw.ID,
		Description:         raw.Description,
		StartDate:           raw.StartDate,
		EndDate:             raw.EndDate,
		Weight:              float64(raw.Weight),
		Score:               float64(raw.Score),
		EvaluationScore:     float64(raw.EvaluationScore),
		PrevWeight:          float64(raw.PrevWeight),
		PrevScore:           float64(raw.PrevScore),
		PrevEvaluationScore: float64(raw.PrevEvaluationScore),
	}
	return nil
}

type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*n = flexNumber(calc.ParseNumber(text))
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", s, err)
	}
	*n = flexNumber(v)
	return nil
}
