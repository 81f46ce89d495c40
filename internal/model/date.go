package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const canonicalLayout = "2006-01-02"

// Date is a calendar day stored in its canonical YYYY-MM-DD form. The zero
// value is an unset date. Canonical strings sort chronologically, so Dates
// compare with plain string ordering.
type Date struct {
	value string
}

// NewDate validates the parts and returns the Date.
func NewDate(year, month, day int) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month %d out of range", ErrInvalidDate, month)
	}
	if day < 1 || day > 31 {
		return Date{}, fmt.Errorf("%w: day %d out of range", ErrInvalidDate, day)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d is not a calendar date", ErrInvalidDate, year, month, day)
	}
	return Date{value: t.Format(canonicalLayout)}, nil
}

// ParseDate accepts dotted display input (2024.01.05), canonical input
// (2024-01-05) or bare digits (20240105). Exactly eight digits must be
// present once separators are removed. Blank input yields the unset Date.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) != 8 {
		return Date{}, fmt.Errorf("%w: %q needs 8 digits", ErrInvalidDate, raw)
	}

	year, _ := strconv.Atoi(digits[0:4])
	month, _ := strconv.Atoi(digits[4:6])
	day, _ := strconv.Atoi(digits[6:8])
	return NewDate(year, month, day)
}

// SanitizeDateInput filters text as it is typed into a dotted date field:
// only digits and dots survive, and dots beyond the second are dropped.
func SanitizeDateInput(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, input)

	parts := strings.Split(cleaned, ".")
	if len(parts) <= 3 {
		return cleaned
	}
	return parts[0] + "." + parts[1] + "." + strings.Join(parts[2:], "")
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.value == "" }

// String returns the canonical form, or "" when unset.
func (d Date) String() string { return d.value }

// Dotted returns the display form YYYY.MM.DD, or "" when unset.
func (d Date) Dotted() string { return strings.ReplaceAll(d.value, "-", ".") }

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	t, _ := time.Parse(canonicalLayout, d.value)
	return t
}

// Before reports whether d is strictly earlier than other. Unset dates are
// never before anything.
func (d Date) Before(other Date) bool {
	return !d.IsZero() && !other.IsZero() && d.value < other.value
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return !d.IsZero() && !other.IsZero() && d.value > other.value
}

// MarshalJSON writes the canonical string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

// UnmarshalJSON accepts a canonical string, a dotted string, "" or null.
// Text that does not parse as a date is dropped rather than failing the
// whole document.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == nil {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*raw)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}
