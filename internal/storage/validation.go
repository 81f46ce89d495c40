package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidTag   = errors.New("invalid checkpoint tag")
	ErrInvalidLimit = errors.New("limit must be positive")
)

const maxTagLength = 64

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTag accepts letters, digits, '-', '_' and '.', up to 64 characters.
func validateTag(tag string) error {
	if err := validateString(tag, "tag"); err != nil {
		return err
	}
	if len(tag) > maxTagLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidTag, maxTagLength)
	}
	if strings.Contains(tag, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return fmt.Errorf("%w: %q contains %q", ErrInvalidTag, tag, r)
	}
	return nil
}

func validateLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	return nil
}
