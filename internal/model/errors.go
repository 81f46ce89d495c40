// Package model contains the evaluation document: tabs, their tables and rows.
package model

import "errors"

// Model errors.
var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrRowNotFound  = errors.New("row not found")
	ErrUnknownField = errors.New("unknown field")
)

// DefaultTabName is the category label given to legacy single-table files
// and to the first tab of a new document.
const DefaultTabName = "시스템개발"
