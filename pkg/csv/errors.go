package csv

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csvpage/internal/tokenizer"
)

// ParseError represents a parsing error with position information.
// It provides detailed context about where the error occurred in the CSV data.
type ParseError = tokenizer.ParseError

// Common errors
var (
	// ErrUnterminatedQuote indicates the input ended inside a quoted field.
	ErrUnterminatedQuote = tokenizer.ErrUnterminatedQuote

	// ErrInvalidPageSize indicates a page size smaller than one.
	ErrInvalidPageSize = errors.New("csv: page size must be at least 1")

	// ErrNoHeader indicates a mapper needs column names but none were captured.
	ErrNoHeader = errors.New("csv: no column names captured")

	// ErrColumnNotFound indicates a bound column name is absent from the header.
	ErrColumnNotFound = errors.New("csv: column not found")

	// ErrFieldCount indicates a record has the wrong number of fields.
	ErrFieldCount = errors.New("csv: wrong number of fields")
)

// RowError reports a mapper failure for one data row.
type RowError struct {
	// Row is the 1-indexed data row, not counting the header.
	Row int
	// Line is the line on which the row started (1-indexed).
	Line int
	// Err is the mapper error.
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("csv: row %d (line %d): %v", e.Row, e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *RowError) Unwrap() error {
	return e.Err
}

// ConversionError reports a field that could not be converted to its bound type.
type ConversionError struct {
	Column string
	Value  string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("csv: cannot convert column %q value %q: %v", e.Column, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

func (e *OptionsError) Error() string {
	return "csv: invalid " + e.Field + ": " + e.Message
}

func fieldCountError(got, limit int) error {
	return fmt.Errorf("%w: got %d, expected at most %d", ErrFieldCount, got, limit)
}
