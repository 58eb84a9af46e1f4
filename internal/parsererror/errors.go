// Package parsererror defines the errors returned when an export file
// cannot be turned into canonical transactions.
package parsererror

import (
	"errors"
	"fmt"
)

// ParseError represents a field value that could not be parsed.
type ParseError struct {
	Parser string
	Row    int // 1-based data row, 0 when unknown
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
			e.Parser, e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an input whose layout does not match the
// expected export schema: missing columns, wrong column count, no header.
type InvalidFormatError struct {
	Source         string
	ExpectedFormat string
	Row            int
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("invalid format in '%s': %s. Expected: %s", e.Source, e.Msg, e.ExpectedFormat)
	if e.Row > 0 {
		msg = fmt.Sprintf("invalid format in '%s' at row %d: %s. Expected: %s", e.Source, e.Row, e.Msg, e.ExpectedFormat)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err, or any error it wraps, means the input
// file was malformed.
func IsParseError(err error) bool {
	var parseErr *ParseError
	var formatErr *InvalidFormatError
	return errors.As(err, &parseErr) || errors.As(err, &formatErr)
}
