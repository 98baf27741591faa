// Package parseerr holds the error types shared by the free and df parsers.
// Every one of them is fatal: a parse stops at the first failure and returns
// no records.
package parseerr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// EmptyInputError は入力に空でない行が一つもない場合に返されます。
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "input has no non-empty lines"
}

// MissingDelimiterError reports a free data row without the `label:` separator.
type MissingDelimiterError struct {
	// Row is the 0-based data row index.
	Row  int
	Line string
}

func (e *MissingDelimiterError) Error() string {
	return fmt.Sprintf("find `:` in line %d (%q)", e.Row, e.Line)
}

// NumberFormatError reports a token that is not a number once every known
// unit suffix and percent marker has been stripped.
type NumberFormatError struct {
	Token string
	Table string
	Err   error
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("parse %q as a %s number: %v", e.Token, e.Table, e.Err)
}

func (e *NumberFormatError) Unwrap() error { return e.Err }

// FieldError attaches the field name and row index to a value that failed to parse.
type FieldError struct {
	Field string
	Row   int
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("parse value '%s' for `%s` on line %d: %v", e.Value, e.Field, e.Row, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// IOError reports that the input could not be fully read.
type IOError struct {
	Source string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Source, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Field wraps err as a FieldError with a stack attached.
func Field(field string, row int, value string, err error) error {
	return errors.WithStack(&FieldError{Field: field, Row: row, Value: value, Err: err})
}

// Missing returns a MissingDelimiterError with a stack attached.
func Missing(row int, line string) error {
	return errors.WithStack(&MissingDelimiterError{Row: row, Line: line})
}

// Empty returns an EmptyInputError with a stack attached.
func Empty() error {
	return errors.WithStack(&EmptyInputError{})
}
