package ingest

import (
	"fmt"

	"github.com/satishbabariya/batchload/internal/adapters/database"
)

// ParseError reports a source field that could not be converted to its
// target type.
type ParseError struct {
	// Line is the 1-based line in the source, counting the header.
	Line int

	// Column names the field being decoded.
	Column string

	// Value is the raw field text.
	Value string

	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Column, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches database.ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == database.ErrParse
}

func fieldError(column, value string, err error) *ParseError {
	return &ParseError{Column: column, Value: value, Err: err}
}
