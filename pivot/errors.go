package pivot

import (
	"errors"
	"fmt"
)

// ErrEmptyResult indicates a completed query produced no rows.
var ErrEmptyResult = errors.New("query returned no results")

// ErrInsufficientColumns indicates X or Y could not be resolved.
var ErrInsufficientColumns = errors.New("query returned insufficient x,y data")

// ErrNonNumeric indicates a value that must be numeric is not.
var ErrNonNumeric = errors.New("value is not numeric")

// ErrUnknownKind indicates an unsupported plot kind.
var ErrUnknownKind = errors.New("unknown plot kind")

// FieldError ties a conversion failure to a field and row.
type FieldError struct {
	Field string
	Row   int
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q row %d (%v): %v", e.Field, e.Row, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
