package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation error")
	// ErrSchema is matched by every *SchemaError via errors.Is.
	ErrSchema = errors.New("schema error")
)

// ValidationError reports a requirement, candidate value or configuration
// entry that is outside the accepted domain.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error: %s %q: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SchemaError reports a candidate record missing a column that every
// requested skill needs. The pool must be backfilled before scoring.
type SchemaError struct {
	Candidate string
	Column    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: candidate %q has no column %q", e.Candidate, e.Column)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func invalid(field, value, message string) error {
	return &ValidationError{Field: field, Value: value, Message: message}
}
