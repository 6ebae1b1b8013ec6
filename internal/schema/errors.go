package schema

import (
	"errors"
	"fmt"
)

// ErrSchemaUnavailable indicates a configured schema could not be resolved
var ErrSchemaUnavailable = errors.New("schema unavailable")

// UnavailableError describes why a configured schema source could not be used
type UnavailableError struct {
	// Source is the path, glob or URL that failed
	Source string
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("schema unavailable from %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + "\nSuggestion: check the schema setting in your GraphQL config; linting continues with syntax checks only"
}

func (e *UnavailableError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSchemaUnavailable}
	}
	return []error{ErrSchemaUnavailable, e.Err}
}

// NewUnavailableError creates a new schema unavailable error
func NewUnavailableError(source, reason string, err error) error {
	return &UnavailableError{
		Source: source,
		Reason: reason,
		Err:    err,
	}
}
