package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDocument is returned when a record violates a field constraint
	ErrInvalidDocument = errors.New("invalid document")
	// ErrUnknownField is returned when a filter, sort or update names a field
	// that is not part of the book schema
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidPage is returned for out of range pagination parameters
	ErrInvalidPage = errors.New("invalid page")
)

// InsertError reports a failure while resetting or seeding a collection.
type InsertError struct {
	Op         string
	Collection string
	Err        error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// QueryError reports a failed read, update, delete, aggregation or index step.
type QueryError struct {
	Step string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Step, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
