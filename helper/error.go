package helper

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for table or document files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptyTable is returned when a stage receives no poems to work on.
	ErrEmptyTable = errors.New("no poems in table")
)

// Error wraps an error with the operation that failed.
type Error struct {
	Operation string
	Err       error
}

// NewError wraps err with the name of the failed operation.
// It returns nil if err is nil.
func NewError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Operation: operation,
		Err:       err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
