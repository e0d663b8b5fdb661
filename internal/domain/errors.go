package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHeight indicates a malformed or negative height or duration parameter.
	ErrInvalidHeight = errors.New("invalid height")
	// ErrDataUnavailable indicates a fetch succeeded but no row satisfied the query.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrQueryFailed indicates the underlying data source returned an error.
	ErrQueryFailed = errors.New("query failed")
)

// QueryError wraps a data source failure. Its message is generic; the original
// error stays reachable through Unwrap for logging.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, ErrQueryFailed)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is reports QueryError as ErrQueryFailed.
func (e *QueryError) Is(target error) bool { return target == ErrQueryFailed }

// NewQueryError wraps err as a QueryError for the given operation.
func NewQueryError(op string, err error) error {
	return &QueryError{Op: op, Err: err}
}

// InvalidHeightf formats an ErrInvalidHeight with detail.
func InvalidHeightf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidHeight, fmt.Sprintf(format, args...))
}

// Unavailablef formats an ErrDataUnavailable with detail.
func Unavailablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataUnavailable, fmt.Sprintf(format, args...))
}
