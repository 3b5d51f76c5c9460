package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// opError annotates an error with the handler operation that produced it.
type opError struct {
	Op  string
	Err error
}

func (e *opError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *opError) Unwrap() error { return e.Err }

// NewKind reports a failure of kind (one of the sentinels) in op with detail.
func NewKind(op string, kind error, detail ...any) error {
	if len(detail) == 0 {
		return &opError{Op: op, Err: kind}
	}
	return &opError{Op: op, Err: fmt.Errorf("%w: %s", kind, fmt.Sprint(detail...))}
}

// Wrap annotates err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{Op: op, Err: err}
}
