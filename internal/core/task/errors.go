package task

import (
	"errors"
	"fmt"
)

// Classified failures. Front ends map them with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// kindError carries a caller-facing message while unwrapping to its class.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NotFound returns an error classified as ErrNotFound.
func NotFound(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Invalid returns an error classified as ErrInvalidRequest.
func Invalid(format string, args ...any) error {
	return &kindError{kind: ErrInvalidRequest, msg: fmt.Sprintf(format, args...)}
}
