// Package errors defines the error taxonomy of the index subsystem. Startup
// errors (anything wrapping a sentinel below) are fatal and unrecoverable:
// a structurally invalid index file cannot be partially served. Per-query
// parse/eval errors live in internal/query and are recoverable.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic           = errors.New("bad magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrSectionMissing     = errors.New("section not found")
	ErrDictUnsorted       = errors.New("dictionary not sorted")
	ErrForwardMismatch    = errors.New("forward/meta doc count mismatch")
	ErrMisaligned         = errors.New("postings size not a multiple of 4")
	ErrPostingsRange      = errors.New("postings offset/df out of range")
	ErrTermTooLong        = errors.New("term too long (>65535 bytes)")
	ErrEmptyInput         = errors.New("no tokens parsed from input")
)

// IndexError wraps a sentinel with file context.
type IndexError struct {
	Err     error
	Path    string
	Message string
}

func (e *IndexError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err.Error())
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Err.Error(), e.Message)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

func New(sentinel error, path string, message string) *IndexError {
	return &IndexError{Err: sentinel, Path: path, Message: message}
}

func Newf(sentinel error, path string, format string, args ...any) *IndexError {
	return &IndexError{Err: sentinel, Path: path, Message: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err belongs to the startup error class.
func IsFatal(err error) bool {
	var ie *IndexError
	return errors.As(err, &ie)
}
