package host

import (
	"errors"
	"fmt"
)

// Operation names used in BackendError.
const (
	OpListContainers  = "list-containers"
	OpSelectDirectory = "select-directory"
)

// ErrUnavailable is reported when no provider backs a capability.
var ErrUnavailable = errors.New("host capability unavailable")

// BackendError is the single error kind for every backend failure.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return e.Op + ": backend error"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Wrap tags err as a BackendError for op. Errors that already carry a
// BackendError are returned untouched; nil stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}

// IsBackendError reports whether err is, or wraps, a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
