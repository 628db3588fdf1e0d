package model

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

var (
	// ErrNotFound is returned when an operation references an unknown cleaner id
	ErrNotFound = errors.New("cleaner not found")

	// ErrConflict is returned when creating a cleaner with an id already in use
	ErrConflict = errors.New("cleaner already exists")

	// ErrValidation is matched by every ValidationError
	ErrValidation = errors.New("invalid cleaner")

	// ErrConfiguration is matched by every ConfigurationError
	ErrConfiguration = errors.New("configuration error")

	// ErrPartialFailure is matched by PartialFailureError
	ErrPartialFailure = errors.New("some directories could not be removed")
)

// ErrorKind classifies a failure so callers can switch on it instead of
// walking error chains themselves.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindConfiguration
	KindPartialFailure
	KindIO
	KindCanceled
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return ""
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindPartialFailure:
		return "partial failure"
	case KindIO:
		return "io"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

// KindOf returns the kind of err. A nil error is KindNone.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrPartialFailure):
		return KindPartialFailure
	case isCanceled(err):
		return KindCanceled
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return KindIO
	}

	return KindUnknown
}

// OpError records the repository operation and cleaner id that failed.
type OpError struct {
	Op  string
	ID  int
	Err error
}

func (e *OpError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s cleaner %d: %v", e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s cleaner: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Kind is a shortcut for KindOf(e).
func (e *OpError) Kind() ErrorKind {
	return KindOf(e)
}

// ConfigurationError indicates the configuration document could not be read,
// decoded or written.
type ConfigurationError struct {
	Op   string // load, save, create, delete
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ValidationError names the cleaner field that is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid cleaner %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DeleteError wraps the failure to delete a single matched directory.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("failed to delete directory %s: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// PartialFailureError reports matched directories that were left behind
// because of permission or I/O problems. It is a warning: the rest of the
// run completed.
type PartialFailureError struct {
	Failed []DeleteError
}

func (e *PartialFailureError) Error() string {
	paths := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		paths = append(paths, f.Path)
	}

	return fmt.Sprintf("%v: %s", ErrPartialFailure, strings.Join(paths, ", "))
}

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartialFailure
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
