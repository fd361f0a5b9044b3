package fileio

import (
	"errors"
	"fmt"
)

// Kind is a coarse category for file failures.
type Kind int

const (
	IOError Kind = iota
	MissingInput
	TooLarge
)

func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "missing input"
	case TooLarge:
		return "input too large"
	default:
		return "i/o error"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrIO           = errors.New("fileio: i/o error")
	ErrMissingInput = errors.New("fileio: missing input")
	ErrTooLarge     = errors.New("fileio: input too large")
)

// Error is returned by every operation in this package.
type Error struct {
	Kind Kind
	Op   string // "read", "write", "stream"
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fileio: %s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("fileio: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the Kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMissingInput:
		return e.Kind == MissingInput
	case ErrTooLarge:
		return e.Kind == TooLarge
	case ErrIO:
		return e.Kind == IOError
	}
	return false
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind == kind
}
