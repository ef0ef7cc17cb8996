package typeready

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/typeready/internal/types"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
var (
	ErrLayoutConflict        = errors.New("layout conflict")
	ErrInvalidBaseType       = errors.New("invalid base type")
	ErrInconsistentHierarchy = errors.New("inconsistent hierarchy")
	ErrInvalidSlotID         = errors.New("invalid slot id")
	ErrMissingName           = errors.New("missing name")
	ErrOutOfMemory           = errors.New("out of memory")
	ErrInvalidMember         = errors.New("invalid member")
	ErrImmutableType         = errors.New("immutable type")
	ErrNoAttribute           = errors.New("no attribute")
	ErrNoModule              = errors.New("no module")
)

// Error describes a failure to ready or build a type.
type Error struct {
	Kind error  // one of the Err* kinds
	Type string // name of the type being processed, if known
	Msg  string
	Err  error // underlying cause, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := e.Msg
	if e.Type != "" {
		s = e.Type + ": " + s
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// errorf creates an error of the given kind for t.
func errorf(kind error, t *types.Type, format string, args ...interface{}) *Error {
	e := &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
	if t != nil {
		e.Type = t.Name
	}
	return e
}

// wrap creates an error of the given kind around cause.
func wrap(kind error, t *types.Type, cause error, format string, args ...interface{}) *Error {
	e := errorf(kind, t, format, args...)
	e.Err = cause
	return e
}
