package scope

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies failures the way script code observes them.
type ErrorKind uint8

const (
	_ = ErrorKind(iota)
	ReferenceError
	TypeError
	SyntaxError
)

var errorKindNames = [...]string{
	ReferenceError: "ReferenceError",
	TypeError:      "TypeError",
	SyntaxError:    "SyntaxError",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) && errorKindNames[k] != "" {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a script-visible failure raised by environment records or by
// the consumers of a Reference.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Message }

func NewReferenceError(format string, args ...interface{}) *Error {
	return &Error{Kind: ReferenceError, Message: fmt.Sprintf(format, args...)}
}

func NewTypeError(format string, args ...interface{}) *Error {
	return &Error{Kind: TypeError, Message: fmt.Sprintf(format, args...)}
}

func NewSyntaxError(format string, args ...interface{}) *Error {
	return &Error{Kind: SyntaxError, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err, or any error it wraps, is a scope error of
// the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

func errNotDefined(name string) *Error {
	return NewReferenceError("%s is not defined", name)
}

func errUninitialized(name string) *Error {
	return NewReferenceError("Cannot access '%s' before initialization", name)
}
