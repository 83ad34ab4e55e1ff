package eval

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"scopejs/lexer"
	"scopejs/scope"
	"scopejs/value"
)

// This file implements error formatting and reporting mechanisms.
// The protocol around adding errors is:
//
//   1. Every time we call a function, we do ctx.pushFunc(...), and
//      returning from it does a ctx.popFunc().
//
//   2. Whenever an operation fails, the error is turned into an
//      *Exception and the location is added to its trace with
//      ctx.throw(err, tok); the context of the entry is taken from
//      the function we're currently in.
//
//   3. Errors coming back out of a call get the location of the call
//      site added as well, so the trace reads innermost first.

// callStackEntry contains partial information about the function call;
// only including the filename and the string.
type callStackEntry interface {
	Filename() string
	Context() string
}

type programCse struct{ filename string }

func (p programCse) Filename() string { return p.filename }
func (p programCse) Context() string  { return "[Program]" }

type functionCse struct{ fn *Function }

func (f functionCse) Filename() string { return f.fn.filename }
func (f functionCse) Context() string  { return f.fn.String() }

type builtinCse struct{ name string }

func (b builtinCse) Filename() string { return "[builtin]" }
func (b builtinCse) Context() string  { return "[Builtin " + b.name + "]" }

type TraceEntry struct {
	Filename string
	Line     int
	Column   int
	Context  string // e.g. [Program] or [Function f]
}

func (t TraceEntry) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", t.Filename, t.Line, t.Column, t.Context)
}

// Exception is a thrown script value travelling up the Go call stack.
type Exception struct {
	Value value.Value
	Trace []TraceEntry
	cause error
}

func (e *Exception) Error() string { return value.ToString(e.Value) }

// Unwrap returns the Go error the exception was made from, if any.
func (e *Exception) Unwrap() error { return e.cause }

// String renders the exception with its trace, one frame per line.
func (e *Exception) String() string {
	var buf bytes.Buffer
	buf.WriteString("Uncaught ")
	buf.WriteString(e.Error())
	for _, entry := range e.Trace {
		buf.WriteString("\n  at ")
		buf.WriteString(entry.String())
	}
	return buf.String()
}

// exception converts err into an *Exception, creating a script error
// object for errors raised by Go code.
func (ctx *Context) exception(err error) *Exception {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc
	}
	var se *scope.Error
	var re *rangeError
	switch {
	case errors.As(err, &se):
		exc = &Exception{Value: ctx.newErrorObject(se.Kind.String(), se.Message)}
	case errors.As(err, &re):
		exc = &Exception{Value: ctx.newErrorObject("RangeError", re.msg)}
	case errors.Cause(err) == value.ErrNotCallable:
		exc = &Exception{Value: ctx.newErrorObject("TypeError", err.Error())}
	default:
		exc = &Exception{Value: ctx.newErrorObject("Error", err.Error())}
	}
	exc.cause = err
	return exc
}

// throw converts err and records the location of tok in its trace.
func (ctx *Context) throw(err error, tok lexer.Token) error {
	exc := ctx.exception(err)
	cse := ctx.stack[len(ctx.stack)-1]
	exc.Trace = append(exc.Trace, TraceEntry{
		Filename: cse.Filename(),
		Line:     tok.Line,
		Column:   tok.Column,
		Context:  cse.Context(),
	})
	return exc
}

func (ctx *Context) throwValue(v value.Value, tok lexer.Token) error {
	return ctx.throw(&Exception{Value: v}, tok)
}

// newErrorObject creates an error object whose prototype carries the
// given name.
func (ctx *Context) newErrorObject(name, msg string) *value.Object {
	proto, ok := ctx.protos.errors[name]
	if !ok {
		proto = ctx.protos.errors["Error"]
	}
	obj := value.NewObject(proto)
	obj.SetClass("Error")
	obj.DefineOwnProperty("message", value.String(msg), value.Attributes{Writable: true, Configurable: true})
	return obj
}

func newRangeError(format string, args ...interface{}) error {
	return &rangeError{fmt.Sprintf(format, args...)}
}

// rangeError is raised by the interpreter itself, e.g. on runaway
// recursion.
type rangeError struct{ msg string }

func (e *rangeError) Error() string { return "RangeError: " + e.msg }
