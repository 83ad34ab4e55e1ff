// Package eval is a tree-walking interpreter for parsed programs. Every
// identifier is resolved at run time through the scope package; the
// Context owns the global environments and the current execution state.
package eval

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"scopejs/lexer"
	"scopejs/parser"
	"scopejs/resolver"
	"scopejs/scope"
	"scopejs/value"
)

const maxCallDepth = 512

type Option func(*Context)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *logrus.Logger) Option {
	return func(ctx *Context) { ctx.log = logrus.NewEntry(logger) }
}

// WithStrict makes all code strict, as if it began with "use strict".
func WithStrict(strict bool) Option {
	return func(ctx *Context) { ctx.strict = strict }
}

// WithGlobals installs extra global properties, converted with value.FromGo.
func WithGlobals(globals map[string]interface{}) Option {
	return func(ctx *Context) { ctx.globals = globals }
}

// WithFilename sets the filename used by Run when none is given.
func WithFilename(fn string) Option {
	return func(ctx *Context) { ctx.filename = fn }
}

// WithOutput redirects print().
func WithOutput(w io.Writer) Option {
	return func(ctx *Context) { ctx.out = w }
}

type Context struct {
	filename string
	strict   bool
	log      *logrus.Entry
	out      io.Writer
	globals  map[string]interface{}
	res      *resolver.Resolver
	tracker  *scope.Tracker

	// the global object, and the two environments wrapping it: var and
	// function declarations become properties of the global object,
	// top level let and const live in the script environment.
	global    *value.Object
	globalEnv *scope.Environment
	scriptEnv *scope.Environment
	protos    prototypes

	// execution state; saved and restored around every call.
	lexEnv     *scope.Environment
	varEnv     *scope.Environment
	this       value.Value
	strictMode bool
	// stack contains the current call stack. we consult the call-stack to tell
	// us which function we're in, and augment that using an expression's token.
	stack []callStackEntry
}

type prototypes struct {
	object   *value.Object
	function *value.Object
	array    *value.Object
	errors   map[string]*value.Object
}

// frame is the part of the context that changes across calls.
type frame struct {
	lexEnv *scope.Environment
	varEnv *scope.Environment
	this   value.Value
	strict bool
}

func NewContext(opts ...Option) (*Context, error) {
	ctx := &Context{
		filename: "<input>",
		log:      logrus.NewEntry(logrus.StandardLogger()),
		out:      os.Stdout,
		stack:    make([]callStackEntry, 0, 8),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.res = resolver.New(ctx.strict)
	ctx.tracker = scope.NewTracker(func(env *scope.Environment) {
		ctx.log.WithField("depth", env.Depth()).Trace("environment released")
	})
	ctx.setupGlobals()
	ctx.globalEnv = ctx.tracker.Track(scope.NewObjectEnvironment(ctx.global, nil, false))
	ctx.scriptEnv = ctx.newDeclarativeEnv(ctx.globalEnv)
	ctx.lexEnv, ctx.varEnv, ctx.this = ctx.scriptEnv, ctx.globalEnv, ctx.global

	for _, name := range sortedKeys(ctx.globals) {
		v, err := value.FromGo(ctx.globals[name], ctx.protos.object)
		if err != nil {
			return nil, errors.Wrapf(err, "global %q", name)
		}
		ctx.DefineGlobal(name, v)
	}
	return ctx, nil
}

// ErrClosed is returned when evaluating in a context after Close.
var ErrClosed = errors.New("context closed")

// Close gives back the context's shares of the global environments.
// Functions created by earlier programs keep theirs.
func (ctx *Context) Close() {
	if ctx.scriptEnv != nil {
		ctx.scriptEnv.Release()
		ctx.globalEnv.Release()
		ctx.scriptEnv, ctx.globalEnv = nil, nil
	}
}

func (ctx *Context) Global() *value.Object { return ctx.global }
func (ctx *Context) Stats() scope.Stats    { return ctx.tracker.Stats() }
func (ctx *Context) Filename() string      { return ctx.filename }

// DefineGlobal installs v as a writable, enumerable global property.
func (ctx *Context) DefineGlobal(name string, v value.Value) {
	ctx.global.DefineOwnProperty(name, v, value.DefaultAttributes)
}

// DefineNative installs fn as a global function.
func (ctx *Context) DefineNative(name string, fn value.NativeFunc) *value.Object {
	obj := ctx.newNative(name, fn)
	ctx.global.DefineOwnProperty(name, obj, value.Attributes{Writable: true, Configurable: true})
	return obj
}

// ===========
// entry point
// ===========

// CompileErrors collects the lexer, parser or resolver errors of one
// source text.
type CompileErrors []error

func (ce CompileErrors) Error() string {
	msgs := make([]string, len(ce))
	for i, err := range ce {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Compile lexes, parses and checks source. Declarations of earlier
// programs compiled by the same context are taken into account.
func (ctx *Context) Compile(filename, source string) (*parser.Program, []error) {
	if filename == "" {
		filename = ctx.filename
	}
	l := lexer.New(filename, source)
	l.ScanTokens()
	if len(l.Errors) != 0 {
		return nil, l.ErrorList()
	}
	p := parser.New(filename, l.Tokens)
	program := p.Parse()
	if len(p.Errors) != 0 {
		return nil, p.ErrorList()
	}
	ctx.res.Resolve(program)
	if len(ctx.res.Errors) != 0 {
		return nil, ctx.res.Errors
	}
	return program, nil
}

// Run compiles and evaluates source in the global scope. The error is
// either CompileErrors or an *Exception.
func (ctx *Context) Run(filename, source string) (value.Value, error) {
	program, errs := ctx.Compile(filename, source)
	if len(errs) != 0 {
		return nil, CompileErrors(errs)
	}
	return ctx.Eval(program)
}

// Eval evaluates a compiled program and returns the value of the last
// statement that produced one.
func (ctx *Context) Eval(program *parser.Program) (value.Value, error) {
	if ctx.globalEnv == nil {
		return nil, ErrClosed
	}
	saved := ctx.save()
	ctx.lexEnv, ctx.varEnv, ctx.this = ctx.scriptEnv, ctx.globalEnv, ctx.global
	ctx.strictMode = program.Strict
	ctx.pushFunc(programCse{program.Filename})
	defer func() {
		ctx.popFunc()
		ctx.restore(saved)
	}()
	ctx.log.WithFields(logrus.Fields{
		"file":   program.Filename,
		"strict": program.Strict,
	}).Debug("evaluating program")

	if len(program.Body) == 0 {
		return value.UNDEFINED, nil
	}
	if err := ctx.instantiateDeclarations(program.Body, ctx.globalEnv, ctx.scriptEnv); err != nil {
		return nil, ctx.throw(err, program.Body[0].Tok())
	}
	c, err := ctx.execStmts(program.Body)
	if err != nil {
		ctx.log.WithError(err).Debug("uncaught exception")
		return nil, err
	}
	if c.value == nil {
		return value.UNDEFINED, nil
	}
	return c.value, nil
}

// =====
// utils
// =====

func (ctx *Context) newDeclarativeEnv(outer *scope.Environment) *scope.Environment {
	return ctx.tracker.Track(scope.NewDeclarativeEnvironment(outer))
}

func (ctx *Context) pushFunc(e callStackEntry) { ctx.stack = append(ctx.stack, e) }
func (ctx *Context) popFunc()                  { ctx.stack = ctx.stack[:len(ctx.stack)-1] }

func (ctx *Context) save() frame {
	return frame{ctx.lexEnv, ctx.varEnv, ctx.this, ctx.strictMode}
}

func (ctx *Context) restore(f frame) {
	ctx.lexEnv, ctx.varEnv, ctx.this, ctx.strictMode = f.lexEnv, f.varEnv, f.this, f.strict
}
