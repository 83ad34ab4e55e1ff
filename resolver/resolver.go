// Package resolver implements the static checks run before a program is
// evaluated: it detects "use strict" directive prologues and reports
// early errors (e.g. ensuring that continues and breaks are within a
// loop construct, or that a let is not declared twice in one block).
// Identifier resolution itself stays dynamic and happens at run time.
package resolver

import (
	"fmt"

	"github.com/pkg/errors"

	"scopejs/lexer"
	"scopejs/parser"
)

var TooManyErrors = errors.New("too many errors")

const maxErrors = 10

type ResolverError struct {
	Filename string
	Token    lexer.Token
	Message  string
}

func (re ResolverError) Error() string { return re.String() }
func (re ResolverError) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", re.Filename, re.Token.Line, re.Token.Column, re.Message)
}

type declKind uint8

const (
	declVar declKind = iota + 1
	declLexical
	declParam
)

// Scope maps each name declared in a block to how it was declared.
// Var declarations are recorded in every scope they pass through on
// their way to the enclosing function scope.
type Scope struct {
	names    map[string]declKind
	function bool
}

func newScope(function bool) *Scope {
	return &Scope{names: map[string]declKind{}, function: function}
}

// Control flags -- whether we are in a loop, or a function.
const (
	LOOP = 1 << iota
	FUNC
)

type Resolver struct {
	filename string
	scopes   []*Scope
	Errors   []error
	ctrl     uint8
	strict   bool // strictness of the code being walked
	global   bool // strictness requested by the host
}

// New returns a resolver whose global scope persists across calls to
// Resolve, so that an interactive session sees earlier declarations.
func New(strict bool) *Resolver {
	r := &Resolver{
		scopes: []*Scope{newScope(true)}, // the global scope.
		Errors: []error{},
		global: strict,
	}
	return r
}

func (r *Resolver) curr() *Scope { return r.scopes[len(r.scopes)-1] }
func (r *Resolver) push(function bool) {
	r.scopes = append(r.scopes, newScope(function))
}
func (r *Resolver) pop() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) err(tok lexer.Token, msg string, args ...interface{}) {
	r.Errors = append(r.Errors, ResolverError{
		Filename: r.filename,
		Token:    tok,
		Message:  fmt.Sprintf(msg, args...),
	})
}

// Resolve checks the given program, marking it strict if needed.
// Errors are left in r.Errors; when there are any, declarations made
// by the program are forgotten.
func (r *Resolver) Resolve(program *parser.Program) {
	r.filename = program.Filename
	r.Errors = []error{}
	saved := make(map[string]declKind, len(r.scopes[0].names))
	for k, v := range r.scopes[0].names {
		saved[k] = v
	}

	program.Strict = r.global || hasUseStrict(program.Body)
	r.strict = program.Strict
	for _, stmt := range program.Body {
		r.resolve(stmt)
		if len(r.Errors) >= maxErrors {
			r.Errors = append(r.Errors, TooManyErrors)
			break
		}
	}
	if len(r.Errors) != 0 {
		r.scopes = r.scopes[:1]
		r.scopes[0].names = saved
		r.ctrl = 0
	}
	if len(r.scopes) != 1 || r.ctrl != 0 {
		panic("something gone wrong!")
	}
}

func (r *Resolver) resolve(node parser.Node) {
	switch node := node.(type) {
	// Statements
	case *parser.VarDecl:
		r.resolveVarDecl(node)
	case *parser.FunctionDecl:
		r.resolveFunctionDecl(node)
	case *parser.Block:
		r.resolveBlock(node)
	case *parser.For:
		r.resolveFor(node)
	case *parser.While:
		r.resolveWhile(node)
	case *parser.If:
		r.resolveIf(node)
	case *parser.ExprStmt:
		r.resolve(node.Expr)
	case *parser.Break:
		if r.ctrl&LOOP == 0 {
			r.err(node.Tok(), "break outside of loop")
		}
	case *parser.Continue:
		if r.ctrl&LOOP == 0 {
			r.err(node.Tok(), "continue outside of loop")
		}
	case *parser.Return:
		r.resolveReturn(node)
	case *parser.With:
		r.resolveWith(node)
	case *parser.Throw:
		r.resolve(node.Value)
	case *parser.Try:
		r.resolveTry(node)
	case *parser.Empty:
		return
	// Expressions
	case *parser.Binary:
		r.resolve(node.Left)
		r.resolve(node.Right)
	case *parser.Logical:
		r.resolve(node.Left)
		r.resolve(node.Right)
	case *parser.Assign:
		r.checkTarget(node.Target)
		r.resolve(node.Target)
		r.resolve(node.Value)
	case *parser.Update:
		r.checkTarget(node.Target)
		r.resolve(node.Target)
	case *parser.Unary:
		r.resolveUnary(node)
	case *parser.Member:
		r.resolve(node.Object)
		if node.Computed {
			r.resolve(node.Property)
		}
	case *parser.Call:
		r.resolve(node.Callee)
		for _, arg := range node.Args {
			r.resolve(arg)
		}
	case *parser.ObjectLit:
		for _, v := range node.Values {
			r.resolve(v)
		}
	case *parser.FunctionLit:
		r.resolveFunction(node)
	case *parser.Identifier, *parser.Literal, *parser.This:
		return
	default:
		panic(fmt.Sprintf("unhandled node: %#+v", node))
	}
}

// ==========
// Statements
// ==========

func (r *Resolver) resolveVarDecl(node *parser.VarDecl) {
	for _, d := range node.Decls {
		if d.Init != nil {
			r.resolve(d.Init)
		}
		r.checkName(d.Name)
		if node.IsLexical() {
			r.declareLexical(d.Name)
		} else {
			r.declareVar(d.Name)
		}
	}
}

func (r *Resolver) resolveFunctionDecl(node *parser.FunctionDecl) {
	// function declarations are var-like at the top level of a
	// function or program, and block scoped anywhere else.
	if r.curr().function {
		r.declareVar(node.Func.Name)
	} else {
		r.declareLexical(node.Func.Name)
	}
	r.resolveFunction(node.Func)
}

func (r *Resolver) resolveBlock(node *parser.Block) {
	r.push(false)
	for _, x := range node.Body {
		r.resolve(x)
	}
	r.pop()
}

func (r *Resolver) resolveFor(node *parser.For) {
	// the loop head gets its own scope for let/const.
	r.push(false)
	if node.Init != nil {
		r.resolve(node.Init)
	}
	if node.Cond != nil {
		r.resolve(node.Cond)
	}
	if node.Update != nil {
		r.resolve(node.Update)
	}
	r.loop(node.Body)
	r.pop()
}

func (r *Resolver) resolveWhile(node *parser.While) {
	r.resolve(node.Cond)
	r.loop(node.Body)
}

func (r *Resolver) loop(body parser.Stmt) {
	ctrl := r.ctrl
	r.ctrl |= LOOP
	r.resolve(body)
	r.ctrl = ctrl
}

func (r *Resolver) resolveIf(node *parser.If) {
	r.resolve(node.Cond)
	r.resolve(node.Then)
	if node.Else != nil {
		r.resolve(node.Else)
	}
}

func (r *Resolver) resolveReturn(node *parser.Return) {
	if r.ctrl&FUNC == 0 {
		r.err(node.Tok(), "return outside of function")
	}
	if node.Value != nil {
		r.resolve(node.Value)
	}
}

func (r *Resolver) resolveWith(node *parser.With) {
	if r.strict {
		r.err(node.Tok(), "strict mode code may not include a with statement")
	}
	r.resolve(node.Object)
	r.resolve(node.Body)
}

func (r *Resolver) resolveTry(node *parser.Try) {
	r.resolveBlock(node.Block)
	// the catch parameter and the handler body share one scope.
	r.push(false)
	r.checkName(node.Param)
	r.curr().names[node.Param.Name] = declParam
	for _, x := range node.Handler.Body {
		r.resolve(x)
	}
	r.pop()
}

// ===========
// Expressions
// ===========

func (r *Resolver) resolveUnary(node *parser.Unary) {
	if node.Op == lexer.DELETE && r.strict {
		if _, ok := node.Right.(*parser.Identifier); ok {
			r.err(node.Tok(), "delete of an unqualified identifier in strict mode")
		}
	}
	r.resolve(node.Right)
}

func (r *Resolver) resolveFunction(node *parser.FunctionLit) {
	strict := r.strict
	node.Strict = strict || hasUseStrict(node.Body)
	r.strict = node.Strict
	if node.Name != nil {
		r.checkName(node.Name)
	}

	// Functions -- we first push a new scope containing all of the
	// parameters, and then we resolve the body in that same scope.
	ctrl := r.ctrl
	r.ctrl = FUNC
	r.push(true)
	scope := r.curr()
	for _, param := range node.Params {
		r.checkName(param)
		if _, ok := scope.names[param.Name]; ok && r.strict {
			r.err(param.Tok(), "duplicate parameter name %q not allowed in strict mode", param.Name)
		}
		scope.names[param.Name] = declParam
	}
	for _, stmt := range node.Body {
		r.resolve(stmt)
	}
	r.pop()
	r.ctrl = ctrl
	r.strict = strict
}

// ============
// Declarations
// ============

func (r *Resolver) declareVar(name *parser.Identifier) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		scope := r.scopes[i]
		switch scope.names[name.Name] {
		case declLexical:
			r.err(name.Tok(), "identifier %q has already been declared", name.Name)
			return
		case 0:
			scope.names[name.Name] = declVar
		}
		if scope.function {
			return
		}
	}
}

func (r *Resolver) declareLexical(name *parser.Identifier) {
	scope := r.curr()
	if _, ok := scope.names[name.Name]; ok {
		r.err(name.Tok(), "identifier %q has already been declared", name.Name)
		return
	}
	scope.names[name.Name] = declLexical
}

// checkName rejects binding eval or arguments in strict code.
func (r *Resolver) checkName(name *parser.Identifier) {
	if r.strict && isRestricted(name.Name) {
		r.err(name.Tok(), "unexpected %s in strict mode", name.Name)
	}
}

func (r *Resolver) checkTarget(target parser.Expr) {
	if id, ok := target.(*parser.Identifier); ok && r.strict && isRestricted(id.Name) {
		r.err(id.Tok(), "unexpected %s in strict mode", id.Name)
	}
}

// =========
// Utilities
// =========

func isRestricted(name string) bool { return name == "eval" || name == "arguments" }

// hasUseStrict scans the directive prologue -- the leading string
// literal statements -- for an unescaped "use strict".
func hasUseStrict(body []parser.Stmt) bool {
	for _, stmt := range body {
		expr, ok := stmt.(*parser.ExprStmt)
		if !ok {
			return false
		}
		lit, ok := expr.Expr.(*parser.Literal)
		if !ok {
			return false
		}
		if _, ok := lit.Value.(string); !ok {
			return false
		}
		if lexeme := lit.Tok().Lexeme; lexeme == `"use strict"` || lexeme == `'use strict'` {
			return true
		}
	}
	return false
}
