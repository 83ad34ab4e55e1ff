package eval

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"scopejs/lexer"
	"scopejs/parser"
	"scopejs/scope"
	"scopejs/value"
)

// Function is a closure: a function literal plus the environment it was
// created in. The closure owns one share of that environment.
type Function struct {
	ctx      *Context
	node     *parser.FunctionLit
	env      *scope.Environment
	filename string
}

func (fn *Function) Call(this value.Value, args []value.Value) (value.Value, error) {
	return fn.ctx.callFunction(fn, this, args)
}

func (fn *Function) String() string {
	if name := fn.node.DisplayName(); name != "" {
		return "[Function " + name + "]"
	}
	return "[Function (anonymous)]"
}

// newFunction creates a function object closing over env.
func (ctx *Context) newFunction(node *parser.FunctionLit, env *scope.Environment) *value.Object {
	fn := &Function{
		ctx:      ctx,
		node:     node,
		env:      env.Retain(),
		filename: ctx.stack[len(ctx.stack)-1].Filename(),
	}
	obj := value.NewFunctionObject(ctx.protos.function, node.DisplayName(), fn)
	obj.DefineOwnProperty("length", value.Number(len(node.Params)), value.Attributes{Configurable: true})
	return obj
}

// functionExpr evaluates a function literal. A named function expression
// can refer to itself through an immutable binding that sits between the
// function and the surrounding scope.
func (ctx *Context) functionExpr(node *parser.FunctionLit) (value.Value, error) {
	if node.Name == nil {
		return ctx.newFunction(node, ctx.lexEnv), nil
	}
	env := ctx.newDeclarativeEnv(ctx.lexEnv)
	defer env.Release()
	rec := env.Record()
	if err := rec.CreateImmutableBinding(node.Name.Name); err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	obj := ctx.newFunction(node, env)
	if err := rec.InitializeBinding(node.Name.Name, obj); err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	return obj, nil
}

func (ctx *Context) callFunction(fn *Function, this value.Value, args []value.Value) (value.Value, error) {
	env := ctx.newDeclarativeEnv(fn.env)
	saved := ctx.save()
	ctx.lexEnv, ctx.varEnv = env, env
	ctx.strictMode = fn.node.Strict
	if !ctx.strictMode && value.IsNullish(this) {
		this = ctx.global
	}
	ctx.this = this
	ctx.pushFunc(functionCse{fn})
	defer func() {
		ctx.popFunc()
		ctx.restore(saved)
		env.Release()
	}()
	ctx.log.WithFields(logrus.Fields{
		"function": fn.String(),
		"args":     len(args),
		"depth":    len(ctx.stack),
	}).Debug("call")

	rec := env.Record()
	for i, param := range fn.node.Params {
		v := value.UNDEFINED
		if i < len(args) {
			v = args[i]
		}
		// with duplicate parameters the last one wins.
		if rec.HasBinding(param.Name) {
			if err := rec.SetBindingValue(param.Name, v, false); err != nil {
				return nil, ctx.throw(err, param.Tok())
			}
			continue
		}
		if err := rec.CreateMutableBinding(param.Name, false); err != nil {
			return nil, ctx.throw(err, param.Tok())
		}
		if err := rec.InitializeBinding(param.Name, v); err != nil {
			return nil, ctx.throw(err, param.Tok())
		}
	}
	if err := ctx.instantiateDeclarations(fn.node.Body, env, env); err != nil {
		return nil, ctx.throw(err, fn.node.Tok())
	}
	c, err := ctx.execStmts(fn.node.Body)
	if err != nil {
		return nil, err
	}
	if c.typ == returnCompletion {
		return c.value, nil
	}
	return value.UNDEFINED, nil
}

// call invokes callee, which has to be a callable object.
func (ctx *Context) call(callee value.Value, this value.Value, args []value.Value) (value.Value, error) {
	obj, ok := callee.(*value.Object)
	if !ok || !obj.IsCallable() {
		return nil, errors.Wrapf(value.ErrNotCallable, "%s", value.Inspect(callee))
	}
	if len(ctx.stack) >= maxCallDepth {
		return nil, newRangeError("Maximum call stack size exceeded")
	}
	return obj.Call(this, args)
}

// native adapts a Go function to a callable script value.
type native struct {
	ctx  *Context
	name string
	fn   value.NativeFunc
}

func (n *native) Call(this value.Value, args []value.Value) (value.Value, error) {
	n.ctx.pushFunc(builtinCse{n.name})
	defer n.ctx.popFunc()
	return n.fn(this, args)
}

func (ctx *Context) newNative(name string, fn value.NativeFunc) *value.Object {
	return value.NewFunctionObject(ctx.protos.function, name, &native{ctx, name, fn})
}

// =================
// Declaration setup
// =================

// instantiateDeclarations creates the bindings of a program or function
// body before it runs: functions and vars go into varEnv, let and const
// into lexEnv where they stay uninitialised until their declaration runs.
func (ctx *Context) instantiateDeclarations(stmts []parser.Stmt, varEnv, lexEnv *scope.Environment) error {
	vars := varEnv.Record()
	for _, stmt := range stmts {
		decl, ok := stmt.(*parser.FunctionDecl)
		if !ok {
			continue
		}
		name := decl.Func.Name.Name
		fo := ctx.newFunction(decl.Func, lexEnv)
		if vars.HasBinding(name) {
			if err := vars.SetBindingValue(name, fo, true); err != nil {
				return err
			}
			continue
		}
		if err := vars.CreateMutableBinding(name, false); err != nil {
			return err
		}
		if err := vars.InitializeBinding(name, fo); err != nil {
			return err
		}
	}
	for _, name := range varNames(stmts, nil) {
		if vars.HasBinding(name) {
			continue
		}
		if err := vars.CreateMutableBinding(name, false); err != nil {
			return err
		}
		if err := vars.InitializeBinding(name, value.UNDEFINED); err != nil {
			return err
		}
	}
	for _, stmt := range stmts {
		if decl, ok := stmt.(*parser.VarDecl); ok && decl.IsLexical() {
			if err := declareLexical(lexEnv.Record(), decl); err != nil {
				return err
			}
		}
	}
	return nil
}

// instantiateBlock creates the let, const and function bindings of a
// block. Functions in blocks are initialised on entry and behave like let.
func (ctx *Context) instantiateBlock(stmts []parser.Stmt, env *scope.Environment) error {
	rec := env.Record()
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *parser.VarDecl:
			if stmt.IsLexical() {
				if err := declareLexical(rec, stmt); err != nil {
					return err
				}
			}
		case *parser.FunctionDecl:
			name := stmt.Func.Name.Name
			if err := rec.CreateMutableBinding(name, false); err != nil {
				return err
			}
			if err := rec.InitializeBinding(name, ctx.newFunction(stmt.Func, env)); err != nil {
				return err
			}
		}
	}
	return nil
}

func declareLexical(rec scope.Record, decl *parser.VarDecl) error {
	for _, d := range decl.Decls {
		var err error
		if decl.Kind == lexer.CONST {
			err = rec.CreateImmutableBinding(d.Name.Name)
		} else {
			err = rec.CreateMutableBinding(d.Name.Name, false)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func hasLexicalDeclarations(stmts []parser.Stmt) bool {
	for _, stmt := range stmts {
		switch stmt := stmt.(type) {
		case *parser.VarDecl:
			if stmt.IsLexical() {
				return true
			}
		case *parser.FunctionDecl:
			return true
		}
	}
	return false
}

// varNames collects the names declared with var anywhere in stmts,
// without descending into nested functions.
func varNames(stmts []parser.Stmt, names []string) []string {
	for _, stmt := range stmts {
		names = stmtVarNames(stmt, names)
	}
	return names
}

func stmtVarNames(stmt parser.Stmt, names []string) []string {
	switch stmt := stmt.(type) {
	case *parser.VarDecl:
		if !stmt.IsLexical() {
			for _, d := range stmt.Decls {
				names = append(names, d.Name.Name)
			}
		}
	case *parser.Block:
		names = varNames(stmt.Body, names)
	case *parser.If:
		names = stmtVarNames(stmt.Then, names)
		if stmt.Else != nil {
			names = stmtVarNames(stmt.Else, names)
		}
	case *parser.While:
		names = stmtVarNames(stmt.Body, names)
	case *parser.For:
		if stmt.Init != nil {
			names = stmtVarNames(stmt.Init, names)
		}
		names = stmtVarNames(stmt.Body, names)
	case *parser.With:
		names = stmtVarNames(stmt.Body, names)
	case *parser.Try:
		names = varNames(stmt.Block.Body, names)
		names = varNames(stmt.Handler.Body, names)
	}
	return names
}
