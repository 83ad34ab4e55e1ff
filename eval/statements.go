package eval

import (
	"fmt"

	"scopejs/lexer"
	"scopejs/parser"
	"scopejs/scope"
	"scopejs/value"
)

type completionType uint8

const (
	normalCompletion completionType = iota
	breakCompletion
	continueCompletion
	returnCompletion
)

// completion is the result of executing a statement. value is nil
// when the statement produced no value.
type completion struct {
	typ   completionType
	value value.Value
}

var empty = completion{}

func (ctx *Context) execStmt(node parser.Stmt) (completion, error) {
	switch node := node.(type) {
	case *parser.VarDecl:
		return empty, ctx.execVarDecl(node)
	case *parser.FunctionDecl:
		// instantiated when the enclosing scope was entered.
		return empty, nil
	case *parser.Block:
		return ctx.execBlock(node)
	case *parser.For:
		return ctx.execFor(node)
	case *parser.While:
		return ctx.execWhile(node)
	case *parser.If:
		return ctx.execIf(node)
	case *parser.ExprStmt:
		v, err := ctx.evalExpr(node.Expr)
		return completion{value: v}, err
	case *parser.Break:
		return completion{typ: breakCompletion}, nil
	case *parser.Continue:
		return completion{typ: continueCompletion}, nil
	case *parser.Return:
		return ctx.execReturn(node)
	case *parser.With:
		return ctx.execWith(node)
	case *parser.Throw:
		v, err := ctx.evalExpr(node.Value)
		if err != nil {
			return empty, err
		}
		return empty, ctx.throwValue(v, node.Tok())
	case *parser.Try:
		return ctx.execTry(node)
	case *parser.Empty:
		return empty, nil
	}
	panic(fmt.Sprintf("unhandled node %#+v", node))
}

// execStmts runs a statement list, stopping at the first abrupt
// completion.
func (ctx *Context) execStmts(stmts []parser.Stmt) (completion, error) {
	var last value.Value
	for _, stmt := range stmts {
		c, err := ctx.execStmt(stmt)
		if err != nil {
			return empty, err
		}
		if c.typ == returnCompletion {
			return c, nil
		}
		if c.value != nil {
			last = c.value
		}
		if c.typ != normalCompletion {
			return completion{c.typ, last}, nil
		}
	}
	return completion{value: last}, nil
}

func (ctx *Context) execVarDecl(node *parser.VarDecl) error {
	for _, d := range node.Decls {
		if node.Kind == lexer.VAR {
			if d.Init == nil {
				continue
			}
			// the name may resolve to a with object rather than to the
			// variable environment.
			ref := scope.ResolveIdentifier(ctx.lexEnv, d.Name.Name, ctx.strictMode)
			v, err := ctx.evalExpr(d.Init)
			if err != nil {
				ref.Free()
				return err
			}
			err = ctx.putValue(ref, v)
			ref.Free()
			if err != nil {
				return ctx.throw(err, d.Name.Tok())
			}
			continue
		}
		v := value.UNDEFINED
		if d.Init != nil {
			var err error
			if v, err = ctx.evalExpr(d.Init); err != nil {
				return err
			}
		}
		if err := ctx.lexEnv.Record().InitializeBinding(d.Name.Name, v); err != nil {
			return ctx.throw(err, d.Name.Tok())
		}
	}
	return nil
}

func (ctx *Context) execBlock(node *parser.Block) (completion, error) {
	if !hasLexicalDeclarations(node.Body) {
		return ctx.execStmts(node.Body)
	}
	outer := ctx.lexEnv
	env := ctx.newDeclarativeEnv(outer)
	ctx.lexEnv = env
	defer func() {
		ctx.lexEnv = outer
		env.Release()
	}()
	if err := ctx.instantiateBlock(node.Body, env); err != nil {
		return empty, ctx.throw(err, node.Tok())
	}
	return ctx.execStmts(node.Body)
}

func (ctx *Context) execIf(node *parser.If) (completion, error) {
	cond, err := ctx.evalExpr(node.Cond)
	if err != nil {
		return empty, err
	}
	if value.ToBoolean(cond) {
		return ctx.execStmt(node.Then)
	}
	if node.Else != nil {
		return ctx.execStmt(node.Else)
	}
	return empty, nil
}

func (ctx *Context) execWhile(node *parser.While) (completion, error) {
	var last value.Value
	for {
		cond, err := ctx.evalExpr(node.Cond)
		if err != nil {
			return empty, err
		}
		if !value.ToBoolean(cond) {
			break
		}
		c, err := ctx.execStmt(node.Body)
		if err != nil {
			return empty, err
		}
		if c.value != nil {
			last = c.value
		}
		if c.typ == breakCompletion {
			break
		}
		if c.typ == returnCompletion {
			return c, nil
		}
	}
	return completion{value: last}, nil
}

func (ctx *Context) execFor(node *parser.For) (completion, error) {
	decl, lexical := node.Init.(*parser.VarDecl)
	lexical = lexical && decl.IsLexical()
	if lexical {
		// let and const in the loop head live in their own environment,
		// copied afresh for every iteration so that closures see the
		// value of their own iteration.
		outer := ctx.lexEnv
		env := ctx.newDeclarativeEnv(outer)
		if err := declareLexical(env.Record(), decl); err != nil {
			env.Release()
			return empty, ctx.throw(err, decl.Tok())
		}
		ctx.lexEnv = env
		defer func() {
			ctx.lexEnv.Release()
			ctx.lexEnv = outer
		}()
	}
	if node.Init != nil {
		if _, err := ctx.execStmt(node.Init); err != nil {
			return empty, err
		}
	}
	if lexical {
		if err := ctx.nextIteration(decl); err != nil {
			return empty, ctx.throw(err, decl.Tok())
		}
	}
	var last value.Value
	for {
		if node.Cond != nil {
			cond, err := ctx.evalExpr(node.Cond)
			if err != nil {
				return empty, err
			}
			if !value.ToBoolean(cond) {
				break
			}
		}
		c, err := ctx.execStmt(node.Body)
		if err != nil {
			return empty, err
		}
		if c.value != nil {
			last = c.value
		}
		if c.typ == breakCompletion {
			break
		}
		if c.typ == returnCompletion {
			return c, nil
		}
		if lexical {
			if err := ctx.nextIteration(decl); err != nil {
				return empty, ctx.throw(err, decl.Tok())
			}
		}
		if node.Update != nil {
			if _, err := ctx.evalExpr(node.Update); err != nil {
				return empty, err
			}
		}
	}
	return completion{value: last}, nil
}

// nextIteration replaces the current loop environment with a copy
// holding the same values.
func (ctx *Context) nextIteration(decl *parser.VarDecl) error {
	last := ctx.lexEnv
	next := ctx.newDeclarativeEnv(last.Outer())
	if err := declareLexical(next.Record(), decl); err != nil {
		next.Release()
		return err
	}
	for _, d := range decl.Decls {
		v, err := last.Record().GetBindingValue(d.Name.Name, true)
		if err == nil {
			err = next.Record().InitializeBinding(d.Name.Name, v)
		}
		if err != nil {
			next.Release()
			return err
		}
	}
	ctx.lexEnv = next
	last.Release()
	return nil
}

func (ctx *Context) execReturn(node *parser.Return) (completion, error) {
	if node.Value == nil {
		return completion{returnCompletion, value.UNDEFINED}, nil
	}
	v, err := ctx.evalExpr(node.Value)
	if err != nil {
		return empty, err
	}
	return completion{returnCompletion, v}, nil
}

func (ctx *Context) execWith(node *parser.With) (completion, error) {
	v, err := ctx.evalExpr(node.Object)
	if err != nil {
		return empty, err
	}
	obj, err := ctx.toObject(v)
	if err != nil {
		return empty, ctx.throw(err, node.Object.Tok())
	}
	outer := ctx.lexEnv
	env := ctx.tracker.Track(scope.NewObjectEnvironment(obj, outer, true))
	ctx.lexEnv = env
	defer func() {
		ctx.lexEnv = outer
		env.Release()
	}()
	return ctx.execStmt(node.Body)
}

func (ctx *Context) execTry(node *parser.Try) (completion, error) {
	c, err := ctx.execBlock(node.Block)
	if err == nil {
		return c, nil
	}
	exc := ctx.exception(err)
	ctx.log.WithField("exception", exc.Error()).Debug("caught")

	outer := ctx.lexEnv
	env := ctx.newDeclarativeEnv(outer)
	ctx.lexEnv = env
	defer func() {
		ctx.lexEnv = outer
		env.Release()
	}()
	rec := env.Record()
	if err := rec.CreateMutableBinding(node.Param.Name, false); err != nil {
		return empty, ctx.throw(err, node.Param.Tok())
	}
	if err := rec.InitializeBinding(node.Param.Name, exc.Value); err != nil {
		return empty, ctx.throw(err, node.Param.Tok())
	}
	return ctx.execBlock(node.Handler)
}
