package eval

import (
	"fmt"

	"scopejs/lexer"
	"scopejs/parser"
	"scopejs/scope"
	"scopejs/value"
)

// evalExpr evaluates an expression to a value. Errors returned from here
// are always *Exception with the location already recorded.
func (ctx *Context) evalExpr(node parser.Expr) (value.Value, error) {
	switch node := node.(type) {
	case *parser.Identifier:
		return ctx.evalIdentifier(node)
	case *parser.Literal:
		return literal(node.Value), nil
	case *parser.This:
		return ctx.this, nil
	case *parser.ObjectLit:
		return ctx.evalObjectLit(node)
	case *parser.FunctionLit:
		return ctx.functionExpr(node)
	case *parser.Unary:
		return ctx.evalUnary(node)
	case *parser.Update:
		return ctx.evalUpdate(node)
	case *parser.Binary:
		return ctx.evalBinary(node)
	case *parser.Logical:
		return ctx.evalLogical(node)
	case *parser.Assign:
		return ctx.evalAssign(node)
	case *parser.Member:
		return ctx.evalMember(node)
	case *parser.Call:
		return ctx.evalCall(node)
	}
	panic(fmt.Sprintf("unhandled node %#+v", node))
}

func literal(v interface{}) value.Value {
	switch v := v.(type) {
	case float64:
		return value.Number(v)
	case string:
		return value.String(v)
	case bool:
		return value.Boolean(v)
	}
	return value.NULL
}

func (ctx *Context) evalIdentifier(node *parser.Identifier) (value.Value, error) {
	ref, err := ctx.reference(node)
	if err != nil {
		return nil, err
	}
	defer ref.Free()
	v, err := ctx.getValue(ref)
	if err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	return v, nil
}

func (ctx *Context) evalMember(node *parser.Member) (value.Value, error) {
	ref, err := ctx.reference(node)
	if err != nil {
		return nil, err
	}
	defer ref.Free()
	v, err := ctx.getValue(ref)
	if err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	return v, nil
}

func (ctx *Context) evalObjectLit(node *parser.ObjectLit) (value.Value, error) {
	obj := value.NewObject(ctx.protos.object)
	for i, key := range node.Keys {
		v, err := ctx.evalExpr(node.Values[i])
		if err != nil {
			return nil, err
		}
		obj.Put(key, v)
	}
	return obj, nil
}

func (ctx *Context) evalUnary(node *parser.Unary) (value.Value, error) {
	switch node.Op {
	case lexer.TYPEOF:
		ref, err := ctx.reference(node.Right)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			v, err := ctx.evalExpr(node.Right)
			if err != nil {
				return nil, err
			}
			return value.String(value.TypeOf(v)), nil
		}
		defer ref.Free()
		v, err := ctx.typeofValue(ref)
		if err != nil {
			return nil, ctx.throw(err, node.Tok())
		}
		return v, nil
	case lexer.DELETE:
		ref, err := ctx.reference(node.Right)
		if err != nil {
			return nil, err
		}
		if ref == nil {
			if _, err := ctx.evalExpr(node.Right); err != nil {
				return nil, err
			}
			return value.TRUE, nil
		}
		defer ref.Free()
		ok, err := ctx.deleteValue(ref)
		if err != nil {
			return nil, ctx.throw(err, node.Tok())
		}
		return value.Boolean(ok), nil
	}
	v, err := ctx.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case lexer.BANG:
		return value.Boolean(!value.ToBoolean(v)), nil
	case lexer.MINUS:
		return -value.ToNumber(v), nil
	case lexer.PLUS:
		return value.ToNumber(v), nil
	}
	panic(fmt.Sprintf("unhandled unary operator %s", node.Op))
}

// evalUpdate implements ++ and --. The target is resolved once and read
// and written through the same reference.
func (ctx *Context) evalUpdate(node *parser.Update) (value.Value, error) {
	ref, err := ctx.reference(node.Target)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ctx.throw(scope.NewSyntaxError("Invalid left-hand side expression in %s operation", node.Op), node.Tok())
	}
	defer ref.Free()
	old, err := ctx.getValue(ref)
	if err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	n := value.ToNumber(old)
	next := n + 1
	if node.Op == lexer.MINUS_MINUS {
		next = n - 1
	}
	if err := ctx.putValue(ref, next); err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	if node.Prefix {
		return next, nil
	}
	return n, nil
}

func (ctx *Context) evalBinary(node *parser.Binary) (value.Value, error) {
	left, err := ctx.evalExpr(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := ctx.evalExpr(node.Right)
	if err != nil {
		return nil, err
	}
	return binaryOp(node.Op, left, right), nil
}

func (ctx *Context) evalLogical(node *parser.Logical) (value.Value, error) {
	left, err := ctx.evalExpr(node.Left)
	if err != nil {
		return nil, err
	}
	if value.ToBoolean(left) == (node.Op == lexer.OR) {
		return left, nil
	}
	return ctx.evalExpr(node.Right)
}

var compoundOps = map[lexer.TokenType]lexer.TokenType{
	lexer.PLUS_EQUAL:  lexer.PLUS,
	lexer.MINUS_EQUAL: lexer.MINUS,
}

// evalAssign resolves the target before evaluating the right hand side,
// so `x = (x = 1) + 1` writes to the binding x named at the start.
func (ctx *Context) evalAssign(node *parser.Assign) (value.Value, error) {
	ref, err := ctx.reference(node.Target)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ctx.throw(scope.NewSyntaxError("Invalid left-hand side in assignment"), node.Tok())
	}
	defer ref.Free()
	var v value.Value
	if op, ok := compoundOps[node.Op]; ok {
		old, err := ctx.getValue(ref)
		if err != nil {
			return nil, ctx.throw(err, node.Tok())
		}
		right, err := ctx.evalExpr(node.Value)
		if err != nil {
			return nil, err
		}
		v = binaryOp(op, old, right)
	} else {
		if v, err = ctx.evalExpr(node.Value); err != nil {
			return nil, err
		}
	}
	if err := ctx.putValue(ref, v); err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	return v, nil
}

func (ctx *Context) evalCall(node *parser.Call) (value.Value, error) {
	var callee, this value.Value
	ref, err := ctx.reference(node.Callee)
	if err != nil {
		return nil, err
	}
	if ref != nil {
		callee, err = ctx.getValue(ref)
		this = thisValue(ref)
		ref.Free()
		if err != nil {
			return nil, ctx.throw(err, node.Callee.Tok())
		}
	} else {
		if callee, err = ctx.evalExpr(node.Callee); err != nil {
			return nil, err
		}
		this = value.UNDEFINED
	}
	args := make([]value.Value, len(node.Args))
	for i, arg := range node.Args {
		if args[i], err = ctx.evalExpr(arg); err != nil {
			return nil, err
		}
	}
	if !value.IsCallable(callee) {
		return nil, ctx.throw(scope.NewTypeError("%s is not a function", node.Callee), node.Tok())
	}
	rv, err := ctx.call(callee, this, args)
	if err != nil {
		return nil, ctx.throw(err, node.Tok())
	}
	return rv, nil
}
