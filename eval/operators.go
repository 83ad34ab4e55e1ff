package eval

import (
	"fmt"
	"math"

	"scopejs/lexer"
	"scopejs/value"
)

// toPrimitive converts objects to their string form; the object model
// has no valueOf.
func toPrimitive(v value.Value) value.Value {
	if obj, ok := v.(*value.Object); ok {
		return value.String(value.ToString(obj))
	}
	return v
}

func binaryOp(op lexer.TokenType, left, right value.Value) value.Value {
	switch op {
	case lexer.PLUS:
		return add(left, right)
	case lexer.MINUS:
		return value.ToNumber(left) - value.ToNumber(right)
	case lexer.STAR:
		return value.ToNumber(left) * value.ToNumber(right)
	case lexer.SLASH:
		return value.ToNumber(left) / value.ToNumber(right)
	case lexer.PERCENT:
		return value.Number(math.Mod(float64(value.ToNumber(left)), float64(value.ToNumber(right))))
	case lexer.EQUAL_EQUAL:
		return value.Boolean(value.LooseEquals(left, right))
	case lexer.BANG_EQUAL:
		return value.Boolean(!value.LooseEquals(left, right))
	case lexer.EQUAL_EQUAL_EQUAL:
		return value.Boolean(value.StrictEquals(left, right))
	case lexer.BANG_EQUAL_EQUAL:
		return value.Boolean(!value.StrictEquals(left, right))
	case lexer.LESS, lexer.LESS_EQUAL, lexer.GREATER, lexer.GREATER_EQUAL:
		return value.Boolean(compare(op, left, right))
	}
	panic(fmt.Sprintf("unhandled binary operator %s", op))
}

// add concatenates when either operand is a string after conversion to
// a primitive, and adds numerically otherwise.
func add(left, right value.Value) value.Value {
	left, right = toPrimitive(left), toPrimitive(right)
	_, ls := left.(value.String)
	_, rs := right.(value.String)
	if ls || rs {
		return value.String(value.ToString(left) + value.ToString(right))
	}
	return value.ToNumber(left) + value.ToNumber(right)
}

// compare is false whenever either side converts to NaN.
func compare(op lexer.TokenType, left, right value.Value) bool {
	left, right = toPrimitive(left), toPrimitive(right)
	ls, lok := left.(value.String)
	rs, rok := right.(value.String)
	if lok && rok {
		switch op {
		case lexer.LESS:
			return ls < rs
		case lexer.LESS_EQUAL:
			return ls <= rs
		case lexer.GREATER:
			return ls > rs
		}
		return ls >= rs
	}
	l, r := float64(value.ToNumber(left)), float64(value.ToNumber(right))
	switch op {
	case lexer.LESS:
		return l < r
	case lexer.LESS_EQUAL:
		return l <= r
	case lexer.GREATER:
		return l > r
	}
	return l >= r
}
