package eval

import (
	"strconv"
	"unicode/utf16"

	"github.com/sirupsen/logrus"

	"scopejs/parser"
	"scopejs/scope"
	"scopejs/value"
)

// reference evaluates an identifier or member expression to a
// Reference; any other expression yields nil. The caller must free a
// non-nil result.
func (ctx *Context) reference(node parser.Expr) (*scope.Reference, error) {
	switch node := node.(type) {
	case *parser.Identifier:
		ref := scope.ResolveIdentifier(ctx.lexEnv, node.Name, ctx.strictMode)
		ctx.logReference(ref)
		return ref, nil
	case *parser.Member:
		base, err := ctx.evalExpr(node.Object)
		if err != nil {
			return nil, err
		}
		name := node.Name
		if node.Computed {
			prop, err := ctx.evalExpr(node.Property)
			if err != nil {
				return nil, err
			}
			name = value.ToString(prop)
		}
		ref := scope.MakeReference(base, name, ctx.strictMode)
		ctx.logReference(ref)
		return ref, nil
	}
	return nil, nil
}

// getValue reads through a reference.
func (ctx *Context) getValue(ref *scope.Reference) (value.Value, error) {
	switch ref.Kind() {
	case scope.Unresolvable:
		return nil, scope.NewReferenceError("%s is not defined", ref.Name())
	case scope.EnvironmentBase:
		return ref.Environment().Record().GetBindingValue(ref.Name(), ref.Strict())
	}
	base, _ := ref.BaseValue()
	switch base := base.(type) {
	case *value.Object:
		return base.Get(ref.Name()), nil
	case value.Undef, value.Null:
		return nil, scope.NewTypeError("Cannot read property '%s' of %s", ref.Name(), value.ToString(base))
	}
	return primitiveGet(base, ref.Name()), nil
}

// putValue writes through a reference.
func (ctx *Context) putValue(ref *scope.Reference, v value.Value) error {
	switch ref.Kind() {
	case scope.Unresolvable:
		if ref.Strict() {
			return scope.NewReferenceError("%s is not defined", ref.Name())
		}
		ctx.log.WithField("name", ref.Name()).Debug("implicit global")
		ctx.global.Put(ref.Name(), v)
		return nil
	case scope.EnvironmentBase:
		return ref.Environment().Record().SetBindingValue(ref.Name(), v, ref.Strict())
	}
	base, _ := ref.BaseValue()
	switch base := base.(type) {
	case *value.Object:
		if !base.Put(ref.Name(), v) && ref.Strict() {
			return scope.NewTypeError("Cannot assign to read only property '%s' of object", ref.Name())
		}
		return nil
	case value.Undef, value.Null:
		return scope.NewTypeError("Cannot set property '%s' of %s", ref.Name(), value.ToString(base))
	}
	if ref.Strict() {
		return scope.NewTypeError("Cannot create property '%s' on %s '%s'",
			ref.Name(), value.TypeOf(base), value.ToString(base))
	}
	return nil
}

// deleteValue implements the delete operator on a reference.
func (ctx *Context) deleteValue(ref *scope.Reference) (bool, error) {
	switch ref.Kind() {
	case scope.Unresolvable:
		return true, nil
	case scope.EnvironmentBase:
		return ref.Environment().Record().DeleteBinding(ref.Name()), nil
	}
	base, _ := ref.BaseValue()
	switch base := base.(type) {
	case *value.Object:
		if !base.Delete(ref.Name()) {
			if ref.Strict() {
				return false, scope.NewTypeError("Cannot delete property '%s' of %s", ref.Name(), value.ToString(base))
			}
			return false, nil
		}
		return true, nil
	case value.Undef, value.Null:
		return false, scope.NewTypeError("Cannot convert undefined or null to object")
	}
	return true, nil
}

// typeofValue implements typeof; unresolvable names are "undefined"
// rather than an error.
func (ctx *Context) typeofValue(ref *scope.Reference) (value.Value, error) {
	if ref.IsUnresolvable() {
		return value.String("undefined"), nil
	}
	v, err := ctx.getValue(ref)
	if err != nil {
		return nil, err
	}
	return value.String(value.TypeOf(v)), nil
}

// thisValue is the this of a call made through ref.
func thisValue(ref *scope.Reference) value.Value {
	switch ref.Kind() {
	case scope.EnvironmentBase:
		return ref.Environment().Record().ImplicitThisValue()
	case scope.ValueBase:
		base, _ := ref.BaseValue()
		return base
	}
	return value.UNDEFINED
}

func (ctx *Context) logReference(ref *scope.Reference) {
	if ctx.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		ctx.log.WithField("ref", ref.String()).Trace("reference")
	}
}

// primitiveGet reads a property of a primitive base. Only strings have
// properties: their length and one-character index properties.
func primitiveGet(base value.Value, name string) value.Value {
	s, ok := base.(value.String)
	if !ok {
		return value.UNDEFINED
	}
	units := utf16.Encode([]rune(string(s)))
	if name == "length" {
		return value.Number(len(units))
	}
	if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(units) && strconv.Itoa(i) == name {
		return value.String(string(utf16.Decode(units[i : i+1])))
	}
	return value.UNDEFINED
}
