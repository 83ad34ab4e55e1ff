package eval

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"scopejs/scope"
	"scopejs/value"
)

var errorKinds = []string{"TypeError", "ReferenceError", "SyntaxError", "RangeError"}

// setupGlobals creates the prototypes and the global object with its
// builtin properties.
func (ctx *Context) setupGlobals() {
	objectProto := value.NewObject(nil)
	functionProto := value.NewObject(objectProto)
	ctx.protos = prototypes{
		object:   objectProto,
		function: functionProto,
		array:    value.NewObject(objectProto),
		errors:   map[string]*value.Object{},
	}
	ctx.global = value.NewObject(objectProto)
	ctx.global.SetClass("global")

	readOnly := value.Attributes{}
	ctx.global.DefineOwnProperty("undefined", value.UNDEFINED, readOnly)
	ctx.global.DefineOwnProperty("NaN", value.NAN, readOnly)
	ctx.global.DefineOwnProperty("Infinity", value.Number(math.Inf(1)), readOnly)

	ctx.DefineNative("print", ctx.bi_print)
	ctx.setupObject()
	ctx.setupErrors()
}

// ==========
// Builtin functions
// ==========

// -----
// print
// -----
func (ctx *Context) bi_print(this value.Value, args []value.Value) (value.Value, error) {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = value.ToString(arg)
	}
	fmt.Fprintln(ctx.out, strings.Join(strs, " "))
	return value.UNDEFINED, nil
}

// ------
// Object
// ------
func (ctx *Context) setupObject() {
	object := ctx.DefineNative("Object", func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 || value.IsNullish(args[0]) {
			return value.NewObject(ctx.protos.object), nil
		}
		return ctx.toObject(args[0])
	})
	object.DefineOwnProperty("prototype", ctx.protos.object, value.Attributes{})
	method := func(name string, fn value.NativeFunc) {
		object.DefineOwnProperty(name, ctx.newNative(name, fn), value.Attributes{Writable: true, Configurable: true})
	}
	method("freeze", func(this value.Value, args []value.Value) (value.Value, error) {
		obj, err := objectArg("Object.freeze", args)
		if err != nil {
			return nil, err
		}
		obj.Freeze()
		return obj, nil
	})
	method("isFrozen", func(this value.Value, args []value.Value) (value.Value, error) {
		obj, err := objectArg("Object.isFrozen", args)
		if err != nil {
			return nil, err
		}
		return value.Boolean(obj.IsFrozen()), nil
	})
	method("keys", func(this value.Value, args []value.Value) (value.Value, error) {
		obj, err := objectArg("Object.keys", args)
		if err != nil {
			return nil, err
		}
		keys := obj.Keys()
		elems := make([]value.Value, len(keys))
		for i, k := range keys {
			elems[i] = value.String(k)
		}
		return value.NewArray(ctx.protos.array, elems), nil
	})
	method("create", func(this value.Value, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, scope.NewTypeError("Object prototype may only be an Object or null")
		}
		switch proto := args[0].(type) {
		case value.Null:
			return value.NewObject(nil), nil
		case *value.Object:
			return value.NewObject(proto), nil
		}
		return nil, scope.NewTypeError("Object prototype may only be an Object or null: %s", value.Inspect(args[0]))
	})
	method("getPrototypeOf", func(this value.Value, args []value.Value) (value.Value, error) {
		obj, err := objectArg("Object.getPrototypeOf", args)
		if err != nil {
			return nil, err
		}
		if proto := obj.Prototype(); proto != nil {
			return proto, nil
		}
		return value.NULL, nil
	})
}

func objectArg(fn string, args []value.Value) (*value.Object, error) {
	if len(args) != 0 {
		if obj, ok := args[0].(*value.Object); ok {
			return obj, nil
		}
	}
	return nil, scope.NewTypeError("%s called on non-object", fn)
}

// ------
// Errors
// ------

// setupErrors installs Error and its subtypes. There is no `new`, so the
// constructors are plain factories: Error("msg").
func (ctx *Context) setupErrors() {
	base := ctx.newErrorProto("Error", ctx.protos.object)
	ctx.defineErrorFactory("Error", base)
	for _, name := range errorKinds {
		ctx.defineErrorFactory(name, ctx.newErrorProto(name, base))
	}
}

func (ctx *Context) newErrorProto(name string, parent *value.Object) *value.Object {
	proto := value.NewObject(parent)
	hidden := value.Attributes{Writable: true, Configurable: true}
	proto.DefineOwnProperty("name", value.String(name), hidden)
	proto.DefineOwnProperty("message", value.String(""), hidden)
	ctx.protos.errors[name] = proto
	return proto
}

func (ctx *Context) defineErrorFactory(name string, proto *value.Object) {
	factory := ctx.DefineNative(name, func(this value.Value, args []value.Value) (value.Value, error) {
		msg := ""
		if len(args) != 0 && !value.IsUndefined(args[0]) {
			msg = value.ToString(args[0])
		}
		return ctx.newErrorObject(name, msg), nil
	})
	factory.DefineOwnProperty("prototype", proto, value.Attributes{})
}

// toObject wraps primitives so they can be used as a binding object, as
// `with` needs.
func (ctx *Context) toObject(v value.Value) (*value.Object, error) {
	switch v := v.(type) {
	case *value.Object:
		return v, nil
	case value.Undef, value.Null:
		return nil, scope.NewTypeError("Cannot convert undefined or null to object")
	case value.String:
		obj := value.NewObject(ctx.protos.object)
		obj.SetClass("String")
		units := utf16.Encode([]rune(string(v)))
		for i := range units {
			obj.DefineOwnProperty(strconv.Itoa(i), value.String(string(utf16.Decode(units[i:i+1]))), value.Attributes{Enumerable: true})
		}
		obj.DefineOwnProperty("length", value.Number(len(units)), value.Attributes{})
		return obj, nil
	case value.Number:
		obj := value.NewObject(ctx.protos.object)
		obj.SetClass("Number")
		return obj, nil
	case value.Boolean:
		obj := value.NewObject(ctx.protos.object)
		obj.SetClass("Boolean")
		return obj, nil
	}
	return nil, scope.NewTypeError("Cannot convert %s to object", value.Inspect(v))
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
