// Package value contains the runtime representations of script values.
// Primitive values are plain Go types; objects are *Object.
package value

import (
	"math"
	"strconv"
)

type Type uint8

const (
	_ = Type(iota)
	UNDEFINED_TYPE
	NULL_TYPE
	BOOLEAN
	NUMBER
	STRING
	OBJECT
)

var typeNames = [...]string{
	UNDEFINED_TYPE: "undefined",
	NULL_TYPE:      "null",
	BOOLEAN:        "boolean",
	NUMBER:         "number",
	STRING:         "string",
	OBJECT:         "object",
}

func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

type Value interface {
	Type() Type
}

type Undef struct{}
type Null struct{}
type Boolean bool
type Number float64
type String string

func (v Undef) Type() Type   { return UNDEFINED_TYPE }
func (v Null) Type() Type    { return NULL_TYPE }
func (v Boolean) Type() Type { return BOOLEAN }
func (v Number) Type() Type  { return NUMBER }
func (v String) Type() Type  { return STRING }

// ==========
// Singletons
// ==========

var (
	UNDEFINED = Value(Undef{})
	NULL      = Value(Null{})
	TRUE      = Boolean(true)
	FALSE     = Boolean(false)
	NAN       = Number(math.NaN())
)

func IsUndefined(v Value) bool { return v == nil || v.Type() == UNDEFINED_TYPE }
func IsNull(v Value) bool      { return v != nil && v.Type() == NULL_TYPE }

// IsNullish reports whether v is undefined or null; property access on
// such a base is a TypeError.
func IsNullish(v Value) bool { return IsUndefined(v) || IsNull(v) }

func IsObject(v Value) bool {
	_, ok := v.(*Object)
	return ok
}

func IsCallable(v Value) bool {
	obj, ok := v.(*Object)
	return ok && obj.IsCallable()
}
