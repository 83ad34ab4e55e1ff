// Package scope implements environment records, lexical environment chains
// and the identifier Reference resolver.
//
// Resolution walks the chain innermost-first and produces a Reference whose
// base is the first environment that declares the name, or an unresolvable
// Reference when no environment does. Reading or writing through the
// Reference is left to the interpreter.
package scope

import "scopejs/value"

// Record is a single scope's binding table. Only the record itself is
// consulted, never the chain it belongs to.
type Record interface {
	// HasBinding reports whether this record declares name.
	HasBinding(name string) bool
	// GetBindingValue is only meaningful when HasBinding(name) is true.
	GetBindingValue(name string, strict bool) (value.Value, error)
	// SetBindingValue assigns to an existing binding. Assigning to an
	// immutable binding is a TypeError under strict and a no-op otherwise.
	SetBindingValue(name string, v value.Value, strict bool) error

	CreateMutableBinding(name string, deletable bool) error
	CreateImmutableBinding(name string) error
	InitializeBinding(name string, v value.Value) error
	DeleteBinding(name string) bool
	ImplicitThisValue() value.Value
	Names() []string
}

// BindingObject is the capability an object-backed record needs from the
// object it delegates to. *value.Object satisfies it.
type BindingObject interface {
	value.Value
	HasProperty(name string) bool
	Get(name string) value.Value
	Put(name string, v value.Value) bool
	DefineOwnProperty(name string, v value.Value, attrs value.Attributes) bool
	Delete(name string) bool
	Keys() []string
}
