package scope

import (
	"fmt"

	"scopejs/value"
)

// BaseKind tags the variant held by a Reference's base.
type BaseKind uint8

const (
	// Unresolvable: no environment in the chain declares the name.
	Unresolvable BaseKind = iota
	// EnvironmentBase: the name is a binding of Environment().
	EnvironmentBase
	// ValueBase: the name is a property of BaseValue().
	ValueBase
)

var baseKindNames = [...]string{
	Unresolvable:    "unresolvable",
	EnvironmentBase: "environment",
	ValueBase:       "value",
}

func (k BaseKind) String() string {
	if int(k) < len(baseKindNames) {
		return baseKindNames[k]
	}
	return fmt.Sprintf("BaseKind(%d)", k)
}

// Reference is the result of resolving a name against a base. The variant
// is fixed at construction; re-resolution builds a new Reference.
type Reference struct {
	kind   BaseKind
	env    *Environment
	base   value.Value
	name   string
	strict bool
	freed  bool
}

// MakeReference builds a property reference on an already evaluated
// base. No chain is walked and the base is not validated: an undefined or
// null base is reported by whoever reads or writes through the reference.
func MakeReference(base value.Value, name string, strict bool) *Reference {
	if base == nil {
		base = value.UNDEFINED
	}
	return &Reference{kind: ValueBase, base: base, name: name, strict: strict}
}

func newEnvironmentReference(env *Environment, name string, strict bool) *Reference {
	return &Reference{kind: EnvironmentBase, env: env.Retain(), name: name, strict: strict}
}

func newUnresolvableReference(name string, strict bool) *Reference {
	return &Reference{kind: Unresolvable, name: name, strict: strict}
}

func (r *Reference) Kind() BaseKind { return r.kind }
func (r *Reference) Name() string   { return r.name }
func (r *Reference) Strict() bool   { return r.strict }
func (r *Reference) Freed() bool    { return r.freed }

func (r *Reference) IsUnresolvable() bool      { return r.kind == Unresolvable }
func (r *Reference) IsPropertyReference() bool { return r.kind == ValueBase }

// Environment returns the base environment, or nil for other variants.
func (r *Reference) Environment() *Environment {
	if r.kind != EnvironmentBase {
		return nil
	}
	return r.env
}

// BaseValue returns the base value of a property reference.
func (r *Reference) BaseValue() (value.Value, bool) {
	if r.kind != ValueBase {
		return nil, false
	}
	return r.base, true
}

// Free gives back the environment share held by an environment
// reference. Calling it again, or on any other variant, does nothing.
func (r *Reference) Free() {
	if r == nil || r.freed {
		return
	}
	r.freed = true
	if r.kind == EnvironmentBase {
		r.env.Release()
	}
}

// FreeReference is Free in function form.
func FreeReference(ref *Reference) { ref.Free() }

func (r *Reference) String() string {
	mode := ""
	if r.strict {
		mode = " strict"
	}
	switch r.kind {
	case EnvironmentBase:
		return fmt.Sprintf("[Reference %s in environment %p%s]", r.name, r.env, mode)
	case ValueBase:
		return fmt.Sprintf("[Reference %s of %s%s]", r.name, value.TypeOf(r.base), mode)
	}
	return fmt.Sprintf("[Reference %s unresolvable%s]", r.name, mode)
}
