package scope

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"scopejs/value"
)

type binding struct {
	value       value.Value
	mutable     bool
	deletable   bool
	initialized bool
}

// DeclarativeRecord is a flat name -> binding table used for function,
// block, catch and script scopes.
type DeclarativeRecord struct {
	bindings *linkedhashmap.Map // string -> *binding
}

func NewDeclarativeRecord() *DeclarativeRecord {
	return &DeclarativeRecord{bindings: linkedhashmap.New()}
}

func (r *DeclarativeRecord) lookup(name string) *binding {
	b, ok := r.bindings.Get(name)
	if !ok {
		return nil
	}
	return b.(*binding)
}

func (r *DeclarativeRecord) HasBinding(name string) bool {
	return r.lookup(name) != nil
}

func (r *DeclarativeRecord) create(name string, b *binding) error {
	if r.HasBinding(name) {
		return NewSyntaxError("Identifier '%s' has already been declared", name)
	}
	r.bindings.Put(name, b)
	return nil
}

// CreateMutableBinding adds an uninitialised mutable binding.
func (r *DeclarativeRecord) CreateMutableBinding(name string, deletable bool) error {
	return r.create(name, &binding{value: value.UNDEFINED, mutable: true, deletable: deletable})
}

// CreateImmutableBinding adds an uninitialised immutable binding.
func (r *DeclarativeRecord) CreateImmutableBinding(name string) error {
	return r.create(name, &binding{value: value.UNDEFINED})
}

// InitializeBinding sets the first value of a binding, ending its
// temporal dead zone.
func (r *DeclarativeRecord) InitializeBinding(name string, v value.Value) error {
	b := r.lookup(name)
	if b == nil {
		return errNotDefined(name)
	}
	if b.initialized {
		return NewSyntaxError("Identifier '%s' is already initialized", name)
	}
	b.value = v
	b.initialized = true
	return nil
}

func (r *DeclarativeRecord) GetBindingValue(name string, strict bool) (value.Value, error) {
	b := r.lookup(name)
	if b == nil {
		return nil, errNotDefined(name)
	}
	if !b.initialized {
		return nil, errUninitialized(name)
	}
	return b.value, nil
}

func (r *DeclarativeRecord) SetBindingValue(name string, v value.Value, strict bool) error {
	b := r.lookup(name)
	switch {
	case b == nil:
		return errNotDefined(name)
	case !b.initialized:
		return errUninitialized(name)
	case !b.mutable:
		if strict {
			return NewTypeError("Assignment to constant variable '%s'", name)
		}
		return nil
	}
	b.value = v
	return nil
}

// DeleteBinding removes a deletable binding. Missing names count as
// deleted.
func (r *DeclarativeRecord) DeleteBinding(name string) bool {
	b := r.lookup(name)
	if b == nil {
		return true
	}
	if !b.deletable {
		return false
	}
	r.bindings.Remove(name)
	return true
}

func (r *DeclarativeRecord) ImplicitThisValue() value.Value { return value.UNDEFINED }

func (r *DeclarativeRecord) Names() []string {
	names := make([]string, 0, r.bindings.Size())
	for _, k := range r.bindings.Keys() {
		names = append(names, k.(string))
	}
	return names
}
