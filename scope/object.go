package scope

import "scopejs/value"

// ObjectRecord exposes the properties of an object as bindings. It backs
// the global scope and `with` statements.
type ObjectRecord struct {
	object      BindingObject
	provideThis bool
}

// NewObjectRecord wraps obj. When provideThis is set, calls through
// bindings of this record receive obj as their this value.
func NewObjectRecord(obj BindingObject, provideThis bool) *ObjectRecord {
	return &ObjectRecord{object: obj, provideThis: provideThis}
}

func (r *ObjectRecord) Object() BindingObject { return r.object }

func (r *ObjectRecord) HasBinding(name string) bool {
	return r.object.HasProperty(name)
}

// GetBindingValue reads the property. The property may have been deleted
// between resolution and the read, which is an error only under strict.
func (r *ObjectRecord) GetBindingValue(name string, strict bool) (value.Value, error) {
	if !r.object.HasProperty(name) {
		if strict {
			return nil, errNotDefined(name)
		}
		return value.UNDEFINED, nil
	}
	return r.object.Get(name), nil
}

func (r *ObjectRecord) SetBindingValue(name string, v value.Value, strict bool) error {
	if !r.object.Put(name, v) && strict {
		return NewTypeError("Cannot assign to read only property '%s'", name)
	}
	return nil
}

func (r *ObjectRecord) CreateMutableBinding(name string, deletable bool) error {
	attrs := value.Attributes{Writable: true, Enumerable: true, Configurable: deletable}
	if !r.object.DefineOwnProperty(name, value.UNDEFINED, attrs) {
		return NewTypeError("Cannot define property '%s'", name)
	}
	return nil
}

func (r *ObjectRecord) CreateImmutableBinding(name string) error {
	return NewTypeError("Cannot create immutable binding '%s' on an object", name)
}

func (r *ObjectRecord) InitializeBinding(name string, v value.Value) error {
	return r.SetBindingValue(name, v, true)
}

func (r *ObjectRecord) DeleteBinding(name string) bool {
	return r.object.Delete(name)
}

func (r *ObjectRecord) ImplicitThisValue() value.Value {
	if r.provideThis {
		return r.object
	}
	return value.UNDEFINED
}

func (r *ObjectRecord) Names() []string { return r.object.Keys() }
