package value

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/pkg/errors"
)

// ============
// Object Model
// ============
//
// Objects are bags of named properties with a prototype link. Property
// order is insertion order, which is what Keys() and Inspect() report.
//
//  1. Whenever we see a nil prototype, we can stop searching.
//  2. Reads walk the prototype chain, writes only touch own properties.
//  3. A read-only property (own or inherited) rejects Put.

type Attributes struct {
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// DefaultAttributes are the attributes of properties created by plain
// assignment.
var DefaultAttributes = Attributes{Writable: true, Enumerable: true, Configurable: true}

type Property struct {
	Value Value
	Attributes
}

// Callable is the internal [[Call]] slot of function objects.
type Callable interface {
	Call(this Value, args []Value) (Value, error)
}

// NativeFunc adapts a Go function into a Callable.
type NativeFunc func(this Value, args []Value) (Value, error)

func (f NativeFunc) Call(this Value, args []Value) (Value, error) { return f(this, args) }

var ErrNotCallable = errors.New("object is not callable")

type Object struct {
	class      string
	proto      *Object
	props      *linkedhashmap.Map // string -> *Property
	extensible bool
	call       Callable
}

func NewObject(proto *Object) *Object {
	return &Object{
		class:      "Object",
		proto:      proto,
		props:      linkedhashmap.New(),
		extensible: true,
	}
}

// NewFunctionObject creates a callable object. The name is exposed as a
// read-only, non-enumerable "name" property.
func NewFunctionObject(proto *Object, name string, call Callable) *Object {
	obj := NewObject(proto)
	obj.class = "Function"
	obj.call = call
	obj.DefineOwnProperty("name", String(name), Attributes{Configurable: true})
	return obj
}

func (o *Object) Type() Type { return OBJECT }

func (o *Object) Class() string         { return o.class }
func (o *Object) SetClass(class string) { o.class = class }
func (o *Object) Prototype() *Object    { return o.proto }
func (o *Object) IsCallable() bool      { return o.call != nil }
func (o *Object) Callable() Callable    { return o.call }
func (o *Object) IsExtensible() bool    { return o.extensible }
func (o *Object) PreventExtensions()    { o.extensible = false }
func (o *Object) OwnPropertyCount() int { return o.props.Size() }

// Call invokes the object's [[Call]] slot.
func (o *Object) Call(this Value, args []Value) (Value, error) {
	if o.call == nil {
		return nil, ErrNotCallable
	}
	return o.call.Call(this, args)
}

func (o *Object) ownProperty(name string) *Property {
	p, ok := o.props.Get(name)
	if !ok {
		return nil
	}
	return p.(*Property)
}

// GetOwnProperty returns a copy of the named own property.
func (o *Object) GetOwnProperty(name string) (Property, bool) {
	if p := o.ownProperty(name); p != nil {
		return *p, true
	}
	return Property{}, false
}

// findProperty searches the prototype chain.
func (o *Object) findProperty(name string) *Property {
	for obj := o; obj != nil; obj = obj.proto {
		if p := obj.ownProperty(name); p != nil {
			return p
		}
	}
	return nil
}

func (o *Object) HasOwnProperty(name string) bool { return o.ownProperty(name) != nil }
func (o *Object) HasProperty(name string) bool    { return o.findProperty(name) != nil }

// Get returns the property value, or UNDEFINED when the chain has none.
func (o *Object) Get(name string) Value {
	if p := o.findProperty(name); p != nil {
		return p.Value
	}
	return UNDEFINED
}

// CanPut reports whether Put(name, ...) would succeed.
func (o *Object) CanPut(name string) bool {
	if p := o.ownProperty(name); p != nil {
		return p.Writable
	}
	if p := o.findProperty(name); p != nil {
		return p.Writable && o.extensible
	}
	return o.extensible
}

// Put assigns an own property. It returns false, leaving the object
// untouched, if the assignment is not allowed.
func (o *Object) Put(name string, v Value) bool {
	if !o.CanPut(name) {
		return false
	}
	if p := o.ownProperty(name); p != nil {
		p.Value = v
		return true
	}
	o.props.Put(name, &Property{Value: v, Attributes: DefaultAttributes})
	return true
}

// DefineOwnProperty creates or redefines an own property. Redefinition of
// a non-configurable property only succeeds for a writable value change
// with identical attributes.
func (o *Object) DefineOwnProperty(name string, v Value, attrs Attributes) bool {
	if p := o.ownProperty(name); p != nil {
		if !p.Configurable {
			if !p.Writable || p.Attributes != attrs {
				return false
			}
		}
		p.Value = v
		p.Attributes = attrs
		return true
	}
	if !o.extensible {
		return false
	}
	o.props.Put(name, &Property{Value: v, Attributes: attrs})
	return true
}

// Delete removes an own property. It returns false if the property is
// not configurable; deleting a missing property succeeds.
func (o *Object) Delete(name string) bool {
	p := o.ownProperty(name)
	if p == nil {
		return true
	}
	if !p.Configurable {
		return false
	}
	o.props.Remove(name)
	return true
}

// Keys returns the enumerable own property names in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.props.Size())
	it := o.props.Iterator()
	for it.Next() {
		if it.Value().(*Property).Enumerable {
			keys = append(keys, it.Key().(string))
		}
	}
	return keys
}

// OwnNames returns every own property name in insertion order.
func (o *Object) OwnNames() []string {
	names := make([]string, 0, o.props.Size())
	for _, k := range o.props.Keys() {
		names = append(names, k.(string))
	}
	return names
}

// Freeze makes every own property read-only and non-configurable and
// stops new properties from being added.
func (o *Object) Freeze() {
	it := o.props.Iterator()
	for it.Next() {
		p := it.Value().(*Property)
		p.Writable = false
		p.Configurable = false
	}
	o.extensible = false
}

func (o *Object) IsFrozen() bool {
	if o.extensible {
		return false
	}
	it := o.props.Iterator()
	for it.Next() {
		p := it.Value().(*Property)
		if p.Writable || p.Configurable {
			return false
		}
	}
	return true
}
