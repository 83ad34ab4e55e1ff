package value

import (
	"strconv"
	"strings"
)

// NewArray returns an array-like object: elements are stored under
// their index and a non-enumerable "length" holds the count.
func NewArray(proto *Object, elems []Value) *Object {
	arr := NewObject(proto)
	arr.class = "Array"
	for i, v := range elems {
		arr.Put(strconv.Itoa(i), v)
	}
	arr.DefineOwnProperty("length", Number(len(elems)), Attributes{Writable: true})
	return arr
}

// Elements returns the elements of an array-like object.
func (o *Object) Elements() []Value {
	n := ToNumber(o.Get("length"))
	if n != n || n < 0 {
		return nil
	}
	elems := make([]Value, 0, int(n))
	for i := 0; i < int(n); i++ {
		elems = append(elems, o.Get(strconv.Itoa(i)))
	}
	return elems
}

func arrayToString(o *Object) string {
	elems := o.Elements()
	parts := make([]string, len(elems))
	for i, v := range elems {
		if !IsNullish(v) {
			parts[i] = ToString(v)
		}
	}
	return strings.Join(parts, ",")
}
