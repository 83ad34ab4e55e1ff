package value

import (
	"bytes"
	"strconv"
)

// This file implements the REPL's inspect protocol.
// Most of the complication comes from ensuring that recursive objects,
// e.g. an object containing itself does not crash the process.

type valueInspector func(v Value) string

func Inspect(v Value) string {
	seen := map[*Object]bool{}
	var visit valueInspector
	visit = func(v Value) string {
		switch v := v.(type) {
		case String:
			return strconv.Quote(string(v))
		case *Object:
			if v.IsCallable() || v.Class() == "Error" {
				return "[" + ToString(v) + "]"
			}
			if seen[v] {
				return "[Circular]"
			}
			seen[v] = true
			defer delete(seen, v)
			return v.inspect(visit)
		}
		return ToString(v)
	}
	return visit(v)
}

func (o *Object) inspect(f valueInspector) string {
	if o.Class() == "Array" {
		return o.inspectArray(f)
	}
	keys := o.Keys()
	if len(keys) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	buf.WriteString("{ ")
	for i, k := range keys {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(f(o.Get(k)))
		if i != len(keys)-1 {
			buf.WriteString(", ")
		}
	}
	buf.WriteString(" }")
	return buf.String()
}

func (o *Object) inspectArray(f valueInspector) string {
	elems := o.Elements()
	if len(elems) == 0 {
		return "[]"
	}
	var buf bytes.Buffer
	buf.WriteString("[ ")
	for i, v := range elems {
		buf.WriteString(f(v))
		if i != len(elems)-1 {
			buf.WriteString(", ")
		}
	}
	buf.WriteString(" ]")
	return buf.String()
}
