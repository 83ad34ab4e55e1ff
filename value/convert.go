package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ===========
// Conversions
// ===========

func ToBoolean(v Value) bool {
	switch v := v.(type) {
	case Boolean:
		return bool(v)
	case Number:
		f := float64(v)
		return f != 0 && !math.IsNaN(f)
	case String:
		return v != ""
	case *Object:
		return true
	}
	return false
}

func ToNumber(v Value) Number {
	switch v := v.(type) {
	case Number:
		return v
	case Boolean:
		if v {
			return 1
		}
		return 0
	case Null:
		return 0
	case String:
		return stringToNumber(string(v))
	case *Object:
		return stringToNumber(ToString(v))
	}
	return NAN
}

func stringToNumber(s string) Number {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return Number(math.Inf(1))
	case "-Infinity":
		return Number(math.Inf(-1))
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return NAN
		}
		return Number(n)
	}
	// ParseFloat also understands "inf", "nan" and digit separators,
	// none of which are numeric literals here.
	if strings.ContainsAny(s, "nNiI_xX") {
		return NAN
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return NAN
	}
	return Number(f)
}

func ToString(v Value) string {
	switch v := v.(type) {
	case nil, Undef:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		if v {
			return "true"
		}
		return "false"
	case Number:
		return NumberToString(float64(v))
	case String:
		return string(v)
	case *Object:
		return objectToString(v)
	}
	panic(fmt.Sprintf("cannot convert to string: %#+v", v))
}

func objectToString(o *Object) string {
	switch {
	case o.IsCallable():
		return fmt.Sprintf("function %s() { [native code] }", ToString(o.Get("name")))
	case o.Class() == "Array":
		return arrayToString(o)
	case o.Class() == "Error":
		name := ToString(o.Get("name"))
		msg := ToString(o.Get("message"))
		if msg == "" {
			return name
		}
		return name + ": " + msg
	}
	return "[object " + o.Class() + "]"
}

// NumberToString formats f the way script code prints numbers: integral
// values have no fraction and exponents carry no leading zeros.
func NumberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	n, _ := strconv.Atoi(exp)
	if n >= 0 {
		return mant + "e+" + strconv.Itoa(n)
	}
	return mant + "e" + strconv.Itoa(n)
}

// TypeOf implements the typeof operator for a resolved value.
func TypeOf(v Value) string {
	switch v := v.(type) {
	case nil, Undef:
		return "undefined"
	case Null:
		return "object"
	case *Object:
		if v.IsCallable() {
			return "function"
		}
		return "object"
	}
	return v.Type().String()
}

// ========
// Equality
// ========

func StrictEquals(x, y Value) bool {
	if x == nil {
		x = UNDEFINED
	}
	if y == nil {
		y = UNDEFINED
	}
	if x.Type() != y.Type() {
		return false
	}
	switch x := x.(type) {
	case Number:
		return float64(x) == float64(y.(Number))
	case *Object:
		return x == y.(*Object)
	}
	return x == y
}

func LooseEquals(x, y Value) bool {
	if x == nil {
		x = UNDEFINED
	}
	if y == nil {
		y = UNDEFINED
	}
	if x.Type() == y.Type() {
		return StrictEquals(x, y)
	}
	switch {
	case IsNullish(x) && IsNullish(y):
		return true
	case IsNullish(x) || IsNullish(y):
		return false
	case x.Type() == BOOLEAN:
		return LooseEquals(ToNumber(x), y)
	case y.Type() == BOOLEAN:
		return LooseEquals(x, ToNumber(y))
	case x.Type() == NUMBER && y.Type() == STRING:
		return float64(x.(Number)) == float64(ToNumber(y))
	case x.Type() == STRING && y.Type() == NUMBER:
		return float64(ToNumber(x)) == float64(y.(Number))
	case x.Type() == OBJECT:
		return LooseEquals(String(ToString(x)), y)
	case y.Type() == OBJECT:
		return LooseEquals(x, String(ToString(y)))
	}
	return false
}

// ==========
// Go values
// ==========

// FromGo converts decoded configuration data (booleans, numbers, strings,
// nil and string-keyed maps) into script values. Map keys are added in
// sorted order so the result does not depend on Go map iteration.
func FromGo(v interface{}, proto *Object) (Value, error) {
	switch v := v.(type) {
	case nil:
		return NULL, nil
	case Value:
		return v, nil
	case bool:
		return Boolean(v), nil
	case string:
		return String(v), nil
	case int:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case float64:
		return Number(v), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject(proto)
		for _, k := range keys {
			prop, err := FromGo(v[k], proto)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			obj.Put(k, prop)
		}
		return obj, nil
	}
	return nil, errors.Errorf("unsupported value of type %s", reflect.TypeOf(v))
}
