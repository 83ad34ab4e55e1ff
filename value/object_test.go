package value_test

import (
	"testing"

	"scopejs/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPutAndGet(t *testing.T) {
	proto := value.NewObject(nil)
	proto.Put("inherited", value.Number(1))
	obj := value.NewObject(proto)

	assert.True(t, obj.Put("own", value.String("x")))
	assert.True(t, obj.HasOwnProperty("own"))
	assert.False(t, obj.HasOwnProperty("inherited"))
	assert.True(t, obj.HasProperty("inherited"))
	assert.Equal(t, value.Number(1), obj.Get("inherited"))
	assert.Equal(t, value.UNDEFINED, obj.Get("missing"))

	// shadowing an inherited writable property creates an own property
	assert.True(t, obj.Put("inherited", value.Number(2)))
	assert.Equal(t, value.Number(2), obj.Get("inherited"))
	assert.Equal(t, value.Number(1), proto.Get("inherited"))
}

func TestObjectReadOnlyProperties(t *testing.T) {
	proto := value.NewObject(nil)
	require.True(t, proto.DefineOwnProperty("k", value.Number(1), value.Attributes{}))
	obj := value.NewObject(proto)

	assert.False(t, obj.CanPut("k"), "inherited read-only property blocks assignment")
	assert.False(t, obj.Put("k", value.Number(2)))
	assert.False(t, obj.HasOwnProperty("k"))
	assert.False(t, proto.Put("k", value.Number(2)))
	assert.Equal(t, value.Number(1), proto.Get("k"))
	assert.False(t, proto.Delete("k"))
}

func TestObjectKeysKeepInsertionOrder(t *testing.T) {
	obj := value.NewObject(nil)
	for _, k := range []string{"zeta", "alpha", "mid"} {
		obj.Put(k, value.TRUE)
	}
	obj.Put("alpha", value.FALSE)
	obj.DefineOwnProperty("hidden", value.TRUE, value.Attributes{Writable: true})
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
	assert.Equal(t, []string{"zeta", "alpha", "mid", "hidden"}, obj.OwnNames())

	assert.True(t, obj.Delete("alpha"))
	assert.True(t, obj.Delete("never-there"))
	assert.Equal(t, []string{"zeta", "mid"}, obj.Keys())
}

func TestObjectFreeze(t *testing.T) {
	obj := value.NewObject(nil)
	obj.Put("a", value.Number(1))
	assert.False(t, obj.IsFrozen())

	obj.Freeze()
	assert.True(t, obj.IsFrozen())
	assert.False(t, obj.Put("a", value.Number(2)))
	assert.False(t, obj.Put("b", value.Number(2)))
	assert.False(t, obj.Delete("a"))
	assert.Equal(t, value.Number(1), obj.Get("a"))
	assert.False(t, obj.HasOwnProperty("b"))
}

func TestFunctionObject(t *testing.T) {
	calls := 0
	fn := value.NewFunctionObject(nil, "inc", value.NativeFunc(func(this value.Value, args []value.Value) (value.Value, error) {
		calls++
		return value.Number(len(args)), nil
	}))
	require.True(t, fn.IsCallable())
	rv, err := fn.Call(value.UNDEFINED, []value.Value{value.TRUE, value.FALSE})
	require.NoError(t, err)
	assert.Equal(t, value.Number(2), rv)
	assert.Equal(t, 1, calls)
	assert.Equal(t, value.String("inc"), fn.Get("name"))
	assert.Empty(t, fn.Keys())

	_, err = value.NewObject(nil).Call(value.UNDEFINED, nil)
	assert.ErrorIs(t, err, value.ErrNotCallable)
}

func TestInspect(t *testing.T) {
	obj := value.NewObject(nil)
	obj.Put("s", value.String("hi"))
	obj.Put("n", value.Number(1.5))
	obj.Put("self", obj)
	assert.Equal(t, `{ s: "hi", n: 1.5, self: [Circular] }`, value.Inspect(obj))
	assert.Equal(t, "{}", value.Inspect(value.NewObject(nil)))
	assert.Equal(t, "undefined", value.Inspect(value.UNDEFINED))
}

func TestArray(t *testing.T) {
	arr := value.NewArray(nil, []value.Value{value.Number(1), value.String("b"), value.NULL})
	assert.Equal(t, "Array", arr.Class())
	assert.Equal(t, value.Number(3), arr.Get("length"))
	assert.Equal(t, []string{"0", "1", "2"}, arr.Keys(), "length is not enumerable")
	assert.Equal(t, []value.Value{value.Number(1), value.String("b"), value.NULL}, arr.Elements())
	assert.Equal(t, "1,b,", value.ToString(arr))
	assert.Equal(t, `[ 1, "b", null ]`, value.Inspect(arr))
	assert.Equal(t, "[]", value.Inspect(value.NewArray(nil, nil)))

	arr.Put("length", value.NAN)
	assert.Nil(t, arr.Elements())
}
