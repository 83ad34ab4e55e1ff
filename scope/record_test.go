package scope_test

import (
	"testing"

	"scopejs/scope"
	"scopejs/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclarativeImmutableBinding(t *testing.T) {
	funcEnv := scope.NewDeclarativeEnvironment(nil)
	rec := funcEnv.Record()
	require.NoError(t, rec.CreateImmutableBinding("x"))
	require.NoError(t, rec.InitializeBinding("x", value.Number(1)))

	err := rec.SetBindingValue("x", value.Number(5), true)
	require.Error(t, err)
	assert.True(t, scope.IsKind(err, scope.TypeError), "got %v", err)

	assert.NoError(t, rec.SetBindingValue("x", value.Number(5), false))
	v, err := rec.GetBindingValue("x", false)
	require.NoError(t, err)
	assert.Equal(t, value.Number(1), v, "non-strict write is a silent no-op")
}

func TestDeclarativeMutableBinding(t *testing.T) {
	rec := scope.NewDeclarativeRecord()
	require.NoError(t, rec.CreateMutableBinding("x", false))
	assert.True(t, rec.HasBinding("x"))
	assert.False(t, rec.HasBinding("y"))

	_, err := rec.GetBindingValue("x", false)
	assert.True(t, scope.IsKind(err, scope.ReferenceError), "uninitialised read")
	assert.True(t, scope.IsKind(rec.SetBindingValue("x", value.TRUE, false), scope.ReferenceError))

	require.NoError(t, rec.InitializeBinding("x", value.UNDEFINED))
	require.NoError(t, rec.SetBindingValue("x", value.String("v"), true))
	v, err := rec.GetBindingValue("x", true)
	require.NoError(t, err)
	assert.Equal(t, value.String("v"), v)

	assert.True(t, scope.IsKind(rec.CreateMutableBinding("x", true), scope.SyntaxError))
	assert.True(t, scope.IsKind(rec.InitializeBinding("x", value.NULL), scope.SyntaxError))
}

func TestDeclarativeContractViolations(t *testing.T) {
	rec := scope.NewDeclarativeRecord()
	_, err := rec.GetBindingValue("ghost", false)
	assert.True(t, scope.IsKind(err, scope.ReferenceError))
	assert.EqualError(t, err, "ReferenceError: ghost is not defined")
	assert.True(t, scope.IsKind(rec.SetBindingValue("ghost", value.NULL, false), scope.ReferenceError))
	assert.True(t, scope.IsKind(rec.InitializeBinding("ghost", value.NULL), scope.ReferenceError))
}

func TestDeclarativeDelete(t *testing.T) {
	rec := scope.NewDeclarativeRecord()
	require.NoError(t, rec.CreateMutableBinding("fixed", false))
	require.NoError(t, rec.CreateMutableBinding("loose", true))
	require.NoError(t, rec.CreateImmutableBinding("c"))
	assert.Equal(t, []string{"fixed", "loose", "c"}, rec.Names())

	assert.False(t, rec.DeleteBinding("fixed"))
	assert.True(t, rec.DeleteBinding("loose"))
	assert.True(t, rec.DeleteBinding("never"))
	assert.Equal(t, []string{"fixed", "c"}, rec.Names())
	assert.Equal(t, value.UNDEFINED, rec.ImplicitThisValue())
}

func TestBindingsAreShared(t *testing.T) {
	env := scope.NewDeclarativeEnvironment(nil)
	declare(t, env, "count", value.Number(0))

	// two holders of the same environment observe each other's writes
	closureA := env.Retain()
	closureB := env.Retain()
	require.NoError(t, closureA.Record().SetBindingValue("count", value.Number(1), true))
	v, err := closureB.Record().GetBindingValue("count", true)
	require.NoError(t, err)
	assert.Equal(t, value.Number(1), v)
	assert.Same(t, closureA, closureB)
}

func TestObjectRecord(t *testing.T) {
	obj := value.NewObject(nil)
	obj.Put("a", value.Number(1))
	require.True(t, obj.DefineOwnProperty("ro", value.Number(2), value.Attributes{}))
	rec := scope.NewObjectRecord(obj, false)

	assert.True(t, rec.HasBinding("a"))
	assert.True(t, rec.HasBinding("ro"))
	assert.False(t, rec.HasBinding("b"))

	v, err := rec.GetBindingValue("a", true)
	require.NoError(t, err)
	assert.Equal(t, value.Number(1), v)

	require.NoError(t, rec.SetBindingValue("a", value.Number(3), true))
	assert.Equal(t, value.Number(3), obj.Get("a"))

	assert.True(t, scope.IsKind(rec.SetBindingValue("ro", value.Number(9), true), scope.TypeError))
	assert.NoError(t, rec.SetBindingValue("ro", value.Number(9), false))
	assert.Equal(t, value.Number(2), obj.Get("ro"))

	// the property vanished after resolution
	v, err = rec.GetBindingValue("gone", false)
	require.NoError(t, err)
	assert.Equal(t, value.UNDEFINED, v)
	_, err = rec.GetBindingValue("gone", true)
	assert.True(t, scope.IsKind(err, scope.ReferenceError))

	require.NoError(t, rec.CreateMutableBinding("v", false))
	assert.True(t, obj.HasOwnProperty("v"))
	assert.False(t, rec.DeleteBinding("v"))
	assert.True(t, rec.DeleteBinding("a"))
	assert.True(t, scope.IsKind(rec.CreateImmutableBinding("k"), scope.TypeError))
	assert.Equal(t, value.UNDEFINED, rec.ImplicitThisValue())
	assert.Equal(t, []string{"v"}, rec.Names())

	withRec := scope.NewObjectRecord(obj, true)
	assert.Same(t, obj, withRec.ImplicitThisValue())
	assert.Same(t, obj, withRec.Object())
}

func TestObjectRecordSeesPrototype(t *testing.T) {
	proto := value.NewObject(nil)
	proto.Put("inherited", value.TRUE)
	rec := scope.NewObjectRecord(value.NewObject(proto), true)
	assert.True(t, rec.HasBinding("inherited"))
	v, err := rec.GetBindingValue("inherited", true)
	require.NoError(t, err)
	assert.Equal(t, value.TRUE, v)
}
