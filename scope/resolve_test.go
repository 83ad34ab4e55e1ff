package scope_test

import (
	"testing"

	"scopejs/scope"
	"scopejs/value"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyRecord counts HasBinding calls on top of a declarative record.
type spyRecord struct {
	*scope.DeclarativeRecord
	calls []string
}

func newSpyRecord() *spyRecord {
	return &spyRecord{DeclarativeRecord: scope.NewDeclarativeRecord()}
}

func (s *spyRecord) HasBinding(name string) bool {
	s.calls = append(s.calls, name)
	return s.DeclarativeRecord.HasBinding(name)
}

func declare(t *testing.T, env *scope.Environment, name string, v value.Value) {
	t.Helper()
	rec := env.Record()
	require.NoError(t, rec.CreateMutableBinding(name, false))
	require.NoError(t, rec.InitializeBinding(name, v))
}

// chain returns environments ordered innermost first.
func chain(depth int) []*scope.Environment {
	envs := make([]*scope.Environment, depth)
	var outer *scope.Environment
	for i := depth - 1; i >= 0; i-- {
		envs[i] = scope.NewDeclarativeEnvironment(outer)
		outer = envs[i]
	}
	return envs
}

func TestResolveOutermostBinding(t *testing.T) {
	for depth := 1; depth <= 6; depth++ {
		envs := chain(depth)
		global := envs[depth-1]
		declare(t, global, "x", value.Number(1))
		// unrelated names in every intermediate scope
		for i := 0; i < depth-1; i++ {
			declare(t, envs[i], "y", value.Number(float64(i)))
		}

		ref := scope.ResolveIdentifier(envs[0], "x", false)
		assert.Equal(t, scope.EnvironmentBase, ref.Kind(), "depth %d", depth)
		assert.Same(t, global, ref.Environment(), "depth %d", depth)
		assert.Equal(t, "x", ref.Name())
		ref.Free()
	}
}

func TestResolveUnresolvable(t *testing.T) {
	for depth := 1; depth <= 4; depth++ {
		envs := chain(depth)
		for _, env := range envs {
			declare(t, env, "other", value.NULL)
		}
		ref := scope.ResolveIdentifier(envs[0], "missing", false)
		assert.True(t, ref.IsUnresolvable())
		assert.Nil(t, ref.Environment())
		_, ok := ref.BaseValue()
		assert.False(t, ok)
		ref.Free()
	}

	ref := scope.ResolveIdentifier(nil, "x", true)
	assert.True(t, ref.IsUnresolvable())
	assert.True(t, ref.Strict())
}

func TestResolveShadowing(t *testing.T) {
	envs := chain(4)
	declare(t, envs[3], "x", value.String("global"))
	declare(t, envs[1], "x", value.String("inner"))

	ref := scope.ResolveIdentifier(envs[0], "x", false)
	defer ref.Free()
	require.Same(t, envs[1], ref.Environment())
	v, err := ref.Environment().Record().GetBindingValue("x", false)
	require.NoError(t, err)
	assert.Equal(t, value.String("inner"), v)

	// starting below the shadowing scope sees the outer binding
	outerRef := scope.ResolveIdentifier(envs[2], "x", false)
	defer outerRef.Free()
	assert.Same(t, envs[3], outerRef.Environment())
}

func TestResolveBlockFunctionGlobalScenario(t *testing.T) {
	globalEnv := scope.NewDeclarativeEnvironment(nil)
	funcEnv := scope.NewDeclarativeEnvironment(globalEnv)
	blockEnv := scope.NewDeclarativeEnvironment(funcEnv)
	declare(t, blockEnv, "y", value.Number(1))
	declare(t, funcEnv, "x", value.Number(2))
	declare(t, globalEnv, "x", value.Number(3))

	ref := scope.ResolveIdentifier(blockEnv, "x", false)
	defer ref.Free()
	assert.Same(t, funcEnv, ref.Environment())
	assert.NotSame(t, globalEnv, ref.Environment())
	assert.False(t, ref.Strict())
}

func TestResolveEmptyGlobalStrict(t *testing.T) {
	globalEnv := scope.NewDeclarativeEnvironment(nil)
	ref := scope.ResolveIdentifier(globalEnv, "z", true)
	assert.Equal(t, scope.Unresolvable, ref.Kind())
	assert.Equal(t, "z", ref.Name())
	assert.True(t, ref.Strict())
	ref.Free()
	assert.Equal(t, 1, globalEnv.Refs())
}

func TestResolveVisitsInnermostFirstAndStops(t *testing.T) {
	global := newSpyRecord()
	middle := newSpyRecord()
	inner := newSpyRecord()
	globalEnv := scope.NewEnvironment(global, nil)
	middleEnv := scope.NewEnvironment(middle, globalEnv)
	innerEnv := scope.NewEnvironment(inner, middleEnv)
	declare(t, middleEnv, "x", value.TRUE)

	ref := scope.ResolveIdentifier(innerEnv, "x", false)
	defer ref.Free()
	assert.Same(t, middleEnv, ref.Environment())
	assert.Equal(t, []string{"x"}, inner.calls)
	assert.Equal(t, []string{"x"}, middle.calls)
	assert.Empty(t, global.calls)
}

func TestResolveIsDeterministic(t *testing.T) {
	envs := chain(3)
	declare(t, envs[2], "x", value.TRUE)
	for i := 0; i < 10; i++ {
		ref := scope.ResolveIdentifier(envs[0], "x", false)
		assert.Same(t, envs[2], ref.Environment())
		ref.Free()
	}
	assert.Equal(t, 2, envs[2].Refs(), "own share plus the one held by envs[1]")
}

func TestResolveThroughObjectEnvironment(t *testing.T) {
	globalEnv := scope.NewDeclarativeEnvironment(nil)
	declare(t, globalEnv, "x", value.Number(1))
	obj := value.NewObject(nil)
	obj.Put("x", value.Number(2))
	withEnv := scope.NewObjectEnvironment(obj, globalEnv, true)

	ref := scope.ResolveIdentifier(withEnv, "x", false)
	defer ref.Free()
	require.Same(t, withEnv, ref.Environment())
	assert.Same(t, obj, ref.Environment().Record().ImplicitThisValue())

	obj.Delete("x")
	ref2 := scope.ResolveIdentifier(withEnv, "x", false)
	defer ref2.Free()
	assert.Same(t, globalEnv, ref2.Environment())
}
