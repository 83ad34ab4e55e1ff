package eval_test

import (
	"bytes"
	"testing"

	"scopejs/eval"
	"scopejs/value"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, opts ...eval.Option) *eval.Context {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ctx, err := eval.NewContext(append([]eval.Option{eval.WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	return ctx
}

func TestEvalValues(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2", "3"},
		{"'a' + 1", `"a1"`},
		{"'' + {}", `"[object Object]"`},
		{"1 / 0", "Infinity"},
		{"var x = 1; x", "1"},
		{"let x = 2; { let x = 3; } x", "2"},
		{"const c = 1; c", "1"},
		{"function f() { return 7 } f()", "7"},
		{"function f(a, a) { return a } f(1, 2)", "2"},
		{"function f(a, a) { return a } f(1)", "undefined"},
		{"var f = function g() { return typeof g }; f()", `"function"`},
		{"var f = function g() { g = 1; return typeof g }; f()", `"function"`},
		{"function counter() { var n = 0; return function() { n = n + 1; return n } } var c = counter(); c(); c()", "2"},
		{"typeof undeclared", `"undefined"`},
		{"typeof this", `"object"`},
		{"var o = {a: 1}; with (o) { a = 5 } o.a", "5"},
		{"var o = {v: 4, f: function() { return this.v }}; with (o) { f() }", "4"},
		{"var o = {f: function() { return this.v }, v: 9}; o.f()", "9"},
		{"function f() { return this } f() === this", "true"},
		{"'use strict'; function f() { return this } f()", "undefined"},
		{"var s = 0; for (var i = 0; i < 5; i++) { s += i } s", "10"},
		{"var fs = {}; for (let i = 0; i < 3; i++) { fs[i] = function() { return i } } fs[0]() + fs[1]() + fs[2]()", "3"},
		{"var n = 0; while (true) { n++; if (n > 3) break } n", "4"},
		{"try { null.x } catch (e) { e.name }", `"TypeError"`},
		{"try { throw 5 } catch (e) { e + 1 }", "6"},
		{"try { undeclared } catch (e) { e.message }", `"undeclared is not defined"`},
		{"var x = 1; delete x", "false"},
		{"y = 3; delete y", "true"},
		{"{ function inner() {} } typeof inner", `"undefined"`},
		{"Object.keys({a: 1, b: 2})", `[ "a", "b" ]`},
		{"'abc'.length", "3"},
		{"'abc'[1]", `"b"`},
		{"var o = Object.freeze({a: 1}); o.a = 2; o.a", "1"},
		{"Object.isFrozen(Object.freeze({}))", "true"},
		{"1 < 2 && 'b' > 'a'", "true"},
		{"null || 'x'", `"x"`},
		{"Error('boom').message", `"boom"`},
		{"'' + TypeError('bad')", `"TypeError: bad"`},
		{"var o = {}; o.x", "undefined"},
	}
	for i, tt := range tests {
		ctx := newContext(t)
		v, err := ctx.Run("test.js", tt.src)
		if err != nil {
			t.Errorf("tests[%d] (%q) unexpected error: %s", i, tt.src, err)
			continue
		}
		if got := value.Inspect(v); got != tt.want {
			t.Errorf("tests[%d] (%q) expected=%s, got=%s", i, tt.src, tt.want, got)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"undeclaredName", "ReferenceError: undeclaredName is not defined"},
		{"'use strict'; undeclared = 1", "ReferenceError: undeclared is not defined"},
		{"null.x", "TypeError: Cannot read property 'x' of null"},
		{"x; let x = 1", "ReferenceError: Cannot access 'x' before initialization"},
		{"'use strict'; const c = 1; c = 2", "TypeError: Assignment to constant variable 'c'"},
		{"throw 'x'", "x"},
		{"var o = 1; o()", "TypeError: o is not a function"},
		{"function f() { f() } f()", "RangeError: Maximum call stack size exceeded"},
		{"'use strict'; var o = Object.freeze({a: 1}); o.a = 2", "TypeError: Cannot assign to read only property 'a' of object"},
		{"with (null) {}", "TypeError: Cannot convert undefined or null to object"},
		{"Object.freeze(1)", "TypeError: Object.freeze called on non-object"},
	}
	for i, tt := range tests {
		ctx := newContext(t)
		_, err := ctx.Run("test.js", tt.src)
		exc, ok := err.(*eval.Exception)
		if !ok {
			t.Errorf("tests[%d] (%q) expected an exception, got=%#v", i, tt.src, err)
			continue
		}
		if exc.Error() != tt.want {
			t.Errorf("tests[%d] (%q) expected=%q, got=%q", i, tt.src, tt.want, exc.Error())
		}
	}
}

func TestEvalCompileErrors(t *testing.T) {
	ctx := newContext(t)
	_, err := ctx.Run("bad.js", "1 +")
	require.Error(t, err)
	assert.IsType(t, eval.CompileErrors{}, err)
	assert.Contains(t, err.Error(), "bad.js:1:")
}

func TestEvalTrace(t *testing.T) {
	ctx := newContext(t)
	_, err := ctx.Run("t.js", "function f() {\n  null.x\n}\nf()")
	exc, ok := err.(*eval.Exception)
	require.True(t, ok, "expected an exception, got %#v", err)
	require.Len(t, exc.Trace, 2)
	assert.Equal(t, "t.js", exc.Trace[0].Filename)
	assert.Equal(t, 2, exc.Trace[0].Line)
	assert.Equal(t, "[Function f]", exc.Trace[0].Context)
	assert.Equal(t, 4, exc.Trace[1].Line)
	assert.Equal(t, "[Program]", exc.Trace[1].Context)
	assert.Contains(t, exc.String(), "Uncaught TypeError: Cannot read property 'x' of null\n  at t.js:2:")
}

func TestEvalSloppyImplicitGlobal(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	ctx, err := eval.NewContext(eval.WithLogger(logger))
	require.NoError(t, err)

	_, err = ctx.Run("", "function set() { leaked = 42 } set()")
	require.NoError(t, err)
	assert.Equal(t, value.Number(42), ctx.Global().Get("leaked"))

	found := false
	for _, entry := range hook.AllEntries() {
		if entry.Message == "implicit global" && entry.Data["name"] == "leaked" {
			found = true
		}
	}
	assert.True(t, found, "expected an implicit global log entry")
}

func TestEvalStrictOption(t *testing.T) {
	ctx := newContext(t, eval.WithStrict(true))
	_, err := ctx.Run("", "leaked = 1")
	require.Error(t, err)
	assert.Equal(t, "ReferenceError: leaked is not defined", err.Error())
	assert.False(t, ctx.Global().HasProperty("leaked"))
}

func TestEvalNatives(t *testing.T) {
	ctx := newContext(t)
	on, off := 0, 0
	ctx.DefineNative("led_on", func(this value.Value, args []value.Value) (value.Value, error) {
		on++
		return value.UNDEFINED, nil
	})
	ctx.DefineNative("led_off", func(this value.Value, args []value.Value) (value.Value, error) {
		off++
		return value.UNDEFINED, nil
	})
	_, err := ctx.Run("blinky.js", `
function blink(n) {
  for (var i = 0; i < n; i++) {
    led_on()
    led_off()
  }
}
blink(3)
`)
	require.NoError(t, err)
	assert.Equal(t, 3, on)
	assert.Equal(t, 3, off)
}

func TestEvalGlobalsAndPrint(t *testing.T) {
	var out bytes.Buffer
	ctx := newContext(t,
		eval.WithOutput(&out),
		eval.WithGlobals(map[string]interface{}{
			"config": map[string]interface{}{"name": "x", "debug": true},
			"limit":  3,
		}),
	)
	v, err := ctx.Run("", "print(config.name, limit, config.debug); config.name")
	require.NoError(t, err)
	assert.Equal(t, value.String("x"), v)
	assert.Equal(t, "x 3 true\n", out.String())
}

func TestEvalEnvironmentLifetimes(t *testing.T) {
	ctx := newContext(t)
	assert.Equal(t, 2, ctx.Stats().Live())

	_, err := ctx.Run("", "function f(x) { let y = x; { let z = y; } return y } f(1); f(2)")
	require.NoError(t, err)
	assert.Equal(t, 6, ctx.Stats().Created)
	assert.Equal(t, 2, ctx.Stats().Live())

	_, err = ctx.Run("", "for (let i = 0; i < 3; i++) {}")
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Stats().Live())

	_, err = ctx.Run("", "try { throw 1 } catch (e) {}")
	require.NoError(t, err)
	assert.Equal(t, 2, ctx.Stats().Live())

	// the returned closure keeps its call environment alive.
	_, err = ctx.Run("", "function mk() { var n = 0; return function() { return n } } var g = mk()")
	require.NoError(t, err)
	assert.Equal(t, 3, ctx.Stats().Live())
}

func TestEvalClosureKeepsChainAlive(t *testing.T) {
	tests := []struct {
		src  string
		want value.Value
		live int
	}{
		// named function expression: its own environment, then the call.
		{"function mk() { var a = 1; return function g() { return a } } mk()()", value.Number(1), 4},
		// catch environment, then the call.
		{"function mk() { var a = 1; try { throw 1 } catch (e) { return function() { return a } } } mk()()", value.Number(1), 4},
		// block environment, then the call.
		{"function outer() { let a = 1; { let b = 2; return function() { return a + b } } } outer()()", value.Number(3), 4},
	}
	for i, tt := range tests {
		ctx := newContext(t)
		v, err := ctx.Run("test.js", tt.src)
		if err != nil {
			t.Errorf("tests[%d] (%q) unexpected error: %s", i, tt.src, err)
			continue
		}
		if v != tt.want {
			t.Errorf("tests[%d] (%q) expected=%s, got=%s", i, tt.src, value.Inspect(tt.want), value.Inspect(v))
		}
		if live := ctx.Stats().Live(); live != tt.live {
			t.Errorf("tests[%d] (%q) expected %d live environments, got=%d", i, tt.src, tt.live, live)
		}
	}
}

func TestEvalAfterClose(t *testing.T) {
	ctx := newContext(t)
	_, err := ctx.Run("a.js", "var g = 1; function f() { return g }")
	require.NoError(t, err)
	ctx.Close()
	// f still holds the script environment and through it the global one.
	assert.Equal(t, 2, ctx.Stats().Live())

	_, err = ctx.Run("b.js", "f()")
	require.Error(t, err)
	assert.ErrorIs(t, err, eval.ErrClosed)
	assert.EqualError(t, err, "context closed")

	assert.NotPanics(t, ctx.Close)
}

func TestEvalCloseReleasesGlobals(t *testing.T) {
	ctx := newContext(t)
	_, err := ctx.Run("", "var a = 1; { let b = 2 } with ({}) { a }")
	require.NoError(t, err)
	ctx.Close()
	assert.Equal(t, 0, ctx.Stats().Live())
}
