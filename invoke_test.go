package godeco

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defineForTest(t *testing.T, class *ClassNode) *DefinedClass {
	t.Helper()
	defined, err := NewEngine().Define(class)
	require.NoError(t, err)
	return defined
}

func TestDefinedClassCall(t *testing.T) {
	t.Run("it should pass caller arguments through untouched without transforms", func(t *testing.T) {
		// GIVEN
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("concat", func(a, b string) string { return a + b },
					Params(NewParam("a"), NewParam("b")),
				),
			),
		))

		// WHEN
		outs, err := defined.Call("concat", "foo", "bar")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{"foobar"}, outs)
	})

	t.Run("it should transform only the decorated parameter", func(t *testing.T) {
		// GIVEN
		upper := transforming("upper", func(value any) (any, error) {
			return strings.ToUpper(value.(string)), nil
		})
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("concat", func(a, b string) string { return a + b },
					Params(
						NewParam("a"),
						NewParam("b", ParamDecoratedBy(upper)),
					),
				),
			),
		))

		// WHEN
		outs, err := defined.Call("concat", "foo", "bar")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{"fooBAR"}, outs)
	})

	t.Run("it should hand a rest transform the collected variadic arguments", func(t *testing.T) {
		// GIVEN
		reversing := transforming("reversing", func(value any) (any, error) {
			values := value.([]any)
			reversed := make([]any, len(values))
			for i, v := range values {
				reversed[len(values)-1-i] = v
			}
			return reversed, nil
		})
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("join", func(sep string, parts ...string) string {
					return strings.Join(parts, sep)
				},
					Params(
						NewParam("sep"),
						NewParam("parts", Rest(), ParamDecoratedBy(reversing)),
					),
				),
			),
		))

		// WHEN
		outs, err := defined.Call("join", "-", "a", "b", "c")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{"c-b-a"}, outs)
	})

	t.Run("it should propagate transform failures to the caller", func(t *testing.T) {
		// GIVEN
		rejecting := transforming("rejecting", func(value any) (any, error) {
			return nil, errors.New("not on my watch")
		})
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("doIt", func(value string) string { return value },
					Params(NewParam("value", ParamDecoratedBy(rejecting))),
				),
			),
		))

		// WHEN
		_, err := defined.Call("doIt", "anything")

		// THEN
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDecoratorApplication)
		assert.Contains(t, err.Error(), "not on my watch")
	})

	t.Run("it should recover a panicking transform as an application failure", func(t *testing.T) {
		// GIVEN
		panicking := transforming("panicking", func(value any) (any, error) {
			panic("kaboom")
		})
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("doIt", func(value string) string { return value },
					Params(NewParam("value", ParamDecoratedBy(panicking))),
				),
			),
		))

		// WHEN
		_, err := defined.Call("doIt", "anything")

		// THEN
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDecoratorApplication)
	})

	t.Run("it should skip the transform of an argument that was not supplied", func(t *testing.T) {
		// GIVEN
		applied := false
		spy := transforming("spy", func(value any) (any, error) {
			applied = true
			return value, nil
		})
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("doIt", func(values ...string) int { return len(values) },
					Params(
						NewParam("first"),
						NewParam("second", ParamDecoratedBy(spy)),
					),
				),
			),
		))

		// WHEN
		outs, err := defined.Call("doIt", "only-one")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []any{1}, outs)
		assert.False(t, applied)
	})

	t.Run("it should surface errors returned by the implementation", func(t *testing.T) {
		// GIVEN
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("failing", func() (string, error) {
					return "", errors.New("implementation failed")
				}),
			),
		))

		// WHEN
		_, err := defined.Call("failing")

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "implementation failed")
	})

	t.Run("it should fail on unknown members", func(t *testing.T) {
		// GIVEN
		defined := defineForTest(t, MustNewClass("Example"))

		// WHEN
		_, err := defined.Call("nope")

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no method nope")
	})

	t.Run("it should route setters through their transforms", func(t *testing.T) {
		// GIVEN
		var stored string
		trim := transforming("trim", func(value any) (any, error) {
			return strings.TrimSpace(value.(string)), nil
		})
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewSetter("name", func(value string) { stored = value },
					Params(NewParam("value", ParamDecoratedBy(trim))),
				),
			),
		))

		// WHEN
		err := defined.Set("name", "  waldo  ")

		// THEN
		require.NoError(t, err)
		assert.Equal(t, "waldo", stored)
	})

	t.Run("it should keep static and instance members apart", func(t *testing.T) {
		// GIVEN
		defined := defineForTest(t, MustNewClass("Example",
			Members(
				NewMethod("which", func() string { return "instance" }),
				NewStaticMethod("which", func() string { return "static" }),
			),
		))

		// WHEN
		instanceOuts, err1 := defined.Call("which")
		staticOuts, err2 := defined.CallStatic("which")

		// THEN
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, []any{"instance"}, instanceOuts)
		assert.Equal(t, []any{"static"}, staticOuts)
	})
}
