package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var testLogger = zerolog.Nop()

func Test_parseDecoratorAnnotation(t *testing.T) {
	t.Run("it should parse properties from the annotation line", func(t *testing.T) {
		// GIVEN
		doc := `Uppercases string arguments.
@decorator named=upper kind=parameter priority=10`

		// WHEN
		annotation := parseDecoratorAnnotation(&testLogger, doc)

		// THEN
		named, found := annotation.Named()
		assert.True(t, found)
		assert.Equal(t, "upper", named)

		kind, found := annotation.Kind()
		assert.True(t, found)
		assert.Equal(t, "parameter", kind)

		priority, found := annotation.Priority()
		assert.True(t, found)
		assert.Equal(t, 10, priority)

		assert.Equal(t, "Uppercases string arguments.", annotation.description)
	})

	t.Run("it should parse quoted values", func(t *testing.T) {
		// GIVEN
		doc := `@decorator named="with spaces" kind=method`

		// WHEN
		annotation := parseDecoratorAnnotation(&testLogger, doc)

		// THEN
		named, found := annotation.Named()
		assert.True(t, found)
		assert.Equal(t, "with spaces", named)
	})

	t.Run("it should default the kind to parameter", func(t *testing.T) {
		// GIVEN
		doc := `@decorator named=trim`

		// WHEN
		annotation := parseDecoratorAnnotation(&testLogger, doc)

		// THEN
		kind, found := annotation.Kind()
		assert.False(t, found)
		assert.Equal(t, "parameter", kind)
	})

	t.Run("it should fall back to parameter on unknown kinds", func(t *testing.T) {
		// GIVEN
		doc := `@decorator named=trim kind=field`

		// WHEN
		annotation := parseDecoratorAnnotation(&testLogger, doc)

		// THEN
		kind, found := annotation.Kind()
		assert.False(t, found)
		assert.Equal(t, "parameter", kind)
	})

	t.Run("it should collect multi line descriptions and skip other annotations", func(t *testing.T) {
		// GIVEN
		doc := `Trims whitespace.
Also handles tabs.
@decorator named=trim
@deprecated`

		// WHEN
		annotation := parseDecoratorAnnotation(&testLogger, doc)

		// THEN
		assert.Equal(t, "Trims whitespace.\nAlso handles tabs.", annotation.description)
	})

	t.Run("it should report unknown properties", func(t *testing.T) {
		// GIVEN
		doc := `@decorator named=trim scope=global`

		// WHEN
		annotation := parseDecoratorAnnotation(&testLogger, doc)

		// THEN
		assert.Equal(t, []string{"scope"}, annotation.UnknownProperties())
	})

	t.Run("it should ignore non numeric priorities", func(t *testing.T) {
		// GIVEN
		doc := `@decorator named=trim priority=high`

		// WHEN
		annotation := parseDecoratorAnnotation(&testLogger, doc)

		// THEN
		_, found := annotation.Priority()
		assert.False(t, found)
	})
}
