package picoschema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/promptmesh/core"
)

func TestCompileScalars(t *testing.T) {
	t.Run("nil compiles to nil", func(t *testing.T) {
		schema, err := Compile(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, schema)
	})

	t.Run("bare type keyword", func(t *testing.T) {
		schema, err := Compile("string", nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema{"type": "string"}, schema)
	})

	t.Run("any becomes the empty schema", func(t *testing.T) {
		schema, err := Compile("any", nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema{}, schema)
	})

	t.Run("type with description", func(t *testing.T) {
		schema, err := Compile("number, the temperature in celsius", nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema{
			"type":        "number",
			"description": "the temperature in celsius",
		}, schema)
	})

	t.Run("array suffix", func(t *testing.T) {
		schema, err := Compile("string[]", nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema{
			"type":  "array",
			"items": core.Schema{"type": "string"},
		}, schema)
	})

	t.Run("union types", func(t *testing.T) {
		schema, err := Compile("string | null", nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema{
			"anyOf": []any{
				core.Schema{"type": "string"},
				core.Schema{"type": "null"},
			},
		}, schema)
	})

	t.Run("unknown type names the bad token", func(t *testing.T) {
		_, err := Compile("strnig", nil)
		require.Error(t, err)
		assert.True(t, core.IsKind(err, core.ErrPicoschema))
		assert.Contains(t, err.Error(), "strnig")
	})

	t.Run("unsupported value kind", func(t *testing.T) {
		_, err := Compile(42, nil)
		require.Error(t, err)
		assert.True(t, core.IsKind(err, core.ErrPicoschema))
	})
}

func TestCompilePassthrough(t *testing.T) {
	t.Run("schema with type is returned as-is", func(t *testing.T) {
		input := map[string]any{"type": "object", "properties": map[string]any{}}
		schema, err := Compile(input, nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema(input), schema)
	})

	t.Run("schema with properties is returned as-is", func(t *testing.T) {
		input := map[string]any{"properties": map[string]any{"a": map[string]any{"type": "string"}}}
		schema, err := Compile(input, nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema(input), schema)
	})
}

func TestCompileObjects(t *testing.T) {
	t.Run("required and optional fields", func(t *testing.T) {
		schema, err := Compile(map[string]any{
			"name":      "string, the user name",
			"nickname?": "string",
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, "object", schema["type"])
		assert.Equal(t, false, schema["additionalProperties"])
		assert.Equal(t, []string{"name"}, schema["required"])

		props := schema["properties"].(map[string]any)
		if diff := cmp.Diff(core.Schema{
			"type":        "string",
			"description": "the user name",
		}, props["name"]); diff != "" {
			t.Errorf("name property mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(core.Schema{
			"type": []any{"string", "null"},
		}, props["nickname"]); diff != "" {
			t.Errorf("nickname property mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("required field order is stable across compilations", func(t *testing.T) {
		input := map[string]any{
			"alpha": "string",
			"bravo": "string",
			"delta": "string",
			"echo":  "string",
			"gamma": "string",
		}
		for range 50 {
			schema, err := Compile(input, nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "bravo", "delta", "echo", "gamma"}, schema["required"])
		}
	})

	t.Run("required is omitted when every field is optional", func(t *testing.T) {
		schema, err := Compile(map[string]any{"nickname?": "string"}, nil)
		require.NoError(t, err)
		_, ok := schema["required"]
		assert.False(t, ok)
	})

	t.Run("nested objects", func(t *testing.T) {
		schema, err := Compile(map[string]any{
			"address": map[string]any{"street": "string"},
		}, nil)
		require.NoError(t, err)

		address := schema["properties"].(map[string]any)["address"].(core.Schema)
		assert.Equal(t, "object", address["type"])
		assert.Equal(t, []string{"street"}, address["required"])
	})

	t.Run("wildcard sets additionalProperties", func(t *testing.T) {
		schema, err := Compile(map[string]any{"(*)": "string"}, nil)
		require.NoError(t, err)
		assert.Equal(t, core.Schema{"type": "string"}, schema["additionalProperties"])
	})

	t.Run("parenthetical array", func(t *testing.T) {
		schema, err := Compile(map[string]any{
			"tags(array, list of tags)": "string",
		}, nil)
		require.NoError(t, err)

		tags := schema["properties"].(map[string]any)["tags"].(core.Schema)
		assert.Equal(t, "array", tags["type"])
		assert.Equal(t, "list of tags", tags["description"])
		assert.Equal(t, core.Schema{"type": "string"}, tags["items"])
	})

	t.Run("optional parenthetical array", func(t *testing.T) {
		schema, err := Compile(map[string]any{
			"tags?(array)": "string",
		}, nil)
		require.NoError(t, err)

		tags := schema["properties"].(map[string]any)["tags"].(core.Schema)
		assert.Equal(t, []any{"array", "null"}, tags["type"])
	})

	t.Run("parenthetical enum", func(t *testing.T) {
		schema, err := Compile(map[string]any{
			"status(enum, current status)": []any{"active", "inactive"},
		}, nil)
		require.NoError(t, err)

		status := schema["properties"].(map[string]any)["status"].(core.Schema)
		assert.Equal(t, []any{"active", "inactive"}, status["enum"])
		assert.Equal(t, "current status", status["description"])
	})

	t.Run("optional enum appends null", func(t *testing.T) {
		schema, err := Compile(map[string]any{
			"status?(enum)": []any{"active"},
		}, nil)
		require.NoError(t, err)

		status := schema["properties"].(map[string]any)["status"].(core.Schema)
		assert.Equal(t, []any{"active", nil}, status["enum"])
	})

	t.Run("enum requires a value list", func(t *testing.T) {
		_, err := Compile(map[string]any{"status(enum)": "active"}, nil)
		require.Error(t, err)
		assert.True(t, core.IsKind(err, core.ErrPicoschema))
	})

	t.Run("unknown parenthetical form", func(t *testing.T) {
		_, err := Compile(map[string]any{"field(tuple)": "string"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tuple")
	})
}

func TestCompileWithResolver(t *testing.T) {
	resolver := core.SchemaResolverFunc(func(name string) (core.Schema, error) {
		if name == "Address" {
			return core.Schema{
				"type":       "object",
				"properties": map[string]any{"street": map[string]any{"type": "string"}},
			}, nil
		}
		return nil, nil
	})

	t.Run("resolves named schemas", func(t *testing.T) {
		schema, err := Compile("Address", &Options{SchemaResolver: resolver})
		require.NoError(t, err)
		assert.Equal(t, "object", schema["type"])
	})

	t.Run("unresolved names still error", func(t *testing.T) {
		_, err := Compile("Person", &Options{SchemaResolver: resolver})
		require.Error(t, err)
		assert.True(t, core.IsKind(err, core.ErrPicoschema))
	})
}
