package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/promptmesh/internal/testutil"
)

func TestConfigReaders(t *testing.T) {
	config := map[string]any{
		"temperature":     0.7,
		"maxOutputTokens": 256,
		"stopSequences":   []any{"END", 42},
		"name":            "not a number",
	}

	t.Run("float accepts float and int", func(t *testing.T) {
		v, ok := FloatConfig(config, "temperature")
		assert.True(t, ok)
		assert.Equal(t, 0.7, v)

		v, ok = FloatConfig(config, "maxOutputTokens")
		assert.True(t, ok)
		assert.Equal(t, 256.0, v)

		_, ok = FloatConfig(config, "name")
		assert.False(t, ok)
	})

	t.Run("int accepts yaml number kinds", func(t *testing.T) {
		v, ok := IntConfig(config, "maxOutputTokens")
		assert.True(t, ok)
		assert.Equal(t, int64(256), v)

		_, ok = IntConfig(config, "missing")
		assert.False(t, ok)
	})

	t.Run("strings keeps string items only", func(t *testing.T) {
		v, ok := StringsConfig(config, "stopSequences")
		assert.True(t, ok)
		assert.Equal(t, []string{"END"}, v)

		_, ok = StringsConfig(config, "name")
		assert.False(t, ok)
	})
}

func TestTextContent(t *testing.T) {
	msg := testutil.NewMessageBuilder().
		Text("Hello, ").
		Media("http://example.com/img.png", "image/png").
		Text("world!").
		Build()
	assert.Equal(t, "Hello, world!", TextContent(msg))
}
