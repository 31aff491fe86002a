package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/promptmesh/core"
	"github.com/hupe1980/promptmesh/internal/testutil"
)

func TestBuildParams(t *testing.T) {
	adapter := NewAdapter()

	t.Run("maps roles onto message constructors", func(t *testing.T) {
		rendered := &core.RenderedPrompt{Messages: []core.Message{
			testutil.NewMessageBuilder().Role(core.RoleSystem).Text("Be terse.").Build(),
			testutil.NewMessageBuilder().Text("Hello!").Build(),
			testutil.NewMessageBuilder().Role(core.RoleModel).Text("Hi.").Build(),
		}}

		params := adapter.BuildParams(rendered)
		require.Len(t, params.Messages, 3)
		assert.NotNil(t, params.Messages[0].OfSystem)
		assert.NotNil(t, params.Messages[1].OfUser)
		assert.NotNil(t, params.Messages[2].OfAssistant)
	})

	t.Run("empty messages are dropped", func(t *testing.T) {
		rendered := &core.RenderedPrompt{Messages: []core.Message{
			testutil.NewMessageBuilder().Text("").Build(),
			testutil.NewMessageBuilder().Text("kept").Build(),
		}}

		params := adapter.BuildParams(rendered)
		assert.Len(t, params.Messages, 1)
	})

	t.Run("prompt model wins over the default", func(t *testing.T) {
		rendered := &core.RenderedPrompt{
			Metadata: core.PromptMetadata{Model: "gpt-4o"},
			Messages: []core.Message{testutil.NewMessageBuilder().Text("hi").Build()},
		}
		params := adapter.BuildParams(rendered)
		assert.Equal(t, openai.ChatModel("gpt-4o"), params.Model)
	})

	t.Run("default model fills the gap", func(t *testing.T) {
		rendered := &core.RenderedPrompt{
			Messages: []core.Message{testutil.NewMessageBuilder().Text("hi").Build()},
		}
		params := adapter.BuildParams(rendered)
		assert.Equal(t, openai.ChatModelGPT4oMini, params.Model)
	})

	t.Run("config keys translate to request fields", func(t *testing.T) {
		rendered := &core.RenderedPrompt{
			Metadata: core.PromptMetadata{Config: map[string]any{
				"temperature":     0.2,
				"topP":            0.9,
				"maxOutputTokens": 512,
			}},
			Messages: []core.Message{testutil.NewMessageBuilder().Text("hi").Build()},
		}

		params := adapter.BuildParams(rendered)
		assert.Equal(t, 0.2, params.Temperature.Value)
		assert.Equal(t, 0.9, params.TopP.Value)
		assert.Equal(t, int64(512), params.MaxCompletionTokens.Value)
	})

	t.Run("tool definitions become function tools", func(t *testing.T) {
		rendered := &core.RenderedPrompt{
			Metadata: core.PromptMetadata{ToolDefs: []core.ToolDefinition{{
				Name:        "getWeather",
				Description: "Look up the current weather",
				InputSchema: core.Schema{
					"type":       "object",
					"properties": map[string]any{"city": map[string]any{"type": "string"}},
				},
			}}},
			Messages: []core.Message{testutil.NewMessageBuilder().Text("hi").Build()},
		}

		params := adapter.BuildParams(rendered)
		require.Len(t, params.Tools, 1)
		assert.Equal(t, "getWeather", params.Tools[0].Function.Name)
		assert.Equal(t, "Look up the current weather", params.Tools[0].Function.Description.Value)
		assert.NotNil(t, params.Tools[0].Function.Parameters)
	})
}
