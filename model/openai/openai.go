// Package openai converts rendered prompts into OpenAI Chat Completions
// requests. It maps roles onto the SDK's message constructors, flattens
// text parts, extracts tool definitions and translates the common config
// keys (temperature, maxOutputTokens, topP).
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/promptmesh/core"
	"github.com/hupe1980/promptmesh/model"
)

// Options configure the OpenAI adapter.
type Options struct {
	// DefaultModel is used when the rendered prompt names no model.
	DefaultModel string
}

// Adapter executes rendered prompts against the OpenAI Chat Completions API.
type Adapter struct {
	client *openai.Client
	opts   Options
}

// NewAdapter creates an adapter using the default client (API key from env).
func NewAdapter(optFns ...func(o *Options)) *Adapter {
	client := openai.NewClient()
	return NewAdapterFromClient(&client, optFns...)
}

// NewAdapterFromClient creates an adapter from an existing client.
func NewAdapterFromClient(client *openai.Client, optFns ...func(o *Options)) *Adapter {
	opts := Options{
		DefaultModel: openai.ChatModelGPT4oMini,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{client: client, opts: opts}
}

// BuildParams converts a rendered prompt into Chat Completions parameters.
func (a *Adapter) BuildParams(rendered *core.RenderedPrompt) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages: buildMessages(rendered.Messages),
		Model:    a.modelID(rendered.Metadata),
	}

	config := rendered.Metadata.Config
	if v, ok := model.FloatConfig(config, "temperature"); ok {
		params.Temperature = openai.Float(v)
	}
	if v, ok := model.FloatConfig(config, "topP"); ok {
		params.TopP = openai.Float(v)
	}
	if v, ok := model.IntConfig(config, "maxOutputTokens"); ok {
		params.MaxCompletionTokens = openai.Int(v)
	}

	if tools := buildTools(rendered.Metadata.ToolDefs); len(tools) > 0 {
		params.Tools = tools
	}

	return params
}

// Complete executes the rendered prompt and returns the first choice as a
// model message.
func (a *Adapter) Complete(ctx context.Context, rendered *core.RenderedPrompt) (*core.Message, error) {
	resp, err := a.client.Chat.Completions.New(ctx, a.BuildParams(rendered))
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}
	return &core.Message{
		Role:    core.RoleModel,
		Content: []core.Part{&core.TextPart{Text: resp.Choices[0].Message.Content}},
	}, nil
}

func (a *Adapter) modelID(metadata core.PromptMetadata) string {
	if metadata.Model != "" {
		return metadata.Model
	}
	return a.opts.DefaultModel
}

// buildMessages maps rendered messages onto the SDK's role-specific
// constructors. Tool role messages carry no call id in this pipeline and
// are forwarded as user content.
func buildMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		text := model.TextContent(msg)
		if text == "" {
			continue
		}
		switch msg.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(text))
		case core.RoleModel:
			out = append(out, openai.AssistantMessage(text))
		default:
			out = append(out, openai.UserMessage(text))
		}
	}
	return out
}

func buildTools(defs []core.ToolDefinition) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  def.InputSchema,
			},
		})
	}
	return tools
}
