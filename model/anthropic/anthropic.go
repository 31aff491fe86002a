// Package anthropic converts rendered prompts into Anthropic Messages API
// requests. System messages are lifted into the request's System blocks,
// the remaining turns become user and assistant messages, and tool
// definitions are translated into the tool input schema format.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/hupe1980/promptmesh/core"
	"github.com/hupe1980/promptmesh/model"
)

const defaultMaxTokens = 4096

// Options configure the Anthropic adapter.
type Options struct {
	// DefaultModel is used when the rendered prompt names no model.
	DefaultModel anthropic.Model
	// APIKey overrides the key taken from the environment.
	APIKey string
}

// Adapter executes rendered prompts against the Anthropic Messages API.
type Adapter struct {
	client *anthropic.Client
	opts   Options
}

// NewAdapter creates an adapter using the official client.
func NewAdapter(optFns ...func(o *Options)) *Adapter {
	opts := Options{
		DefaultModel: anthropic.ModelClaude3_5Sonnet20241022,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Adapter{client: &client, opts: opts}
}

// NewAdapterFromClient creates an adapter from an existing client.
func NewAdapterFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Adapter {
	opts := Options{
		DefaultModel: anthropic.ModelClaude3_5Sonnet20241022,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{client: client, opts: opts}
}

// BuildParams converts a rendered prompt into Messages API parameters.
func (a *Adapter) BuildParams(rendered *core.RenderedPrompt) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     a.modelID(rendered.Metadata),
		Messages:  buildMessages(rendered.Messages),
		MaxTokens: defaultMaxTokens,
	}

	config := rendered.Metadata.Config
	if v, ok := model.FloatConfig(config, "temperature"); ok {
		params.Temperature = anthropic.Float(v)
	}
	if v, ok := model.IntConfig(config, "maxOutputTokens"); ok {
		params.MaxTokens = v
	}
	if v, ok := model.StringsConfig(config, "stopSequences"); ok {
		params.StopSequences = v
	}

	if system := extractSystemBlocks(rendered.Messages); len(system) > 0 {
		params.System = system
	}
	if tools := buildTools(rendered.Metadata.ToolDefs); len(tools) > 0 {
		params.Tools = tools
	}

	return params
}

// Complete executes the rendered prompt and returns the reply as a model
// message.
func (a *Adapter) Complete(ctx context.Context, rendered *core.RenderedPrompt) (*core.Message, error) {
	resp, err := a.client.Messages.New(ctx, a.BuildParams(rendered))
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var parts []core.Part
	for _, block := range resp.Content {
		if block.Type == "text" {
			if text := block.AsText().Text; text != "" {
				parts = append(parts, &core.TextPart{Text: text})
			}
		}
	}

	return &core.Message{Role: core.RoleModel, Content: parts}, nil
}

func (a *Adapter) modelID(metadata core.PromptMetadata) anthropic.Model {
	if metadata.Model != "" {
		return anthropic.Model(metadata.Model)
	}
	return a.opts.DefaultModel
}

// buildMessages converts the non-system turns into Anthropic messages.
// Unknown roles are treated as user.
func buildMessages(messages []core.Message) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, msg := range messages {
		if msg.Role == core.RoleSystem {
			continue
		}
		text := model.TextContent(msg)
		if text == "" {
			continue
		}
		if msg.Role == core.RoleModel {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
			continue
		}
		out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
	}
	return out
}

// extractSystemBlocks lifts system turns into request-level system blocks.
func extractSystemBlocks(messages []core.Message) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, msg := range messages {
		if msg.Role != core.RoleSystem {
			continue
		}
		if text := model.TextContent(msg); text != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: text})
		}
	}
	return blocks
}

func buildTools(defs []core.ToolDefinition) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}
		if def.InputSchema != nil {
			if properties, ok := def.InputSchema["properties"]; ok {
				inputSchema.Properties = properties
			}
			inputSchema.Required = requiredStrings(def.InputSchema["required"])
		}
		tools = append(tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: inputSchema,
			},
		})
	}
	return tools
}

func requiredStrings(v any) []string {
	switch required := v.(type) {
	case []string:
		return required
	case []any:
		var out []string
		for _, r := range required {
			if s, ok := r.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
