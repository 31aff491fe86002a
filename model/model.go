package model

import (
	"context"
	"strings"

	"github.com/hupe1980/promptmesh/core"
)

// Adapter executes a rendered prompt against a concrete provider and
// returns the model's reply as a message.
type Adapter interface {
	Complete(ctx context.Context, rendered *core.RenderedPrompt) (*core.Message, error)
}

// FloatConfig reads a numeric config value. YAML decodes numbers as int or
// float64 depending on their notation, so both are accepted.
func FloatConfig(config map[string]any, key string) (float64, bool) {
	switch v := config[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// IntConfig reads an integer config value.
func IntConfig(config map[string]any, key string) (int64, bool) {
	switch v := config[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// StringsConfig reads a list-of-strings config value.
func StringsConfig(config map[string]any, key string) ([]string, bool) {
	items, ok := config[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, len(out) > 0
}

// TextContent flattens a message's text parts into one string. Non-text
// parts are skipped; providers that support them handle those separately.
func TextContent(msg core.Message) string {
	var b strings.Builder
	for _, part := range msg.Content {
		if tp, ok := part.(*core.TextPart); ok {
			b.WriteString(tp.Text)
		}
	}
	return b.String()
}
