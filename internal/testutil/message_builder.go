package testutil

import "github.com/hupe1980/promptmesh/core"

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().Role(core.RoleModel).Text("hello").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	role     core.Role
	parts    []core.Part
	metadata map[string]any
}

// NewMessageBuilder creates a builder with default role user.
func NewMessageBuilder() *MessageBuilder { return &MessageBuilder{role: core.RoleUser} }

// Role sets the message role (chainable).
func (b *MessageBuilder) Role(r core.Role) *MessageBuilder { b.role = r; return b }

// Text appends a text part (chainable).
func (b *MessageBuilder) Text(text string) *MessageBuilder {
	b.parts = append(b.parts, &core.TextPart{Text: text})
	return b
}

// Media appends a media part (chainable).
func (b *MessageBuilder) Media(url, contentType string) *MessageBuilder {
	b.parts = append(b.parts, &core.MediaPart{Media: core.Media{URL: url, ContentType: contentType}})
	return b
}

// Part appends an arbitrary part (chainable).
func (b *MessageBuilder) Part(p core.Part) *MessageBuilder {
	b.parts = append(b.parts, p)
	return b
}

// Meta sets a metadata key on the message (chainable).
func (b *MessageBuilder) Meta(key string, value any) *MessageBuilder {
	if b.metadata == nil {
		b.metadata = map[string]any{}
	}
	b.metadata[key] = value
	return b
}

// History tags the message with purpose "history" (chainable).
func (b *MessageBuilder) History() *MessageBuilder { return b.Meta("purpose", "history") }

// Build assembles the message.
func (b *MessageBuilder) Build() core.Message {
	return core.Message{Role: b.role, Content: b.parts, Metadata: b.metadata}
}
