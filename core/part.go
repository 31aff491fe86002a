package core

// Part represents a polymorphic segment of message content. Concrete part
// types implement the unexported isPart marker enabling a closed set, so
// consumers can switch over all variants exhaustively.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text     string         // Plain UTF-8 text
	Metadata map[string]any // Optional producer-provided metadata
}

// isPart implements the Part interface for TextPart.
func (*TextPart) isPart() {}

// DataPart is a structured data segment (e.g., a decoded JSON object).
type DataPart struct {
	Data     map[string]any // Structured key/value payload
	Metadata map[string]any
}

// isPart implements the Part interface for DataPart.
func (*DataPart) isPart() {}

// Media references external media content by URL.
type Media struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType,omitempty"` // Optional MIME type
}

// MediaPart is a media reference segment (image, audio, video, ...).
type MediaPart struct {
	Media    Media
	Metadata map[string]any
}

// isPart implements the Part interface for MediaPart.
func (*MediaPart) isPart() {}

// ToolRequest describes a tool invocation requested by the model.
type ToolRequest struct {
	Name  string `json:"name"`            // Tool name
	Input any    `json:"input,omitempty"` // Arguments payload (any shape)
	Ref   string `json:"ref,omitempty"`   // Optional stable correlation id
}

// ToolRequestPart wraps a ToolRequest as a content part.
type ToolRequestPart struct {
	ToolRequest ToolRequest
	Metadata    map[string]any
}

// isPart implements the Part interface for ToolRequestPart.
func (*ToolRequestPart) isPart() {}

// ToolResponse carries the outcome of a tool invocation.
type ToolResponse struct {
	Name   string `json:"name"`             // Tool name
	Output any    `json:"output,omitempty"` // Result payload (any shape)
	Ref    string `json:"ref,omitempty"`    // Matches the originating request Ref
}

// ToolResponsePart wraps a ToolResponse as a content part.
type ToolResponsePart struct {
	ToolResponse ToolResponse
	Metadata     map[string]any
}

// isPart implements the Part interface for ToolResponsePart.
func (*ToolResponsePart) isPart() {}

// PendingPart is a placeholder segment produced for named sections. It
// carries no literal content; Metadata holds the section purpose and a
// pending=true flag for downstream interpretation.
type PendingPart struct {
	Metadata map[string]any
}

// isPart implements the Part interface for PendingPart.
func (*PendingPart) isPart() {}

// NewPendingPart constructs a PendingPart for the given purpose.
func NewPendingPart(purpose string) *PendingPart {
	return &PendingPart{Metadata: map[string]any{
		"purpose": purpose,
		"pending": true,
	}}
}
