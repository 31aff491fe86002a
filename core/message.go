package core

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks input authored by the end user.
	RoleUser Role = "user"
	// RoleModel marks output authored by the generative model.
	RoleModel Role = "model"
	// RoleTool marks tool invocation results.
	RoleTool Role = "tool"
	// RoleSystem marks system instructions.
	RoleSystem Role = "system"
)

// Message is a single role-tagged conversation turn holding ordered parts.
type Message struct {
	Role     Role           `json:"role"`
	Content  []Part         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HasPurpose reports whether the message metadata carries the given purpose
// tag (e.g. "history" for spliced prior turns).
func (m Message) HasPurpose(purpose string) bool {
	if m.Metadata == nil {
		return false
	}
	return m.Metadata["purpose"] == purpose
}

// Document is an auxiliary content container supplied alongside render input
// (e.g. retrieval results). It carries parts without a conversation role.
type Document struct {
	Content  []Part         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// DataArgument bundles everything a caller supplies for a single render:
// template input variables, auxiliary documents, prior conversation turns
// and a context map exposed to templates under reserved namespaces.
type DataArgument struct {
	Input    any            `json:"input,omitempty"`
	Docs     []Document     `json:"docs,omitempty"`
	Messages []Message      `json:"messages,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}
