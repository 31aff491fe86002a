package core

// Schema is a JSON Schema value. Compact picoschema notation is compiled
// into this shape before use.
type Schema = map[string]any

// ToolDefinition describes a callable tool in a model-agnostic way.
type ToolDefinition struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	InputSchema  Schema `json:"inputSchema,omitempty" yaml:"inputSchema,omitempty"`
	OutputSchema Schema `json:"outputSchema,omitempty" yaml:"outputSchema,omitempty"`
}

// InputConfig declares the template's expected input variables.
type InputConfig struct {
	// Default values merged underneath the caller-supplied input.
	Default map[string]any `json:"default,omitempty" yaml:"default,omitempty"`
	// Schema for the input, either compact picoschema or full JSON Schema.
	Schema any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// OutputConfig declares the desired shape of model output.
type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // e.g. "json", "text"
	Schema any    `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// PromptMetadata is the resolved frontmatter of a prompt template. The
// Config payload is deliberately an opaque map so callers can attach
// arbitrary model configuration shapes without forking this type.
type PromptMetadata struct {
	Name        string `json:"name,omitempty"`
	Variant     string `json:"variant,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	// Model identifier, e.g. "googleai/gemini-1.5-pro".
	Model string `json:"model,omitempty"`

	// Tools lists tool names to resolve; ToolDefs holds inline and resolved
	// definitions. Resolution appends to ToolDefs, it never replaces it.
	Tools    []string         `json:"tools,omitempty"`
	ToolDefs []ToolDefinition `json:"toolDefs,omitempty"`

	// Config is the opaque model configuration payload.
	Config map[string]any `json:"config,omitempty"`

	Input  *InputConfig  `json:"input,omitempty"`
	Output *OutputConfig `json:"output,omitempty"`

	// Raw preserves the parsed frontmatter map untouched.
	Raw map[string]any `json:"raw,omitempty"`
	// Ext holds namespaced extension fields ("ns.key: v" -> Ext["ns"]["key"]).
	Ext map[string]map[string]any `json:"ext,omitempty"`
	// Metadata carries free-form side-channel values.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ParsedPrompt pairs frontmatter metadata with the remaining template body.
type ParsedPrompt struct {
	Metadata PromptMetadata
	// Template body. Trimmed of surrounding whitespace only when a
	// frontmatter block was present in the source.
	Template string
}

// RenderedPrompt is the final pipeline output: resolved metadata plus the
// ordered messages ready to send to a model. It is not mutated after
// construction.
type RenderedPrompt struct {
	Metadata PromptMetadata `json:"metadata"`
	Messages []Message      `json:"messages"`
}

// PromptRef identifies a stored prompt by name, variant and version.
type PromptRef struct {
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
	Version string `json:"version,omitempty"`
}

// PromptData is a stored prompt's reference plus its template source.
type PromptData struct {
	PromptRef
	Source string `json:"source"`
}

// PartialRef identifies a stored partial template.
type PartialRef struct {
	Name    string `json:"name"`
	Variant string `json:"variant,omitempty"`
	Version string `json:"version,omitempty"`
}

// PartialData is a stored partial's reference plus its template source.
type PartialData struct {
	PartialRef
	Source string `json:"source"`
}
