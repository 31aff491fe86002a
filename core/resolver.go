package core

// ToolResolver resolves a tool name to its definition. Returning a nil
// definition with a nil error means "unknown here, keep looking".
type ToolResolver interface {
	ResolveTool(name string) (*ToolDefinition, error)
}

// ToolResolverFunc adapts a plain function to the ToolResolver interface.
type ToolResolverFunc func(name string) (*ToolDefinition, error)

func (f ToolResolverFunc) ResolveTool(name string) (*ToolDefinition, error) {
	return f(name)
}

// SchemaResolver resolves a named schema referenced from picoschema
// notation. Returning nil, nil means the name is unknown.
type SchemaResolver interface {
	ResolveSchema(name string) (Schema, error)
}

// SchemaResolverFunc adapts a plain function to the SchemaResolver interface.
type SchemaResolverFunc func(name string) (Schema, error)

func (f SchemaResolverFunc) ResolveSchema(name string) (Schema, error) {
	return f(name)
}

// PartialResolver resolves a partial template name to its source text.
// Returning an empty string with a nil error means the partial is unknown.
type PartialResolver interface {
	ResolvePartial(name string) (string, error)
}

// PartialResolverFunc adapts a plain function to the PartialResolver interface.
type PartialResolverFunc func(name string) (string, error)

func (f PartialResolverFunc) ResolvePartial(name string) (string, error) {
	return f(name)
}
