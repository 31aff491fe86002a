// Package promptmesh provides a high-level façade over the prompt pipeline
// (frontmatter parsing, Handlebars expansion, marker decoding and schema
// compilation) enabling rapid construction of model-agnostic prompt
// tooling. Most applications interact with this package by:
//  1. Creating a PromptMesh via New() (optionally registering helpers,
//     partials, tools and schemas)
//  2. Parsing or compiling .prompt sources
//  3. Rendering them with input data and conversation history into ordered
//     messages ready to hand to a model adapter
//
// The façade delegates the text-level stages to the parse package and
// schema compilation to the picoschema package while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a prompt store and a
// structured logger.
package promptmesh

import (
	"sync"

	"github.com/hupe1980/promptmesh/core"
	"github.com/hupe1980/promptmesh/helper"
	"github.com/hupe1980/promptmesh/logging"
	"github.com/hupe1980/promptmesh/parse"
	"github.com/hupe1980/promptmesh/store"
)

// Options configures the PromptMesh instance.
type Options struct {
	// DefaultModel is used when neither the prompt nor the caller names one.
	DefaultModel string

	// ModelConfigs supplies per-model default configuration, used when
	// neither the prompt nor the caller sets a config of its own.
	ModelConfigs map[string]map[string]any

	// Helpers are custom Handlebars helpers registered alongside the
	// builtins. Builtins win on name collisions.
	Helpers map[string]any

	// Partials are preregistered partial templates by name.
	Partials map[string]string

	// Tools are preregistered tool definitions by name.
	Tools map[string]core.ToolDefinition

	// Schemas are preregistered named schemas referenced from picoschema.
	Schemas map[string]core.Schema

	// ToolResolver resolves tool names not found in the registry.
	ToolResolver core.ToolResolver

	// SchemaResolver resolves schema names not found in the registry.
	SchemaResolver core.SchemaResolver

	// PartialResolver resolves partial names not found in the registry.
	PartialResolver core.PartialResolver

	// Store is consulted for partials as a fallback after PartialResolver.
	Store store.PromptStore

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// PromptMesh is the high-level façade aggregating the registries and the
// render pipeline. All Define* methods are safe for concurrent use with
// Render.
type PromptMesh struct {
	opts Options

	mu       sync.RWMutex
	helpers  map[string]any
	partials map[string]string
	tools    map[string]core.ToolDefinition
	schemas  map[string]core.Schema
}

// New creates a new PromptMesh instance with optional overrides.
func New(optFns ...func(o *Options)) *PromptMesh {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	pm := &PromptMesh{
		opts:     opts,
		helpers:  map[string]any{},
		partials: map[string]string{},
		tools:    map[string]core.ToolDefinition{},
		schemas:  map[string]core.Schema{},
	}

	for name, fn := range opts.Helpers {
		pm.helpers[name] = fn
	}
	for name, source := range opts.Partials {
		pm.partials[name] = source
	}
	for name, def := range opts.Tools {
		pm.tools[name] = def
	}
	for name, schema := range opts.Schemas {
		pm.schemas[name] = schema
	}

	return pm
}

// DefineHelper registers a custom Handlebars helper. Builtin helper names
// cannot be overridden.
func (pm *PromptMesh) DefineHelper(name string, fn any) *PromptMesh {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.helpers[name] = fn
	return pm
}

// DefinePartial registers a partial template under the given name.
func (pm *PromptMesh) DefinePartial(name, source string) *PromptMesh {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.partials[name] = source
	return pm
}

// DefineTool registers a tool definition under its name.
func (pm *PromptMesh) DefineTool(definition core.ToolDefinition) *PromptMesh {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.tools[definition.Name] = definition
	return pm
}

// DefineSchema registers a named schema for picoschema references.
func (pm *PromptMesh) DefineSchema(name string, schema core.Schema) *PromptMesh {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.schemas[name] = schema
	return pm
}

// Parse splits a prompt source into frontmatter metadata and template body.
func (pm *PromptMesh) Parse(source string) (*core.ParsedPrompt, error) {
	return parse.ParseDocument(source)
}

func (pm *PromptMesh) logger() logging.Logger {
	if pm.opts.Logger == nil {
		return logging.NoOpLogger{}
	}
	return pm.opts.Logger
}

// snapshotHelpers copies the helper registry, with builtins taking
// precedence on name collisions.
func (pm *PromptMesh) snapshotHelpers() map[string]any {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	helpers := make(map[string]any, len(helper.Builtins)+len(pm.helpers))
	for name, fn := range pm.helpers {
		helpers[name] = fn
	}
	for name, fn := range helper.Builtins {
		helpers[name] = fn
	}
	return helpers
}

func (pm *PromptMesh) lookupPartial(name string) (string, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	source, ok := pm.partials[name]
	return source, ok
}

func (pm *PromptMesh) lookupTool(name string) (core.ToolDefinition, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	def, ok := pm.tools[name]
	return def, ok
}

func (pm *PromptMesh) lookupSchema(name string) (core.Schema, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	schema, ok := pm.schemas[name]
	return schema, ok
}
