package promptmesh

import (
	"github.com/hupe1980/promptmesh/core"
	"github.com/hupe1980/promptmesh/internal/util"
	"github.com/hupe1980/promptmesh/picoschema"
)

// RenderMetadata resolves the final metadata for a parsed prompt: the
// model-config defaults, the prompt's own frontmatter and the caller's
// additional metadata are merged in that order, then tools and schemas are
// resolved.
func (pm *PromptMesh) RenderMetadata(prompt *core.ParsedPrompt, additional *core.PromptMetadata) (*core.PromptMetadata, error) {
	model := prompt.Metadata.Model
	if additional != nil && additional.Model != "" {
		model = additional.Model
	}
	if model == "" {
		model = pm.opts.DefaultModel
	}

	base := &core.PromptMetadata{}
	if cfg, ok := pm.opts.ModelConfigs[model]; ok {
		base.Config = util.CopyMap(cfg)
	}

	return pm.ResolveMetadata(base, &prompt.Metadata, additional)
}

// ResolveMetadata merges metadata objects left to right (later ones win),
// applies the default model, resolves tool names and compiles the compact
// input and output schemas.
func (pm *PromptMesh) ResolveMetadata(base *core.PromptMetadata, merges ...*core.PromptMetadata) (*core.PromptMetadata, error) {
	out := *base
	for _, merge := range merges {
		if merge != nil {
			out = mergeMetadata(out, *merge)
		}
	}

	if out.Model == "" {
		out.Model = pm.opts.DefaultModel
	}

	resolved, err := pm.ResolveTools(&out)
	if err != nil {
		return nil, err
	}
	return pm.RenderPicoschema(resolved)
}

// mergeMetadata overlays merge onto current. Set fields, including Config,
// replace their counterparts wholesale; absent fields leave the current
// value alone. Only the free-form Metadata map merges key-wise.
func mergeMetadata(current, merge core.PromptMetadata) core.PromptMetadata {
	out := current

	if merge.Name != "" {
		out.Name = merge.Name
	}
	if merge.Variant != "" {
		out.Variant = merge.Variant
	}
	if merge.Version != "" {
		out.Version = merge.Version
	}
	if merge.Description != "" {
		out.Description = merge.Description
	}
	if merge.Model != "" {
		out.Model = merge.Model
	}
	if merge.Tools != nil {
		out.Tools = merge.Tools
	}
	if merge.ToolDefs != nil {
		out.ToolDefs = merge.ToolDefs
	}
	if merge.Config != nil {
		out.Config = merge.Config
	}
	if merge.Input != nil {
		out.Input = merge.Input
	}
	if merge.Output != nil {
		out.Output = merge.Output
	}
	if merge.Raw != nil {
		out.Raw = merge.Raw
	}
	if merge.Ext != nil {
		out.Ext = merge.Ext
	}
	if merge.Metadata != nil {
		out.Metadata = util.MergeMaps(current.Metadata, merge.Metadata)
	}

	return out
}

// ResolveTools resolves every name in metadata.Tools through the registry
// first, then the ToolResolver. Resolved definitions are appended to
// ToolDefs; names nothing can resolve remain listed in Tools.
func (pm *PromptMesh) ResolveTools(metadata *core.PromptMetadata) (*core.PromptMetadata, error) {
	out := *metadata
	if out.Tools == nil {
		return &out, nil
	}

	var unresolved []string
	for _, name := range out.Tools {
		if def, ok := pm.lookupTool(name); ok {
			out.ToolDefs = append(out.ToolDefs, def)
			continue
		}
		if pm.opts.ToolResolver != nil {
			def, err := pm.opts.ToolResolver.ResolveTool(name)
			if err != nil {
				return nil, err
			}
			if def != nil {
				out.ToolDefs = append(out.ToolDefs, *def)
				continue
			}
		}
		unresolved = append(unresolved, name)
	}

	out.Tools = unresolved
	return &out, nil
}

// RenderPicoschema compiles the compact input and output schemas into full
// JSON Schema. Metadata without schemas passes through unchanged.
func (pm *PromptMesh) RenderPicoschema(metadata *core.PromptMetadata) (*core.PromptMetadata, error) {
	needsInput := metadata.Input != nil && metadata.Input.Schema != nil
	needsOutput := metadata.Output != nil && metadata.Output.Schema != nil
	if !needsInput && !needsOutput {
		return metadata, nil
	}

	out := *metadata
	opts := &picoschema.Options{SchemaResolver: pm.wrappedSchemaResolver()}

	if needsInput {
		input := *metadata.Input
		compiled, err := picoschema.Compile(util.DeepCopyValue(input.Schema), opts)
		if err != nil {
			return nil, err
		}
		input.Schema = compiled
		out.Input = &input
	}

	if needsOutput {
		output := *metadata.Output
		compiled, err := picoschema.Compile(util.DeepCopyValue(output.Schema), opts)
		if err != nil {
			return nil, err
		}
		output.Schema = compiled
		out.Output = &output
	}

	return &out, nil
}

// wrappedSchemaResolver consults the local schema registry before
// delegating to the configured SchemaResolver.
func (pm *PromptMesh) wrappedSchemaResolver() core.SchemaResolver {
	return core.SchemaResolverFunc(func(name string) (core.Schema, error) {
		if schema, ok := pm.lookupSchema(name); ok {
			return schema, nil
		}
		if pm.opts.SchemaResolver != nil {
			return pm.opts.SchemaResolver.ResolveSchema(name)
		}
		return nil, nil
	})
}
