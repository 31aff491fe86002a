package promptmesh

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/mbleigh/raymond"

	"github.com/hupe1980/promptmesh/core"
	"github.com/hupe1980/promptmesh/internal/util"
	"github.com/hupe1980/promptmesh/parse"
	"github.com/hupe1980/promptmesh/store"
)

// PromptFunction renders a previously compiled prompt with input data and
// optional per-call metadata overrides.
type PromptFunction func(data *core.DataArgument, options *core.PromptMetadata) (*core.RenderedPrompt, error)

// partialPattern finds {{> name}} references in a template body.
var partialPattern = regexp.MustCompile(`\{\{\s*>\s*([a-zA-Z0-9_.-]+)`)

// statePattern rewrites @state references to a reserved context variable so
// the expander can resolve them like ordinary fields.
var statePattern = regexp.MustCompile(`\{\{\s*([#^/a-zA-Z]*\s*)@state\.`)

// Render parses, compiles and renders a prompt source in one call.
func (pm *PromptMesh) Render(source string, data *core.DataArgument, options *core.PromptMetadata) (*core.RenderedPrompt, error) {
	fn, err := pm.Compile(source, nil)
	if err != nil {
		return nil, err
	}
	return fn(data, options)
}

// Compile parses a prompt source and returns a render function. Additional
// metadata, when given, is baked into the parsed prompt before rendering.
// Partials referenced by the template are resolved eagerly so missing ones
// surface at compile time.
func (pm *PromptMesh) Compile(source string, additional *core.PromptMetadata) (PromptFunction, error) {
	prompt, err := pm.Parse(source)
	if err != nil {
		return nil, err
	}
	if additional != nil {
		prompt.Metadata = mergeMetadata(prompt.Metadata, *additional)
	}

	partials, err := pm.resolvePartials(prompt.Template)
	if err != nil {
		return nil, err
	}

	return func(data *core.DataArgument, options *core.PromptMetadata) (*core.RenderedPrompt, error) {
		return pm.renderParsed(prompt, partials, data, options)
	}, nil
}

func (pm *PromptMesh) renderParsed(prompt *core.ParsedPrompt, partials map[string]string, data *core.DataArgument, options *core.PromptMetadata) (*core.RenderedPrompt, error) {
	if data == nil {
		data = &core.DataArgument{}
	}

	renderID := uuid.NewString()
	logger := pm.logger()
	logger.Debug("Rendering prompt", "render_id", renderID, "prompt", prompt.Metadata.Name)

	metadata, err := pm.RenderMetadata(prompt, options)
	if err != nil {
		return nil, err
	}

	context := buildRenderContext(metadata, data)

	rendered, err := pm.renderString(prompt.Metadata.Name, prompt.Template, partials, context)
	if err != nil {
		logger.Error("Render failed", "render_id", renderID, "error", err)
		return nil, err
	}

	messages := parse.ToMessages(rendered, data)
	logger.Debug("Render completed", "render_id", renderID, "messages", len(messages))

	return &core.RenderedPrompt{Metadata: *metadata, Messages: messages}, nil
}

// renderString expands a template body with a fresh engine instance so the
// shared registries are only read, never mutated, during a render.
func (pm *PromptMesh) renderString(name, template string, partials map[string]string, context map[string]any) (string, error) {
	tpl, err := raymond.Parse(preprocessState(template))
	if err != nil {
		return "", &core.PromptError{Kind: core.ErrCompilation, Prompt: name, Message: "template failed to compile", Err: err}
	}

	for helperName, fn := range pm.snapshotHelpers() {
		tpl.RegisterHelper(helperName, fn)
	}
	for partialName, source := range partials {
		tpl.RegisterPartial(partialName, preprocessState(source))
	}

	out, err := tpl.Exec(context)
	if err != nil {
		return "", &core.PromptError{Kind: core.ErrRender, Prompt: name, Message: "template failed to render", Err: err}
	}
	return out, nil
}

// buildRenderContext layers the metadata's input defaults under the
// caller-supplied input and exposes the state side channel.
func buildRenderContext(metadata *core.PromptMetadata, data *core.DataArgument) map[string]any {
	var defaults map[string]any
	if metadata.Input != nil {
		defaults = metadata.Input.Default
	}

	input, _ := data.Input.(map[string]any)
	context := util.MergeMaps(defaults, input)

	if state, ok := data.Context["state"]; ok {
		context["__state"] = state
	}
	return context
}

// preprocessState rewrites {{@state.x}} references to {{__state.x}} so the
// injected state value resolves through normal path lookup.
func preprocessState(template string) string {
	return statePattern.ReplaceAllString(template, "{{${1}__state.")
}

// identifyPartials returns the set of partial names referenced in a
// template body.
func identifyPartials(template string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range partialPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// resolvePartials collects every partial the template transitively
// references, consulting the registry, then the PartialResolver, then the
// store. Names nothing can resolve are left for the expander to report.
func (pm *PromptMesh) resolvePartials(template string) (map[string]string, error) {
	resolved := map[string]string{}
	if err := pm.collectPartials(template, resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (pm *PromptMesh) collectPartials(template string, resolved map[string]string) error {
	for _, name := range identifyPartials(template) {
		if _, ok := resolved[name]; ok {
			continue
		}

		source, ok := pm.lookupPartial(name)
		if !ok {
			var err error
			source, ok, err = pm.resolveExternalPartial(name)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}

		resolved[name] = source
		if err := pm.collectPartials(source, resolved); err != nil {
			return err
		}
	}
	return nil
}

// resolveExternalPartial tries the PartialResolver first and the store as a
// fallback. A missing partial is not an error here.
func (pm *PromptMesh) resolveExternalPartial(name string) (string, bool, error) {
	if pm.opts.PartialResolver != nil {
		source, err := pm.opts.PartialResolver.ResolvePartial(name)
		if err != nil {
			return "", false, err
		}
		if source != "" {
			return source, true, nil
		}
	}

	if pm.opts.Store != nil {
		partial, err := pm.opts.Store.LoadPartial(name, store.LoadOptions{})
		if err != nil {
			if core.IsKind(err, core.ErrNotFound) {
				return "", false, nil
			}
			return "", false, err
		}
		return partial.Source, true, nil
	}

	return "", false, nil
}
