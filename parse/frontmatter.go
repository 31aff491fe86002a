package parse

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/promptmesh/core"
)

// frontmatterRegex matches a leading "---" fenced YAML block followed by the
// template body. All three newline conventions are accepted.
var frontmatterRegex = regexp.MustCompile(
	`(?s)^---\s*(?:\r\n|\r|\n)([\s\S]*?)(?:\r\n|\r|\n)---\s*(?:\r\n|\r|\n)([\s\S]*)$`,
)

// emptyFrontmatterRegex matches the degenerate "---" fence pair with no
// content line between, which the main pattern cannot (it requires a
// newline on each side of the YAML block).
var emptyFrontmatterRegex = regexp.MustCompile(
	`(?s)^---\s*(?:\r\n|\r|\n)---\s*(?:\r\n|\r|\n)([\s\S]*)$`,
)

// ReservedMetadataKeywords lists the frontmatter keys that map onto typed
// fields of core.PromptMetadata. Everything else is either a namespaced
// extension ("ns.key") or ignored.
var ReservedMetadataKeywords = []string{
	"config",
	"description",
	"ext",
	"input",
	"model",
	"name",
	"output",
	"raw",
	"toolDefs",
	"tools",
	"variant",
	"version",
	"metadata",
}

// ExtractFrontmatterAndBody splits a prompt source into its YAML frontmatter
// and template body. Shebang and "#" comment lines before the fence are
// skipped. When no frontmatter block is present the YAML is empty and the
// source is returned untouched. The body is trimmed only when a frontmatter
// block was found.
func ExtractFrontmatterAndBody(source string) (yamlText, body string, ok bool) {
	if yamlText, body, ok = matchFrontmatter(source); ok {
		return yamlText, body, true
	}
	if stripped, had := stripHeaderComments(source); had {
		if yamlText, body, ok = matchFrontmatter(stripped); ok {
			return yamlText, body, true
		}
	}
	return "", source, false
}

func matchFrontmatter(source string) (string, string, bool) {
	if m := frontmatterRegex.FindStringSubmatch(source); m != nil {
		return m[1], strings.TrimSpace(m[2]), true
	}
	if m := emptyFrontmatterRegex.FindStringSubmatch(source); m != nil {
		return "", strings.TrimSpace(m[1]), true
	}
	return "", "", false
}

// stripHeaderComments drops leading shebang and "#" comment lines so that a
// frontmatter fence after a license header is still recognized.
func stripHeaderComments(source string) (string, bool) {
	lines := strings.SplitAfter(source, "\n")
	i := 0
	for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
		i++
	}
	if i == 0 {
		return source, false
	}
	return strings.Join(lines[i:], ""), true
}

// ParseDocument parses a complete prompt source into metadata and template.
// Malformed YAML inside a detected frontmatter block is an error; a source
// with no frontmatter parses to empty metadata and the untouched body.
func ParseDocument(source string) (*core.ParsedPrompt, error) {
	yamlText, body, ok := ExtractFrontmatterAndBody(source)
	if !ok {
		return &core.ParsedPrompt{
			Metadata: core.PromptMetadata{Ext: map[string]map[string]any{}},
			Template: body,
		}, nil
	}

	raw := map[string]any{}
	if strings.TrimSpace(yamlText) != "" {
		if err := yaml.Unmarshal([]byte(yamlText), &raw); err != nil {
			return nil, core.WrapPromptError(core.ErrFrontmatter, "invalid YAML frontmatter", err)
		}
	}

	md, err := metadataFromRaw(raw)
	if err != nil {
		return nil, err
	}

	return &core.ParsedPrompt{Metadata: *md, Template: body}, nil
}

// metadataFromRaw converts the parsed frontmatter map into typed metadata,
// fanning namespaced "ns.key" entries into Ext and preserving the full map
// in Raw.
func metadataFromRaw(raw map[string]any) (*core.PromptMetadata, error) {
	md := &core.PromptMetadata{
		Raw: raw,
		Ext: map[string]map[string]any{},
	}

	for key, value := range raw {
		if strings.Contains(key, ".") {
			md.Ext = convertNamespacedEntryToNestedObject(key, value, md.Ext)
			continue
		}
		if err := assignReservedField(md, key, value); err != nil {
			return nil, err
		}
	}

	return md, nil
}

// convertNamespacedEntryToNestedObject files a "ns.key: value" frontmatter
// entry under its namespace, splitting on the last dot.
func convertNamespacedEntryToNestedObject(key string, value any, ext map[string]map[string]any) map[string]map[string]any {
	if ext == nil {
		ext = map[string]map[string]any{}
	}
	idx := strings.LastIndex(key, ".")
	ns, field := key[:idx], key[idx+1:]
	if ext[ns] == nil {
		ext[ns] = map[string]any{}
	}
	ext[ns][field] = value
	return ext
}

func assignReservedField(md *core.PromptMetadata, key string, value any) error {
	switch key {
	case "name":
		md.Name = asString(value)
	case "variant":
		md.Variant = asString(value)
	case "version":
		md.Version = asString(value)
	case "description":
		md.Description = asString(value)
	case "model":
		md.Model = asString(value)
	case "tools":
		md.Tools = asStringSlice(value)
	case "toolDefs":
		defs, err := asToolDefs(value)
		if err != nil {
			return err
		}
		md.ToolDefs = defs
	case "config":
		if m, ok := value.(map[string]any); ok {
			md.Config = m
		}
	case "input":
		md.Input = asInputConfig(value)
	case "output":
		md.Output = asOutputConfig(value)
	case "metadata":
		if m, ok := value.(map[string]any); ok {
			md.Metadata = m
		}
	case "raw", "ext":
		// Populated by the parser itself, never taken from the document.
	default:
		// Unknown bare keys stay in Raw only.
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asToolDefs(v any) ([]core.ToolDefinition, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, core.NewPromptError(core.ErrInvalidFormat, "toolDefs must be a list")
	}
	out := make([]core.ToolDefinition, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, core.NewPromptError(core.ErrInvalidFormat, "toolDefs entries must be maps")
		}
		def := core.ToolDefinition{
			Name:        asString(m["name"]),
			Description: asString(m["description"]),
		}
		if s, ok := m["inputSchema"].(map[string]any); ok {
			def.InputSchema = s
		}
		if s, ok := m["outputSchema"].(map[string]any); ok {
			def.OutputSchema = s
		}
		out = append(out, def)
	}
	return out, nil
}

func asInputConfig(v any) *core.InputConfig {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	cfg := &core.InputConfig{}
	if d, ok := m["default"].(map[string]any); ok {
		cfg.Default = d
	}
	if s, ok := m["schema"]; ok {
		cfg.Schema = s
	}
	return cfg
}

func asOutputConfig(v any) *core.OutputConfig {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	cfg := &core.OutputConfig{Format: asString(m["format"])}
	if s, ok := m["schema"]; ok {
		cfg.Schema = s
	}
	return cfg
}
