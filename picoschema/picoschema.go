package picoschema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hupe1980/promptmesh/core"
)

const wildcardPropertyName = "(*)"

var scalarTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"integer": true,
	"boolean": true,
	"object":  true,
	"array":   true,
	"null":    true,
	"any":     true,
}

var descriptionRegex = regexp.MustCompile(`(.*?), *(.*)$`)

// Options configures the compiler.
type Options struct {
	// SchemaResolver resolves named schemas referenced by bare identifiers.
	SchemaResolver core.SchemaResolver
}

// Compile converts a compact schema value into a JSON Schema map. A nil
// schema compiles to nil. Values that already carry "type" or "properties"
// are assumed to be JSON Schema and returned as-is.
func Compile(schema any, opts *Options) (core.Schema, error) {
	if opts == nil {
		opts = &Options{}
	}
	if schema == nil {
		return nil, nil
	}

	if m, ok := schema.(map[string]any); ok {
		if _, hasType := m["type"]; hasType {
			return m, nil
		}
		if _, hasProps := m["properties"]; hasProps {
			return m, nil
		}
	}

	c := &compiler{resolver: opts.SchemaResolver}
	return c.parsePico(schema)
}

type compiler struct {
	resolver core.SchemaResolver
}

func (c *compiler) parsePico(obj any) (core.Schema, error) {
	switch v := obj.(type) {
	case string:
		return c.parseScalar(v)
	case map[string]any:
		return c.parseObject(v)
	default:
		return nil, core.NewPromptError(core.ErrPicoschema,
			fmt.Sprintf("only strings and maps are allowed, got %T", obj))
	}
}

// parseScalar handles a string-valued schema. Precedence: description
// extraction, "type[]" arrays, "a | b" unions, scalar keywords, then named
// schema resolution.
func (c *compiler) parseScalar(s string) (core.Schema, error) {
	typ, description := extractDescription(s)
	typ = strings.TrimSpace(typ)

	if inner, ok := strings.CutSuffix(typ, "[]"); ok {
		items, err := c.parseScalar(inner)
		if err != nil {
			return nil, err
		}
		return withDescription(core.Schema{"type": "array", "items": items}, description), nil
	}

	if strings.Contains(typ, "|") {
		var anyOf []any
		for _, alt := range strings.Split(typ, "|") {
			sub, err := c.parseScalar(strings.TrimSpace(alt))
			if err != nil {
				return nil, err
			}
			anyOf = append(anyOf, sub)
		}
		return withDescription(core.Schema{"anyOf": anyOf}, description), nil
	}

	if scalarTypes[typ] {
		if typ == "any" {
			return withDescription(core.Schema{}, description), nil
		}
		return withDescription(core.Schema{"type": typ}, description), nil
	}

	resolved, err := c.resolveNamed(typ)
	if err != nil {
		return nil, err
	}
	return withDescription(resolved, description), nil
}

func (c *compiler) resolveNamed(name string) (core.Schema, error) {
	if c.resolver != nil {
		schema, err := c.resolver.ResolveSchema(name)
		if err != nil {
			return nil, err
		}
		if schema != nil {
			return schema, nil
		}
	}
	return nil, core.NewPromptError(core.ErrPicoschema,
		fmt.Sprintf("unknown schema type %q", name))
}

// parseObject compiles an inline object definition. Fields are required
// unless suffixed with "?", and parenthetical forms select array, object or
// enum handling for the field value.
func (c *compiler) parseObject(obj map[string]any) (core.Schema, error) {
	properties := map[string]any{}
	var required []string
	schema := core.Schema{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}

	// Sorted key order keeps the compiled required list and error reporting
	// stable across runs.
	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := obj[key]
		if key == wildcardPropertyName {
			additional, err := c.parsePico(value)
			if err != nil {
				return nil, err
			}
			schema["additionalProperties"] = additional
			continue
		}

		name, typeInfo, hasParen := strings.Cut(key, "(")
		propertyName := strings.TrimSuffix(name, "?")
		optional := propertyName != name
		if !optional {
			required = append(required, propertyName)
		}

		if !hasParen {
			prop, err := c.parsePico(value)
			if err != nil {
				return nil, err
			}
			if optional {
				if t, ok := prop["type"].(string); ok {
					prop["type"] = []any{t, "null"}
				}
			}
			properties[propertyName] = prop
			continue
		}

		form, description := extractDescription(strings.TrimSuffix(typeInfo, ")"))
		switch form {
		case "array":
			items, err := c.parsePico(value)
			if err != nil {
				return nil, err
			}
			prop := core.Schema{"type": "array", "items": items}
			if optional {
				prop["type"] = []any{"array", "null"}
			}
			properties[propertyName] = withDescription(prop, description)
		case "object":
			prop, err := c.parsePico(value)
			if err != nil {
				return nil, err
			}
			if optional {
				if t, ok := prop["type"].(string); ok {
					prop["type"] = []any{t, "null"}
				}
			}
			properties[propertyName] = withDescription(prop, description)
		case "enum":
			values, ok := value.([]any)
			if !ok {
				return nil, core.NewPromptError(core.ErrPicoschema,
					fmt.Sprintf("enum field %q requires a list of values", propertyName))
			}
			if optional && !containsNil(values) {
				values = append(values, nil)
			}
			properties[propertyName] = withDescription(core.Schema{"enum": values}, description)
		default:
			return nil, core.NewPromptError(core.ErrPicoschema,
				fmt.Sprintf("parenthetical types must be array, object or enum, got %q", form))
		}
	}

	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

// extractDescription splits "type, human readable description" on the first
// comma. Input without a comma has no description.
func extractDescription(input string) (string, string) {
	if !strings.Contains(input, ",") {
		return input, ""
	}
	m := descriptionRegex.FindStringSubmatch(input)
	if m == nil {
		return input, ""
	}
	return m[1], m[2]
}

func withDescription(schema core.Schema, description string) core.Schema {
	if description != "" {
		schema["description"] = description
	}
	return schema
}

func containsNil(values []any) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
	}
	return false
}
