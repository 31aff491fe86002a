package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/promptmesh/core"
)

func TestExtractFrontmatterAndBody(t *testing.T) {
	t.Run("extracts frontmatter and body", func(t *testing.T) {
		yamlText, body, ok := ExtractFrontmatterAndBody("---\nfoo: bar\n---\nThis is the body.")
		assert.True(t, ok)
		assert.Equal(t, "foo: bar", yamlText)
		assert.Equal(t, "This is the body.", body)
	})

	t.Run("handles empty frontmatter", func(t *testing.T) {
		yamlText, body, ok := ExtractFrontmatterAndBody("---\n\n---\nThis is the body.")
		assert.True(t, ok)
		assert.Equal(t, "", yamlText)
		assert.Equal(t, "This is the body.", body)
	})

	t.Run("no frontmatter leaves source untouched", func(t *testing.T) {
		yamlText, body, ok := ExtractFrontmatterAndBody("  Hello World  ")
		assert.False(t, ok)
		assert.Equal(t, "", yamlText)
		assert.Equal(t, "  Hello World  ", body)
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		yamlText, body, ok := ExtractFrontmatterAndBody("---\r\nfoo: bar\r\n---\r\nBody")
		assert.True(t, ok)
		assert.Equal(t, "foo: bar", yamlText)
		assert.Equal(t, "Body", body)
	})

	t.Run("extra fence later stays in body", func(t *testing.T) {
		_, body, ok := ExtractFrontmatterAndBody("---\nfoo: bar\n---\nFirst\n---\nSecond")
		assert.True(t, ok)
		assert.Equal(t, "First\n---\nSecond", body)
	})

	t.Run("body is trimmed only with frontmatter present", func(t *testing.T) {
		_, body, ok := ExtractFrontmatterAndBody("---\nfoo: bar\n---\n\n  Hello  \n")
		assert.True(t, ok)
		assert.Equal(t, "Hello", body)
	})
}

func TestParseDocument(t *testing.T) {
	t.Run("parses frontmatter and template", func(t *testing.T) {
		source := "---\nname: test\ndescription: test description\nfoo.bar: value\n---\nTemplate content"

		result, err := ParseDocument(source)
		require.NoError(t, err)
		assert.Equal(t, "test", result.Metadata.Name)
		assert.Equal(t, "test description", result.Metadata.Description)
		assert.Equal(t, "Template content", result.Template)

		require.NotNil(t, result.Metadata.Ext["foo"])
		assert.Equal(t, "value", result.Metadata.Ext["foo"]["bar"])

		assert.Equal(t, "test", result.Metadata.Raw["name"])
		assert.Equal(t, "value", result.Metadata.Raw["foo.bar"])
	})

	t.Run("handles document without frontmatter", func(t *testing.T) {
		result, err := ParseDocument("Just template content")
		require.NoError(t, err)
		assert.NotNil(t, result.Metadata.Ext)
		assert.Equal(t, "Just template content", result.Template)
	})

	t.Run("invalid yaml in frontmatter is an error", func(t *testing.T) {
		_, err := ParseDocument("---\ninvalid: : yaml\n---\nTemplate content")
		require.Error(t, err)
		assert.True(t, core.IsKind(err, core.ErrFrontmatter))
	})

	t.Run("handles empty frontmatter", func(t *testing.T) {
		result, err := ParseDocument("---\n---\nTemplate content")
		require.NoError(t, err)
		assert.Equal(t, "Template content", result.Template)
	})

	t.Run("handles multiple namespaced entries", func(t *testing.T) {
		source := "---\nfoo.bar: value1\nfoo.baz: value2\nqux.quux: value3\n---\nTemplate content"

		result, err := ParseDocument(source)
		require.NoError(t, err)
		assert.Equal(t, "value1", result.Metadata.Ext["foo"]["bar"])
		assert.Equal(t, "value2", result.Metadata.Ext["foo"]["baz"])
		assert.Equal(t, "value3", result.Metadata.Ext["qux"]["quux"])
	})

	t.Run("deep namespaces split on the last dot", func(t *testing.T) {
		result, err := ParseDocument("---\na.b.c: nested\n---\nBody")
		require.NoError(t, err)
		assert.Equal(t, "nested", result.Metadata.Ext["a.b"]["c"])
	})

	t.Run("handles reserved keywords", func(t *testing.T) {
		var lines []string
		for _, keyword := range ReservedMetadataKeywords {
			switch keyword {
			case "ext", "raw", "tools", "toolDefs", "config", "input", "output", "metadata":
				continue
			}
			lines = append(lines, keyword+": value-"+keyword)
		}
		source := "---\n" + strings.Join(lines, "\n") + "\n---\nTemplate content"

		result, err := ParseDocument(source)
		require.NoError(t, err)
		assert.Equal(t, "value-name", result.Metadata.Name)
		assert.Equal(t, "value-description", result.Metadata.Description)
		assert.Equal(t, "value-variant", result.Metadata.Variant)
		assert.Equal(t, "value-version", result.Metadata.Version)
		assert.Equal(t, "value-model", result.Metadata.Model)

		for _, line := range lines {
			key := strings.SplitN(line, ":", 2)[0]
			assert.Equal(t, "value-"+key, result.Metadata.Raw[key])
		}
	})

	t.Run("parses typed fields", func(t *testing.T) {
		source := `---
model: test/model
tools: [weather, clock]
toolDefs:
  - name: inlineTool
    description: inline tool
    inputSchema:
      type: object
config:
  temperature: 0.5
input:
  default:
    name: World
  schema:
    name: string
output:
  format: json
---
Body`

		result, err := ParseDocument(source)
		require.NoError(t, err)
		md := result.Metadata
		assert.Equal(t, []string{"weather", "clock"}, md.Tools)
		require.Len(t, md.ToolDefs, 1)
		assert.Equal(t, "inlineTool", md.ToolDefs[0].Name)
		assert.Equal(t, "object", md.ToolDefs[0].InputSchema["type"])
		assert.Equal(t, 0.5, md.Config["temperature"])
		require.NotNil(t, md.Input)
		assert.Equal(t, "World", md.Input.Default["name"])
		require.NotNil(t, md.Output)
		assert.Equal(t, "json", md.Output.Format)
	})

	t.Run("handles license header before frontmatter", func(t *testing.T) {
		source := "# Copyright 2025 Example Corp\n# License: Apache 2.0\n---\nmodel: gemini-pro\n---\nHello!"
		result, err := ParseDocument(source)
		require.NoError(t, err)
		assert.Equal(t, "gemini-pro", result.Metadata.Model)
		assert.Equal(t, "Hello!", result.Template)
	})

	t.Run("handles shebang before frontmatter", func(t *testing.T) {
		source := "#!/usr/bin/env promptmesh\n---\nmodel: gemini-flash\n---\nHello shebang!"
		result, err := ParseDocument(source)
		require.NoError(t, err)
		assert.Equal(t, "gemini-flash", result.Metadata.Model)
		assert.Equal(t, "Hello shebang!", result.Template)
	})

	t.Run("handles shebang and license header before frontmatter", func(t *testing.T) {
		source := "#!/usr/bin/env promptmesh\n# Copyright 2025\n---\nmodel: gemini-2.0\n---\nHello combined!"
		result, err := ParseDocument(source)
		require.NoError(t, err)
		assert.Equal(t, "gemini-2.0", result.Metadata.Model)
		assert.Equal(t, "Hello combined!", result.Template)
	})

	t.Run("plain comment document without fence is all body", func(t *testing.T) {
		source := "# just a markdown heading\nand some text"
		result, err := ParseDocument(source)
		require.NoError(t, err)
		assert.Equal(t, source, result.Template)
	})
}
