// Package parse implements the text-level stages of the prompt pipeline:
//
//   - Frontmatter extraction (splitting a source into YAML metadata and body)
//   - Metadata deserialization into core.PromptMetadata, including the
//     namespaced extension fields and the raw frontmatter map
//   - Marker decoding, turning rendered template output containing
//     "<<<dotprompt:...>>>" markers into ordered core.Messages
//   - History insertion, splicing prior conversation turns into the
//     decoded message list
//
// Parsing is purely textual and deterministic. No template expansion
// happens here; the expander renders the body first, then ToMessages
// decodes the marker protocol from the rendered string.
package parse
