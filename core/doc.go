// Package core provides the foundational domain types used throughout
// promptmesh. It defines the core abstractions for:
//
//   - Messages (ordered, role-tagged conversation turns)
//   - Parts (a closed union of heterogeneous content segments)
//   - Prompt metadata (frontmatter-derived invocation configuration)
//   - Render inputs and outputs (DataArgument, ParsedPrompt, RenderedPrompt)
//   - Pluggable resolvers for tools, schemas and partial templates
//
// The package intentionally keeps implementation concerns (template
// expansion, frontmatter parsing, storage) out of scope, exposing small
// types and interfaces so the pipeline packages can stay decoupled.
package core
