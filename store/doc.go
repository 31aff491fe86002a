// Package store provides prompt storage backends. The PromptStore interface
// abstracts listing, loading, saving and deleting prompts and partials;
// DirStore implements it on top of a directory tree of .prompt files.
//
// Layout conventions:
//
//   - Prompts are stored as name.prompt
//   - Partials are stored as _name.prompt
//   - Variants are stored as name.variant.prompt
//
// Versions are content-addressed: the first 8 hex characters of the SHA-1
// digest of the file contents.
package store
