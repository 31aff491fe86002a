// Package logging provides a minimal logging interface and adapters for PromptMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the renderer and stores use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - PromptMeshLogger with contextual helpers (prompt, render run, component)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	pm := promptmesh.New(promptmesh.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
