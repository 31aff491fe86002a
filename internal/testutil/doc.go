// Package testutil contains fluent builders for constructing test fixtures.
// It is internal so production code cannot depend on it.
package testutil
