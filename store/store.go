package store

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/hupe1980/promptmesh/core"
)

// ListOptions filters and paginates List and ListPartials calls.
type ListOptions struct {
	Variant string
	Limit   int
	Cursor  string
}

// ListResult is one page of refs plus an optional continuation cursor.
type ListResult[T any] struct {
	Items  []T
	Cursor string
}

// LoadOptions selects a specific variant or version when loading.
type LoadOptions struct {
	Variant string
	// Version, when set, must match the loaded content's version.
	Version string
}

// DeleteOptions selects a specific variant when deleting.
type DeleteOptions struct {
	Variant string
}

// PromptStore abstracts a prompt storage backend.
type PromptStore interface {
	List(options ListOptions) (ListResult[core.PromptRef], error)
	ListPartials(options ListOptions) (ListResult[core.PartialRef], error)
	Load(name string, options LoadOptions) (core.PromptData, error)
	LoadPartial(name string, options LoadOptions) (core.PartialData, error)
}

// WritablePromptStore is a PromptStore that also supports mutation.
type WritablePromptStore interface {
	PromptStore
	Save(prompt core.PromptData) error
	Delete(name string, options DeleteOptions) error
}

// CalculateVersion derives the content-addressed version of a prompt
// source: the first 8 hex characters of its SHA-1 digest.
func CalculateVersion(source string) string {
	sum := sha1.Sum([]byte(source))
	return hex.EncodeToString(sum[:])[:8]
}
