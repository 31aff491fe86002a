package core

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes prompt processing failures.
type ErrorKind string

const (
	// ErrFrontmatter indicates a malformed frontmatter block.
	ErrFrontmatter ErrorKind = "frontmatter"
	// ErrCompilation indicates a template that failed to compile.
	ErrCompilation ErrorKind = "compilation"
	// ErrRender indicates a failure while executing a compiled template.
	ErrRender ErrorKind = "render"
	// ErrPicoschema indicates invalid compact schema notation.
	ErrPicoschema ErrorKind = "picoschema"
	// ErrInvalidFormat indicates structurally invalid input data.
	ErrInvalidFormat ErrorKind = "invalid_format"
	// ErrMissingField indicates a required field that was absent.
	ErrMissingField ErrorKind = "missing_field"
	// ErrInvalidName indicates a prompt or partial name that failed validation.
	ErrInvalidName ErrorKind = "invalid_name"
	// ErrNotFound indicates a prompt or partial that does not exist.
	ErrNotFound ErrorKind = "not_found"
)

// PromptError represents errors that occur during prompt parsing,
// compilation, rendering or storage.
type PromptError struct {
	Kind    ErrorKind `json:"kind"`              // Error category
	Prompt  string    `json:"prompt,omitempty"`  // Name of the prompt involved, if known
	Message string    `json:"message"`           // Error message
	Err     error     `json:"-"`                 // Wrapped cause, if any
	Details any       `json:"details,omitempty"` // Additional error details
}

func (e *PromptError) Error() string {
	if e.Prompt != "" {
		return fmt.Sprintf("prompt error [%s] in %s: %s", e.Kind, e.Prompt, e.Message)
	}
	return fmt.Sprintf("prompt error [%s]: %s", e.Kind, e.Message)
}

func (e *PromptError) Unwrap() error {
	return e.Err
}

// NewPromptError creates a new PromptError with the specified kind and message.
func NewPromptError(kind ErrorKind, message string) *PromptError {
	return &PromptError{Kind: kind, Message: message}
}

// WrapPromptError creates a PromptError wrapping an underlying cause.
func WrapPromptError(kind ErrorKind, message string, err error) *PromptError {
	return &PromptError{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is (or wraps) a PromptError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PromptError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
