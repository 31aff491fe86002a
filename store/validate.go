package store

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/hupe1980/promptmesh/core"
)

// ValidatePromptName rejects names that imply path traversal or other
// unsafe patterns before they reach the file system.
//
// Validation is layered: URL decoding catches %2e%2e encoded dots, Unicode
// normalization catches homograph bypasses, and segment checks reject
// leading ".." components while still allowing legitimate names like
// "a..b" or "test...".
func ValidatePromptName(name string) error {
	if name == "" {
		return core.NewPromptError(core.ErrInvalidName, "prompt name cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return invalidName(name)
	}
	if strings.ContainsRune(name, '\x00') || strings.Contains(name, `\0`) {
		return invalidName(name)
	}

	// Decode iteratively to catch double-encoding bypasses (%252e%252e).
	decoded := name
	for range 3 {
		next, err := url.QueryUnescape(decoded)
		if err != nil || next == decoded {
			break
		}
		decoded = next
	}
	if strings.Contains(decoded, "%") {
		return core.NewPromptError(core.ErrInvalidName,
			fmt.Sprintf("encoded characters not allowed: %q", name))
	}

	normalized := norm.NFC.String(decoded)

	if strings.Contains(normalized, "./") || strings.Contains(normalized, ".\\") {
		return core.NewPromptError(core.ErrInvalidName,
			fmt.Sprintf("current directory reference not allowed: %q", name))
	}

	for _, seg := range strings.Split(strings.ReplaceAll(normalized, "\\", "/"), "/") {
		if err := validateSegment(seg, name); err != nil {
			return err
		}
	}

	if strings.HasPrefix(normalized, "/") {
		return core.NewPromptError(core.ErrInvalidName,
			fmt.Sprintf("absolute paths not allowed: %q", name))
	}
	if strings.HasSuffix(strings.ReplaceAll(normalized, "\\", "/"), "/") {
		return core.NewPromptError(core.ErrInvalidName,
			fmt.Sprintf("trailing slash not allowed: %q", name))
	}
	if len(normalized) > 1 && normalized[1] == ':' && unicode.IsLetter(rune(normalized[0])) {
		return invalidName(name)
	}
	if strings.HasPrefix(normalized, "\\\\") {
		return invalidName(name)
	}

	return nil
}

// validateSegment rejects path components referencing a parent directory.
// Segments of two or more dots only, segments starting with exactly ".."
// and segments ending with ".." (without a trailing third dot) are
// traversal attempts.
func validateSegment(seg, name string) error {
	if len(seg) >= 2 && strings.Count(seg, ".") == len(seg) {
		return traversal(name)
	}
	if len(seg) > 2 && seg[0] == '.' && seg[1] == '.' && seg[2] != '.' {
		return traversal(name)
	}
	if len(seg) > 2 && strings.HasSuffix(seg, "..") && !strings.HasSuffix(seg, "...") {
		return traversal(name)
	}
	return nil
}

func invalidName(name string) error {
	return core.NewPromptError(core.ErrInvalidName, fmt.Sprintf("invalid prompt name: %q", name))
}

func traversal(name string) error {
	return core.NewPromptError(core.ErrInvalidName, fmt.Sprintf("path traversal not allowed: %q", name))
}
