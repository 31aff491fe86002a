package helper

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mbleigh/raymond"
)

// Builtins maps helper names to their implementations. All entries are
// registered on every template before rendering.
var Builtins = map[string]any{
	"json":         JSONFn,
	"role":         RoleFn,
	"history":      History,
	"section":      Section,
	"media":        Media,
	"ifEquals":     IfEquals,
	"unlessEquals": UnlessEquals,
}

// RoleFn emits a role marker, e.g. {{role "system"}}.
func RoleFn(name string) raymond.SafeString {
	return raymond.SafeString("<<<dotprompt:role:" + name + ">>>")
}

// History emits the history marker.
func History() raymond.SafeString {
	return raymond.SafeString("<<<dotprompt:history>>>")
}

// Section emits a section marker, e.g. {{section "examples"}}.
func Section(name string) raymond.SafeString {
	return raymond.SafeString("<<<dotprompt:section " + name + ">>>")
}

// Media emits a media marker from url and optional contentType hash
// arguments, e.g. {{media url="https://..." contentType="image/png"}}.
func Media(options *raymond.Options) raymond.SafeString {
	url := raymond.Str(options.HashProp("url"))
	if url == "" {
		return ""
	}
	contentType := raymond.Str(options.HashProp("contentType"))
	if contentType != "" {
		return raymond.SafeString(fmt.Sprintf("<<<dotprompt:media:url %s %s>>>", url, contentType))
	}
	return raymond.SafeString(fmt.Sprintf("<<<dotprompt:media:url %s>>>", url))
}

// JSONFn serializes a value to JSON. An "indent" hash argument (number of
// spaces, given as int or string) switches to indented output.
func JSONFn(value any, options *raymond.Options) raymond.SafeString {
	indent := parseIndent(options.HashProp("indent"))

	var (
		out []byte
		err error
	)
	if indent > 0 {
		out, err = json.MarshalIndent(value, "", strings.Repeat(" ", indent))
	} else {
		out, err = json.Marshal(value)
	}
	if err != nil {
		return "{}"
	}
	return raymond.SafeString(out)
}

func parseIndent(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// IfEquals renders the block when both arguments are structurally equal,
// the else block otherwise.
func IfEquals(a, b any, options *raymond.Options) string {
	if equal(a, b) {
		return options.Fn()
	}
	return options.Inverse()
}

// UnlessEquals renders the block when the arguments differ, the else block
// otherwise.
func UnlessEquals(a, b any, options *raymond.Options) string {
	if equal(a, b) {
		return options.Inverse()
	}
	return options.Fn()
}

func equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
