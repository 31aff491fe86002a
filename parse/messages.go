package parse

import (
	"regexp"
	"strings"

	"github.com/hupe1980/promptmesh/core"
)

const (
	roleMarkerPrefix    = "<<<dotprompt:role:"
	historyMarkerPrefix = "<<<dotprompt:history"
	sectionMarkerPrefix = "<<<dotprompt:section"
	mediaMarkerPrefix   = "<<<dotprompt:media:url"
)

// Marker delimiters are captured without their trailing ">>>" so downstream
// prefix checks can parse the payload directly.
var (
	roleAndHistoryRegex  = regexp.MustCompile(`(<<<dotprompt:(?:role:[a-z]+|history))>>>`)
	mediaAndSectionRegex = regexp.MustCompile(`(<<<dotprompt:(?:media:url|section).*?)>>>`)
)

// splitByRegex splits source around regex matches, keeping each captured
// delimiter as its own piece and dropping whitespace-only literal runs.
func splitByRegex(source string, re *regexp.Regexp) []string {
	var result []string
	lastEnd := 0

	for _, loc := range re.FindAllStringSubmatchIndex(source, -1) {
		before := source[lastEnd:loc[0]]
		if strings.TrimSpace(before) != "" {
			result = append(result, before)
		}
		result = append(result, source[loc[2]:loc[3]])
		lastEnd = loc[1]
	}

	if remaining := source[lastEnd:]; strings.TrimSpace(remaining) != "" {
		result = append(result, remaining)
	}

	return result
}

func splitByRoleAndHistoryMarkers(rendered string) []string {
	return splitByRegex(rendered, roleAndHistoryRegex)
}

func splitByMediaAndSectionMarkers(source string) []string {
	return splitByRegex(source, mediaAndSectionRegex)
}

// parseRole maps a marker role name to a core.Role. Unknown names fall back
// to the user role.
func parseRole(name string) core.Role {
	switch name {
	case "model":
		return core.RoleModel
	case "tool":
		return core.RoleTool
	case "system":
		return core.RoleSystem
	default:
		return core.RoleUser
	}
}

func parsePart(piece string) core.Part {
	switch {
	case strings.HasPrefix(piece, mediaMarkerPrefix):
		return parseMediaPart(piece)
	case strings.HasPrefix(piece, sectionMarkerPrefix):
		return parseSectionPart(piece)
	default:
		return &core.TextPart{Text: piece}
	}
}

// parseMediaPart decodes "<<<dotprompt:media:url URL [CONTENT_TYPE]".
func parseMediaPart(piece string) core.Part {
	content := strings.TrimPrefix(piece, mediaMarkerPrefix)
	fields := strings.Fields(content)

	part := &core.MediaPart{}
	if len(fields) > 0 {
		part.Media.URL = fields[0]
	}
	if len(fields) > 1 {
		part.Media.ContentType = fields[1]
	}
	return part
}

// parseSectionPart decodes "<<<dotprompt:section NAME" into a pending part.
func parseSectionPart(piece string) core.Part {
	name := strings.TrimSpace(strings.TrimPrefix(piece, sectionMarkerPrefix))
	return core.NewPendingPart(name)
}

// toParts decodes media and section markers embedded in plain text.
func toParts(source string) []core.Part {
	pieces := splitByMediaAndSectionMarkers(source)
	parts := make([]core.Part, 0, len(pieces))
	for _, piece := range pieces {
		parts = append(parts, parsePart(piece))
	}
	return parts
}

// messageSource accumulates content for one message while walking the
// rendered string.
type messageSource struct {
	role     core.Role
	source   strings.Builder
	content  []core.Part
	metadata map[string]any

	// spliced marks a pre-built history turn, which is kept verbatim even
	// when its content is empty.
	spliced bool
}

func newMessageSource(role core.Role) *messageSource {
	return &messageSource{role: role}
}

func (ms *messageSource) hasContent() bool {
	return ms.spliced || strings.TrimSpace(ms.source.String()) != "" || ms.content != nil
}

func (ms *messageSource) toMessage() core.Message {
	content := ms.content
	if content == nil && !ms.spliced {
		content = toParts(ms.source.String())
	}
	return core.Message{Role: ms.role, Content: content, Metadata: ms.metadata}
}

// transformMessagesToHistory tags each message with purpose "history",
// preserving any existing metadata keys.
func transformMessagesToHistory(messages []core.Message) []core.Message {
	out := make([]core.Message, 0, len(messages))
	for _, m := range messages {
		metadata := make(map[string]any, len(m.Metadata)+1)
		for k, v := range m.Metadata {
			metadata[k] = v
		}
		metadata["purpose"] = "history"
		out = append(out, core.Message{Role: m.Role, Content: m.Content, Metadata: metadata})
	}
	return out
}

func messagesHaveHistory(messages []core.Message) bool {
	for _, m := range messages {
		if m.HasPurpose("history") {
			return true
		}
	}
	return false
}

// InsertHistory splices history messages into a decoded message list. It is
// a no-op when no history is given or the list already carries history
// metadata. With an empty list the history is returned verbatim; when the
// final message is a user turn the history is inserted before it, otherwise
// it is appended.
func InsertHistory(messages, history []core.Message) []core.Message {
	if len(history) == 0 || messagesHaveHistory(messages) {
		return messages
	}

	if len(messages) == 0 {
		return history
	}

	if last := messages[len(messages)-1]; last.Role == core.RoleUser {
		result := make([]core.Message, 0, len(messages)+len(history))
		result = append(result, messages[:len(messages)-1]...)
		result = append(result, history...)
		result = append(result, last)
		return result
	}

	result := make([]core.Message, 0, len(messages)+len(history))
	result = append(result, messages...)
	result = append(result, history...)
	return result
}

// ToMessages decodes a rendered template string into ordered messages,
// honoring role and history markers. The data argument supplies prior
// conversation turns for history injection and may be nil.
func ToMessages(rendered string, data *core.DataArgument) []core.Message {
	current := newMessageSource(core.RoleUser)
	var sources []*messageSource

	for _, piece := range splitByRoleAndHistoryMarkers(rendered) {
		switch {
		case strings.HasPrefix(piece, roleMarkerPrefix):
			role := parseRole(strings.TrimPrefix(piece, roleMarkerPrefix))
			if strings.TrimSpace(current.source.String()) == "" {
				// Nothing buffered yet, just retag the pending message.
				current.role = role
			} else {
				sources = append(sources, current)
				current = newMessageSource(role)
			}
		case strings.HasPrefix(piece, historyMarkerPrefix):
			if strings.TrimSpace(current.source.String()) != "" {
				sources = append(sources, current)
			}
			if data != nil {
				for _, msg := range transformMessagesToHistory(data.Messages) {
					sources = append(sources, &messageSource{
						role:     msg.Role,
						content:  msg.Content,
						metadata: msg.Metadata,
						spliced:  true,
					})
				}
			}
			current = newMessageSource(core.RoleModel)
		default:
			current.source.WriteString(piece)
		}
	}

	sources = append(sources, current)

	var messages []core.Message
	for _, ms := range sources {
		if ms.hasContent() {
			messages = append(messages, ms.toMessage())
		}
	}

	var history []core.Message
	if data != nil {
		history = data.Messages
	}
	return InsertHistory(messages, history)
}
