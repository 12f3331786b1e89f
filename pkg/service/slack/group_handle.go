package slack

import (
	"fmt"
	"strings"
	"unicode"
)

// maxHandleLength is the Slack limit on user group handles
const maxHandleLength = 21

// NormalizeHandle normalizes a string to be a valid Slack user group handle.
// Handles allow lowercase letters, numbers, hyphens, and underscores.
func NormalizeHandle(name string) string {
	name = strings.ReplaceAll(name, " ", "-")

	var result strings.Builder
	result.Grow(len(name))

	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		} else if r >= 'A' && r <= 'Z' {
			result.WriteRune(unicode.ToLower(r))
		}
		// Everything else is dropped: handles are mentionable, so Slack is
		// stricter about them than about channel names.
	}

	return result.String()
}

// GenerateGroupHandle generates a Slack user group handle for a project.
// Format: {prefix}-{short project ID}-{normalized name}, truncated to the
// Slack handle limit. The project ID fragment keeps handles unique across
// projects with the same name.
func GenerateGroupHandle(projectID fmt.Stringer, name string, prefix string) string {
	prefix = NormalizeHandle(prefix)

	shortID := projectID.String()
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	handle := fmt.Sprintf("%s-%s-%s", prefix, shortID, NormalizeHandle(name))

	if len(handle) > maxHandleLength {
		handle = handle[:maxHandleLength]
	}

	return strings.TrimRight(handle, "-")
}
