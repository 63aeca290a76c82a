// Package format holds small text helpers for building outgoing messages.
package format

import "strings"

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"`", "\\`",
)

// EscapeMarkdown escapes legacy Telegram markdown specials in user text.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// DerefString dereferences a *string, falling back to defaultVal when nil.
func DerefString(s *string, defaultVal string) string {
	if s != nil {
		return *s
	}
	return defaultVal
}
