package text

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(` +`)

// Normalize cleans the raw text of an extracted document.
// It trims the whole text, trims spaces at both ends of every line,
// collapses runs of spaces and trims the result again.
// Only the space character is touched inside the text, so tabs and
// blank lines between stanzas are kept.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(line, " ")
	}
	text = strings.Join(lines, "\n")

	text = spaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
