// Package textbox renders lines of text as a bordered block for monospaced display.
package textbox

import (
	"strings"
	"unicode/utf8"
)

// Format draws a box around lines, padding each one to the widest line.
// Width is measured in characters. An empty input yields an empty string.
//
//	+----+
//	| a  |
//	| bb |
//	+----+
func Format(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line))
	}

	separator := "+-" + strings.Repeat("-", width) + "-+"

	var b strings.Builder
	b.WriteString(separator)
	for _, line := range lines {
		b.WriteString("\n| ")
		b.WriteString(line)
		b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(line)))
		b.WriteString(" |")
	}
	b.WriteString("\n")
	b.WriteString(separator)

	return b.String()
}
