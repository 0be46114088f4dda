// Package strings provides string utilities shared by the render layer.
package strings

import (
	"strings"
)

// Truncate shortens a string to n runes with ellipsis.
// If n < 4, uses n = 4 to ensure room for "...".
func Truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// Flatten replaces newlines with spaces so multi-line content fits a
// single table cell.
func Flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

// EscapeCell escapes characters that would break a markdown table cell.
func EscapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// Cell prepares arbitrary content for a markdown table cell: flattened,
// escaped, and truncated to n runes.
func Cell(s string, n int) string {
	return Truncate(EscapeCell(Flatten(s)), n)
}

// CollapseBlankLines reduces runs of three or more newlines to a single
// blank line.
func CollapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}

// WordWrap wraps text to a maximum width, breaking on word boundaries.
// Existing newlines are preserved.
func WordWrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var result strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		if line == "" {
			continue
		}
		result.WriteString(wrapLine(line, width))
	}
	return result.String()
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}

	var result strings.Builder
	lineLen := 0
	for _, word := range words {
		wordLen := len([]rune(word))
		switch {
		case lineLen == 0:
			result.WriteString(word)
			lineLen = wordLen
		case lineLen+1+wordLen > width:
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wordLen
		default:
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wordLen
		}
	}
	return result.String()
}
