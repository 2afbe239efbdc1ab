package docweaver

import (
	"strings"
	"unicode"
)

// codeIndent is the indentation a code sample is expected to carry on top
// of the surrounding comment indentation.
const codeIndent = 4

// ToCodeBlock dedents the raw text of a code element. The first non-blank
// line decides the cut: its leading-space count minus codeIndent characters
// are removed from the front of every line. A first line indented by
// codeIndent or less leaves the text as is. Leading blank lines are dropped
// and trailing whitespace trimmed.
func ToCodeBlock(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return ""
	}

	cut := len(lines[0]) - len(strings.TrimLeft(lines[0], " ")) - codeIndent
	if cut > 0 {
		for i, line := range lines {
			lines[i] = dropRunes(line, cut)
		}
	}
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}

func dropRunes(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[i:]
		}
		n--
	}
	return ""
}
