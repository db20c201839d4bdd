package jatti

import "strings"

type IndentStyle int

const (
	IndentUnset IndentStyle = iota
	IndentSpaces
	IndentTabs
)

func (s IndentStyle) String() string {
	switch s {
	case IndentSpaces:
		return "spaces"
	case IndentTabs:
		return "tabs"
	}
	return "unset"
}

// indentState records the indentation style fixed by the first indented
// line of a program.
type indentState struct {
	style IndentStyle
	width int
}

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// level returns the logical indent level of a line.
func (s *indentState) level(line string, lineNo int) (int, error) {
	prefix := leadingWhitespace(line)
	if prefix == "" {
		return 0, nil
	}
	hasTabs := strings.Contains(prefix, "\t")
	hasSpaces := strings.Contains(prefix, " ")
	if hasTabs && hasSpaces {
		return 0, structuralf(lineNo, "Tabs te spaces mix nahi kar sakde.")
	}
	style, width := IndentTabs, 1
	if hasSpaces {
		if len(prefix)%4 != 0 {
			return 0, structuralf(lineNo, "Spaces indentation 4 di multiple honi chahidi hai.")
		}
		style, width = IndentSpaces, 4
	}
	if s.style == IndentUnset {
		s.style, s.width = style, width
	} else if s.style != style {
		return 0, structuralf(lineNo, "Indentation mix ho rahi hai. Sirf %s use karo.", s.style)
	}
	return len(prefix) / s.width, nil
}

// formattingLevel estimates the level of a line without enforcing a style.
func formattingLevel(line string) int {
	prefix := leadingWhitespace(line)
	tabs := strings.Count(prefix, "\t")
	spaces := len(prefix) - tabs
	switch {
	case spaces == 0:
		return tabs
	case tabs == 0:
		return spaces / 4
	}
	return (tabs*4 + spaces) / 4
}
