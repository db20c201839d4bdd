package jatti

import "strings"

// Format rewrites source with the start and end markers in place and every
// body line indented by four spaces per level. Blank lines are kept.
// The shallowest body line lands on level 1. Format never fails; malformed
// input is reindented as well as it can be.
func Format(source string) string {
	raw := splitLines(source)
	var body []string
	for i, line := range raw {
		text := strings.TrimSpace(line)
		if (i == 0 && text == startMarker) || (i == len(raw)-1 && text == endMarker) {
			continue
		}
		body = append(body, line)
	}
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}

	shift := -1
	for _, line := range body {
		if strings.TrimSpace(line) != "" {
			if lvl := formattingLevel(line); shift < 0 || lvl < shift {
				shift = lvl
			}
		}
	}

	out := []string{startMarker}
	for _, line := range body {
		text := strings.TrimSpace(line)
		if text == "" {
			out = append(out, "")
			continue
		}
		level := formattingLevel(line) - shift + 1
		out = append(out, strings.Repeat("    ", level)+text)
	}
	out = append(out, endMarker)
	return strings.Join(out, "\n") + "\n"
}
