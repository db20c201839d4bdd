package jatti

import "strings"

// Line is one program line with its indentation and keyword resolved.
type Line struct {
	No    int
	Text  string
	Level int
	Kind  StmtKind
	Word  string
	Rest  string
}

// skippable lines never close or open a block.
func (l Line) skippable() bool {
	return l.Text == "" || l.Kind == StmtComment
}

// Program is a loaded source: every raw line for diagnostics plus the body
// between the markers.
type Program struct {
	Source []string
	Lines  []Line
	Style  IndentStyle
}

func splitLines(source string) []string {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	source = strings.ReplaceAll(source, "\r", "\n")
	source = strings.TrimSuffix(source, "\n")
	if source == "" {
		return nil
	}
	return strings.Split(source, "\n")
}

// checkMarkers verifies the start and end markers and that neither recurs
// inside the body.
func checkMarkers(raw []string) error {
	if len(raw) == 0 || strings.TrimSpace(raw[0]) != startMarker {
		return structuralf(1, "Program sun_we naal shuru kar.")
	}
	if len(raw) < 2 || strings.TrimSpace(raw[len(raw)-1]) != endMarker {
		return structuralf(len(raw), "Program ja_we naal khatam kar.")
	}
	for i := 1; i < len(raw)-1; i++ {
		switch strings.TrimSpace(raw[i]) {
		case startMarker:
			return structuralf(i+1, "sun_we sirf program de start layi use hunda hai. Line %d layi galat jaga hai.", i+1)
		case endMarker:
			return structuralf(i+1, "ja_we sirf program de end layi use hunda hai. Line %d layi galat jaga hai.", i+1)
		}
	}
	return nil
}

// Load validates markers and indentation and classifies every body line.
func Load(source string) (*Program, error) {
	raw := splitLines(source)
	if err := checkMarkers(raw); err != nil {
		return nil, err
	}
	prog := &Program{Source: raw}
	var state indentState
	baseChecked := false
	for i := 1; i < len(raw)-1; i++ {
		text := strings.TrimSpace(raw[i])
		ln := Line{No: i + 1, Text: text}
		if text != "" {
			level, err := state.level(raw[i], ln.No)
			if err != nil {
				return nil, err
			}
			ln.Level = level
			ln.Kind, ln.Word, ln.Rest = classify(text)
			if !baseChecked {
				if level != 1 {
					return nil, structuralf(ln.No, "sun_we de baad 1 indent level chahidi hai (4 spaces ya 1 TAB).")
				}
				baseChecked = true
			}
		}
		prog.Lines = append(prog.Lines, ln)
	}
	if !baseChecked {
		return nil, structuralf(1, "sun_we de baad 1 indent level chahidi hai (4 spaces ya 1 TAB).")
	}
	prog.Style = state.style
	return prog, nil
}
