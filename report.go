package jatti

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorBanner marks rendered diagnostics; hosts detect failures by it.
const ErrorBanner = "❌ JATTI ERROR"

var roasts = []string{
	"Galti ho gayi !! koi gall nahi.",
	"Dhyaan de, Jatti style rakhi !!",
	"Phir ohi mistake !!",
	"Tu compiler nu test kar reha !!",
	"Compiler thak gaya. Tu vi !!",
	"Tu coding chadd de !!",
	"Tere to nhi hona oye !!",
	"Eh ki likh ta tu?",
	"Dimag use kar le thoda.",
	"Jatti Lang mazak nahi hai.",
	"Syntax nu respect de.",
}

// Report renders a fatal diagnostic for err against the program source.
func Report(w io.Writer, err error, source string) {
	msg, line := err.Error(), 0
	var stack []Frame
	var jerr *Error
	if errors.As(err, &jerr) {
		msg, line, stack = jerr.Message, jerr.Line, jerr.Stack
	}
	banner := strings.Repeat("=", 60)
	var sb strings.Builder
	sb.WriteString("\n" + banner + "\n")
	sb.WriteString(ErrorBanner + "\n")
	sb.WriteString(banner + "\n")
	sb.WriteString("🔴 Error: " + msg + "\n")
	if line > 0 {
		sb.WriteString(fmt.Sprintf("📍 Line %d\n", line))
		lines := splitLines(source)
		if line <= len(lines) {
			sb.WriteString("\n📋 Code Context:\n")
			start := max(0, line-3)
			end := min(len(lines), line+2)
			for i := start; i < end; i++ {
				marker := "    "
				if i == line-1 {
					marker = ">>> "
				}
				sb.WriteString(fmt.Sprintf("%s%3d | %s\n", marker, i+1, lines[i]))
			}
		}
	}
	if len(stack) > 0 {
		sb.WriteString("\n📞 Call Stack:\n")
		for depth, frame := range stack {
			sb.WriteString(fmt.Sprintf("%s└─ %s() at line %d\n", strings.Repeat("  ", depth), frame.Name, frame.Line))
		}
	}
	sb.WriteString("\n# " + roasts[line%len(roasts)] + "\n")
	sb.WriteString(banner + "\n")
	io.WriteString(w, sb.String())
}
