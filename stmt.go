package jatti

import "strings"

// StmtKind is the statement a line holds, decided once from its leading
// keyword.
type StmtKind int

const (
	StmtUnknown StmtKind = iota
	StmtDeclare
	StmtPrint
	StmtInput
	StmtIf
	StmtElseIf
	StmtElse
	StmtWhile
	StmtForEach
	StmtFunc
	StmtReturn
	StmtAppend
	StmtCopy
	StmtClear
	StmtLength
	StmtTry
	StmtCatch
	StmtThrow
	StmtBreak
	StmtContinue
	StmtGlobal
	StmtImport
	StmtComment
)

const (
	startMarker = "sun_we"
	endMarker   = "ja_we"
)

var keywords = map[string]StmtKind{
	"chal_oye":           StmtDeclare,
	"chilla_we":          StmtPrint,
	"das_oye":            StmtInput,
	"je":                 StmtIf,
	"nahin_taan_je":      StmtElseIf,
	"nahin_taan":         StmtElse,
	"jadon_tak":          StmtWhile,
	"har_ek":             StmtForEach,
	"kaam":               StmtFunc,
	"wapas_kar":          StmtReturn,
	"pa_ander":           StmtAppend,
	"copy_kar":           StmtCopy,
	"saaf_kar":           StmtClear,
	"kinna_lamba":        StmtLength,
	"chal_koshish_karle": StmtTry,
	"pakad":              StmtCatch,
	"throw":              StmtThrow,
	"roko_oye_roko":      StmtBreak,
	"ruko_oye_ruko":      StmtBreak,
	"chalo_oye_chalo":    StmtContinue,
	"global":             StmtGlobal,
	"python_le_aa":       StmtImport,
	"fuddu_chiz":         StmtComment,
}

// classify splits a trimmed statement into its kind, leading word and
// the text after that word.
func classify(text string) (StmtKind, string, string) {
	end := 0
	for end < len(text) && isIdentByte(text[end]) {
		end++
	}
	word := text[:end]
	if word == "" {
		if fields := strings.Fields(text); len(fields) > 0 {
			word = fields[0]
		}
		return StmtUnknown, word, text
	}
	kind, ok := keywords[word]
	if !ok {
		return StmtUnknown, word, text
	}
	return kind, word, strings.TrimSpace(text[end:])
}

func isIdent(s string) bool {
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i]) {
			return false
		}
	}
	switch s {
	case "True", "False", "None", "and", "or", "not", "in":
		return false
	}
	return true
}

// lastTopLevel returns the index of the last occurrence of sep outside
// brackets and string literals, or -1.
func lastTopLevel(s string, sep byte) int {
	depth := 0
	var quote byte
	last := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			last = i
		}
	}
	return last
}

// firstTopLevelWord returns the byte offset of the first whole word w
// outside brackets and string literals, or -1.
func firstTopLevelWord(s, w string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case depth == 0 && strings.HasPrefix(s[i:], w):
			before := i == 0 || !isIdentByte(s[i-1])
			after := i+len(w) == len(s) || !isIdentByte(s[i+len(w)])
			if before && after {
				return i
			}
		}
	}
	return -1
}
