package jatti

import (
	"fmt"
	"regexp"
	"strings"
)

var keywordReplacements = []struct {
	re  *regexp.Regexp
	out string
}{
	{regexp.MustCompile(`\bbarabar_nahi_hai\b`), "!="},
	{regexp.MustCompile(`\bnikka_ya_barabar\b`), "<="},
	{regexp.MustCompile(`\bvadha_ya_barabar\b`), ">="},
	{regexp.MustCompile(`\bvadha_hai\b`), ">"},
	{regexp.MustCompile(`\bnikka_hai\b`), "<"},
	{regexp.MustCompile(`\bbarabar\b`), "=="},
	{regexp.MustCompile(`\bhor\b`), "and"},
	{regexp.MustCompile(`\bya_te\b`), "or"},
	{regexp.MustCompile(`\bnahi\b`), "not"},
	{regexp.MustCompile(`\bsach\b`), "True"},
	{regexp.MustCompile(`\bjhoot\b`), "False"},
	{regexp.MustCompile(`\bkhaali\b`), "None"},
}

var (
	consecutiveLogical = regexp.MustCompile(`\b(hor|ya_te|nahi)\s+(hor|ya_te)\b|\bnahi\s+nahi\b`)
	lonelyLogical      = regexp.MustCompile(`^\s*(hor|ya_te)\b|\b(hor|ya_te)\s*$`)
	placeholder        = regexp.MustCompile(`__JATTI_STR_(\d+)__`)
)

// maskStrings replaces every quoted literal with a placeholder so keyword
// rewriting never touches literal text.
func maskStrings(expr string) (string, []string) {
	var sb strings.Builder
	var literals []string
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c != '"' && c != '\'' {
			sb.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(expr) && expr[j] != c {
			if expr[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(expr) {
			sb.WriteString(expr[i:])
			break
		}
		sb.WriteString(fmt.Sprintf("__JATTI_STR_%d__", len(literals)))
		literals = append(literals, expr[i:j+1])
		i = j
	}
	return sb.String(), literals
}

func unmaskStrings(expr string, literals []string) string {
	return placeholder.ReplaceAllStringFunc(expr, func(m string) string {
		var n int
		fmt.Sscanf(m, "__JATTI_STR_%d__", &n)
		if n < len(literals) {
			return literals[n]
		}
		return m
	})
}

// Normalize rewrites keyword operators and literals into the native
// expression syntax understood by the Parser.
func Normalize(expr string) (string, error) {
	masked, literals := maskStrings(strings.TrimSpace(expr))
	if consecutiveLogical.MatchString(masked) {
		return "", newError(KindStructural, "Logical operators consecutive nahi honde sakde.")
	}
	if lonelyLogical.MatchString(masked) {
		return "", newError(KindStructural, "Logical operator de liye dono operands chahide hain.")
	}
	if rest, ok := cutKeyword(masked, "mil_gaya"); ok {
		parts := strings.Fields(rest)
		if len(parts) < 2 {
			return "", newError(KindStructural, "mil_gaya syntax galat hai. Format: mil_gaya <container> <item>")
		}
		masked = strings.Join(parts[1:], " ") + " in " + parts[0]
	}
	for _, r := range keywordReplacements {
		masked = r.re.ReplaceAllString(masked, r.out)
	}
	return unmaskStrings(masked, literals), nil
}

// cutKeyword reports whether s starts with the whole word kw and returns
// the text after it.
func cutKeyword(s, kw string) (string, bool) {
	if !strings.HasPrefix(s, kw) {
		return "", false
	}
	rest := s[len(kw):]
	if rest != "" && isIdentByte(rest[0]) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// compileExpr normalizes and parses one expression.
func compileExpr(expr string) (Node, error) {
	norm, err := Normalize(expr)
	if err != nil {
		return nil, err
	}
	p, err := NewParser(norm)
	if err != nil {
		return nil, expressionError(expr, err)
	}
	node, err := p.ParseExpression()
	if err != nil {
		return nil, expressionError(expr, err)
	}
	return node, nil
}

// compileList normalizes and parses comma separated expressions.
func compileList(expr string) ([]Node, error) {
	norm, err := Normalize(expr)
	if err != nil {
		return nil, err
	}
	p, err := NewParser(norm)
	if err != nil {
		return nil, expressionError(expr, err)
	}
	nodes, err := p.ParseList()
	if err != nil {
		return nil, expressionError(expr, err)
	}
	return nodes, nil
}

func expressionError(expr string, cause error) *Error {
	return &Error{Kind: KindExpression, Message: "Expression error: " + strings.TrimSpace(expr), Cause: cause}
}
