package jatti

import (
	"fmt"
	"strings"
	"text/scanner"
)

type Token int

const (
	EOF Token = iota
	IDENT
	STRING
	NUMBER
	OPERATOR
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	COLON
	DOT
)

type tokenInfo struct {
	typ   Token
	value string
}

const (
	precNot   = 3
	precUnary = 7
)

var operatorPrecedence = map[string]int{
	"or":     1,
	"and":    2,
	"==":     4,
	"!=":     4,
	"<":      4,
	">":      4,
	"<=":     4,
	">=":     4,
	"in":     4,
	"not in": 4,
	"+":      5,
	"-":      5,
	"*":      6,
	"/":      6,
	"//":     6,
	"%":      6,
	"**":     8,
}

func getPrecedence(op string) int {
	if prec, ok := operatorPrecedence[op]; ok {
		return prec
	}
	return 0
}

var punctuation = map[rune]Token{
	'(': LPAREN,
	')': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	'{': LBRACE,
	'}': RBRACE,
	',': COMMA,
	':': COLON,
	'.': DOT,
}

// doubled lists operators whose first rune may be followed by a second one.
var doubled = map[rune]map[rune]string{
	'=': {'=': "=="},
	'!': {'=': "!="},
	'<': {'=': "<="},
	'>': {'=': ">="},
	'/': {'/': "//"},
	'*': {'*': "**"},
}

// tokenize splits a normalized expression into tokens.
func tokenize(input string) ([]tokenInfo, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(input))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	s.Whitespace = 1<<' ' | 1<<'\t' | 1<<'\r' | 1<<'\n'
	var scanErr error
	s.Error = func(_ *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("%s", msg)
		}
	}
	var tokens []tokenInfo
	for {
		r := s.Scan()
		if scanErr != nil {
			return nil, scanErr
		}
		text := s.TokenText()
		switch {
		case r == scanner.EOF:
			return append(tokens, tokenInfo{typ: EOF}), nil
		case r == scanner.Ident:
			tokens = append(tokens, tokenInfo{typ: IDENT, value: text})
		case r == scanner.Int || r == scanner.Float:
			tokens = append(tokens, tokenInfo{typ: NUMBER, value: text})
		case r == '"' || r == '\'':
			str, err := scanQuoted(&s, r)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tokenInfo{typ: STRING, value: str})
		default:
			if typ, ok := punctuation[r]; ok {
				tokens = append(tokens, tokenInfo{typ: typ, value: text})
				continue
			}
			if next, ok := doubled[r]; ok {
				if op, ok := next[s.Peek()]; ok {
					s.Next()
					tokens = append(tokens, tokenInfo{typ: OPERATOR, value: op})
					continue
				}
			}
			switch r {
			case '+', '-', '*', '/', '%', '<', '>':
				tokens = append(tokens, tokenInfo{typ: OPERATOR, value: text})
			default:
				return nil, fmt.Errorf("unexpected character %q", text)
			}
		}
	}
}

// scanQuoted reads the rest of a string literal opened by quote and
// decodes its escapes. Unknown escapes keep their backslash.
func scanQuoted(s *scanner.Scanner, quote rune) (string, error) {
	var b strings.Builder
	for {
		ch := s.Next()
		switch ch {
		case scanner.EOF, '\n':
			return "", fmt.Errorf("unterminated string literal")
		case quote:
			return b.String(), nil
		case '\\':
			esc := s.Next()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case '\\', '\'', '"':
				b.WriteRune(esc)
			case scanner.EOF:
				return "", fmt.Errorf("unterminated string literal")
			default:
				b.WriteByte('\\')
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(ch)
		}
	}
}
