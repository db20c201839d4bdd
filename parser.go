package jatti

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Parser builds an expression tree from normalized expression text.
type Parser struct {
	tokens []tokenInfo
	pos    int
	curr   tokenInfo
	input  string
}

func NewParser(input string) (*Parser, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &Parser{tokens: tokens, input: input}
	p.curr = tokens[0]
	return p, nil
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curr = p.tokens[p.pos]
}

func (p *Parser) peek() tokenInfo {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return tokenInfo{typ: EOF}
}

func (p *Parser) expect(typ Token) (tokenInfo, error) {
	if p.curr.typ != typ {
		return p.curr, fmt.Errorf("unexpected token %q in %q", p.curr.value, p.input)
	}
	tok := p.curr
	p.nextToken()
	return tok, nil
}

// ParseExpression parses the whole input as one expression.
func (p *Parser) ParseExpression() (Node, error) {
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.curr.typ != EOF {
		return nil, fmt.Errorf("unexpected token %q in %q", p.curr.value, p.input)
	}
	return node, nil
}

// ParseList parses comma separated expressions until the end of input.
func (p *Parser) ParseList() ([]Node, error) {
	var nodes []Node
	for {
		node, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		if p.curr.typ != COMMA {
			break
		}
		p.nextToken()
	}
	if p.curr.typ != EOF {
		return nil, fmt.Errorf("unexpected token %q in %q", p.curr.value, p.input)
	}
	return nodes, nil
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseBinaryExpression(1)
}

func (p *Parser) getOperator(tok tokenInfo) (string, bool) {
	switch tok.typ {
	case OPERATOR:
		_, ok := operatorPrecedence[tok.value]
		return tok.value, ok
	case IDENT:
		switch tok.value {
		case "and", "or", "in":
			return tok.value, true
		case "not":
			if next := p.peek(); next.typ == IDENT && next.value == "in" {
				return "not in", true
			}
		}
	}
	return "", false
}

func (p *Parser) parseBinaryExpression(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, isOp := p.getOperator(p.curr)
		if !isOp {
			break
		}
		prec := getPrecedence(op)
		if prec < minPrec {
			break
		}
		if op == "not in" {
			p.nextToken()
		}
		p.nextToken()
		next := prec + 1
		if op == "**" {
			next = prec
		}
		right, err := p.parseBinaryExpression(next)
		if err != nil {
			return nil, err
		}
		switch op {
		case "and", "or":
			left = &LogicalNode{Op: op, Left: left, Right: right}
		default:
			left = &ArithmeticNode{Op: op, Left: left, Right: right}
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	switch {
	case p.curr.typ == IDENT && p.curr.value == "not":
		p.nextToken()
		child, err := p.parseBinaryExpression(precNot + 1)
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: "not", Child: child}, nil
	case p.curr.typ == OPERATOR && (p.curr.value == "-" || p.curr.value == "+"):
		op := p.curr.value
		p.nextToken()
		child, err := p.parseBinaryExpression(precUnary + 1)
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, Child: child}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.curr.typ {
		case LBRACKET:
			p.nextToken()
			node, err = p.parseSubscript(node)
		case DOT:
			p.nextToken()
			name, err := p.expect(IDENT)
			if err != nil {
				return nil, err
			}
			if p.curr.typ != LPAREN {
				return nil, fmt.Errorf("method %s needs arguments in %q", name.value, p.input)
			}
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &MethodNode{Target: node, Name: name.value, Args: args}
		default:
			return node, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// parseSubscript parses an index or slice after its opening bracket.
func (p *Parser) parseSubscript(target Node) (Node, error) {
	var lo Node
	var err error
	if p.curr.typ != COLON {
		lo, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if p.curr.typ == RBRACKET {
		p.nextToken()
		if lo == nil {
			return nil, fmt.Errorf("empty index in %q", p.input)
		}
		return &IndexNode{Target: target, Index: lo}, nil
	}
	if _, err := p.expect(COLON); err != nil {
		return nil, err
	}
	var hi Node
	if p.curr.typ != RBRACKET {
		hi, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(RBRACKET); err != nil {
		return nil, err
	}
	return &SliceNode{Target: target, Lo: lo, Hi: hi}, nil
}

func (p *Parser) parseArgs() ([]Node, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var args []Node
	for p.curr.typ != RPAREN {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curr.typ != COMMA {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.curr
	switch tok.typ {
	case NUMBER:
		p.nextToken()
		return parseNumber(tok.value)
	case STRING:
		p.nextToken()
		return &PrimitiveNode{Value: tok.value}, nil
	case IDENT:
		p.nextToken()
		switch tok.value {
		case "True":
			return &PrimitiveNode{Value: true}, nil
		case "False":
			return &PrimitiveNode{Value: false}, nil
		case "None":
			return &PrimitiveNode{Value: nil}, nil
		case "and", "or", "not", "in":
			return nil, fmt.Errorf("unexpected operator %q in %q", tok.value, p.input)
		}
		if p.curr.typ == LPAREN {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &CallNode{Name: tok.value, Args: args}, nil
		}
		return &IdentifierNode{Name: tok.value}, nil
	case LPAREN:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case LBRACKET:
		return p.parseList()
	case LBRACE:
		return p.parseMap()
	}
	return nil, fmt.Errorf("unexpected token %q in %q", tok.value, p.input)
}

func (p *Parser) parseList() (Node, error) {
	p.nextToken()
	list := &ListNode{}
	for p.curr.typ != RBRACKET {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
		if p.curr.typ != COMMA {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(RBRACKET); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseMap() (Node, error) {
	p.nextToken()
	m := &MapNode{}
	for p.curr.typ != RBRACE {
		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		m.Keys = append(m.Keys, key)
		m.Values = append(m.Values, value)
		if p.curr.typ != COMMA {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return m, nil
}

// parseNumber reads an integer or float literal. Integers follow Python:
// base prefixes and underscores are allowed, leading zeros are not, and
// values outside int64 become *big.Int.
func parseNumber(text string) (Node, error) {
	lower := strings.ToLower(text)
	isHex := strings.HasPrefix(lower, "0x")
	if !isHex && strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", text)
		}
		return &PrimitiveNode{Value: f}, nil
	}
	if len(text) > 1 && text[0] == '0' && text[1] >= '0' && text[1] <= '9' && strings.Trim(text, "0_") != "" {
		return nil, fmt.Errorf("leading zeros in decimal integer literals are not permitted: %q", text)
	}
	n, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return &PrimitiveNode{Value: normBig(n)}, nil
}
