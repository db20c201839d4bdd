package jatti

import (
	"errors"
	"strings"
)

// UserFunc is a function defined by a kaam statement.
type UserFunc struct {
	Name   string
	Params []string
	Body   []Line
	Line   int
}

func parseSignature(ln Line) (string, []string, error) {
	rest := ln.Rest
	open := strings.IndexByte(rest, '(')
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return "", nil, structuralf(ln.No, "kaam syntax galat hai. Format: kaam name(arg1, arg2)")
	}
	name := strings.TrimSpace(rest[:open])
	if !isIdent(name) {
		return "", nil, structuralf(ln.No, "Function naam galat hai.")
	}
	inner := strings.TrimSpace(rest[open+1 : len(rest)-1])
	if inner == "" {
		return name, nil, nil
	}
	seen := make(map[string]bool)
	var params []string
	for _, part := range strings.Split(inner, ",") {
		p := strings.TrimSpace(part)
		if !isIdent(p) || seen[p] {
			return "", nil, structuralf(ln.No, "Function parameter galat hai: %s", p)
		}
		seen[p] = true
		params = append(params, p)
	}
	return name, params, nil
}

func (in *Interpreter) defineFunc(lines []Line, i int) (int, error) {
	ln := lines[i]
	body, next := block(lines, i)
	name, params, err := parseSignature(ln)
	if err != nil {
		return next, err
	}
	if !hasCode(body) {
		return next, structuralf(ln.No, "Function body khaali nahi ho sakda.")
	}
	in.funcs[name] = &UserFunc{Name: name, Params: params, Body: body, Line: ln.No}
	return next, nil
}

func (in *Interpreter) resolve(name string) (callable, bool) {
	fn, ok := in.funcs[name]
	if !ok {
		return nil, false
	}
	return func(args []any) (any, error) { return in.call(fn, args) }, true
}

// call runs a user function over a snapshot of the environment. Only
// global-declared names keep the values the body gave them.
func (in *Interpreter) call(fn *UserFunc, args []any) (result any, err error) {
	if len(args) != len(fn.Params) {
		return nil, newError(KindRuntime, "Function %s expects %d args, got %d", fn.Name, len(fn.Params), len(args))
	}
	if in.depth >= in.maxDepth {
		return nil, newError(KindRuntime, "Recursion depth limit (%d) exceeded", in.maxDepth)
	}
	snapshot := make(map[string]any, len(in.env.vars))
	for k, v := range in.env.vars {
		snapshot[k] = v
	}
	savedLine, savedLoop := in.line, in.loopDepth
	in.depth++
	in.stack = append(in.stack, Frame{Name: fn.Name, Line: in.line})
	in.loopDepth = 0
	defer func() {
		var jerr *Error
		if errors.As(err, &jerr) && jerr.Stack == nil {
			jerr.Stack = append([]Frame(nil), in.stack...)
		}
		kept := make(map[string]any)
		for name := range in.globals {
			if v, ok := in.env.vars[name]; ok {
				kept[name] = v
			}
		}
		in.env.vars = snapshot
		for name, v := range kept {
			in.env.vars[name] = v
		}
		in.stack = in.stack[:len(in.stack)-1]
		in.depth--
		in.line, in.loopDepth = savedLine, savedLoop
	}()

	for i, p := range fn.Params {
		in.env.vars[p] = args[i]
	}
	out, err := in.execBlock(fn.Body)
	if err != nil {
		return nil, err
	}
	switch out.signal {
	case SignalReturn:
		return out.value, nil
	case SignalThrown:
		return nil, &Thrown{Value: out.value}
	}
	return nil, nil
}
