package jatti

import (
	"errors"
	"strings"
)

// evalAt evaluates an expression owned by a clause header so faults carry
// the header's line.
func (in *Interpreter) evalAt(ln Line, expr string) (any, error) {
	in.line = ln.No
	v, err := in.eval(expr)
	if err != nil {
		return nil, attachLine(err, ln.No)
	}
	return v, nil
}

func nextCode(lines []Line, k int) int {
	for k < len(lines) && lines[k].skippable() {
		k++
	}
	return k
}

func (in *Interpreter) execIf(lines []Line, i int) (int, outcome, error) {
	level := lines[i].Level
	matched := false
	for j := i; ; {
		ln := lines[j]
		body, next := block(lines, j)
		if ln.Kind == StmtElse {
			if ln.Rest != "" {
				return next, outcome{}, structuralf(ln.No, "nahin_taan de baad kuch nahi aunda.")
			}
		} else if ln.Rest == "" {
			return next, outcome{}, structuralf(ln.No, "%s vich condition missing hai.", ln.Word)
		}
		if !hasCode(body) {
			return next, outcome{}, structuralf(ln.No, "%s de baad indented body chahidi hai.", ln.Word)
		}
		if !matched {
			run := ln.Kind == StmtElse
			if !run {
				cond, err := in.evalAt(ln, ln.Rest)
				if err != nil {
					return next, outcome{}, err
				}
				run = truthy(cond)
			}
			if run {
				matched = true
				out, err := in.execBlock(body)
				if err != nil || out.signal != SignalNone {
					return next, out, err
				}
			}
		}
		if ln.Kind == StmtElse {
			return next, outcome{}, nil
		}
		k := nextCode(lines, next)
		if k < len(lines) && lines[k].Level == level && (lines[k].Kind == StmtElseIf || lines[k].Kind == StmtElse) {
			j = k
			continue
		}
		return next, outcome{}, nil
	}
}

// loopBody runs one pass of a loop body. It reports whether the loop
// must stop and the outcome to hand upward.
func (in *Interpreter) loopBody(body []Line) (bool, outcome, error) {
	out, err := in.execBlock(body)
	if err != nil {
		return true, outcome{}, err
	}
	switch out.signal {
	case SignalBreak:
		return true, outcome{}, nil
	case SignalNone, SignalContinue:
		return false, outcome{}, nil
	}
	return true, out, nil
}

func (in *Interpreter) execWhile(lines []Line, i int) (int, outcome, error) {
	ln := lines[i]
	body, next := block(lines, i)
	if ln.Rest == "" {
		return next, outcome{}, structuralf(ln.No, "jadon_tak vich condition missing hai.")
	}
	if !hasCode(body) {
		return next, outcome{}, structuralf(ln.No, "jadon_tak body missing hai.")
	}
	in.loopDepth++
	defer func() { in.loopDepth-- }()
	for {
		if err := in.ctx.Err(); err != nil {
			return next, outcome{}, err
		}
		cond, err := in.evalAt(ln, ln.Rest)
		if err != nil {
			return next, outcome{}, err
		}
		if !truthy(cond) {
			return next, outcome{}, nil
		}
		stop, out, err := in.loopBody(body)
		if stop {
			return next, out, err
		}
	}
}

// forEachHeader splits `<bindings> <iterable>` at the last top-level space.
func forEachHeader(rest string) ([]string, string, bool) {
	sp := lastTopLevel(rest, ' ')
	if sp < 0 {
		return nil, "", false
	}
	iterable := strings.TrimSpace(rest[sp+1:])
	var names []string
	for _, part := range strings.Split(rest[:sp], ",") {
		name := strings.TrimSpace(part)
		if !isIdent(name) {
			return nil, "", false
		}
		names = append(names, name)
	}
	if len(names) > 2 || iterable == "" {
		return nil, "", false
	}
	return names, iterable, true
}

func (in *Interpreter) execForEach(lines []Line, i int) (int, outcome, error) {
	ln := lines[i]
	body, next := block(lines, i)
	names, iterable, ok := forEachHeader(ln.Rest)
	if !ok {
		return next, outcome{}, structuralf(ln.No, "har_ek syntax galat hai.")
	}
	if !hasCode(body) {
		return next, outcome{}, structuralf(ln.No, "har_ek body missing hai.")
	}
	value, err := in.evalAt(ln, iterable)
	if err != nil {
		return next, outcome{}, err
	}
	in.loopDepth++
	defer func() { in.loopDepth-- }()

	if len(names) == 1 {
		lst, ok := value.(*List)
		if !ok {
			return next, outcome{}, &Error{Kind: KindRuntime, Message: "har_ek x sirf list layi use hunda hai.", Line: ln.No}
		}
		for idx := 0; idx < len(lst.Items); idx++ {
			if err := in.ctx.Err(); err != nil {
				return next, outcome{}, err
			}
			in.env.Set(names[0], lst.Items[idx])
			if stop, out, err := in.loopBody(body); stop {
				return next, out, err
			}
		}
		return next, outcome{}, nil
	}

	m, ok := value.(*Map)
	if !ok {
		return next, outcome{}, &Error{Kind: KindRuntime, Message: "har_ek key, value sirf map layi use hunda hai.", Line: ln.No}
	}
	keys, values := m.Keys(), m.Values()
	for idx := range keys {
		if err := in.ctx.Err(); err != nil {
			return next, outcome{}, err
		}
		in.env.Set(names[0], keys[idx])
		in.env.Set(names[1], values[idx])
		if stop, out, err := in.loopBody(body); stop {
			return next, out, err
		}
	}
	return next, outcome{}, nil
}

// caughtValue reports the exception value a catch clause receives for a
// failed try body.
func caughtValue(out outcome, err error) (any, bool) {
	if err == nil {
		return out.value, out.signal == SignalThrown
	}
	var thrown *Thrown
	if errors.As(err, &thrown) {
		return thrown.Value, true
	}
	var jerr *Error
	if errors.As(err, &jerr) && (jerr.Kind.Catchable() || jerr.Kind == KindExpression) {
		return jerr.Message, true
	}
	return nil, false
}

func (in *Interpreter) execTry(lines []Line, i int) (int, outcome, error) {
	ln := lines[i]
	body, next := block(lines, i)
	if ln.Rest != "" {
		return next, outcome{}, structuralf(ln.No, "Syntax samajh nahi aaya.")
	}
	if !hasCode(body) {
		return next, outcome{}, structuralf(ln.No, "chal_koshish_karle de baad body chahidi hai.")
	}
	k := nextCode(lines, next)
	if k >= len(lines) || lines[k].Kind != StmtCatch || lines[k].Level != ln.Level {
		return next, outcome{}, structuralf(ln.No, "try de baad pakad chahida hai.")
	}
	catch := lines[k]
	name, err := catchVariable(catch)
	if err != nil {
		return next, outcome{}, err
	}
	handler, after := block(lines, k)
	if !hasCode(handler) {
		return after, outcome{}, structuralf(catch.No, "pakad de baad body chahidi hai.")
	}

	in.tryDepth++
	out, err := in.execBlock(body)
	in.tryDepth--

	value, caught := caughtValue(out, err)
	if !caught {
		return after, out, err
	}
	if name != "" {
		in.env.Set(name, value)
	}
	out, err = in.execBlock(handler)
	return after, out, err
}

func catchVariable(ln Line) (string, error) {
	fields := strings.Fields(ln.Rest)
	switch {
	case len(fields) == 0:
		return "", nil
	case len(fields) > 1:
		return "", structuralf(ln.No, "pakad syntax galat hai. Format: pakad <var>")
	case !isIdent(fields[0]):
		return "", structuralf(ln.No, "pakad vich galat variable naam.")
	}
	return fields[0], nil
}
