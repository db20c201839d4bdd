package jatti

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Transpiler converts programs into standalone Python 3 source.
type Transpiler struct {
	MaxRecursion int
	modules      *ModuleRegistry

	out     []string
	globals []string
	// deferred counts enclosing try and function bodies. Inside them an
	// unparseable expression raises at run time instead of failing the build.
	deferred int
	// defined holds the kaam and imported names of the program being built.
	defined map[string]bool
}

func NewTranspiler() *Transpiler {
	return &Transpiler{MaxRecursion: DefaultMaxRecursion, modules: globalModules}
}

// Transpile converts source with the default settings.
func Transpile(source string) (string, error) {
	return NewTranspiler().Transpile(source)
}

// Transpile validates source and returns the equivalent Python program.
// Structural faults are reported with the messages the interpreter uses.
func (t *Transpiler) Transpile(source string) (string, error) {
	prog, err := Load(source)
	if err != nil {
		return "", err
	}
	t.out = nil
	t.defined = make(map[string]bool)
	for _, ln := range prog.Lines {
		switch ln.Kind {
		case StmtFunc:
			if name, _, err := parseSignature(ln); err == nil {
				t.defined[name] = true
			}
		case StmtImport:
			if _, names, err := parseImport(ln); err == nil {
				for _, name := range names {
					t.defined[name] = true
				}
			}
		}
	}
	t.globals, err = declaredGlobals(prog.Lines)
	if err != nil {
		return "", err
	}
	depth := t.MaxRecursion
	if depth <= 0 {
		depth = DefaultMaxRecursion
	}

	t.emit(0, "def __jatti_main__():")
	t.emitGlobals(1, nil)
	start := len(t.out)
	if err := t.emitBlock(prog.Lines, 1, 0); err != nil {
		return "", err
	}
	if !t.emittedCode(start) {
		t.emit(1, "pass")
	}

	var sb strings.Builder
	sb.WriteString("#!/usr/bin/env python3\n")
	sb.WriteString("# Auto-generated from Jatti code\n\n")
	sb.WriteString(fmt.Sprintf(pythonRuntime, depth))
	sb.WriteString("\n\n")
	for _, line := range t.out {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteString("\n\nif __name__ == '__main__':\n")
	sb.WriteString("    __jatti_main__()\n")
	return sb.String(), nil
}

// declaredGlobals collects every name listed by a global statement.
// Python needs them declared up front in each scope.
func declaredGlobals(lines []Line) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, ln := range lines {
		if ln.Kind != StmtGlobal {
			continue
		}
		list, ok := globalNames(ln.Rest)
		if !ok {
			return nil, structuralf(ln.No, "global ke baad variable names chahide ne.")
		}
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (t *Transpiler) emit(depth int, text string) {
	t.out = append(t.out, strings.Repeat("    ", depth)+text)
}

func (t *Transpiler) emitGlobals(depth int, params []string) {
	skip := make(map[string]bool, len(params))
	for _, p := range params {
		skip[p] = true
	}
	var names []string
	for _, name := range t.globals {
		if !skip[name] {
			names = append(names, pyName(name))
		}
	}
	if len(names) > 0 {
		t.emit(depth, "global "+strings.Join(names, ", "))
	}
}

func (t *Transpiler) emittedCode(from int) bool {
	for _, line := range t.out[from:] {
		if s := strings.TrimSpace(line); s != "" && !strings.HasPrefix(s, "#") && !strings.HasPrefix(s, "global ") {
			return true
		}
	}
	return false
}

func (t *Transpiler) expr(ln Line, text string) (string, error) {
	node, err := compileExpr(text)
	if err != nil {
		return t.expressionFault(ln, err)
	}
	if err := t.checkCalls(ln, node); err != nil {
		return "", err
	}
	return node.ToPython(), nil
}

func (t *Transpiler) exprList(ln Line, text string) (string, error) {
	nodes, err := compileList(text)
	if err != nil {
		return t.expressionFault(ln, err)
	}
	for _, node := range nodes {
		if err := t.checkCalls(ln, node); err != nil {
			return "", err
		}
	}
	return joinPython(nodes), nil
}

// checkCalls rejects calls to functions registered from Go, which the
// Python runtime cannot provide.
func (t *Transpiler) checkCalls(ln Line, node Node) error {
	var err error
	walkNodes(node, func(n Node) {
		call, ok := n.(*CallNode)
		if !ok || err != nil || t.defined[call.Name] {
			return
		}
		if _, core := runtimeBuiltins[call.Name]; core {
			return
		}
		if _, registered := LookupFunction(call.Name); registered {
			err = structuralf(ln.No, "Function %s sirf interpreter vich hai, Python vich nahi chal sakdi.", call.Name)
		}
	})
	return err
}

// expressionFault turns a compile failure into a raising call where the
// interpreter would let a try body catch it.
func (t *Transpiler) expressionFault(ln Line, err error) (string, error) {
	var jerr *Error
	if t.deferred > 0 && errors.As(err, &jerr) && jerr.Kind == KindExpression {
		return "__jatti_expression_error(" + quote(jerr.Message) + ")", nil
	}
	return "", attachLine(err, ln.No)
}

func (t *Transpiler) emitBlock(lines []Line, depth, loops int) error {
	base := -1
	for i := 0; i < len(lines); {
		ln := lines[i]
		if ln.skippable() {
			if ln.Kind == StmtComment {
				t.emit(depth, "# "+ln.Rest)
			}
			i++
			continue
		}
		if base < 0 {
			base = ln.Level
		}
		if ln.Level != base {
			return structuralf(ln.No, "Indentation galat hai.")
		}
		next, err := t.emitStatement(lines, i, depth, loops)
		if err != nil {
			return attachLine(err, ln.No)
		}
		i = next
	}
	return nil
}

func (t *Transpiler) emitStatement(lines []Line, i, depth, loops int) (int, error) {
	ln := lines[i]
	switch ln.Kind {
	case StmtIf:
		return t.emitIf(lines, i, depth, loops)
	case StmtWhile:
		return t.emitWhile(lines, i, depth, loops)
	case StmtForEach:
		return t.emitForEach(lines, i, depth, loops)
	case StmtTry:
		return t.emitTry(lines, i, depth, loops)
	case StmtFunc:
		return t.emitFunc(lines, i, depth)
	case StmtElseIf, StmtElse:
		return i, structuralf(ln.No, "%s sirf je de baad allowed hai.", ln.Word)
	case StmtCatch:
		return i, structuralf(ln.No, "pakad sirf try de baad allowed hai.")
	case StmtUnknown:
		return i, structuralf(ln.No, "Unknown keyword: %s", ln.Word)
	}
	return i + 1, t.emitSimple(ln, depth, loops)
}

func (t *Transpiler) emitSimple(ln Line, depth, loops int) error {
	switch ln.Kind {
	case StmtDeclare:
		target, expr, ok := splitDeclare(ln.Rest)
		if !ok {
			return structuralf(ln.No, "chal_oye syntax galat hai. Format: chal_oye <var> ban <expr>")
		}
		value, err := t.expr(ln, expr)
		if err != nil {
			return err
		}
		if isIdent(target) {
			t.emit(depth, pyName(target)+" = "+value)
			return nil
		}
		node, err := compileExpr(target)
		if err != nil {
			return err
		}
		if _, ok := node.(*IndexNode); !ok {
			return structuralf(ln.No, "chal_oye syntax galat hai. Format: chal_oye <var> ban <expr>")
		}
		t.emit(depth, node.ToPython()+" = "+value)
	case StmtPrint:
		if ln.Rest == "" {
			t.emit(depth, "__jatti_print()")
			return nil
		}
		values, err := t.exprList(ln, ln.Rest)
		if err != nil {
			return err
		}
		t.emit(depth, "__jatti_print("+values+")")
	case StmtInput:
		name, msg, err := parseInput(ln)
		if err != nil {
			return err
		}
		t.emit(depth, fmt.Sprintf("%s = __jatti_input(%s)", pyName(name), quote(msg)))
	case StmtReturn:
		if ln.Rest == "" {
			t.emit(depth, "return")
			return nil
		}
		value, err := t.expr(ln, ln.Rest)
		if err != nil {
			return err
		}
		t.emit(depth, "return "+value)
	case StmtAppend:
		fields := strings.Fields(ln.Rest)
		if len(fields) < 2 || !isIdent(fields[0]) {
			return structuralf(ln.No, "pa_ander syntax galat hai. Format: pa_ander <list> <value>")
		}
		value, err := t.expr(ln, strings.TrimSpace(strings.TrimPrefix(ln.Rest, fields[0])))
		if err != nil {
			return err
		}
		t.emit(depth, fmt.Sprintf("__jatti_append(%s, %s)", pyName(fields[0]), value))
	case StmtCopy:
		fields := strings.Fields(ln.Rest)
		if len(fields) != 2 || !isIdent(fields[0]) || !isIdent(fields[1]) {
			return structuralf(ln.No, "copy_kar syntax galat hai. Format: copy_kar <source> <destination>")
		}
		t.emit(depth, fmt.Sprintf("%s = __jatti_copy(%s)", pyName(fields[1]), pyName(fields[0])))
	case StmtClear:
		if !isIdent(ln.Rest) {
			return structuralf(ln.No, "saaf_kar syntax galat hai. Format: saaf_kar <name>")
		}
		t.emit(depth, fmt.Sprintf("__jatti_clear(%s)", pyName(ln.Rest)))
	case StmtLength:
		value, err := t.expr(ln, ln.Rest)
		if err != nil {
			return err
		}
		t.emit(depth, "__jatti_print(kinna_lamba("+value+"))")
	case StmtThrow:
		if ln.Rest == "" {
			return structuralf(ln.No, "throw vich value chahidi hai.")
		}
		value, err := t.expr(ln, ln.Rest)
		if err != nil {
			return err
		}
		t.emit(depth, "raise __JattiThrown("+value+")")
	case StmtBreak, StmtContinue:
		if ln.Rest != "" {
			return structuralf(ln.No, "Syntax samajh nahi aaya.")
		}
		if loops == 0 {
			return structuralf(ln.No, "%s sirf loop vich allowed hai.", ln.Word)
		}
		if ln.Kind == StmtBreak {
			t.emit(depth, "break")
		} else {
			t.emit(depth, "continue")
		}
	case StmtGlobal:
		t.emit(depth, "pass")
	case StmtImport:
		return t.emitImport(ln, depth)
	default:
		return structuralf(ln.No, "Syntax samajh nahi aaya.")
	}
	return nil
}

func (t *Transpiler) emitImport(ln Line, depth int) error {
	module, names, err := parseImport(ln)
	if err != nil {
		return err
	}
	m, ok := t.modules.Lookup(module)
	if !ok {
		return structuralf(ln.No, "Python import fail ho gaya.")
	}
	for _, name := range names {
		if _, ok := m.Members[name]; !ok {
			return structuralf(ln.No, "Python import fail ho gaya.")
		}
	}
	if m.Python != "" {
		t.emit(depth, fmt.Sprintf("from %s import %s", m.Python, strings.Join(names, ", ")))
		return nil
	}
	for _, name := range names {
		t.emit(depth, fmt.Sprintf("%s = __jatti_%s_%s", pyName(name), m.Name, name))
	}
	return nil
}

func (t *Transpiler) emitBody(ln Line, lines []Line, i, depth, loops int, missing string) (int, error) {
	body, next := block(lines, i)
	if !hasCode(body) {
		return next, structuralf(ln.No, "%s", missing)
	}
	return next, t.emitBlock(body, depth+1, loops)
}

func (t *Transpiler) emitIf(lines []Line, i, depth, loops int) (int, error) {
	level := lines[i].Level
	for j := i; ; {
		ln := lines[j]
		switch {
		case ln.Kind == StmtElse:
			if ln.Rest != "" {
				_, next := block(lines, j)
				return next, structuralf(ln.No, "nahin_taan de baad kuch nahi aunda.")
			}
			t.emit(depth, "else:")
		case ln.Rest == "":
			_, next := block(lines, j)
			return next, structuralf(ln.No, "%s vich condition missing hai.", ln.Word)
		default:
			cond, err := t.expr(ln, ln.Rest)
			if err != nil {
				return j + 1, err
			}
			head := "if "
			if ln.Kind == StmtElseIf {
				head = "elif "
			}
			t.emit(depth, head+cond+":")
		}
		next, err := t.emitBody(ln, lines, j, depth, loops, ln.Word+" de baad indented body chahidi hai.")
		if err != nil || ln.Kind == StmtElse {
			return next, err
		}
		k := nextCode(lines, next)
		if k < len(lines) && lines[k].Level == level && (lines[k].Kind == StmtElseIf || lines[k].Kind == StmtElse) {
			j = k
			continue
		}
		return next, nil
	}
}

func (t *Transpiler) emitWhile(lines []Line, i, depth, loops int) (int, error) {
	ln := lines[i]
	if ln.Rest == "" {
		_, next := block(lines, i)
		return next, structuralf(ln.No, "jadon_tak vich condition missing hai.")
	}
	cond, err := t.expr(ln, ln.Rest)
	if err != nil {
		return i + 1, err
	}
	t.emit(depth, "while "+cond+":")
	return t.emitBody(ln, lines, i, depth, loops+1, "jadon_tak body missing hai.")
}

func (t *Transpiler) emitForEach(lines []Line, i, depth, loops int) (int, error) {
	ln := lines[i]
	names, iterable, ok := forEachHeader(ln.Rest)
	if !ok {
		_, next := block(lines, i)
		return next, structuralf(ln.No, "har_ek syntax galat hai.")
	}
	value, err := t.expr(ln, iterable)
	if err != nil {
		return i + 1, err
	}
	if len(names) == 1 {
		t.emit(depth, fmt.Sprintf("for %s in __jatti_iter_list(%s):", pyName(names[0]), value))
	} else {
		t.emit(depth, fmt.Sprintf("for %s, %s in __jatti_iter_map(%s):", pyName(names[0]), pyName(names[1]), value))
	}
	return t.emitBody(ln, lines, i, depth, loops+1, "har_ek body missing hai.")
}

func (t *Transpiler) emitTry(lines []Line, i, depth, loops int) (int, error) {
	ln := lines[i]
	_, next := block(lines, i)
	if ln.Rest != "" {
		return next, structuralf(ln.No, "Syntax samajh nahi aaya.")
	}
	t.emit(depth, "try:")
	t.deferred++
	_, err := t.emitBody(ln, lines, i, depth, loops, "chal_koshish_karle de baad body chahidi hai.")
	t.deferred--
	if err != nil {
		return next, err
	}
	k := nextCode(lines, next)
	if k >= len(lines) || lines[k].Kind != StmtCatch || lines[k].Level != ln.Level {
		return next, structuralf(ln.No, "try de baad pakad chahida hai.")
	}
	catch := lines[k]
	name, err := catchVariable(catch)
	if err != nil {
		return next, err
	}
	t.emit(depth, "except Exception as __jatti_e__:")
	if name != "" {
		t.emit(depth+1, pyName(name)+" = __jatti_exception_value(__jatti_e__)")
	}
	return t.emitBody(catch, lines, k, depth, loops, "pakad de baad body chahidi hai.")
}

func (t *Transpiler) emitFunc(lines []Line, i, depth int) (int, error) {
	ln := lines[i]
	body, next := block(lines, i)
	name, params, err := parseSignature(ln)
	if err != nil {
		return next, err
	}
	py := make([]string, len(params))
	for k, p := range params {
		py[k] = pyName(p)
	}
	t.emit(depth, "@__jatti_function")
	t.emit(depth, fmt.Sprintf("def %s(%s):", pyName(name), strings.Join(py, ", ")))
	t.emitGlobals(depth+1, params)
	t.emitCallerValues(depth+1, body, params)
	t.deferred++
	defer func() { t.deferred-- }()
	return t.emitBody(ln, lines, i, depth, 0, "Function body khaali nahi ho sakda.")
}

// emitCallerValues seeds the names a function body assigns with the
// caller's values. The interpreter runs a body over a copy of the caller's
// variables, while Python would treat those names as unbound locals.
func (t *Transpiler) emitCallerValues(depth int, body []Line, params []string) {
	skip := make(map[string]bool, len(params)+len(t.globals))
	for _, p := range params {
		skip[p] = true
	}
	for _, g := range t.globals {
		skip[g] = true
	}
	for _, name := range assignedNames(body) {
		if skip[name] {
			continue
		}
		py := pyName(name)
		t.emit(depth, "try:")
		t.emit(depth+1, fmt.Sprintf("%s = __jatti_caller_value(%s)", py, quote(py)))
		t.emit(depth, "except NameError:")
		t.emit(depth+1, "pass")
	}
}

// assignedNames lists, in first-seen order, the names a block binds.
// Bodies of nested functions are skipped but their names are included.
func assignedNames(lines []Line) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(list ...string) {
		for _, name := range list {
			if isIdent(name) && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		switch ln.Kind {
		case StmtDeclare:
			if target, _, ok := splitDeclare(ln.Rest); ok {
				add(target)
			}
		case StmtInput:
			if name, _, err := parseInput(ln); err == nil {
				add(name)
			}
		case StmtCopy:
			if fields := strings.Fields(ln.Rest); len(fields) == 2 {
				add(fields[1])
			}
		case StmtForEach:
			if vars, _, ok := forEachHeader(ln.Rest); ok {
				add(vars...)
			}
		case StmtCatch:
			if name, err := catchVariable(ln); err == nil && name != "" {
				add(name)
			}
		case StmtImport:
			if _, list, err := parseImport(ln); err == nil {
				add(list...)
			}
		case StmtFunc:
			if name, _, err := parseSignature(ln); err == nil {
				add(name)
			}
			_, next := block(lines, i)
			i = next - 1
		}
	}
	return names
}
