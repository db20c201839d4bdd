package jatti

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultMaxRecursion = 100
	traceLimit          = 15
)

// LineReader supplies values for input statements. The reader is in charge
// of showing the prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type bufferedReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineReader reads lines from in and writes prompts to out.
func NewLineReader(in io.Reader, out io.Writer) LineReader {
	return &bufferedReader{in: bufio.NewReader(in), out: out}
}

func (r *bufferedReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Signal is the control-flow outcome of executing a statement or block.
type Signal int

const (
	SignalNone Signal = iota
	SignalBreak
	SignalContinue
	SignalReturn
	SignalThrown
)

type outcome struct {
	signal Signal
	value  any
}

type Option func(*Interpreter)

func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) { in.stdout = w }
}

func WithInput(r LineReader) Option {
	return func(in *Interpreter) { in.input = r }
}

func WithMaxRecursion(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

func WithDebug(on bool) Option {
	return func(in *Interpreter) { in.debug = on }
}

func WithModules(r *ModuleRegistry) Option {
	return func(in *Interpreter) { in.modules = r }
}

// WithVars seeds every run with the given variables. Values must already be
// runtime values, as produced by ImportJSON.
func WithVars(vars map[string]any) Option {
	return func(in *Interpreter) { in.seed = vars }
}

// Interpreter executes programs. One instance runs one program at a time;
// concurrent runs need their own instances.
type Interpreter struct {
	stdout   io.Writer
	input    LineReader
	maxDepth int
	debug    bool
	modules  *ModuleRegistry
	seed     map[string]any

	ctx       context.Context
	prog      *Program
	env       *Environment
	globals   map[string]struct{}
	funcs     map[string]*UserFunc
	exprs     map[string]Node
	line      int
	loopDepth int
	tryDepth  int
	depth     int
	stack     []Frame
	trace     []string
}

func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		stdout:   os.Stdout,
		maxDepth: DefaultMaxRecursion,
		modules:  globalModules,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.input == nil {
		in.input = NewLineReader(os.Stdin, in.stdout)
	}
	return in
}

func (in *Interpreter) reset() {
	in.env = NewEnv()
	in.env.user = in
	for k, v := range in.seed {
		in.env.Set(k, v)
	}
	in.globals = make(map[string]struct{})
	in.funcs = make(map[string]*UserFunc)
	in.exprs = make(map[string]Node)
	in.prog = nil
	in.line = 0
	in.loopDepth = 0
	in.tryDepth = 0
	in.depth = 0
	in.stack = nil
	in.trace = nil
}

// Run loads and executes source. Faults come back as *Error; cancelling
// ctx stops the run between statements.
func (in *Interpreter) Run(ctx context.Context, source string) error {
	in.reset()
	if ctx == nil {
		ctx = context.Background()
	}
	in.ctx = ctx
	prog, err := Load(source)
	if err != nil {
		return err
	}
	in.prog = prog
	out, err := in.execBlock(prog.Lines)
	if err != nil {
		return err
	}
	if out.signal == SignalThrown {
		return &Error{Kind: KindRuntime, Message: "throw: " + Str(out.value), Line: in.line}
	}
	return nil
}

// Trace returns the recorded debug steps of the last run.
func (in *Interpreter) Trace() []string {
	return append([]string(nil), in.trace...)
}

// Vars returns a copy of the variable environment of the last run.
func (in *Interpreter) Vars() map[string]any {
	out := make(map[string]any)
	if in.env == nil {
		return out
	}
	for k, v := range in.env.vars {
		out[k] = v
	}
	return out
}

func attachLine(err error, line int) error {
	var jerr *Error
	if errors.As(err, &jerr) && jerr.Line == 0 {
		jerr.Line = line
	}
	return err
}

func hasCode(lines []Line) bool {
	for _, ln := range lines {
		if !ln.skippable() {
			return true
		}
	}
	return false
}

// block returns the lines nested under lines[i] and the index after them.
func block(lines []Line, i int) ([]Line, int) {
	j := i + 1
	for j < len(lines) && (lines[j].skippable() || lines[j].Level > lines[i].Level) {
		j++
	}
	for j > i+1 && lines[j-1].skippable() {
		j--
	}
	return lines[i+1 : j], j
}

func (in *Interpreter) execBlock(lines []Line) (outcome, error) {
	base := -1
	for i := 0; i < len(lines); {
		ln := lines[i]
		if ln.skippable() {
			i++
			continue
		}
		if base < 0 {
			base = ln.Level
		}
		if ln.Level != base {
			return outcome{}, structuralf(ln.No, "Indentation galat hai.")
		}
		if err := in.ctx.Err(); err != nil {
			return outcome{}, err
		}
		in.line = ln.No
		if in.debug && len(in.trace) < traceLimit {
			text := ln.Text
			if len(text) > 50 {
				text = text[:50]
			}
			in.trace = append(in.trace, fmt.Sprintf("Line %d: %s", ln.No, text))
		}
		next, out, err := in.execStatement(lines, i)
		if err != nil {
			return outcome{}, attachLine(err, ln.No)
		}
		if out.signal != SignalNone {
			return out, nil
		}
		i = next
	}
	return outcome{}, nil
}

func (in *Interpreter) execStatement(lines []Line, i int) (int, outcome, error) {
	ln := lines[i]
	switch ln.Kind {
	case StmtIf:
		return in.execIf(lines, i)
	case StmtWhile:
		return in.execWhile(lines, i)
	case StmtForEach:
		return in.execForEach(lines, i)
	case StmtTry:
		return in.execTry(lines, i)
	case StmtFunc:
		next, err := in.defineFunc(lines, i)
		return next, outcome{}, err
	case StmtElseIf, StmtElse:
		return i, outcome{}, structuralf(ln.No, "%s sirf je de baad allowed hai.", ln.Word)
	case StmtCatch:
		return i, outcome{}, structuralf(ln.No, "pakad sirf try de baad allowed hai.")
	case StmtUnknown:
		return i, outcome{}, structuralf(ln.No, "Unknown keyword: %s", ln.Word)
	}
	out, err := in.execSimple(ln)
	return i + 1, out, err
}

// execSimple runs statements that never own a body.
func (in *Interpreter) execSimple(ln Line) (outcome, error) {
	switch ln.Kind {
	case StmtDeclare:
		return outcome{}, in.execDeclare(ln)
	case StmtPrint:
		return outcome{}, in.execPrint(ln)
	case StmtInput:
		return outcome{}, in.execInput(ln)
	case StmtReturn:
		if ln.Rest == "" {
			return outcome{signal: SignalReturn}, nil
		}
		v, err := in.eval(ln.Rest)
		return outcome{signal: SignalReturn, value: v}, err
	case StmtAppend:
		return outcome{}, in.execAppend(ln)
	case StmtCopy:
		return outcome{}, in.execCopy(ln)
	case StmtClear:
		return outcome{}, in.execClear(ln)
	case StmtLength:
		v, err := in.eval(ln.Rest)
		if err != nil {
			return outcome{}, err
		}
		n, err := kinnaLamba(v)
		if err != nil {
			return outcome{}, err
		}
		fmt.Fprintln(in.stdout, Str(n))
		return outcome{}, nil
	case StmtThrow:
		if in.tryDepth == 0 {
			return outcome{}, structuralf(ln.No, "throw sirf try vich allowed hai.")
		}
		if ln.Rest == "" {
			return outcome{}, structuralf(ln.No, "throw vich value chahidi hai.")
		}
		v, err := in.eval(ln.Rest)
		return outcome{signal: SignalThrown, value: v}, err
	case StmtBreak, StmtContinue:
		if ln.Rest != "" {
			return outcome{}, structuralf(ln.No, "Syntax samajh nahi aaya.")
		}
		if in.loopDepth == 0 {
			return outcome{}, structuralf(ln.No, "%s sirf loop vich allowed hai.", ln.Word)
		}
		if ln.Kind == StmtBreak {
			return outcome{signal: SignalBreak}, nil
		}
		return outcome{signal: SignalContinue}, nil
	case StmtGlobal:
		names, ok := globalNames(ln.Rest)
		if !ok {
			return outcome{}, structuralf(ln.No, "global ke baad variable names chahide ne.")
		}
		for _, name := range names {
			in.globals[name] = struct{}{}
		}
		return outcome{}, nil
	case StmtImport:
		return outcome{}, in.execImport(ln)
	case StmtComment:
		return outcome{}, nil
	}
	return outcome{}, structuralf(ln.No, "Syntax samajh nahi aaya.")
}

func (in *Interpreter) compile(expr string) (Node, error) {
	if node, ok := in.exprs[expr]; ok {
		return node, nil
	}
	node, err := compileExpr(expr)
	if err != nil {
		return nil, err
	}
	in.exprs[expr] = node
	return node, nil
}

func (in *Interpreter) eval(expr string) (any, error) {
	node, err := in.compile(expr)
	if err != nil {
		return nil, err
	}
	return node.Eval(in.env)
}

func splitDeclare(rest string) (string, string, bool) {
	pos := firstTopLevelWord(rest, "ban")
	if pos < 0 {
		return "", "", false
	}
	target := strings.TrimSpace(rest[:pos])
	expr := strings.TrimSpace(rest[pos+len("ban"):])
	return target, expr, target != "" && expr != ""
}

func (in *Interpreter) execDeclare(ln Line) error {
	target, expr, ok := splitDeclare(ln.Rest)
	if !ok {
		return structuralf(ln.No, "chal_oye syntax galat hai. Format: chal_oye <var> ban <expr>")
	}
	value, err := in.eval(expr)
	if err != nil {
		return err
	}
	if isIdent(target) {
		in.env.Set(target, value)
		return nil
	}
	node, err := in.compile(target)
	if err != nil {
		return err
	}
	idx, ok := node.(*IndexNode)
	if !ok {
		return structuralf(ln.No, "chal_oye syntax galat hai. Format: chal_oye <var> ban <expr>")
	}
	container, err := idx.Target.Eval(in.env)
	if err != nil {
		return err
	}
	key, err := idx.Index.Eval(in.env)
	if err != nil {
		return err
	}
	return setIndex(container, key, value)
}

func (in *Interpreter) execPrint(ln Line) error {
	if ln.Rest == "" {
		fmt.Fprintln(in.stdout)
		return nil
	}
	nodes, err := compileList(ln.Rest)
	if err != nil {
		return err
	}
	values, err := evalAll(nodes, in.env)
	if err != nil {
		return err
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Str(v)
	}
	fmt.Fprintln(in.stdout, strings.Join(parts, " "))
	return nil
}

// parseInput splits `<var> eh_chahida "msg"` into the variable and the
// prompt message.
func parseInput(ln Line) (string, string, error) {
	fields := strings.Fields(ln.Rest)
	if len(fields) == 0 || !isIdent(fields[0]) {
		return "", "", structuralf(ln.No, `das_oye syntax galat hai. Format: das_oye <var> eh_chahida "msg"`)
	}
	rest, ok := cutKeyword(strings.TrimSpace(strings.TrimPrefix(ln.Rest, fields[0])), "eh_chahida")
	if !ok {
		return "", "", structuralf(ln.No, "das_oye vich 'eh_chahida' keyword chahida hai.")
	}
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", "", structuralf(ln.No, "Input message quotes vich hona chahida hai.")
	}
	return fields[0], rest[1 : len(rest)-1], nil
}

func inferInput(s string) any {
	trimmed := strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		if n, ok := new(big.Int).SetString(trimmed, 10); ok {
			return normBig(n)
		}
		return s
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return s
}

func (in *Interpreter) execInput(ln Line) error {
	name, msg, err := parseInput(ln)
	if err != nil {
		return err
	}
	text, err := in.input.ReadLine(msg + ": ")
	if err != nil {
		return &Error{Kind: KindRuntime, Message: "EOF when reading a line", Cause: err}
	}
	in.env.Set(name, inferInput(text))
	return nil
}

func (in *Interpreter) lookup(name string) (any, error) {
	v, ok := in.env.Lookup(name)
	if !ok {
		return nil, undefinedName(name)
	}
	return v, nil
}

func (in *Interpreter) execAppend(ln Line) error {
	fields := strings.Fields(ln.Rest)
	if len(fields) < 2 || !isIdent(fields[0]) {
		return structuralf(ln.No, "pa_ander syntax galat hai. Format: pa_ander <list> <value>")
	}
	target, err := in.lookup(fields[0])
	if err != nil {
		return err
	}
	value, err := in.eval(strings.TrimSpace(strings.TrimPrefix(ln.Rest, fields[0])))
	if err != nil {
		return err
	}
	lst, ok := target.(*List)
	if !ok {
		return newError(KindRuntime, "pa_ander sirf list layi use hunda hai.")
	}
	lst.Items = append(lst.Items, value)
	return nil
}

func (in *Interpreter) execCopy(ln Line) error {
	fields := strings.Fields(ln.Rest)
	if len(fields) != 2 || !isIdent(fields[0]) || !isIdent(fields[1]) {
		return structuralf(ln.No, "copy_kar syntax galat hai. Format: copy_kar <source> <destination>")
	}
	src, err := in.lookup(fields[0])
	if err != nil {
		return err
	}
	switch v := src.(type) {
	case *List:
		in.env.Set(fields[1], v.Copy())
	case *Map:
		in.env.Set(fields[1], v.Copy())
	default:
		return newError(KindRuntime, "copy_kar sirf list ya map layi use hunda hai.")
	}
	return nil
}

func (in *Interpreter) execClear(ln Line) error {
	if !isIdent(ln.Rest) {
		return structuralf(ln.No, "saaf_kar syntax galat hai. Format: saaf_kar <name>")
	}
	target, err := in.lookup(ln.Rest)
	if err != nil {
		return err
	}
	switch v := target.(type) {
	case *List:
		v.Items = nil
	case *Map:
		v.Clear()
	default:
		return newError(KindRuntime, "saaf_kar sirf list ya map layi use hunda hai.")
	}
	return nil
}

func globalNames(rest string) ([]string, bool) {
	if strings.TrimSpace(rest) == "" {
		return nil, false
	}
	var names []string
	for _, part := range strings.Split(rest, ",") {
		name := strings.TrimSpace(part)
		if !isIdent(name) {
			return nil, false
		}
		names = append(names, name)
	}
	return names, true
}

// parseImport splits `"module" thon a, b` into the module and its members.
func parseImport(ln Line) (string, []string, error) {
	bad := structuralf(ln.No, `python_le_aa syntax galat hai. Format: python_le_aa "module" thon f1, f2`)
	rest := ln.Rest
	if len(rest) < 2 || rest[0] != '"' {
		return "", nil, bad
	}
	end := strings.IndexByte(rest[1:], '"')
	if end < 0 {
		return "", nil, bad
	}
	module := rest[1 : end+1]
	members, ok := cutKeyword(strings.TrimSpace(rest[end+2:]), "thon")
	if !ok {
		return "", nil, bad
	}
	names, ok := globalNames(members)
	if !ok || module == "" {
		return "", nil, bad
	}
	return module, names, nil
}

func (in *Interpreter) execImport(ln Line) error {
	module, names, err := parseImport(ln)
	if err != nil {
		return err
	}
	m, ok := in.modules.Lookup(module)
	if !ok {
		return structuralf(ln.No, "Python import fail ho gaya.")
	}
	for _, name := range names {
		member, ok := m.Members[name]
		if !ok {
			return structuralf(ln.No, "Python import fail ho gaya.")
		}
		in.env.imports[name] = member
	}
	return nil
}
