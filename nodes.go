package jatti

import (
	"math/big"
	"strconv"
	"strings"
)

// Node is one expression of the tree built by the Parser. Eval computes
// its value and ToPython renders the same computation as Python source.
type Node interface {
	Eval(env *Environment) (any, error)
	ToPython() string
}

type callable func(args []any) (any, error)

// resolver finds user defined functions. The interpreter implements it.
type resolver interface {
	resolve(name string) (callable, bool)
}

// Environment is the flat variable mapping of a run plus the names bound
// by host imports.
type Environment struct {
	vars    map[string]any
	imports map[string]any
	user    resolver
}

func NewEnv() *Environment {
	return &Environment{
		vars:    make(map[string]any),
		imports: make(map[string]any),
	}
}

func (env *Environment) Lookup(name string) (any, bool) {
	if v, ok := env.vars[name]; ok {
		return v, true
	}
	if v, ok := env.imports[name]; ok {
		if _, isFunc := v.(*HostFunc); !isFunc {
			return v, true
		}
	}
	return nil, false
}

func (env *Environment) Set(name string, value any) {
	env.vars[name] = value
}

func (env *Environment) function(name string) (callable, bool) {
	if env.user != nil {
		if fn, ok := env.user.resolve(name); ok {
			return fn, true
		}
	}
	if v, ok := env.imports[name]; ok {
		if hf, ok := v.(*HostFunc); ok {
			return hf.Call, true
		}
	}
	if fn, ok := LookupFunction(name); ok {
		return func(args []any) (any, error) { return fn(args...) }, true
	}
	return nil, false
}

type PrimitiveNode struct {
	Value any
}

func (p *PrimitiveNode) Eval(env *Environment) (any, error) {
	return p.Value, nil
}

func (p *PrimitiveNode) ToPython() string {
	switch v := p.Value.(type) {
	case int:
		return strconv.Itoa(v)
	case *big.Int:
		return v.String()
	}
	return Repr(p.Value)
}

type IdentifierNode struct {
	Name string
}

func (i *IdentifierNode) Eval(env *Environment) (any, error) {
	if v, ok := env.Lookup(i.Name); ok {
		return v, nil
	}
	return nil, undefinedName(i.Name)
}

func (i *IdentifierNode) ToPython() string {
	return pyName(i.Name)
}

type ListNode struct {
	Items []Node
}

func (l *ListNode) Eval(env *Environment) (any, error) {
	items, err := evalAll(l.Items, env)
	if err != nil {
		return nil, err
	}
	return NewList(items...), nil
}

func (l *ListNode) ToPython() string {
	return "[" + joinPython(l.Items) + "]"
}

type MapNode struct {
	Keys   []Node
	Values []Node
}

func (m *MapNode) Eval(env *Environment) (any, error) {
	result := NewMap()
	for i, kn := range m.Keys {
		k, err := kn.Eval(env)
		if err != nil {
			return nil, err
		}
		v, err := m.Values[i].Eval(env)
		if err != nil {
			return nil, err
		}
		if err := result.Set(k, v); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (m *MapNode) ToPython() string {
	parts := make([]string, len(m.Keys))
	for i := range m.Keys {
		parts[i] = m.Keys[i].ToPython() + ": " + m.Values[i].ToPython()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type UnaryNode struct {
	Op    string
	Child Node
}

func (u *UnaryNode) Eval(env *Environment) (any, error) {
	val, err := u.Child.Eval(env)
	if err != nil {
		return nil, err
	}
	if u.Op == "not" {
		return !truthy(val), nil
	}
	if _, ok := intValue(val); ok {
		if u.Op == "-" {
			return arithmetic("-", 0, val)
		}
		return arithmetic("+", 0, val)
	}
	if b, ok := val.(*big.Int); ok {
		if u.Op == "-" {
			return normBig(new(big.Int).Neg(b)), nil
		}
		return b, nil
	}
	if f, ok := val.(float64); ok {
		if u.Op == "-" {
			return -f, nil
		}
		return f, nil
	}
	return nil, typeError()
}

func (u *UnaryNode) ToPython() string {
	if u.Op == "not" {
		return "(not " + u.Child.ToPython() + ")"
	}
	return "(" + u.Op + u.Child.ToPython() + ")"
}

type ArithmeticNode struct {
	Op    string
	Left  Node
	Right Node
}

func (a *ArithmeticNode) Eval(env *Environment) (any, error) {
	left, err := a.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	right, err := a.Right.Eval(env)
	if err != nil {
		return nil, err
	}
	switch a.Op {
	case "==":
		return equal(left, right), nil
	case "!=":
		return !equal(left, right), nil
	case "<", ">", "<=", ">=":
		return order(a.Op, left, right)
	case "in":
		return contains(right, left)
	case "not in":
		found, err := contains(right, left)
		return !found, err
	}
	return arithmetic(a.Op, left, right)
}

func (a *ArithmeticNode) ToPython() string {
	switch a.Op {
	case "<", ">", "<=", ">=":
		return "__jatti_order(" + a.Left.ToPython() + ", '" + a.Op + "', " + a.Right.ToPython() + ")"
	}
	return "(" + a.Left.ToPython() + " " + a.Op + " " + a.Right.ToPython() + ")"
}

// LogicalNode short-circuits and yields one of its operands.
type LogicalNode struct {
	Op    string
	Left  Node
	Right Node
}

func (l *LogicalNode) Eval(env *Environment) (any, error) {
	left, err := l.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	if truthy(left) == (l.Op == "or") {
		return left, nil
	}
	return l.Right.Eval(env)
}

func (l *LogicalNode) ToPython() string {
	return "(" + l.Left.ToPython() + " " + l.Op + " " + l.Right.ToPython() + ")"
}

type IndexNode struct {
	Target Node
	Index  Node
}

func (i *IndexNode) Eval(env *Environment) (any, error) {
	target, err := i.Target.Eval(env)
	if err != nil {
		return nil, err
	}
	idx, err := i.Index.Eval(env)
	if err != nil {
		return nil, err
	}
	return index(target, idx)
}

func (i *IndexNode) ToPython() string {
	return i.Target.ToPython() + "[" + i.Index.ToPython() + "]"
}

type SliceNode struct {
	Target Node
	Lo     Node
	Hi     Node
}

func (s *SliceNode) Eval(env *Environment) (any, error) {
	target, err := s.Target.Eval(env)
	if err != nil {
		return nil, err
	}
	var lo, hi any
	if s.Lo != nil {
		if lo, err = s.Lo.Eval(env); err != nil {
			return nil, err
		}
	}
	if s.Hi != nil {
		if hi, err = s.Hi.Eval(env); err != nil {
			return nil, err
		}
	}
	return slice(target, lo, hi)
}

func (s *SliceNode) ToPython() string {
	var sb strings.Builder
	sb.WriteString(s.Target.ToPython())
	sb.WriteByte('[')
	if s.Lo != nil {
		sb.WriteString(s.Lo.ToPython())
	}
	sb.WriteByte(':')
	if s.Hi != nil {
		sb.WriteString(s.Hi.ToPython())
	}
	sb.WriteByte(']')
	return sb.String()
}

type CallNode struct {
	Name string
	Args []Node
}

func (c *CallNode) Eval(env *Environment) (any, error) {
	fn, ok := env.function(c.Name)
	if !ok {
		if _, isVar := env.vars[c.Name]; isVar {
			return nil, typeError()
		}
		return nil, undefinedName(c.Name)
	}
	args, err := evalAll(c.Args, env)
	if err != nil {
		return nil, err
	}
	return fn(args)
}

func (c *CallNode) ToPython() string {
	return pyName(c.Name) + "(" + joinPython(c.Args) + ")"
}

type MethodNode struct {
	Target Node
	Name   string
	Args   []Node
}

func (m *MethodNode) Eval(env *Environment) (any, error) {
	target, err := m.Target.Eval(env)
	if err != nil {
		return nil, err
	}
	args, err := evalAll(m.Args, env)
	if err != nil {
		return nil, err
	}
	return callMethod(target, m.Name, args)
}

func (m *MethodNode) ToPython() string {
	var sb strings.Builder
	sb.WriteString("__jatti_method(")
	sb.WriteString(m.Target.ToPython())
	sb.WriteString(", '")
	sb.WriteString(m.Name)
	sb.WriteByte('\'')
	for _, arg := range m.Args {
		sb.WriteString(", ")
		sb.WriteString(arg.ToPython())
	}
	sb.WriteByte(')')
	return sb.String()
}

func evalAll(nodes []Node, env *Environment) ([]any, error) {
	values := make([]any, len(nodes))
	for i, n := range nodes {
		v, err := n.Eval(env)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func joinPython(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.ToPython()
	}
	return strings.Join(parts, ", ")
}

var pythonKeywords = map[string]bool{
	"and": true, "as": true, "assert": true, "async": true, "await": true,
	"break": true, "class": true, "continue": true, "def": true, "del": true,
	"elif": true, "else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true,
	"with": true, "yield": true,
}

// pyName keeps identifiers that collide with Python keywords usable.
func pyName(name string) string {
	if pythonKeywords[name] {
		return name + "_"
	}
	return name
}

// walkNodes calls fn for node and every node below it.
func walkNodes(node Node, fn func(Node)) {
	if node == nil {
		return
	}
	fn(node)
	switch n := node.(type) {
	case *ListNode:
		for _, item := range n.Items {
			walkNodes(item, fn)
		}
	case *MapNode:
		for i := range n.Keys {
			walkNodes(n.Keys[i], fn)
			walkNodes(n.Values[i], fn)
		}
	case *UnaryNode:
		walkNodes(n.Child, fn)
	case *ArithmeticNode:
		walkNodes(n.Left, fn)
		walkNodes(n.Right, fn)
	case *LogicalNode:
		walkNodes(n.Left, fn)
		walkNodes(n.Right, fn)
	case *IndexNode:
		walkNodes(n.Target, fn)
		walkNodes(n.Index, fn)
	case *SliceNode:
		walkNodes(n.Target, fn)
		walkNodes(n.Lo, fn)
		walkNodes(n.Hi, fn)
	case *CallNode:
		for _, arg := range n.Args {
			walkNodes(arg, fn)
		}
	case *MethodNode:
		walkNodes(n.Target, fn)
		for _, arg := range n.Args {
			walkNodes(arg, fn)
		}
	}
}
