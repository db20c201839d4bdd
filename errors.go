package jatti

import (
	"fmt"
	"strings"
)

// Kind classifies a failure raised while loading or running a program.
type Kind int

const (
	// KindStructural covers malformed statements, bodies, markers and indentation.
	KindStructural Kind = iota
	KindName
	KindDivision
	KindType
	KindRuntime
	// KindExpression is unparseable expression text. It stops the program
	// like a structural fault unless it is raised inside a try body.
	KindExpression
)

var kindNames = map[Kind]string{
	KindStructural: "structural",
	KindName:       "name",
	KindDivision:   "division",
	KindType:       "type",
	KindRuntime:    "runtime",
	KindExpression: "expression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Catchable reports whether an error of this kind is a runtime fault.
// Expression errors are not, but a try body still catches them.
func (k Kind) Catchable() bool {
	return k != KindStructural && k != KindExpression
}

// Frame is one entry of the call stack recorded for diagnostics.
type Frame struct {
	Name string
	Line int
}

// Error represents a fault raised while loading, evaluating or executing
// a program.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Stack   []Frame
	Cause   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(" at line %d", e.Line))
	}
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func structuralf(line int, format string, args ...any) *Error {
	err := newError(KindStructural, format, args...)
	err.Line = line
	return err
}

func undefinedName(name string) *Error {
	return newError(KindName, "Variable define nahi hoya: %s", name)
}

const (
	msgDivision   = "Zero naal divide nahi kar sakde."
	msgType       = "Galat type operation hoyi hai."
	msgComparison = "Comparison sirf numbers layi allowed hai."
	msgIndexRange = "Index range to bahar hai."
)

func divisionError() *Error {
	return newError(KindDivision, msgDivision)
}

func typeError() *Error {
	return newError(KindType, msgType)
}

// ValidationError represents a configuration field that failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return sb.String()
}

func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrorOrNil returns nil when no errors were collected.
func (e *MultiError) ErrorOrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

// Thrown carries a user raised exception value out of a function call
// until an enclosing try receives it.
type Thrown struct {
	Value any
}

func (t *Thrown) Error() string {
	return "throw: " + Str(t.Value)
}
