package jatti

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/goccy/go-reflect"
	"github.com/oarkflow/date"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// HostFunc adapts a plain Go function into a function a program can call
// after importing it. Arguments are converted to the Go parameter types;
// a trailing error result becomes a runtime fault.
type HostFunc struct {
	Name string
	fn   reflect.Value
}

func NewHostFunc(name string, fn any) *HostFunc {
	return &HostFunc{Name: name, fn: reflect.ValueOf(fn)}
}

func (h *HostFunc) Call(args []any) (result any, err error) {
	ft := h.fn.Type()
	if ft.IsVariadic() || len(args) != ft.NumIn() {
		return nil, typeError()
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, ok := toGo(arg, ft.In(i).Kind())
		if !ok {
			return nil, typeError()
		}
		in[i] = v.Convert(ft.In(i))
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, newError(KindRuntime, "%s: %v", h.Name, r)
		}
	}()
	out := h.fn.Call(in)
	if n := len(out); n > 0 && ft.Out(n-1).String() == "error" {
		if !out[n-1].IsNil() {
			return nil, newError(KindRuntime, "%s", out[n-1].Interface().(error).Error())
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return fromGo(out[0]), nil
}

func toGo(arg any, kind reflect.Kind) (reflect.Value, bool) {
	switch kind {
	case reflect.Float64, reflect.Float32:
		f, ok := floatValue(arg)
		return reflect.ValueOf(f), ok
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := intValue(arg)
		return reflect.ValueOf(i), ok
	case reflect.String:
		s, ok := arg.(string)
		return reflect.ValueOf(s), ok
	case reflect.Bool:
		b, ok := arg.(bool)
		return reflect.ValueOf(b), ok
	case reflect.Interface:
		return reflect.ValueOf(&arg).Elem(), true
	}
	return reflect.Value{}, false
}

func fromGo(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Slice, reflect.Array:
		out := NewList()
		for i := 0; i < v.Len(); i++ {
			out.Items = append(out.Items, fromGo(v.Index(i)))
		}
		return out
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return fromGo(v.Elem())
	}
	if v.IsValid() && v.CanInterface() {
		return fmt.Sprint(v.Interface())
	}
	return nil
}

var errMathDomain = fmt.Errorf("math domain error")

func mathModule() *Module {
	return &Module{
		Name:   "math",
		Python: "math",
		Members: map[string]any{
			"sqrt": NewHostFunc("sqrt", func(x float64) (float64, error) {
				if x < 0 {
					return 0, errMathDomain
				}
				return math.Sqrt(x), nil
			}),
			"log": NewHostFunc("log", func(x float64) (float64, error) {
				if x <= 0 {
					return 0, errMathDomain
				}
				return math.Log(x), nil
			}),
			"floor": NewHostFunc("floor", func(x float64) int { return int(math.Floor(x)) }),
			"ceil":  NewHostFunc("ceil", func(x float64) int { return int(math.Ceil(x)) }),
			"pow":   NewHostFunc("pow", math.Pow),
			"fabs":  NewHostFunc("fabs", math.Abs),
			"exp":   NewHostFunc("exp", math.Exp),
			"sin":   NewHostFunc("sin", math.Sin),
			"cos":   NewHostFunc("cos", math.Cos),
			"pi":    math.Pi,
			"e":     math.E,
		},
	}
}

const dateLayout = "2006-01-02 15:04:05"

// isoDate is the ISO-8601 subset both backends accept: a date, optionally
// followed by T or a space and HH:MM[:SS[.fraction]].
var isoDate = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})(?:[T ]([0-9]{2}):([0-9]{2})(?::([0-9]{2})(?:\.[0-9]+)?)?)?$`)

var errBadDate = errors.New("date samajh nahi aayi")

func parseISODate(s string) (time.Time, error) {
	m := isoDate.FindStringSubmatch(s)
	if m == nil || m[1] == "0000" {
		return time.Time{}, errBadDate
	}
	clock := [3]string{"00", "00", "00"}
	for i, v := range m[4:7] {
		if v != "" {
			clock[i] = v
		}
	}
	canonical := fmt.Sprintf("%s-%s-%s %s:%s:%s", m[1], m[2], m[3], clock[0], clock[1], clock[2])
	t, err := date.Parse(canonical)
	if err != nil || t.Format(dateLayout) != canonical {
		return time.Time{}, errBadDate
	}
	return t, nil
}

func dateModule() *Module {
	return &Module{
		Name: "date",
		Members: map[string]any{
			"parse_date": NewHostFunc("parse_date", func(s string) (string, error) {
				t, err := parseISODate(s)
				if err != nil {
					return "", fmt.Errorf("parse_date: %w", err)
				}
				return t.Format(dateLayout), nil
			}),
			"year_of": NewHostFunc("year_of", func(s string) (int, error) {
				t, err := parseISODate(s)
				if err != nil {
					return 0, fmt.Errorf("year_of: %w", err)
				}
				return t.Year(), nil
			}),
		},
	}
}

func hashModule() *Module {
	return &Module{
		Name: "hash",
		Members: map[string]any{
			"sha3_256": NewHostFunc("sha3_256", func(s string) string {
				sum := sha3.Sum256([]byte(s))
				return hex.EncodeToString(sum[:])
			}),
			"blake2b_256": NewHostFunc("blake2b_256", func(s string) string {
				sum := blake2b.Sum256([]byte(s))
				return hex.EncodeToString(sum[:])
			}),
		},
	}
}

func init() {
	RegisterModule(mathModule())
	RegisterModule(dateModule())
	RegisterModule(hashModule())
}
