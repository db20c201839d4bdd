package jatti

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
)

// List is an ordered sequence shared by reference between variables.
type List struct {
	Items []any
}

func NewList(items ...any) *List {
	return &List{Items: items}
}

func (l *List) Copy() *List {
	items := make([]any, len(l.Items))
	copy(items, l.Items)
	return &List{Items: items}
}

type mapKey struct {
	kind byte
	i    int
	f    float64
	s    string
}

// keyOf maps a value onto its hash identity. 1, 1.0 and True share one key.
func keyOf(v any) (mapKey, error) {
	switch val := v.(type) {
	case nil:
		return mapKey{kind: 'n'}, nil
	case bool:
		if val {
			return mapKey{kind: 'i', i: 1}, nil
		}
		return mapKey{kind: 'i'}, nil
	case int:
		return mapKey{kind: 'i', i: val}, nil
	case *big.Int:
		if val.IsInt64() {
			return mapKey{kind: 'i', i: int(val.Int64())}, nil
		}
		return mapKey{kind: 'b', s: val.String()}, nil
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<62 {
			return mapKey{kind: 'i', i: int(val)}, nil
		}
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			b, _ := new(big.Float).SetFloat64(val).Int(nil)
			return keyOf(b)
		}
		return mapKey{kind: 'f', f: val}, nil
	case string:
		return mapKey{kind: 's', s: val}, nil
	}
	return mapKey{}, typeError()
}

// Map is an insertion ordered mapping.
type Map struct {
	keys   []any
	values []any
	index  map[mapKey]int
}

func NewMap() *Map {
	return &Map{index: make(map[mapKey]int)}
}

func (m *Map) Len() int {
	return len(m.keys)
}

func (m *Map) Get(key any) (any, bool, error) {
	k, err := keyOf(key)
	if err != nil {
		return nil, false, err
	}
	i, ok := m.index[k]
	if !ok {
		return nil, false, nil
	}
	return m.values[i], true, nil
}

func (m *Map) Set(key, value any) error {
	k, err := keyOf(key)
	if err != nil {
		return err
	}
	if i, ok := m.index[k]; ok {
		m.values[i] = value
		return nil
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
	return nil
}

func (m *Map) Keys() []any {
	return append([]any(nil), m.keys...)
}

func (m *Map) Values() []any {
	return append([]any(nil), m.values...)
}

func (m *Map) Clear() {
	m.keys = nil
	m.values = nil
	m.index = make(map[mapKey]int)
}

func (m *Map) Copy() *Map {
	c := NewMap()
	for i, k := range m.keys {
		_ = c.Set(k, m.values[i])
	}
	return c
}

// typeName returns the Python name of a value's type, used in messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int, *big.Int:
		return "int"
	case float64:
		return "float"
	case string:
		return "str"
	case *List:
		return "list"
	case *Map:
		return "dict"
	}
	return fmt.Sprintf("%T", v)
}

// Str renders a value the way print shows it.
func Str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

// Repr renders a value the way it appears inside a container.
func Repr(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(val)
	case *big.Int:
		return val.String()
	case float64:
		return formatFloat(val)
	case string:
		return quote(val)
	case *List:
		parts := make([]string, len(val.Items))
		for i, item := range val.Items {
			parts[i] = Repr(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Map:
		parts := make([]string, len(val.keys))
		for i, k := range val.keys {
			parts[i] = Repr(k) + ": " + Repr(val.values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

// formatFloat follows the shortest round-trip form, switching to
// exponent notation below 1e-4 and from 1e16 upward.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(q):
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			sb.WriteString(fmt.Sprintf(`\x%02x`, r))
		case !unicode.IsPrint(r) && r > 0x7f:
			if r > 0xffff {
				sb.WriteString(fmt.Sprintf(`\U%08x`, r))
			} else if r > 0xff {
				sb.WriteString(fmt.Sprintf(`\u%04x`, r))
			} else {
				sb.WriteString(fmt.Sprintf(`\x%02x`, r))
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int:
		return val != 0
	case *big.Int:
		return val.Sign() != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case *List:
		return len(val.Items) > 0
	case *Map:
		return val.Len() > 0
	}
	return true
}

// intValue reports the integer value of ints and bools.
func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// bigValue reports the arbitrary precision value of any integer.
func bigValue(v any) (*big.Int, bool) {
	if b, ok := v.(*big.Int); ok {
		return b, true
	}
	if i, ok := intValue(v); ok {
		return big.NewInt(int64(i)), true
	}
	return nil, false
}

// normBig returns b as a plain int when it fits.
func normBig(b *big.Int) any {
	if b.IsInt64() {
		return int(b.Int64())
	}
	return b
}

// floatValue converts numbers to float64. Integers too large for a float
// come back infinite.
func floatValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case *big.Int:
		f, _ := new(big.Float).SetInt(val).Float64()
		return f, true
	}
	if i, ok := intValue(v); ok {
		return float64(i), true
	}
	return 0, false
}

func isNumeric(v any) bool {
	_, ok := floatValue(v)
	return ok
}

// compareNumbers orders two numbers exactly, the way Python compares int
// with float. ok is false when either side is NaN.
func compareNumbers(a, b any) (cmp int, ok bool) {
	ai, aInt := intValue(a)
	bi, bInt := intValue(b)
	if aInt && bInt {
		switch {
		case ai < bi:
			return -1, true
		case ai > bi:
			return 1, true
		}
		return 0, true
	}
	ab, aBig := bigValue(a)
	bb, bBig := bigValue(b)
	if aBig && bBig {
		return ab.Cmp(bb), true
	}
	af, _ := floatValue(a)
	bf, _ := floatValue(b)
	if math.IsNaN(af) || math.IsNaN(bf) {
		return 0, false
	}
	if aBig || bBig {
		x, y := new(big.Float), new(big.Float)
		if aBig {
			x.SetInt(ab)
		} else if !math.IsInf(af, 0) {
			x.SetFloat64(af)
		} else {
			return int(math.Copysign(1, af)), true
		}
		if bBig {
			y.SetInt(bb)
		} else if !math.IsInf(bf, 0) {
			y.SetFloat64(bf)
		} else {
			return -int(math.Copysign(1, bf)), true
		}
		return x.Cmp(y), true
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func equal(a, b any) bool {
	if isNumeric(a) && isNumeric(b) {
		cmp, ok := compareNumbers(a, b)
		return ok && cmp == 0
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case *List:
		y, ok := b.(*List)
		if !ok || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, k := range x.keys {
			other, found, err := y.Get(k)
			if err != nil || !found || !equal(x.values[i], other) {
				return false
			}
		}
		return true
	}
	return false
}
