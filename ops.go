package jatti

import (
	"math"
	"math/big"
	"strings"
)

func arithmetic(op string, left, right any) (any, error) {
	li, lInt := intValue(left)
	ri, rInt := intValue(right)
	if lInt && rInt {
		return intArithmetic(op, li, ri)
	}
	lb, lBig := bigValue(left)
	rb, rBig := bigValue(right)
	if lBig && rBig {
		return bigArithmetic(op, lb, rb)
	}
	lf, lNum := floatValue(left)
	rf, rNum := floatValue(right)
	if lNum && rNum {
		if (lBig && math.IsInf(lf, 0)) || (rBig && math.IsInf(rf, 0)) {
			return nil, newError(KindRuntime, "int too large to convert to float")
		}
		return floatArithmetic(op, lf, rf)
	}
	switch op {
	case "+":
		switch l := left.(type) {
		case string:
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		case *List:
			if r, ok := right.(*List); ok {
				items := make([]any, 0, len(l.Items)+len(r.Items))
				items = append(items, l.Items...)
				return NewList(append(items, r.Items...)...), nil
			}
		}
	case "*":
		if n, ok := intValue(right); ok {
			return repeat(left, n)
		}
		if n, ok := intValue(left); ok {
			return repeat(right, n)
		}
	}
	return nil, typeError()
}

func repeat(v any, n int) (any, error) {
	if n < 0 {
		n = 0
	}
	switch val := v.(type) {
	case string:
		return strings.Repeat(val, n), nil
	case *List:
		items := make([]any, 0, len(val.Items)*n)
		for i := 0; i < n; i++ {
			items = append(items, val.Items...)
		}
		return NewList(items...), nil
	}
	return nil, typeError()
}

// intArithmetic works on machine ints and falls back to bigArithmetic
// whenever the result would not fit.
func intArithmetic(op string, a, b int) (any, error) {
	switch op {
	case "+":
		if s := a + b; (b > 0) == (s > a) || b == 0 {
			return s, nil
		}
	case "-":
		if d := a - b; (b > 0) == (d < a) || b == 0 {
			return d, nil
		}
	case "*":
		if a == 0 || b == 0 {
			return 0, nil
		}
		if p := a * b; p/b == a && !(a == -1 && b == math.MinInt) && !(b == -1 && a == math.MinInt) {
			return p, nil
		}
	case "/":
		if b == 0 {
			return nil, divisionError()
		}
		if a > 1<<53 || a < -(1<<53) || b > 1<<53 || b < -(1<<53) {
			break
		}
		return float64(a) / float64(b), nil
	case "//":
		if b == 0 {
			return nil, divisionError()
		}
		if a == math.MinInt && b == -1 {
			break
		}
		q := a / b
		if a%b != 0 && (a < 0) != (b < 0) {
			q--
		}
		return q, nil
	case "%":
		if b == 0 {
			return nil, divisionError()
		}
		r := a % b
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return r, nil
	case "**":
	default:
		return nil, typeError()
	}
	return bigArithmetic(op, big.NewInt(int64(a)), big.NewInt(int64(b)))
}

func bigArithmetic(op string, a, b *big.Int) (any, error) {
	switch op {
	case "+":
		return normBig(new(big.Int).Add(a, b)), nil
	case "-":
		return normBig(new(big.Int).Sub(a, b)), nil
	case "*":
		return normBig(new(big.Int).Mul(a, b)), nil
	case "/":
		if b.Sign() == 0 {
			return nil, divisionError()
		}
		f, _ := new(big.Rat).SetFrac(a, b).Float64()
		if math.IsInf(f, 0) {
			return nil, newError(KindRuntime, "integer division result too large for a float")
		}
		return f, nil
	case "//", "%":
		if b.Sign() == 0 {
			return nil, divisionError()
		}
		q, r := new(big.Int).QuoRem(a, b, new(big.Int))
		if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
			r.Add(r, b)
		}
		if op == "//" {
			return normBig(q), nil
		}
		return normBig(r), nil
	case "**":
		if b.Sign() < 0 {
			if a.Sign() == 0 {
				return nil, divisionError()
			}
			af, _ := floatValue(a)
			bf, _ := floatValue(b)
			return math.Pow(af, bf), nil
		}
		if !b.IsInt64() && a.CmpAbs(big.NewInt(1)) > 0 {
			return nil, newError(KindRuntime, "exponent too large")
		}
		return normBig(new(big.Int).Exp(a, b, nil)), nil
	}
	return nil, typeError()
}

func floatArithmetic(op string, a, b float64) (any, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, divisionError()
		}
		return a / b, nil
	case "//":
		if b == 0 {
			return nil, divisionError()
		}
		return math.Floor(a / b), nil
	case "%":
		if b == 0 {
			return nil, divisionError()
		}
		r := math.Mod(a, b)
		if r != 0 && (r < 0) != (b < 0) {
			r += b
		}
		return r, nil
	case "**":
		if a == 0 && b < 0 {
			return nil, divisionError()
		}
		return math.Pow(a, b), nil
	}
	return nil, typeError()
}

// order applies an ordering operator. Both operands must be numeric.
func order(op string, left, right any) (bool, error) {
	if !isNumeric(left) || !isNumeric(right) {
		return false, newError(KindType, msgComparison)
	}
	cmp, ok := compareNumbers(left, right)
	if !ok {
		return false, nil
	}
	switch op {
	case "<":
		return cmp < 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	default:
		return cmp >= 0, nil
	}
}

func contains(container, item any) (bool, error) {
	switch c := container.(type) {
	case string:
		s, ok := item.(string)
		if !ok {
			return false, typeError()
		}
		return strings.Contains(c, s), nil
	case *List:
		for _, v := range c.Items {
			if equal(v, item) {
				return true, nil
			}
		}
		return false, nil
	case *Map:
		_, found, err := c.Get(item)
		return found, err
	}
	return false, typeError()
}

// less orders two values for sorting, min and max. Numbers, strings and
// lists are comparable among themselves.
func less(a, b any) (bool, error) {
	if isNumeric(a) && isNumeric(b) {
		return order("<", a, b)
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x < y, nil
		}
	case *List:
		if y, ok := b.(*List); ok {
			for i := 0; i < len(x.Items) && i < len(y.Items); i++ {
				if equal(x.Items[i], y.Items[i]) {
					continue
				}
				return less(x.Items[i], y.Items[i])
			}
			return len(x.Items) < len(y.Items), nil
		}
	}
	return false, typeError()
}

func normalizeIndex(idx any, n int) (int, error) {
	i, ok := intValue(idx)
	if !ok {
		return 0, typeError()
	}
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, newError(KindRuntime, msgIndexRange)
	}
	return i, nil
}

func index(target, idx any) (any, error) {
	switch t := target.(type) {
	case *List:
		i, err := normalizeIndex(idx, len(t.Items))
		if err != nil {
			return nil, err
		}
		return t.Items[i], nil
	case string:
		runes := []rune(t)
		i, err := normalizeIndex(idx, len(runes))
		if err != nil {
			return nil, err
		}
		return string(runes[i]), nil
	case *Map:
		v, found, err := t.Get(idx)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, newError(KindRuntime, "Key nahi mili: %s", Str(idx))
		}
		return v, nil
	}
	return nil, typeError()
}

func setIndex(target, idx, value any) error {
	switch t := target.(type) {
	case *List:
		i, err := normalizeIndex(idx, len(t.Items))
		if err != nil {
			return err
		}
		t.Items[i] = value
		return nil
	case *Map:
		return t.Set(idx, value)
	}
	return typeError()
}

func sliceBound(v any, n, def int) (int, error) {
	if v == nil {
		return def, nil
	}
	i, ok := intValue(v)
	if !ok {
		return 0, typeError()
	}
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	}
	if i > n {
		i = n
	}
	return i, nil
}

func slice(target, lo, hi any) (any, error) {
	var n int
	switch t := target.(type) {
	case *List:
		n = len(t.Items)
	case string:
		n = len([]rune(t))
	default:
		return nil, typeError()
	}
	start, err := sliceBound(lo, n, 0)
	if err != nil {
		return nil, err
	}
	end, err := sliceBound(hi, n, n)
	if err != nil {
		return nil, err
	}
	if end < start {
		end = start
	}
	if l, ok := target.(*List); ok {
		return NewList(append([]any(nil), l.Items[start:end]...)...), nil
	}
	return string([]rune(target.(string))[start:end]), nil
}
