package jatti

import (
	"sort"
	"strconv"
	"strings"
)

func builtinError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func listArg(name string, args []any) (*List, error) {
	if len(args) != 1 {
		return nil, typeError()
	}
	lst, ok := args[0].(*List)
	if !ok {
		return nil, builtinError(KindType, name+": only works with lists")
	}
	return lst, nil
}

func kinnaLamba(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, typeError()
	}
	switch v := args[0].(type) {
	case *List:
		return len(v.Items), nil
	case string:
		return len([]rune(v)), nil
	case *Map:
		return v.Len(), nil
	}
	return nil, builtinError(KindType, "kinna_lamba: only works with lists")
}

func sortHoja(args ...any) (any, error) {
	lst, err := listArg("sort_hoja_oye", args)
	if err != nil {
		return nil, err
	}
	return sortedCopy(lst)
}

func sortedCopy(lst *List) (*List, error) {
	out := lst.Copy()
	var cmpErr error
	sort.SliceStable(out.Items, func(i, j int) bool {
		lt, err := less(out.Items[i], out.Items[j])
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return lt
	})
	if cmpErr != nil {
		return nil, typeError()
	}
	return out, nil
}

func reversedCopy(lst *List) *List {
	n := len(lst.Items)
	items := make([]any, n)
	for i, v := range lst.Items {
		items[n-1-i] = v
	}
	return NewList(items...)
}

func ultaHoja(args ...any) (any, error) {
	lst, err := listArg("ulta_hoja_oye", args)
	if err != nil {
		return nil, err
	}
	return reversedCopy(lst), nil
}

func numericSum(name string, lst *List) (any, error) {
	var total any = 0
	for _, item := range lst.Items {
		if !isNumeric(item) {
			return nil, builtinError(KindType, name+": list contains non-numeric values")
		}
		sum, err := arithmetic("+", total, item)
		if err != nil {
			return nil, err
		}
		total = sum
	}
	return total, nil
}

func jodOye(args ...any) (any, error) {
	lst, err := listArg("jod_oye", args)
	if err != nil {
		return nil, err
	}
	return numericSum("jod_oye", lst)
}

func averageKad(args ...any) (any, error) {
	lst, err := listArg("average_kad", args)
	if err != nil {
		return nil, err
	}
	if len(lst.Items) == 0 {
		return nil, builtinError(KindRuntime, "average_kad: cannot average empty list")
	}
	total, err := numericSum("average_kad", lst)
	if err != nil {
		return nil, err
	}
	return arithmetic("/", total, len(lst.Items))
}

// extreme walks the list keeping the first item that no later item beats.
func extreme(name, emptyMsg string, args []any, beats func(item, best any) (bool, error)) (any, error) {
	lst, err := listArg(name, args)
	if err != nil {
		return nil, err
	}
	if len(lst.Items) == 0 {
		return nil, builtinError(KindRuntime, name+": "+emptyMsg)
	}
	best := lst.Items[0]
	for _, item := range lst.Items[1:] {
		better, err := beats(item, best)
		if err != nil {
			return nil, typeError()
		}
		if better {
			best = item
		}
	}
	return best, nil
}

func sabtonVaddha(args ...any) (any, error) {
	return extreme("sabton_vaddha", "cannot find max of empty list", args, func(item, best any) (bool, error) {
		return less(best, item)
	})
}

func sabtonNikka(args ...any) (any, error) {
	return extreme("sabton_nikka", "cannot find min of empty list", args, func(item, best any) (bool, error) {
		return less(item, best)
	})
}

func donaNuJod(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, typeError()
	}
	return Str(args[0]) + Str(args[1]), nil
}

// toInt converts the way Python's int() does for the value kinds a
// program can hold.
func toInt(v any) (int, bool) {
	switch val := v.(type) {
	case int, bool:
		return intValue(val)
	case float64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		return n, err == nil
	}
	return 0, false
}

func rangeBanao(args ...any) (any, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, builtinError(KindRuntime, "range_banao: takes 1-3 arguments")
	}
	bounds := make([]int, len(args))
	for i, a := range args {
		n, ok := toInt(a)
		if !ok {
			return nil, builtinError(KindType, "range_banao: arguments integer hone chahide")
		}
		bounds[i] = n
	}
	start, stop, step := 0, bounds[0], 1
	if len(bounds) > 1 {
		start, stop = bounds[0], bounds[1]
	}
	if len(bounds) == 3 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, builtinError(KindRuntime, "range_banao: step zero nahi ho sakda")
	}
	out := NewList()
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out.Items = append(out.Items, i)
	}
	return out, nil
}

// runtimeBuiltins are the built-ins the transpiled Python runtime defines
// as well.
var runtimeBuiltins = map[string]Function{
	"kinna_lamba":     kinnaLamba,
	"sort_hoja_oye":   sortHoja,
	"ulta_hoja_oye":   ultaHoja,
	"jod_oye":         jodOye,
	"average_kad":     averageKad,
	"sabton_vaddha":   sabtonVaddha,
	"sabton_nikka":    sabtonNikka,
	"dona_nu_jod_oye": donaNuJod,
	"range_banao":     rangeBanao,
}

func init() {
	for name, fn := range runtimeBuiltins {
		RegisterFunction(name, fn)
	}
}
