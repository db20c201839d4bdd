package jatti

import "strings"

type method func(recv any, args []any) (any, error)

func stringMethod(fn func(s string, args []any) (any, error)) method {
	return func(recv any, args []any) (any, error) {
		return fn(recv.(string), args)
	}
}

func stringArg(args []any, n int) ([]string, error) {
	if len(args) != n {
		return nil, typeError()
	}
	out := make([]string, n)
	for i, a := range args {
		s, ok := a.(string)
		if !ok {
			return nil, typeError()
		}
		out[i] = s
	}
	return out, nil
}

func splitString(s string, args []any) (any, error) {
	if len(args) > 1 {
		return nil, typeError()
	}
	var parts []string
	if len(args) == 0 || args[0] == nil {
		parts = strings.Fields(s)
	} else {
		sep, ok := args[0].(string)
		if !ok {
			return nil, typeError()
		}
		if sep == "" {
			return nil, newError(KindRuntime, "tut_ja_oye: separator khaali nahi ho sakda")
		}
		parts = strings.Split(s, sep)
	}
	out := NewList()
	for _, p := range parts {
		out.Items = append(out.Items, p)
	}
	return out, nil
}

func joinString(sep string, args []any) (any, error) {
	if len(args) != 1 {
		return nil, typeError()
	}
	lst, ok := args[0].(*List)
	if !ok {
		return nil, typeError()
	}
	parts := make([]string, len(lst.Items))
	for i, item := range lst.Items {
		parts[i] = Str(item)
	}
	return strings.Join(parts, sep), nil
}

var stringMethods = map[string]method{
	"upper_case_oye": stringMethod(func(s string, args []any) (any, error) {
		if _, err := stringArg(args, 0); err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	}),
	"lower_case_oye": stringMethod(func(s string, args []any) (any, error) {
		if _, err := stringArg(args, 0); err != nil {
			return nil, err
		}
		return strings.ToLower(s), nil
	}),
	"trim_hoja_oye": stringMethod(func(s string, args []any) (any, error) {
		if _, err := stringArg(args, 0); err != nil {
			return nil, err
		}
		return strings.TrimSpace(s), nil
	}),
	"tut_ja_oye": stringMethod(splitString),
	"jud_ja_oye": stringMethod(joinString),
	"badal_ja_oye": stringMethod(func(s string, args []any) (any, error) {
		a, err := stringArg(args, 2)
		if err != nil {
			return nil, err
		}
		return strings.ReplaceAll(s, a[0], a[1]), nil
	}),
	"haiga_hai": stringMethod(func(s string, args []any) (any, error) {
		a, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		return strings.Contains(s, a[0]), nil
	}),
	"shuru_hunda_hai": stringMethod(func(s string, args []any) (any, error) {
		a, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		return strings.HasPrefix(s, a[0]), nil
	}),
	"khatam_hunda_hai": stringMethod(func(s string, args []any) (any, error) {
		a, err := stringArg(args, 1)
		if err != nil {
			return nil, err
		}
		return strings.HasSuffix(s, a[0]), nil
	}),
}

var listMethods = map[string]method{
	"contains": func(recv any, args []any) (any, error) {
		if len(args) != 1 {
			return nil, typeError()
		}
		return contains(recv, args[0])
	},
	"index_of": func(recv any, args []any) (any, error) {
		if len(args) != 1 {
			return nil, typeError()
		}
		for i, item := range recv.(*List).Items {
			if equal(item, args[0]) {
				return i, nil
			}
		}
		return -1, nil
	},
	"reverse_it": func(recv any, args []any) (any, error) {
		if len(args) != 0 {
			return nil, typeError()
		}
		return reversedCopy(recv.(*List)), nil
	},
	"sort_it": func(recv any, args []any) (any, error) {
		if len(args) != 0 {
			return nil, typeError()
		}
		return sortedCopy(recv.(*List))
	},
}

var mapMethods = map[string]method{
	"get_keys": func(recv any, args []any) (any, error) {
		if len(args) != 0 {
			return nil, typeError()
		}
		return NewList(recv.(*Map).Keys()...), nil
	},
	"get_values": func(recv any, args []any) (any, error) {
		if len(args) != 0 {
			return nil, typeError()
		}
		return NewList(recv.(*Map).Values()...), nil
	},
	"has_key": func(recv any, args []any) (any, error) {
		if len(args) != 1 {
			return nil, typeError()
		}
		_, found, err := recv.(*Map).Get(args[0])
		return found, err
	},
}

func callMethod(recv any, name string, args []any) (any, error) {
	var table map[string]method
	switch recv.(type) {
	case string:
		table = stringMethods
	case *List:
		table = listMethods
	case *Map:
		table = mapMethods
	}
	if m, ok := table[name]; ok {
		return m(recv, args)
	}
	return nil, newError(KindRuntime, "Method %s %s layi nahi hai.", name, typeName(recv))
}
