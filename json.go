package jatti

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/oarkflow/json"
)

// ExportValue converts a runtime value into plain Go data: lists become
// []any and maps become map[string]any keyed by the str() of each key.
func ExportValue(v any) any {
	switch val := v.(type) {
	case *List:
		out := make([]any, len(val.Items))
		for i, item := range val.Items {
			out[i] = ExportValue(item)
		}
		return out
	case *Map:
		out := make(map[string]any, val.Len())
		keys, values := val.Keys(), val.Values()
		for i, k := range keys {
			out[Str(k)] = ExportValue(values[i])
		}
		return out
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return Str(val)
		}
		return val
	case *UserFunc:
		return fmt.Sprintf("<function %s>", val.Name)
	case *HostFunc:
		return fmt.Sprintf("<built-in function %s>", val.Name)
	default:
		return val
	}
}

// ExportVars converts an environment snapshot for JSON output.
func ExportVars(vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = ExportValue(v)
	}
	return out
}

// MarshalJSON converts a runtime value to JSON.
func MarshalJSON(v any) ([]byte, error) {
	return json.Marshal(ExportValue(v))
}

// WriteJSON writes a runtime value as JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// ImportJSON decodes JSON into runtime values. Whole numbers become ints
// and object keys are inserted in sorted order.
func ImportJSON(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return importValue(raw), nil
}

// ImportVars decodes a JSON object into variables for WithVars.
func ImportVars(data []byte) (map[string]any, error) {
	v, err := ImportJSON(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*Map)
	if !ok {
		return nil, fmt.Errorf("vars must be a JSON object, got %s", typeName(v))
	}
	vars := make(map[string]any, m.Len())
	keys, values := m.Keys(), m.Values()
	for i, k := range keys {
		name := Str(k)
		if !isIdent(name) {
			return nil, fmt.Errorf("invalid variable name %q", name)
		}
		vars[name] = values[i]
	}
	return vars, nil
}

func importValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			_ = m.Set(k, importValue(val[k]))
		}
		return m
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = importValue(item)
		}
		return NewList(items...)
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int(val)
		}
		return val
	default:
		return val
	}
}
