package jatti

import (
	"errors"
	"strings"
	"testing"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"kinna_lamba('a\u00f1o')", "3"},
		{"sort_hoja_oye([3, 1.5, 2])", "[1.5, 2, 3]"},
		{"sort_hoja_oye(['b', 'a'])", "['a', 'b']"},
		{"ulta_hoja_oye([1, 'a'])", "['a', 1]"},
		{"jod_oye([1, 2, 3])", "6"},
		{"jod_oye([1, 2.5])", "3.5"},
		{"jod_oye([])", "0"},
		{"average_kad([1, 2])", "1.5"},
		{"sabton_vaddha([1, 3, 3.0])", "3"},
		{"sabton_nikka(['b', 'a'])", "a"},
		{"dona_nu_jod_oye('a', 1)", "a1"},
		{"dona_nu_jod_oye([1], khaali)", "[1]None"},
		{"range_banao(3)", "[0, 1, 2]"},
		{"range_banao(5, 0, -2)", "[5, 3, 1]"},
		{"range_banao(2.9)", "[0, 1]"},
		{"range_banao('2')", "[0, 1]"},
		{"range_banao(3, 1)", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evalExpr(tt.expr, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if Str(got) != tt.want {
				t.Errorf("got %v, want %v", Str(got), tt.want)
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		expr string
		kind Kind
		msg  string
	}{
		{"kinna_lamba(5)", KindType, "kinna_lamba: only works with lists"},
		{"kinna_lamba()", KindType, "Galat type operation hoyi hai."},
		{"sort_hoja_oye('ab')", KindType, "sort_hoja_oye: only works with lists"},
		{"sort_hoja_oye([1, 'a'])", KindType, "Galat type operation hoyi hai."},
		{"jod_oye([1, 'a'])", KindType, "jod_oye: list contains non-numeric values"},
		{"average_kad([])", KindRuntime, "average_kad: cannot average empty list"},
		{"sabton_vaddha([])", KindRuntime, "sabton_vaddha: cannot find max of empty list"},
		{"sabton_nikka([])", KindRuntime, "sabton_nikka: cannot find min of empty list"},
		{"range_banao()", KindRuntime, "range_banao: takes 1-3 arguments"},
		{"range_banao(1, 5, 0)", KindRuntime, "range_banao: step zero nahi ho sakda"},
		{"range_banao('x')", KindType, "range_banao: arguments integer hone chahide"},
		{"nope(1)", KindName, "Variable define nahi hoya: nope"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := evalExpr(tt.expr, nil)
			var jerr *Error
			if !errors.As(err, &jerr) {
				t.Fatalf("got %v, want *Error", err)
			}
			if jerr.Kind != tt.kind || jerr.Message != tt.msg {
				t.Errorf("got %v %q, want %v %q", jerr.Kind, jerr.Message, tt.kind, tt.msg)
			}
		})
	}
}

func TestCallingAVariable(t *testing.T) {
	_, err := evalExpr("x(1)", map[string]any{"x": 1})
	var jerr *Error
	if !errors.As(err, &jerr) || jerr.Kind != KindType {
		t.Errorf("got %v, want a type error", err)
	}
}

func TestMethods(t *testing.T) {
	vars := map[string]any{
		"s":  "  Jatti Lang  ",
		"xs": NewList(3, 1, 2),
	}
	m := NewMap()
	_ = m.Set("a", 1)
	_ = m.Set("b", 2)
	vars["m"] = m
	tests := []struct {
		expr string
		want string
	}{
		{"s.trim_hoja_oye()", "Jatti Lang"},
		{"s.lower_case_oye()", "  jatti lang  "},
		{"s.tut_ja_oye()", "['Jatti', 'Lang']"},
		{"'a,b,,c'.tut_ja_oye(',')", "['a', 'b', '', 'c']"},
		{"', '.jud_ja_oye(['x', 1, khaali])", "x, 1, None"},
		{"'aXbX'.badal_ja_oye('X', '-')", "a-b-"},
		{"s.haiga_hai('Lang')", "True"},
		{"'jatti'.shuru_hunda_hai('ja')", "True"},
		{"'jatti'.khatam_hunda_hai('ja')", "False"},
		{"xs.contains(2)", "True"},
		{"xs.index_of(9)", "-1"},
		{"xs.sort_it()", "[1, 2, 3]"},
		{"xs.reverse_it()", "[2, 1, 3]"},
		{"xs", "[3, 1, 2]"},
		{"m.get_keys()", "['a', 'b']"},
		{"m.get_values()", "[1, 2]"},
		{"m.has_key('b')", "True"},
		{"m.has_key(1)", "False"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evalExpr(tt.expr, vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if Str(got) != tt.want {
				t.Errorf("got %v, want %v", Str(got), tt.want)
			}
		})
	}
}

func TestMethodErrors(t *testing.T) {
	tests := []struct {
		expr string
		kind Kind
		msg  string
	}{
		{"[1].upper_case_oye()", KindRuntime, "Method upper_case_oye list layi nahi hai."},
		{"{}.sort_it()", KindRuntime, "Method sort_it dict layi nahi hai."},
		{"'a'.tut_ja_oye('')", KindRuntime, "tut_ja_oye: separator khaali nahi ho sakda"},
		{"'a'.haiga_hai(1)", KindType, "Galat type operation hoyi hai."},
		{"'a'.upper_case_oye(1)", KindType, "Galat type operation hoyi hai."},
		{"[1, 'a'].sort_it()", KindType, "Galat type operation hoyi hai."},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := evalExpr(tt.expr, nil)
			var jerr *Error
			if !errors.As(err, &jerr) {
				t.Fatalf("got %v, want *Error", err)
			}
			if jerr.Kind != tt.kind || jerr.Message != tt.msg {
				t.Errorf("got %v %q, want %v %q", jerr.Kind, jerr.Message, tt.kind, tt.msg)
			}
		})
	}
}

func TestRegisterFunction(t *testing.T) {
	err := RegisterFunction("test_double", func(args ...any) (any, error) {
		return arithmetic("*", args[0], 2)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := evalExpr("test_double(21)", nil)
	if err != nil || got != 42 {
		t.Errorf("got %v %v, want 42 <nil>", got, err)
	}
	if err := RegisterFunction("test_double", kinnaLamba); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if err := RegisterFunction("", kinnaLamba); err == nil {
		t.Error("expected empty name to fail")
	}
	found := false
	for _, name := range Builtins() {
		if name == "test_double" {
			found = true
		}
	}
	if !found {
		t.Error("Builtins() should list registered functions")
	}
}

func TestHostModules(t *testing.T) {
	tests := []struct {
		module string
		call   string
		args   []any
		check  func(any) bool
	}{
		{"math", "sqrt", []any{2.25}, func(v any) bool { return v == 1.5 }},
		{"math", "floor", []any{-1.5}, func(v any) bool { return v == -2 }},
		{"math", "pow", []any{2, 10}, func(v any) bool { return v == 1024.0 }},
		{"hash", "sha3_256", []any{"jatti"}, func(v any) bool { s, _ := v.(string); return len(s) == 64 }},
		{"hash", "blake2b_256", []any{""}, func(v any) bool {
			return v == "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"
		}},
		{"date", "year_of", []any{"2024-03-15"}, func(v any) bool { return v == 2024 }},
		{"date", "parse_date", []any{"2024-03-15 10:30:00"}, func(v any) bool { return v == "2024-03-15 10:30:00" }},
		{"date", "parse_date", []any{"2024-03-15T10:30"}, func(v any) bool { return v == "2024-03-15 10:30:00" }},
		{"date", "parse_date", []any{"2024-03-15T10:30:05.250"}, func(v any) bool { return v == "2024-03-15 10:30:05" }},
	}
	for _, tt := range tests {
		t.Run(tt.module+"."+tt.call, func(t *testing.T) {
			m, ok := LookupModule(tt.module)
			if !ok {
				t.Fatalf("module %s not registered", tt.module)
			}
			fn, ok := m.Members[tt.call].(*HostFunc)
			if !ok {
				t.Fatalf("%s is not a host function", tt.call)
			}
			got, err := fn.Call(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(got) {
				t.Errorf("got %#v", got)
			}
		})
	}
}

func TestHostFuncErrors(t *testing.T) {
	m, _ := LookupModule("math")
	sqrt := m.Members["sqrt"].(*HostFunc)
	if _, err := sqrt.Call([]any{"x"}); err == nil {
		t.Error("expected a type error for a string argument")
	}
	if _, err := sqrt.Call([]any{1, 2}); err == nil {
		t.Error("expected a type error for an arity mismatch")
	}
	_, err := sqrt.Call([]any{-4})
	var jerr *Error
	if !errors.As(err, &jerr) || jerr.Kind != KindRuntime || jerr.Message != "math domain error" {
		t.Errorf("got %v, want math domain error", err)
	}

	d, _ := LookupModule("date")
	_, err = d.Members["year_of"].(*HostFunc).Call([]any{"not a date"})
	if err == nil || !strings.Contains(err.Error(), "date samajh nahi aayi") {
		t.Errorf("got %v, want a parse failure", err)
	}

	for _, in := range []string{"March 5, 2024", "2024-02-30", "2024-3-5", "15/03/2024", "2024-03-15 25:00", "0000-01-01", " 2024-03-15"} {
		_, err := d.Members["parse_date"].(*HostFunc).Call([]any{in})
		if err == nil || !strings.Contains(err.Error(), "parse_date: date samajh nahi aayi") {
			t.Errorf("parse_date(%q) error = %v, want parse_date: date samajh nahi aayi", in, err)
		}
	}

	panicky := NewHostFunc("boom", func() int { panic("bad") })
	if _, err := panicky.Call(nil); err == nil || !strings.Contains(err.Error(), "boom: bad") {
		t.Errorf("got %v, want a recovered panic", err)
	}
}

func TestRegisterModule(t *testing.T) {
	if err := RegisterModule(&Module{Name: "math"}); err == nil {
		t.Error("expected duplicate module registration to fail")
	}
	if err := RegisterModule(&Module{}); err == nil {
		t.Error("expected unnamed module registration to fail")
	}
}
