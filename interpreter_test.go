package jatti

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

// program wraps body lines in the markers with one level of indentation.
func program(lines ...string) string {
	var sb strings.Builder
	sb.WriteString("sun_we\n")
	for _, ln := range lines {
		if ln != "" {
			sb.WriteString("    " + ln)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("ja_we\n")
	return sb.String()
}

func runProgram(src, input string, opts ...Option) (string, error) {
	var out bytes.Buffer
	opts = append([]Option{
		WithStdout(&out),
		WithInput(NewLineReader(strings.NewReader(input), &out)),
	}, opts...)
	err := New(opts...).Run(context.Background(), src)
	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{
			name: "print values",
			src:  program(`chilla_we "a", 1, 2.5, sach, khaali, [1, "b"]`),
			want: "a 1 2.5 True None [1, 'b']\n",
		},
		{
			name: "empty print",
			src:  program("chilla_we"),
			want: "\n",
		},
		{
			name: "index assignment",
			src: program(
				"chal_oye xs ban [1, 2, 3]",
				"chal_oye xs[-1] ban 30",
				`chal_oye m ban {}`,
				`chal_oye m["k"] ban xs`,
				"chilla_we xs, m",
			),
			want: "[1, 2, 30] {'k': [1, 2, 30]}\n",
		},
		{
			name: "shared lists and copies",
			src: program(
				"chal_oye a ban [1]",
				"chal_oye b ban a",
				"copy_kar a c",
				"pa_ander b 2",
				"pa_ander c 3",
				"chilla_we a, c",
				"saaf_kar a",
				"chilla_we b, kinna_lamba(c)",
			),
			want: "[1, 2] [1, 3]\n[] 2\n",
		},
		{
			name: "length statement",
			src:  program(`kinna_lamba "jatti"`, `kinna_lamba {"a": 1}`),
			want: "5\n1\n",
		},
		{
			name: "loop variable survives",
			src: program(
				"har_ek x [1, 2]",
				"    chilla_we x",
				"chilla_we x",
			),
			want: "1\n2\n2\n",
		},
		{
			name: "map iteration order",
			src: program(
				`chal_oye m ban {"z": 1, "a": 2}`,
				`chal_oye m["m"] ban 3`,
				"har_ek k, v m",
				"    chilla_we k, v",
			),
			want: "z 1\na 2\nm 3\n",
		},
		{
			name: "elif chain",
			src: program(
				"chal_oye n ban 5",
				"je n vadha_hai 10",
				`    chilla_we "big"`,
				"nahin_taan_je n vadha_hai 3",
				`    chilla_we "mid"`,
				"nahin_taan",
				`    chilla_we "small"`,
			),
			want: "mid\n",
		},
		{
			name: "comments and blank lines",
			src: program(
				"fuddu_chiz nothing here",
				"",
				"je sach",
				"    fuddu_chiz inside",
				"",
				"    chilla_we 1",
			),
			want: "1\n",
		},
		{
			name: "recursion",
			src: program(
				"kaam fib(n)",
				"    je n nikka_hai 2",
				"        wapas_kar n",
				"    wapas_kar fib(n - 1) + fib(n - 2)",
				"chilla_we fib(15)",
			),
			want: "610\n",
		},
		{
			name: "implicit return is None",
			src: program(
				"kaam hello(name)",
				`    chilla_we "hi", name`,
				`chilla_we hello("jatti")`,
			),
			want: "hi jatti\nNone\n",
		},
		{
			name: "bare return",
			src: program(
				"kaam early()",
				"    wapas_kar",
				"    chilla_we 1",
				"chilla_we early()",
			),
			want: "None\n",
		},
		{
			name: "function locals are discarded",
			src: program(
				"chal_oye x ban 1",
				"kaam f()",
				"    chal_oye x ban 2",
				"    chal_oye y ban 3",
				"    wapas_kar x",
				"chilla_we f(), x",
				"chal_koshish_karle",
				"    chilla_we y",
				"pakad e",
				"    chilla_we e",
			),
			want: "2 1\nVariable define nahi hoya: y\n",
		},
		{
			name: "globals persist",
			src: program(
				"chal_oye total ban 0",
				"kaam add(n)",
				"    global total",
				"    chal_oye total ban total + n",
				"har_ek i range_banao(1, 4)",
				"    chal_oye ignored ban add(i)",
				"chilla_we total",
			),
			want: "6\n",
		},
		{
			name: "break and continue",
			src: program(
				"chal_oye out ban []",
				"har_ek i range_banao(10)",
				"    je i barabar 2",
				"        chalo_oye_chalo",
				"    je i barabar 5",
				"        ruko_oye_ruko",
				"    pa_ander out i",
				"chilla_we out",
			),
			want: "[0, 1, 3, 4]\n",
		},
		{
			name: "return from loop inside function",
			src: program(
				"kaam first(xs)",
				"    har_ek x xs",
				"        je x vadha_hai 1",
				"            wapas_kar x",
				"    wapas_kar -1",
				"chilla_we first([1, 5, 9]), first([])",
			),
			want: "5 -1\n",
		},
		{
			name: "catch runtime errors",
			src: program(
				"chal_koshish_karle",
				"    chilla_we [1][3]",
				"pakad e",
				"    chilla_we e",
				"chal_koshish_karle",
				`    chilla_we "a" nikka_hai 1`,
				"pakad",
				`    chilla_we "no variable"`,
			),
			want: "Index range to bahar hai.\nno variable\n",
		},
		{
			name: "catch arity error",
			src: program(
				"kaam one(a)",
				"    wapas_kar a",
				"chal_koshish_karle",
				"    chilla_we one(1, 2)",
				"pakad e",
				"    chilla_we e",
			),
			want: "Function one expects 1 args, got 2\n",
		},
		{
			name: "nested rethrow",
			src: program(
				"chal_koshish_karle",
				"    chal_koshish_karle",
				`        throw "inner"`,
				"    pakad e",
				`        throw e + "!"`,
				"pakad outer",
				"    chilla_we outer",
			),
			want: "inner!\n",
		},
		{
			name: "throw non string value",
			src: program(
				"chal_koshish_karle",
				`    throw {"code": 7}`,
				"pakad e",
				`    chilla_we e["code"]`,
			),
			want: "7\n",
		},
		{
			name:  "input inference",
			src:   program(`das_oye a eh_chahida "A"`, `das_oye b eh_chahida "B"`, `das_oye c eh_chahida "C"`, "chilla_we a + 1, b * 2, c"),
			input: "41\n1.5\n 7 x\n",
			want:  "A: B: C: 42 3.0  7 x\n",
		},
		{
			name: "input at end of stream",
			src: program(
				"chal_koshish_karle",
				`    das_oye a eh_chahida "A"`,
				"pakad e",
				"    chilla_we e",
			),
			want: "A: EOF when reading a line\n",
		},
		{
			name: "host imports",
			src: program(
				`python_le_aa "math" thon sqrt, floor, pi`,
				"chilla_we sqrt(16), floor(pi)",
				"chal_koshish_karle",
				"    chilla_we sqrt(-1)",
				"pakad e",
				"    chilla_we e",
			),
			want: "4.0 3\nmath domain error\n",
		},
		{
			name: "keyword text inside strings",
			src:  program(`chilla_we "sach hor jhoot", 'barabar'`),
			want: "sach hor jhoot barabar\n",
		},
		{
			name: "integers grow past 64 bits",
			src: program(
				"kaam fact(n)",
				"    je n nikka_hai 2",
				"        wapas_kar 1",
				"    wapas_kar n * fact(n - 1)",
				"chilla_we fact(25)",
				"chilla_we 2 ** 70, 10 ** 19, 9223372036854775807 + 1",
				"chilla_we (2 ** 70) // (2 ** 60), -(-9223372036854775807 - 1)",
			),
			want: "15511210043330985984000000\n1180591620717411303424 10000000000000000000 9223372036854775808\n1024 9223372036854775808\n",
		},
		{
			name: "expression error caught",
			src: program(
				"chal_koshish_karle",
				"    chal_oye x ban 1 +",
				"pakad e",
				"    chilla_we e",
			),
			want: "Expression error: 1 +\n",
		},
		{
			name: "expression error from a called function",
			src: program(
				"kaam bad()",
				"    wapas_kar 1 +",
				"chal_koshish_karle",
				"    chilla_we bad()",
				"pakad e",
				"    chilla_we e",
			),
			want: "Expression error: 1 +\n",
		},
		{
			name: "function updates a caller variable locally",
			src: program(
				"chal_oye x ban 5",
				"kaam f()",
				"    chal_oye x ban x + 1",
				"    wapas_kar x",
				"chilla_we f()",
				"chilla_we x",
			),
			want: "6\n5\n",
		},
		{
			name: "seeded variables",
			src:  program("chilla_we limit * 2"),
			want: "84\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runProgram(tt.src, tt.input, WithVars(map[string]any{"limit": 42}))
			if err != nil {
				t.Fatalf("unexpected error: %v\noutput: %s", err, got)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunFaults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind Kind
		msg  string
		line int
	}{
		{"unknown keyword", program("bolo 1"), KindStructural, "Unknown keyword: bolo", 2},
		{"structural inside try", program("chal_koshish_karle", "    bolo 1", "pakad e", "    chilla_we e"), KindStructural, "Unknown keyword: bolo", 3},
		{"else without if", program("nahin_taan", "    chilla_we 1"), KindStructural, "nahin_taan sirf je de baad allowed hai.", 2},
		{"catch without try", program("pakad e", "    chilla_we 1"), KindStructural, "pakad sirf try de baad allowed hai.", 2},
		{"try without catch", program("chal_koshish_karle", "    chilla_we 1"), KindStructural, "try de baad pakad chahida hai.", 2},
		{"empty if body", program("je sach", "chilla_we 1"), KindStructural, "je de baad indented body chahidi hai.", 2},
		{"if without condition", program("je", "    chilla_we 1"), KindStructural, "je vich condition missing hai.", 2},
		{"text after else", program("je sach", "    chilla_we 1", "nahin_taan sach", "    chilla_we 2"), KindStructural, "nahin_taan de baad kuch nahi aunda.", 4},
		{"unexpected indent", program("chal_oye x ban 1", "    chilla_we x"), KindStructural, "Indentation galat hai.", 3},
		{"break outside loop", program("roko_oye_roko"), KindStructural, "roko_oye_roko sirf loop vich allowed hai.", 2},
		{"continue in function in loop", program("kaam f()", "    chalo_oye_chalo", "har_ek x [1]", "    chilla_we f()"), KindStructural, "chalo_oye_chalo sirf loop vich allowed hai.", 3},
		{"throw outside try", program(`throw "x"`), KindStructural, "throw sirf try vich allowed hai.", 2},
		{"throw without value", program("chal_koshish_karle", "    throw", "pakad e", "    chilla_we e"), KindStructural, "throw vich value chahidi hai.", 3},
		{"bad declare", program("chal_oye x 1"), KindStructural, "chal_oye syntax galat hai. Format: chal_oye <var> ban <expr>", 2},
		{"bad input", program("das_oye x"), KindStructural, "das_oye vich 'eh_chahida' keyword chahida hai.", 2},
		{"unquoted prompt", program("das_oye x eh_chahida msg"), KindStructural, "Input message quotes vich hona chahida hai.", 2},
		{"bad function name", program("kaam 9f()", "    wapas_kar 1"), KindStructural, "Function naam galat hai.", 2},
		{"duplicate parameter", program("kaam f(a, a)", "    wapas_kar 1"), KindStructural, "Function parameter galat hai: a", 2},
		{"empty function", program("kaam f()", "chilla_we 1"), KindStructural, "Function body khaali nahi ho sakda.", 2},
		{"bad global", program("global 1x"), KindStructural, "global ke baad variable names chahide ne.", 2},
		{"unknown module", program(`python_le_aa "os" thon path`), KindStructural, "Python import fail ho gaya.", 2},
		{"bad foreach", program("har_ek [1, 2]", "    chilla_we 1"), KindStructural, "har_ek syntax galat hai.", 2},
		{"uncaught expression error", program("chilla_we 1", "chal_oye x ban 1 +"), KindExpression, "Expression error: 1 +", 3},
		{"uncaught division", program("chilla_we 1", "chilla_we 1 // 0"), KindDivision, "Zero naal divide nahi kar sakde.", 3},
		{"uncaught name", program("chilla_we nope"), KindName, "Variable define nahi hoya: nope", 2},
		{"foreach over map with one name", program(`har_ek x {"a": 1}`, "    chilla_we x"), KindRuntime, "har_ek x sirf list layi use hunda hai.", 2},
		{"foreach over list with two names", program("har_ek k, v [1]", "    chilla_we k"), KindRuntime, "har_ek key, value sirf map layi use hunda hai.", 2},
		{"append to non list", program("chal_oye x ban 1", "pa_ander x 2"), KindRuntime, "pa_ander sirf list layi use hunda hai.", 3},
		{"copy a number", program("chal_oye x ban 1", "copy_kar x y"), KindRuntime, "copy_kar sirf list ya map layi use hunda hai.", 3},
		{"recursion limit", program("kaam f(n)", "    wapas_kar f(n + 1)", "chilla_we f(0)"), KindRuntime, "Recursion depth limit (100) exceeded", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runProgram(tt.src, "")
			var jerr *Error
			if !errors.As(err, &jerr) {
				t.Fatalf("got %v, want *Error", err)
			}
			if jerr.Kind != tt.kind || jerr.Message != tt.msg || jerr.Line != tt.line {
				t.Errorf("got %v %q line %d, want %v %q line %d", jerr.Kind, jerr.Message, jerr.Line, tt.kind, tt.msg, tt.line)
			}
		})
	}
}

func TestRunRecordsCallStack(t *testing.T) {
	src := program(
		"kaam inner()",
		"    wapas_kar 1 / 0",
		"kaam outer()",
		"    wapas_kar inner()",
		"chilla_we outer()",
	)
	_, err := runProgram(src, "")
	var jerr *Error
	if !errors.As(err, &jerr) {
		t.Fatalf("got %v, want *Error", err)
	}
	if len(jerr.Stack) != 2 || jerr.Stack[0].Name != "outer" || jerr.Stack[1].Name != "inner" {
		t.Fatalf("got stack %+v, want outer then inner", jerr.Stack)
	}
	if jerr.Stack[0].Line != 6 || jerr.Stack[1].Line != 5 {
		t.Errorf("got call lines %d and %d, want 6 and 5", jerr.Stack[0].Line, jerr.Stack[1].Line)
	}
}

func TestWithMaxRecursion(t *testing.T) {
	src := program(
		"kaam down(n)",
		"    je n barabar 0",
		"        wapas_kar 0",
		"    wapas_kar down(n - 1)",
		"chilla_we down(150)",
	)
	if _, err := runProgram(src, ""); err == nil {
		t.Fatal("expected the default limit to stop the run")
	}
	got, err := runProgram(src, "", WithMaxRecursion(200))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0\n" {
		t.Errorf("output = %q, want %q", got, "0\n")
	}
}

func TestDebugTrace(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "chal_oye x ban 1")
	}
	in := New(WithStdout(&bytes.Buffer{}), WithDebug(true))
	if err := in.Run(context.Background(), program(lines...)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trace := in.Trace()
	if len(trace) != traceLimit {
		t.Fatalf("got %d trace entries, want %d", len(trace), traceLimit)
	}
	if trace[0] != "Line 2: chal_oye x ban 1" {
		t.Errorf("trace[0] = %q", trace[0])
	}

	quiet := New(WithStdout(&bytes.Buffer{}))
	_ = quiet.Run(context.Background(), program("chal_oye x ban 1"))
	if len(quiet.Trace()) != 0 {
		t.Error("trace should stay empty without debug")
	}
}

func TestVarsResetBetweenRuns(t *testing.T) {
	in := New(WithStdout(&bytes.Buffer{}))
	if err := in.Run(context.Background(), program("chal_oye a ban 1")); err != nil {
		t.Fatal(err)
	}
	if err := in.Run(context.Background(), program("chal_oye b ban 2")); err != nil {
		t.Fatal(err)
	}
	vars := in.Vars()
	if _, ok := vars["a"]; ok {
		t.Error("variables leaked from the previous run")
	}
	if vars["b"] != 2 {
		t.Errorf("got b = %v, want 2", vars["b"])
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := New(WithStdout(&bytes.Buffer{}))
	err := in.Run(ctx, program("jadon_tak sach", "    chal_oye x ban 1"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestInferInput(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"12", 12},
		{" -3 ", -3},
		{"2.50", 2.5},
		{"1e3", "1e3"},
		{"abc", "abc"},
		{"1.2.3", "1.2.3"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := inferInput(tt.in); got != tt.want {
			t.Errorf("inferInput(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
