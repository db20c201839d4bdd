package jatti

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func pythonRunner(t *testing.T) *PythonRunner {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not installed")
	}
	p, err := NewPythonRunner()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

// TestPythonMatchesInterpreter runs each program through the interpreter
// and through the transpiled Python and compares what they print.
func TestPythonMatchesInterpreter(t *testing.T) {
	py := pythonRunner(t)
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{
			name: "big integers",
			src: program(
				"kaam fact(n)",
				"    je n nikka_hai 2",
				"        wapas_kar 1",
				"    wapas_kar n * fact(n - 1)",
				"chilla_we fact(25)",
				"chilla_we 2 ** 70, 10 ** 19, 9223372036854775807 + 1",
				"chilla_we 2 ** 70 / 2, 2 ** 70 vadha_hai 1.5, -(2 ** 64) // 3, -(2 ** 64) % 3",
			),
			want: "15511210043330985984000000\n1180591620717411303424 10000000000000000000 9223372036854775808\n5.902958103587057e+20 True -6148914691236517206 2\n",
		},
		{
			name: "number formatting",
			src:  program("chilla_we -7 // 2, -7 % 3, 7 % -3, 0.1 + 0.2, 1e16, 1 / 3, 2 ** -1, 6 / 2"),
			want: "-4 2 -2 0.30000000000000004 1e+16 0.3333333333333333 0.5 3.0\n",
		},
		{
			name: "string reprs in lists",
			src:  program(`chilla_we ["it's", 'a"b', "x"], {"k": [khaali, sach]}`),
			want: `["it's", 'a"b', 'x'] {'k': [None, True]}` + "\n",
		},
		{
			name: "expression error caught",
			src: program(
				"kaam bad()",
				"    wapas_kar 1 +",
				"chal_koshish_karle",
				"    chal_oye x ban 1 +",
				"pakad e",
				"    chilla_we e",
				"chal_koshish_karle",
				"    chilla_we bad()",
				"pakad e",
				"    chilla_we e",
			),
			want: "Expression error: 1 +\nExpression error: 1 +\n",
		},
		{
			name: "function assigns a caller variable",
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
			name: "dates",
			src: program(
				`python_le_aa "date" thon parse_date, year_of`,
				`chilla_we parse_date("2024-03-05T07:08"), year_of("2024-03-05")`,
				"chal_koshish_karle",
				`    chilla_we parse_date("March 5, 2024")`,
				"pakad e",
				"    chilla_we e",
				"chal_koshish_karle",
				`    chilla_we parse_date("2024-02-30")`,
				"pakad e",
				"    chilla_we e",
			),
			want: "2024-03-05 07:08:00 2024\nparse_date: date samajh nahi aayi\nparse_date: date samajh nahi aayi\n",
		},
		{
			name: "caught faults",
			src: program(
				"chal_koshish_karle",
				"    chilla_we 1 // 0",
				"pakad e",
				"    chilla_we e",
				"chal_koshish_karle",
				"    chilla_we nope",
				"pakad e",
				"    chilla_we e",
				"chal_koshish_karle",
				`    chilla_we "a" + 1`,
				"pakad e",
				"    chilla_we e",
				"chal_koshish_karle",
				`    chilla_we "a" vadha_hai 1`,
				"pakad e",
				"    chilla_we e",
			),
			want: "Zero naal divide nahi kar sakde.\nVariable define nahi hoya: nope\nGalat type operation hoyi hai.\nComparison sirf numbers layi allowed hai.\n",
		},
		{
			name:  "input",
			src:   program(`das_oye n eh_chahida "Number de"`, `das_oye s eh_chahida "Naam de"`, "chilla_we n + 1, s"),
			input: "7\nJatti\n",
			want:  "Number de: Naam de: 8 Jatti\n",
		},
		{
			name: "map loop",
			src: program(
				`chal_oye m ban {"a": 1, "b": 2}`,
				`chal_oye m["a"] ban 10`,
				"har_ek k, v m",
				"    chilla_we k, v",
			),
			want: "a 10\nb 2\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runProgram(tt.src, tt.input)
			if err != nil {
				t.Fatalf("interpreter error: %v\noutput: %s", err, got)
			}
			if got != tt.want {
				t.Errorf("interpreter output = %q, want %q", got, tt.want)
			}
			pyGot, err := py.Run(context.Background(), tt.src, tt.input)
			if err != nil {
				t.Fatalf("python error: %v\noutput: %s", err, pyGot)
			}
			if pyGot != got {
				t.Errorf("python output = %q, want %q", pyGot, got)
			}
		})
	}
}

func TestPythonRegressions(t *testing.T) {
	py := pythonRunner(t)
	runner := NewBatchRunner(0).UsePython(py)
	results, err := RunRegressions(context.Background(), runner, filepath.Join("testdata", "regressions"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no fixtures found")
	}
	for _, res := range results {
		if !res.Passed() {
			t.Errorf("%s failed: err=%v\nwant:\n%s\ngot:\n%s", res.Name, res.Err, res.Want, res.Got)
		}
	}
}

func TestPythonRunnerErrors(t *testing.T) {
	py := pythonRunner(t)

	_, err := py.Run(context.Background(), program("bolo 1"), "")
	var jerr *Error
	if !errors.As(err, &jerr) || jerr.Kind != KindStructural {
		t.Errorf("got %v, want a structural transpile error", err)
	}

	out, err := py.Run(context.Background(), program("chilla_we 1", "chilla_we 1 // 0"), "")
	if err == nil || !strings.Contains(err.Error(), "python:") {
		t.Errorf("got %v, want a python process failure", err)
	}
	if out != "1\n" {
		t.Errorf("output = %q, want %q", out, "1\n")
	}

	missing := &PythonRunner{Path: filepath.Join(t.TempDir(), "no-python")}
	if _, err := missing.Run(context.Background(), program("chilla_we 1"), ""); err == nil {
		t.Error("expected a missing interpreter to fail")
	}
}
