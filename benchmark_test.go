package jatti

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

var (
	smallJatti = program(
		`chal_oye naam ban "Jatti"`,
		`chilla_we dona_nu_jod_oye("Sat Sri Akal, ", naam)`,
	)

	fibJatti = program(
		"kaam fib(n)",
		"    je n nikka_hai 2",
		"        wapas_kar n",
		"    wapas_kar fib(n - 1) + fib(n - 2)",
		"chilla_we fib(15)",
	)

	largeJatti string
)

func init() {
	lines := []string{"chal_oye total ban 0", "chal_oye xs ban []"}
	for i := 0; i < 500; i++ {
		lines = append(lines,
			fmt.Sprintf("chal_oye v%d ban %d * 3 %% 7", i, i),
			fmt.Sprintf("je v%d vadha_hai 3", i),
			fmt.Sprintf("    chal_oye total ban total + v%d", i),
			fmt.Sprintf("pa_ander xs v%d", i),
		)
	}
	lines = append(lines, "chilla_we total, kinna_lamba(xs)")
	largeJatti = program(lines...)
}

func BenchmarkRun(b *testing.B) {
	tests := []struct {
		name string
		data string
	}{
		{"Small", smallJatti},
		{"Recursive", fibJatti},
		{"Large", largeJatti},
	}
	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			in := New(WithStdout(io.Discard))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := in.Run(context.Background(), tt.data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLoad(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Load(largeJatti); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExpressionEvaluation(b *testing.B) {
	exprs := []string{
		"1 + 2 * 3",
		"x vadha_hai 3 hor x nikka_hai 10",
		`[1, 2, 3][1] + {"a": 4}["a"]`,
		`"abc".upper_case_oye().lower_case_oye()`,
	}
	for _, expr := range exprs {
		b.Run(expr, func(b *testing.B) {
			node, err := compileExpr(expr)
			if err != nil {
				b.Fatal(err)
			}
			env := NewEnv()
			env.Set("x", 5)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := node.Eval(env); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkTranspile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Transpile(largeJatti); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	messy := strings.ReplaceAll(largeJatti, "    ", "\t")
	for i := 0; i < b.N; i++ {
		_ = Format(messy)
	}
}

func BenchmarkBatchRunner(b *testing.B) {
	jobs := make([]Job, 16)
	for i := range jobs {
		jobs[i] = Job{Name: fmt.Sprintf("fib%d", i), Source: fibJatti}
	}

	b.Run("Sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			for _, job := range jobs {
				if err := New(WithStdout(io.Discard)).Run(context.Background(), job.Source); err != nil {
					b.Fatal(err)
				}
			}
		}
	})

	b.Run("Concurrent", func(b *testing.B) {
		br := NewBatchRunner(4)
		for i := 0; i < b.N; i++ {
			results, err := br.Run(context.Background(), jobs)
			if err != nil {
				b.Fatal(err)
			}
			if err := Failures(results); err != nil {
				b.Fatal(err)
			}
		}
	})
}
