package jatti

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBatchRunner(t *testing.T) {
	var jobs []Job
	for i := 0; i < 20; i++ {
		jobs = append(jobs, Job{
			Name:   fmt.Sprintf("job%d", i),
			Source: program(fmt.Sprintf("chilla_we %d * 2", i)),
		})
	}
	jobs = append(jobs, Job{Name: "broken", Source: program("chilla_we 1 / 0")})
	jobs = append(jobs, Job{Name: "input", Source: program(`das_oye n eh_chahida "N"`, "chilla_we n + 1"), Input: "4\n"})

	results, err := NewBatchRunner(4).Run(context.Background(), jobs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i := 0; i < 20; i++ {
		res := results[i]
		if res.Index != i || res.Name != jobs[i].Name {
			t.Errorf("result %d out of order: %+v", i, res)
		}
		if want := fmt.Sprintf("%d\n", i*2); res.Output != want || res.Error != nil {
			t.Errorf("result %d = %q %v, want %q", i, res.Output, res.Error, want)
		}
	}
	if results[20].Error == nil {
		t.Error("expected the broken job to fail")
	}
	if results[21].Output != "N: 5\n" {
		t.Errorf("got %q, want %q", results[21].Output, "N: 5\n")
	}

	err = Failures(results)
	if err == nil || !strings.Contains(err.Error(), "broken: Zero naal divide nahi kar sakde.") {
		t.Errorf("Failures() = %v", err)
	}
	if Failures(results[:20]) != nil {
		t.Error("Failures() should be nil when every job passed")
	}
}

func TestBatchRunnerOptions(t *testing.T) {
	src := program(
		"kaam down(n)",
		"    je n barabar 0",
		"        wapas_kar 0",
		"    wapas_kar down(n - 1)",
		"chilla_we down(120)",
	)
	results, err := NewBatchRunner(1, WithMaxRecursion(150)).Run(context.Background(), []Job{{Name: "deep", Source: src}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Error != nil {
		t.Errorf("unexpected job error: %v", results[0].Error)
	}
}

func TestBatchRunnerEmptyAndCancelled(t *testing.T) {
	results, err := NewBatchRunner(0).Run(context.Background(), nil)
	if err != nil || results != nil {
		t.Errorf("got %v %v, want nil nil", results, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewBatchRunner(2).Run(ctx, []Job{{Name: "a", Source: program("chilla_we 1")}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.jatti")
	if err := os.WriteFile(path, []byte(program(`chilla_we "hello"`)), 0o644); err != nil {
		t.Fatal(err)
	}
	runner := NewBatchRunner(2)
	results, err := runner.RunFiles(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Name != path || results[0].Output != "hello\n" {
		t.Errorf("got %+v", results[0])
	}

	_, err = runner.RunFiles(context.Background(), []string{path, filepath.Join(dir, "missing.jatti")})
	var multi *MultiError
	if !errors.As(err, &multi) || len(multi.Errors) != 1 {
		t.Errorf("got %v, want one read failure", err)
	}
}

func TestRunRegressions(t *testing.T) {
	results, err := RunRegressions(context.Background(), NewBatchRunner(0), filepath.Join("testdata", "regressions"))
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

func TestLoadFixtures(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.jatti", program("chilla_we 2"))
	write("b.out", "2\r\n\r\n")
	write("a.jatti", program(`das_oye x eh_chahida "X"`, "chilla_we x"))
	write("a.out", "X: 1\n")
	write("a.in", "1\n")

	jobs, wants, err := LoadFixtures(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 || jobs[0].Name != "a.jatti" || jobs[1].Name != "b.jatti" {
		t.Fatalf("got jobs %+v, want a.jatti and b.jatti", jobs)
	}
	if jobs[0].Input != "1\n" || jobs[1].Input != "" {
		t.Errorf("got inputs %q and %q", jobs[0].Input, jobs[1].Input)
	}
	if wants[0] != "X: 1" || wants[1] != "2" {
		t.Errorf("got wants %q", wants)
	}

	write("c.jatti", program("chilla_we 3"))
	if _, _, err := LoadFixtures(dir); err == nil || !strings.Contains(err.Error(), "missing expected output") {
		t.Errorf("got %v, want a missing output error", err)
	}
}
