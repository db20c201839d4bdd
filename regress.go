package jatti

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Regression is the outcome of one fixture: a program file compared with
// the expected output stored next to it.
type Regression struct {
	Name string
	Want string
	Got  string
	Err  error
}

func (r Regression) Passed() bool {
	return r.Err == nil && r.Got == r.Want
}

// LoadFixtures collects every *.jatti file in dir with its sibling *.out
// file. An optional *.in file supplies input lines.
func LoadFixtures(dir string) ([]Job, []string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.jatti"))
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(files)
	var (
		jobs  []Job
		wants []string
		errs  MultiError
	)
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			errs.Add(fmt.Errorf("failed to read fixture %s: %w", file, err))
			continue
		}
		base := strings.TrimSuffix(file, ".jatti")
		want, err := os.ReadFile(base + ".out")
		if err != nil {
			errs.Add(fmt.Errorf("missing expected output for %s: %w", file, err))
			continue
		}
		input, err := os.ReadFile(base + ".in")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			errs.Add(fmt.Errorf("failed to read input for %s: %w", file, err))
			continue
		}
		jobs = append(jobs, Job{Name: filepath.Base(file), Source: string(src), Input: string(input)})
		wants = append(wants, normalizeOutput(string(want)))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, nil, err
	}
	return jobs, wants, nil
}

func normalizeOutput(s string) string {
	return strings.TrimRight(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

// RunRegressions runs every fixture in dir through runner.
func RunRegressions(ctx context.Context, runner *BatchRunner, dir string) ([]Regression, error) {
	jobs, wants, err := LoadFixtures(dir)
	if err != nil {
		return nil, err
	}
	results, err := runner.Run(ctx, jobs)
	if err != nil {
		return nil, err
	}
	out := make([]Regression, len(results))
	for i, res := range results {
		out[i] = Regression{
			Name: res.Name,
			Want: wants[i],
			Got:  normalizeOutput(res.Output),
			Err:  res.Error,
		}
	}
	return out, nil
}
