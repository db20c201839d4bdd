package jatti

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Job is one program for a BatchRunner.
type Job struct {
	Name   string
	Source string
	// Input feeds das_oye statements, one line per read.
	Input string
}

// RunResult represents the outcome of running one job
type RunResult struct {
	Index   int
	Name    string
	Output  string
	Error   error
	Elapsed time.Duration
}

// BatchRunner runs many programs in parallel, each on its own Interpreter.
type BatchRunner struct {
	workers int
	opts    []Option
	python  *PythonRunner
}

// NewBatchRunner creates a runner with the given worker count. Options are
// applied to every Interpreter it creates.
func NewBatchRunner(workers int, opts ...Option) *BatchRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchRunner{workers: workers, opts: opts}
}

// UsePython makes the runner transpile every job and run it with p instead
// of the interpreter.
func (br *BatchRunner) UsePython(p *PythonRunner) *BatchRunner {
	br.python = p
	return br
}

// Run executes jobs concurrently. Results keep the order of jobs.
func (br *BatchRunner) Run(ctx context.Context, jobs []Job) ([]RunResult, error) {
	if len(jobs) == 0 {
		return nil, nil
	}

	work := make(chan int, len(jobs))
	resultChan := make(chan RunResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < br.workers && i < len(jobs); i++ {
		wg.Add(1)
		go br.worker(ctx, &wg, jobs, work, resultChan)
	}

	for i := range jobs {
		select {
		case work <- i:
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(work)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]RunResult, len(jobs))
	for result := range resultChan {
		results[result.Index] = result
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (br *BatchRunner) worker(ctx context.Context, wg *sync.WaitGroup, jobs []Job, work <-chan int, results chan<- RunResult) {
	defer wg.Done()

	for i := range work {
		select {
		case <-ctx.Done():
			return
		default:
			results <- br.runJob(ctx, i, jobs[i])
		}
	}
}

func (br *BatchRunner) runJob(ctx context.Context, index int, job Job) RunResult {
	if br.python != nil {
		start := time.Now()
		output, err := br.python.Run(ctx, job.Source, job.Input)
		return RunResult{
			Index:   index,
			Name:    job.Name,
			Output:  output,
			Error:   err,
			Elapsed: time.Since(start),
		}
	}
	var out bytes.Buffer
	opts := append([]Option{
		WithStdout(&out),
		WithInput(NewLineReader(strings.NewReader(job.Input), &out)),
	}, br.opts...)
	start := time.Now()
	err := New(opts...).Run(ctx, job.Source)
	return RunResult{
		Index:   index,
		Name:    job.Name,
		Output:  out.String(),
		Error:   err,
		Elapsed: time.Since(start),
	}
}

// RunFiles reads and runs program files concurrently.
func (br *BatchRunner) RunFiles(ctx context.Context, files []string) ([]RunResult, error) {
	jobs := make([]Job, 0, len(files))
	var errs MultiError
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			errs.Add(fmt.Errorf("failed to read file %s: %w", file, err))
			continue
		}
		jobs = append(jobs, Job{Name: file, Source: string(content)})
	}
	if errs.HasErrors() {
		return nil, &errs
	}
	return br.Run(ctx, jobs)
}

// Failures collects the errors of failed results.
func Failures(results []RunResult) error {
	var errs MultiError
	for _, result := range results {
		if result.Error != nil {
			errs.Add(fmt.Errorf("%s: %w", result.Name, result.Error))
		}
	}
	return errs.ErrorOrNil()
}
