package playground

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/oarkflow/jatti"
)

// Result is the outcome of one playground run.
type Result struct {
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	TimedOut  bool   `json:"timedOut"`
	Truncated bool   `json:"truncated"`
}

// Runner executes program source in isolation.
type Runner interface {
	Run(ctx context.Context, code string) Result
}

// ProcessRunner runs each program in a fresh worker subprocess fed the
// source on stdin.
type ProcessRunner struct {
	Path       string
	Args       []string
	TimeoutSec float64
	MaxOutput  int
}

// NewProcessRunner spawns the current executable with the worker command.
func NewProcessRunner(timeoutSec float64, maxOutput int) (*ProcessRunner, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate worker executable: %w", err)
	}
	return &ProcessRunner{Path: exe, Args: []string{"worker"}, TimeoutSec: timeoutSec, MaxOutput: maxOutput}, nil
}

// cappedBuffer keeps at most limit bytes and calls full once when more
// arrive.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
	full      func()
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if c.truncated {
		return len(p), nil
	}
	if room := c.limit - c.buf.Len(); len(p) > room {
		c.buf.Write(p[:max(0, room)])
		c.truncated = true
		if c.full != nil {
			c.full()
		}
		return len(p), nil
	}
	return c.buf.Write(p)
}

func (p *ProcessRunner) Run(ctx context.Context, code string) Result {
	timeout := time.Duration(p.TimeoutSec * float64(time.Second))
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out := &cappedBuffer{limit: p.MaxOutput, full: cancel}
	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	cmd.Stdin = strings.NewReader(code)
	cmd.Stdout = out
	cmd.Stderr = out
	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && ctx.Err() == nil {
		return Result{Output: "Server misconfigured: " + err.Error()}
	}
	timedOut := !out.truncated && errors.Is(ctx.Err(), context.DeadlineExceeded)
	failed := err != nil && !out.truncated
	return finish(strings.ToValidUTF8(out.buf.String(), ""), timedOut, out.truncated, failed, p.TimeoutSec)
}

// finish builds the response text the way the browser playground expects.
func finish(output string, timedOut, truncated, failed bool, timeoutSec float64) Result {
	res := Result{
		Success:   !timedOut && !failed && !strings.Contains(output, jatti.ErrorBanner),
		TimedOut:  timedOut,
		Truncated: truncated,
	}
	if timedOut {
		output = joinNote(output, "⏱️ Timed out after "+jatti.Str(timeoutSec)+"s")
	}
	if truncated {
		output = joinNote(output, "…(output truncated)")
	}
	res.Output = output
	return res
}

func joinNote(output, note string) string {
	if output == "" {
		return note
	}
	return output + "\n" + note
}

// Work runs a program read from in and writes everything it prints, plus
// any rendered diagnostic, to out. It is the body of the worker command.
func Work(ctx context.Context, in io.Reader, out io.Writer, opts ...jatti.Option) error {
	code, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read program: %w", err)
	}
	opts = append([]jatti.Option{
		jatti.WithStdout(out),
		jatti.WithInput(jatti.NewLineReader(strings.NewReader(""), out)),
	}, opts...)
	if err := jatti.New(opts...).Run(ctx, string(code)); err != nil {
		jatti.Report(out, err, string(code))
		return err
	}
	return nil
}
