package jatti

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// PythonRunner transpiles programs and runs them with a Python 3
// interpreter.
type PythonRunner struct {
	// Path is the python executable.
	Path         string
	MaxRecursion int
}

// NewPythonRunner finds python3 on PATH.
func NewPythonRunner() (*PythonRunner, error) {
	path, err := exec.LookPath("python3")
	if err != nil {
		return nil, fmt.Errorf("python3 not found: %w", err)
	}
	return &PythonRunner{Path: path, MaxRecursion: DefaultMaxRecursion}, nil
}

// Run transpiles source, runs it with input on stdin and returns stdout.
// Transpile faults come back as *Error. A failing Python process yields an
// error carrying its stderr, with the output written so far.
func (p *PythonRunner) Run(ctx context.Context, source, input string) (string, error) {
	tr := NewTranspiler()
	if p.MaxRecursion > 0 {
		tr.MaxRecursion = p.MaxRecursion
	}
	code, err := tr.Transpile(source)
	if err != nil {
		return "", err
	}
	file, err := os.CreateTemp("", "jatti-*.py")
	if err != nil {
		return "", err
	}
	defer os.Remove(file.Name())
	if _, err := file.WriteString(code); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.Path, file.Name())
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return stdout.String(), ctx.Err()
		}
		return stdout.String(), fmt.Errorf("python: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
