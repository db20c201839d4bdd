package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/oarkflow/cli/contracts"
	"github.com/oarkflow/log"

	"github.com/oarkflow/jatti"
	"github.com/oarkflow/jatti/config"
	"github.com/oarkflow/jatti/playground"
)

func readProgram(ctx contracts.Context) (string, string, error) {
	path := ctx.Argument(0)
	if path == "" {
		return "", "", errors.New("program file is required")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, string(src), nil
}

type RunCommand struct {
	extend contracts.Extend
	Config config.Config
}

func (c *RunCommand) Signature() string {
	return "run"
}

func (c *RunCommand) Description() string {
	return "Runs a Jatti program."
}

func (c *RunCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *RunCommand) Handle(ctx contracts.Context) error {
	_, src, err := readProgram(ctx)
	if err != nil {
		return err
	}
	opts := []jatti.Option{
		jatti.WithMaxRecursion(c.Config.MaxRecursion),
		jatti.WithDebug(c.Config.Debug),
	}
	if file := ctx.Option("vars"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		vars, err := jatti.ImportVars(data)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
		opts = append(opts, jatti.WithVars(vars))
	}
	input, release := newInputReader()
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	in := jatti.New(append(opts, jatti.WithInput(input))...)
	err = in.Run(runCtx, src)
	stop()
	release()
	if c.Config.Debug {
		fmt.Fprintln(os.Stderr, "--- trace ---")
		for _, step := range in.Trace() {
			fmt.Fprintln(os.Stderr, step)
		}
		fmt.Fprintln(os.Stderr, "--- vars ---")
		if jerr := jatti.WriteJSON(os.Stderr, jatti.ExportVars(in.Vars())); jerr != nil {
			fmt.Fprintln(os.Stderr, jerr)
		}
	}
	if err != nil {
		jatti.Report(os.Stderr, err, src)
		os.Exit(1)
	}
	return nil
}

type BuildCommand struct {
	extend contracts.Extend
	Config config.Config
}

func (c *BuildCommand) Signature() string {
	return "build"
}

func (c *BuildCommand) Description() string {
	return "Transpiles a Jatti program to Python. Usage: build <file> [out.py]"
}

func (c *BuildCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *BuildCommand) Handle(ctx contracts.Context) error {
	path, src, err := readProgram(ctx)
	if err != nil {
		return err
	}
	out := ctx.Argument(1)
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".py"
	}
	tr := jatti.NewTranspiler()
	tr.MaxRecursion = c.Config.MaxRecursion
	code, err := tr.Transpile(src)
	if err != nil {
		jatti.Report(os.Stderr, err, src)
		os.Exit(1)
	}
	if err := os.WriteFile(out, []byte(code), 0o755); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("✅ Built %s\n", out)
	return nil
}

type FormatCommand struct {
	extend contracts.Extend
}

func (c *FormatCommand) Signature() string {
	return "format"
}

func (c *FormatCommand) Description() string {
	return "Reindents a Jatti program. Usage: format <file> [--write]"
}

func (c *FormatCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *FormatCommand) Handle(ctx contracts.Context) error {
	path, src, err := readProgram(ctx)
	if err != nil {
		return err
	}
	formatted := jatti.Format(src)
	if ctx.Argument(1) != "--write" && ctx.Option("write") == "" {
		fmt.Print(formatted)
		return nil
	}
	if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

type ServeCommand struct {
	extend contracts.Extend
	Config config.Config
	Logger *log.Logger
}

func (c *ServeCommand) Signature() string {
	return "serve"
}

func (c *ServeCommand) Description() string {
	return "Starts the playground HTTP run service."
}

func (c *ServeCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *ServeCommand) Handle(ctx contracts.Context) error {
	runner, err := playground.NewProcessRunner(c.Config.TimeoutSec, c.Config.MaxOutputBytes)
	if err != nil {
		return err
	}
	srvCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return playground.NewServer(c.Config, runner, c.Logger).ListenAndServe(srvCtx)
}

type WorkerCommand struct {
	extend contracts.Extend
	Config config.Config
}

func (c *WorkerCommand) Signature() string {
	return "worker"
}

func (c *WorkerCommand) Description() string {
	return "Runs a program read from stdin. Used by serve."
}

func (c *WorkerCommand) Extend() contracts.Extend {
	return c.extend
}

func (c *WorkerCommand) Handle(ctx contracts.Context) error {
	err := playground.Work(context.Background(), os.Stdin, os.Stdout, jatti.WithMaxRecursion(c.Config.MaxRecursion))
	if err != nil {
		os.Exit(1)
	}
	return nil
}

type TestCommand struct {
	extend contracts.Extend
	Config config.Config
	Logger *log.Logger
}

func (c *TestCommand) Signature() string {
	return "test"
}

func (c *TestCommand) Description() string {
	return "Runs every *.jatti fixture in a directory against its *.out file. Usage: test [dir] [--build]"
}

func (c *TestCommand) Extend() contracts.Extend {
	return c.extend
}

// buildOption reads --build, which takes a value on this CLI. A value that
// is not a boolean is the fixture directory: "test --build dir".
func buildOption(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	if on, err := strconv.ParseBool(value); err == nil {
		return "", on
	}
	return value, true
}

func (c *TestCommand) Handle(ctx contracts.Context) error {
	dir, build := buildOption(ctx.Option("build"))
	for _, arg := range ctx.Arguments() {
		switch {
		case arg == "--build":
			build = true
		case dir == "":
			dir = arg
		}
	}
	if dir == "" {
		dir = filepath.Join("testdata", "regressions")
	}
	runner := jatti.NewBatchRunner(0, jatti.WithMaxRecursion(c.Config.MaxRecursion))
	if build {
		py, err := jatti.NewPythonRunner()
		if err != nil {
			return err
		}
		if path := ctx.Option("python"); path != "" {
			py.Path = path
		}
		py.MaxRecursion = c.Config.MaxRecursion
		runner.UsePython(py)
	}
	results, err := jatti.RunRegressions(context.Background(), runner, dir)
	if err != nil {
		return err
	}
	failed := 0
	for _, res := range results {
		if res.Passed() {
			fmt.Printf("PASS %s\n", res.Name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", res.Name)
		if res.Err != nil {
			fmt.Printf("  error: %v\n", res.Err)
		} else {
			fmt.Printf("  want:\n%s\n  got:\n%s\n", res.Want, res.Got)
		}
	}
	c.Logger.Info().Int("total", len(results)).Int("failed", failed).Bool("build", build).Msg("regressions finished")
	if failed > 0 {
		return fmt.Errorf("%d of %d regressions failed", failed, len(results))
	}
	return nil
}
