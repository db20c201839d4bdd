package main

import (
	"errors"
	"io"
	"os"

	"github.com/peterh/liner"

	"github.com/oarkflow/jatti"
)

// lineEditor reads das_oye answers with line editing when stdin is a
// terminal.
type lineEditor struct {
	state *liner.State
}

func (l *lineEditor) ReadLine(prompt string) (string, error) {
	line, err := l.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	l.state.AppendHistory(line)
	return line, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// newInputReader returns the reader for das_oye and a func releasing it.
func newInputReader() (jatti.LineReader, func()) {
	if isTerminal(os.Stdin) && liner.TerminalSupported() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		return &lineEditor{state: state}, func() { state.Close() }
	}
	return jatti.NewLineReader(os.Stdin, os.Stdout), func() {}
}
