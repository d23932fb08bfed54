package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// LineReader reads conversation input. Close releases the terminal and saves
// history.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// Lines returns a line-editing reader on a terminal and a plain reader
// otherwise. historyPath is ignored when empty.
func (p *Prompter) Lines(historyPath string) LineReader {
	if p.interactive && isTerminal(p.in) {
		return newEditor(historyPath)
	}
	return &plainReader{in: p.buffered(), out: p.out}
}

// editor wraps liner with a persistent history file
type editor struct {
	line        *liner.State
	historyPath string
}

func newEditor(historyPath string) *editor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	e := &editor{line: line, historyPath: historyPath}
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}
	return e
}

// ReadLine maps Ctrl+C and Ctrl+D to io.EOF
func (e *editor) ReadLine(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

func (e *editor) Close() error {
	defer e.line.Close()
	if e.historyPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(e.historyPath), 0o700); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	f, err := os.OpenFile(e.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	defer f.Close()

	if _, err := e.line.WriteHistory(f); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// plainReader reads newline-terminated input from a pipe or file
type plainReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *plainReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *plainReader) Close() error {
	return nil
}
