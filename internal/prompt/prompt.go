// Package prompt asks the user for input: confirmations, masked secrets and
// line-edited conversation input. Every prompt has a non-interactive answer.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/deepself/deepself-cli/internal/clierr"
)

// IsInteractive reports whether prompts may block on the user. CI=true, a
// non-terminal stdin or --no-interactive all disable prompting.
func IsInteractive(noInteractive bool, stdin io.Reader, getenv func(string) string) bool {
	if noInteractive || getenv("CI") == "true" {
		return false
	}
	return isTerminal(stdin)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Prompter asks questions on In/Out
type Prompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	reader      *bufio.Reader
}

// New creates a prompter
func New(in io.Reader, out io.Writer, interactive bool) *Prompter {
	return &Prompter{in: in, out: out, interactive: interactive}
}

// Interactive reports whether the prompter may ask
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Confirm asks a yes/no question. Non-interactive runs get def.
func (p *Prompter) Confirm(question string, def bool) bool {
	if !p.interactive {
		return def
	}

	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s ", question, hint)

	line, err := p.buffered().ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}

// Password reads a secret without echo
func (p *Prompter) Password(label string) (string, error) {
	if !p.interactive {
		return "", clierr.Usage("%s required but running in non-interactive mode", strings.TrimSuffix(label, ":"))
	}

	fmt.Fprintf(p.out, "%s ", label)
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := p.buffered().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) buffered() *bufio.Reader {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}
	return p.reader
}
