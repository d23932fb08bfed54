// Package output renders command results for people (styled text and tables)
// or for programs (a JSON or YAML envelope on stdout).
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/deepself/deepself-cli/internal/clierr"
)

// Format selects how results are written
type Format string

const (
	Human Format = "human"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Human, JSON, YAML:
		return f, nil
	}
	return "", clierr.Usage("invalid output format %q: use human, json or yaml", s)
}

// Options configures a Printer
type Options struct {
	Format   Format
	Quiet    bool
	Color    string // auto, always or never
	Markdown bool
	Command  string
}

// Printer writes results and messages
type Printer struct {
	out      io.Writer
	errOut   io.Writer
	format   Format
	quiet    bool
	markdown bool
	command  string
	renderer *lipgloss.Renderer
	styles   styles
	now      func() time.Time
}

// New creates a printer writing results to out and diagnostics to errOut
func New(out, errOut io.Writer, opts Options) *Printer {
	if opts.Format == "" {
		opts.Format = Human
	}

	renderer := lipgloss.NewRenderer(out)
	switch opts.Color {
	case "never":
		renderer.SetColorProfile(termenv.Ascii)
	case "always":
		renderer.SetColorProfile(termenv.ANSI256)
	}

	return &Printer{
		out:      out,
		errOut:   errOut,
		format:   opts.Format,
		quiet:    opts.Quiet,
		markdown: opts.Markdown,
		command:  opts.Command,
		renderer: renderer,
		styles:   newStyles(renderer),
		now:      time.Now,
	}
}

// SetCommand names the command reported in envelopes
func (p *Printer) SetCommand(name string) {
	p.command = name
}

// Format returns the output format
func (p *Printer) Format() Format {
	return p.format
}

// Machine reports whether results go out as an envelope
func (p *Printer) Machine() bool {
	return p.format != Human
}

// Quiet reports whether informational messages are suppressed
func (p *Printer) Quiet() bool {
	return p.quiet
}

// Out returns the result writer
func (p *Printer) Out() io.Writer {
	return p.out
}

// Envelope is the machine-readable wrapper for every result
type Envelope struct {
	Status    string     `json:"status"`
	Command   string     `json:"command"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// ErrorBody describes a failed command
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result writes data as an envelope in machine mode or calls human otherwise.
// Quiet human mode prints nothing.
func (p *Printer) Result(data any, human func()) error {
	if p.Machine() {
		return p.emit(Envelope{
			Status:    "ok",
			Command:   p.command,
			Data:      data,
			Timestamp: p.timestamp(),
		})
	}
	if human != nil && !p.quiet {
		human()
	}
	return nil
}

// Error reports a failed command. Machine mode writes the error envelope to
// stdout; human mode writes a styled message to stderr.
func (p *Printer) Error(err error) {
	if p.Machine() {
		p.emit(Envelope{
			Status:    "error",
			Command:   p.command,
			Error:     &ErrorBody{Code: clierr.MachineCode(err), Message: err.Error()},
			Timestamp: p.timestamp(),
		})
		return
	}

	cerr, ok := clierr.As(err)
	if !ok {
		fmt.Fprintf(p.errOut, "%s %s\n", p.styles.errorMark.Render("✗"), err.Error())
		return
	}
	fmt.Fprintf(p.errOut, "%s %s: %s\n", p.styles.errorMark.Render("✗"), cerr.Kind, err.Error())
	if cerr.Status != 0 {
		fmt.Fprintf(p.errOut, "  Status: %d\n", cerr.Status)
	}
	if cerr.Code != "" {
		fmt.Fprintf(p.errOut, "  Code: %s\n", cerr.Code)
	}
}

// Success prints a confirmation line
func (p *Printer) Success(format string, args ...any) {
	if p.quiet || p.Machine() {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.successMark.Render("✓"), fmt.Sprintf(format, args...))
}

// Info prints a hint line
func (p *Printer) Info(format string, args ...any) {
	if p.quiet || p.Machine() {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.styles.infoMark.Render("ℹ"), fmt.Sprintf(format, args...))
}

// Warn prints a warning to stderr
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.styles.warnMark.Render("⚠"), fmt.Sprintf(format, args...))
}

// Labeled prints "label: value"
func (p *Printer) Labeled(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", p.styles.label.Render(label+":"), value)
}

// Heading prints a section title
func (p *Printer) Heading(title string) {
	fmt.Fprintln(p.out, p.styles.heading.Render(title))
}

// Line prints plain text
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Blank prints an empty line unless quiet
func (p *Printer) Blank() {
	if p.quiet || p.Machine() {
		return
	}
	fmt.Fprintln(p.out)
}

func (p *Printer) emit(env Envelope) error {
	switch p.format {
	case YAML:
		// Route through JSON so YAML keys match the json tags
		data, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}
}

func (p *Printer) timestamp() string {
	return p.now().UTC().Format(time.RFC3339)
}

// width of the terminal behind out, or 80
func (p *Printer) width() int {
	if f, ok := p.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

// colored reports whether styles produce escape codes
func (p *Printer) colored() bool {
	return p.renderer.ColorProfile() != termenv.Ascii
}
