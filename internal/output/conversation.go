package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/deepself/deepself-cli/internal/session"
)

// Markdown renders text for the terminal. Plain text is returned when
// markdown is off or the output has no color.
func (p *Printer) Markdown(text string) string {
	if !p.markdown || !p.colored() {
		return text
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(p.width()-4),
	)
	if err != nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}

// SpeakerPrompt returns the styled input prompt for interactive sessions
func (p *Printer) SpeakerPrompt() string {
	return p.styles.user.Render("You:") + " "
}

// Conversation displays interactive turns
type Conversation struct {
	p *Printer
}

// Conversation returns a display for session turns
func (p *Printer) Conversation() *Conversation {
	return &Conversation{p: p}
}

// Greeting shows a message that opens the conversation
func (c *Conversation) Greeting(m session.Message) {
	c.Assistant(session.Reply{Message: m})
}

// Assistant shows a reply. Machine mode writes one envelope per turn.
func (c *Conversation) Assistant(reply session.Reply) {
	if c.p.Machine() {
		c.p.emit(Envelope{Status: "ok", Command: c.p.command, Data: reply, Timestamp: c.p.timestamp()})
		return
	}

	content := c.p.Markdown(reply.Message.Content)
	if strings.Contains(content, "\n") {
		fmt.Fprintf(c.p.out, "%s\n%s\n", c.p.styles.assistant.Render("Assistant:"), content)
	} else {
		fmt.Fprintf(c.p.out, "%s %s\n", c.p.styles.assistant.Render("Assistant:"), content)
	}
	if reply.Usage != nil && !c.p.quiet {
		fmt.Fprintln(c.p.out, "  "+c.p.styles.muted.Render(fmt.Sprintf("%s in / %s out tokens",
			Count(int64(reply.Usage.InputTokens)), Count(int64(reply.Usage.OutputTokens)))))
	}
}

// TurnError shows a failed turn without ending the conversation
func (c *Conversation) TurnError(err error) {
	c.p.Error(err)
}
