// Package session drives a multi-turn conversation: it reads lines, keeps the
// ordered history and performs one round trip per user message.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// State of a session
type State int

const (
	Idle State = iota
	AwaitingUserInput
	AwaitingServerResponse
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingUserInput:
		return "awaiting user input"
	case AwaitingServerResponse:
		return "awaiting server response"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Usage counts tokens for one round trip
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Reply is a provider response converted to the canonical message
type Reply struct {
	Message      Message `json:"message"`
	Model        string  `json:"model,omitempty"`
	FinishReason string  `json:"finish_reason,omitempty"`
	Usage        *Usage  `json:"usage,omitempty"`
}

// Responder performs one round trip with the full history
type Responder interface {
	Respond(ctx context.Context, history []Message) (Reply, error)
}

// LineReader supplies user input. io.EOF ends the session.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Display shows the outcome of each turn
type Display interface {
	Assistant(reply Reply)
	TurnError(err error)
}

// Exit words
var (
	ChatExitWords     = []string{"exit", "quit"}
	TrainingExitWords = []string{"done"}
)

// Greeting opens every training conversation
const Greeting = "Hello! I'm ready to learn. Tell me about yourself."

// Session is a single conversation
type Session struct {
	responder Responder
	history   History
	state     State
	exitWords []string
	prompt    string
	logger    *slog.Logger
}

// Option configures a Session
type Option func(*Session)

// WithPrompt sets the input prompt
func WithPrompt(p string) Option {
	return func(s *Session) { s.prompt = p }
}

// WithLogger sets the session logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session that closes on any of exitWords
func New(r Responder, exitWords []string, opts ...Option) *Session {
	s := &Session{
		responder: r,
		exitWords: exitWords,
		prompt:    "You: ",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewChat creates a chat session
func NewChat(r Responder, opts ...Option) *Session {
	return New(r, ChatExitWords, opts...)
}

// NewTraining creates a training session seeded with the greeting
func NewTraining(r Responder, opts ...Option) *Session {
	s := New(r, TrainingExitWords, opts...)
	s.Seed(Message{Role: RoleAssistant, Content: Greeting})
	return s
}

// Seed appends a message without a round trip. Only valid before Run.
func (s *Session) Seed(m Message) {
	if s.state != Idle {
		return
	}
	s.history.Append(m)
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// History returns the conversation so far
func (s *Session) History() []Message {
	return s.history.Messages()
}

// IsExit reports whether line closes the session
func (s *Session) IsExit(line string) bool {
	for _, w := range s.exitWords {
		if strings.EqualFold(line, w) {
			return true
		}
	}
	return false
}

// Run reads lines until an exit word, EOF or cancellation. Turn failures are
// shown and the loop continues; only a reader failure is returned.
func (s *Session) Run(ctx context.Context, in LineReader, out Display) error {
	defer func() { s.state = Closed }()

	for {
		if ctx.Err() != nil {
			return nil
		}

		s.state = AwaitingUserInput
		line, err := in.ReadLine(s.prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if s.IsExit(line) {
			return nil
		}

		reply, err := s.Send(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			out.TurnError(err)
			continue
		}
		out.Assistant(reply)
	}
}

// Send appends a user message and performs one round trip. A failed round
// trip leaves the user message in place.
func (s *Session) Send(ctx context.Context, text string) (Reply, error) {
	if s.state == Closed {
		return Reply{}, errors.New("session is closed")
	}

	s.history.Append(Message{Role: RoleUser, Content: text})
	s.state = AwaitingServerResponse

	reply, err := s.responder.Respond(ctx, s.history.Messages())
	s.state = AwaitingUserInput
	if err != nil {
		s.logger.Debug("turn failed", "messages", s.history.Len(), "error", err)
		return Reply{}, err
	}

	s.history.Append(reply.Message)
	return reply, nil
}

// SingleShot sends one message in a fresh history and returns the reply
func SingleShot(ctx context.Context, r Responder, text string) (Reply, error) {
	s := NewChat(r)
	defer func() { s.state = Closed }()
	return s.Send(ctx, text)
}
