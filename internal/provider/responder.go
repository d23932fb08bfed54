package provider

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/session"
)

// DefaultMaxTokens caps replies in the messages shape
const DefaultMaxTokens = 4096

// Poster sends one JSON request
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Responder performs round trips for one route
type Responder struct {
	poster    Poster
	route     Route
	maxTokens int
	roomID    string
}

// Option configures a Responder
type Option func(*Responder)

// WithMaxTokens sets max_tokens for the messages shape
func WithMaxTokens(n int) Option {
	return func(r *Responder) {
		if n > 0 {
			r.maxTokens = n
		}
	}
}

// WithRoom attaches every turn to a training room
func WithRoom(roomID string) Option {
	return func(r *Responder) { r.roomID = roomID }
}

// NewResponder creates a responder for route
func NewResponder(p Poster, route Route, opts ...Option) *Responder {
	r := &Responder{poster: p, route: route, maxTokens: DefaultMaxTokens}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the route this responder sends to
func (r *Responder) Route() Route {
	return r.route
}

// Respond sends the whole history and converts the reply
func (r *Responder) Respond(ctx context.Context, history []session.Message) (session.Reply, error) {
	if r.route.Shape == ShapeMessages {
		req := messagesRequest{Model: r.route.Model, MaxTokens: r.maxTokens, Messages: history}
		var resp messagesResponse
		if err := r.poster.Post(ctx, api.PathMessages, req, &resp); err != nil {
			return session.Reply{}, err
		}
		return resp.reply(), nil
	}

	req := completionRequest{
		Model:    r.route.Model,
		Messages: toCompletionMessages(history),
		RoomID:   r.roomID,
	}
	var resp openai.ChatCompletionResponse
	if err := r.poster.Post(ctx, api.PathChatCompletions, req, &resp); err != nil {
		return session.Reply{}, err
	}
	return completionReply(resp)
}
