package cmd

import (
	"github.com/deepself/deepself-cli/internal/provider"
	"github.com/deepself/deepself-cli/internal/session"
)

// ChatCmd chats with a model, interactively or with a single message
type ChatCmd struct {
	Model      string `arg:"" help:"Model to chat with: <username> or <username>@<model>, e.g. deep-yoda@gpt-4o-mini"`
	Message    string `short:"m" help:"Send one message and print the reply"`
	Transcript string `placeholder:"FILE" help:"Write the conversation to FILE as markdown when the chat ends"`
}

type chatResult struct {
	Model        string         `json:"model"`
	Message      string         `json:"message"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Usage        *session.Usage `json:"usage,omitempty"`
}

// Run executes the chat command
func (c *ChatCmd) Run(ctx *Context) error {
	if _, err := provider.ParseTarget(c.Model); err != nil {
		return err
	}
	client, err := ctx.AuthClient()
	if err != nil {
		return err
	}

	// Resolve the route before the first turn so an unknown LLM sends nothing
	route, err := provider.Resolve(ctx, client, c.Model)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("chat route", "model", route.Model, "provider", route.Provider, "shape", route.Shape)
	responder := provider.NewResponder(client, route, provider.WithMaxTokens(ctx.Prefs.MaxTokens))

	if c.Message != "" {
		return c.single(ctx, responder)
	}
	return c.interactive(ctx, responder)
}

func (c *ChatCmd) single(ctx *Context, r *provider.Responder) error {
	reply, err := session.SingleShot(ctx, r, c.Message)
	if err != nil {
		return err
	}

	result := chatResult{
		Model:        reply.Model,
		Message:      reply.Message.Content,
		FinishReason: reply.FinishReason,
		Usage:        reply.Usage,
	}
	if result.Model == "" {
		result.Model = r.Route().Model
	}

	if c.Transcript != "" {
		msgs := []session.Message{{Role: session.RoleUser, Content: c.Message}, reply.Message}
		if err := session.WriteTranscript(c.Transcript, "Chat: "+c.Model, msgs); err != nil {
			ctx.Out.Warn("%v", err)
		}
	}

	return ctx.Out.Result(result, func() {
		ctx.Out.Line("%s", ctx.Out.Markdown(result.Message))
		if result.Usage != nil {
			ctx.Out.Blank()
			ctx.Out.Info("Tokens: %d (input: %d, output: %d)",
				result.Usage.InputTokens+result.Usage.OutputTokens,
				result.Usage.InputTokens, result.Usage.OutputTokens)
		}
	})
}

func (c *ChatCmd) interactive(ctx *Context, r *provider.Responder) error {
	if route := r.Route(); route.Provider != "" {
		ctx.Out.Info("Chat with %s (%s)", route.Model, route.Provider)
	} else {
		ctx.Out.Info("Chat with %s", route.Model)
	}
	ctx.Out.Info("Type your messages below. Type \"exit\" or \"quit\" to end the chat.")
	ctx.Out.Blank()

	sess := session.NewChat(r,
		session.WithPrompt(ctx.Out.SpeakerPrompt()),
		session.WithLogger(ctx.Logger),
	)
	err := runConversation(ctx, sess, ctx.Out.Conversation())

	if c.Transcript != "" {
		if werr := session.WriteTranscript(c.Transcript, "Chat: "+c.Model, sess.History()); werr != nil {
			ctx.Out.Warn("%v", werr)
		}
	}
	if err != nil {
		return err
	}

	ctx.Out.Blank()
	ctx.Out.Info("Chat ended")
	return nil
}
