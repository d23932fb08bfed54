package provider

import (
	"github.com/sashabaranov/go-openai"

	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/session"
)

// completionRequest is the Deepself flavor of a chat completion. room_id
// attaches the turn to a training room.
type completionRequest struct {
	Model    string                         `json:"model"`
	Messages []openai.ChatCompletionMessage `json:"messages"`
	RoomID   string                         `json:"room_id,omitempty"`
}

func toCompletionMessages(history []session.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		out = append(out, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func completionReply(resp openai.ChatCompletionResponse) (session.Reply, error) {
	if len(resp.Choices) == 0 {
		return session.Reply{}, clierr.API("response contained no choices", 0, "")
	}

	choice := resp.Choices[0]
	role := session.Role(choice.Message.Role)
	if role == "" {
		role = session.RoleAssistant
	}

	out := session.Reply{
		Message:      session.Message{Role: role, Content: choice.Message.Content},
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
	}
	if resp.Usage.TotalTokens > 0 || resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		out.Usage = &session.Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	}
	return out, nil
}
