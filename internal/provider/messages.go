package provider

import (
	"github.com/deepself/deepself-cli/internal/session"
)

type messagesRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	Messages  []session.Message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      *messagesUsage `json:"usage"`
}

// reply takes the first content block; an empty reply is allowed
func (r messagesResponse) reply() session.Reply {
	var text string
	if len(r.Content) > 0 {
		text = r.Content[0].Text
	}

	out := session.Reply{
		Message:      session.Message{Role: session.RoleAssistant, Content: text},
		Model:        r.Model,
		FinishReason: r.StopReason,
	}
	if r.Usage != nil {
		out.Usage = &session.Usage{InputTokens: r.Usage.InputTokens, OutputTokens: r.Usage.OutputTokens}
	}
	return out
}
