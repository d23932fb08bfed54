// Package provider routes chat turns to the request shape the target LLM
// provider expects and converts replies back to canonical messages.
package provider

import (
	"context"
	"strings"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/clierr"
)

// Shape is the wire format of a round trip
type Shape int

const (
	// ShapeCompletion posts to /v1/chat/completions
	ShapeCompletion Shape = iota
	// ShapeMessages posts to /v1/messages
	ShapeMessages
)

func (s Shape) String() string {
	if s == ShapeMessages {
		return "messages"
	}
	return "chat-completion"
}

// Anthropic is the provider served through the messages shape
const Anthropic = "anthropic"

// Target is a parsed chat target: a model username, optionally pinned to an LLM
type Target struct {
	Owner string
	LLM   string
	Raw   string
}

// Pinned reports whether the target names an LLM
func (t Target) Pinned() bool {
	return t.LLM != ""
}

// ParseTarget splits "owner@model". A bare owner is valid.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, clierr.Usage("model is required")
	}

	owner, llm, found := strings.Cut(s, "@")
	if !found {
		return Target{Owner: s, Raw: s}, nil
	}
	if owner == "" || llm == "" {
		return Target{}, clierr.Usage("invalid model %q: use <username> or <username>@<model>", s)
	}
	return Target{Owner: owner, LLM: llm, Raw: s}, nil
}

// Route is a resolved target: what to send as the model and which shape to use
type Route struct {
	Model    string
	Provider string
	Shape    Shape
}

// SupportedLister lists the LLMs usable in pinned targets
type SupportedLister interface {
	SupportedModels(ctx context.Context) ([]api.SupportedModel, error)
}

// Resolve picks the route for target. A pinned target is looked up in the
// supported list; an unknown LLM is a usage error.
func Resolve(ctx context.Context, lister SupportedLister, target string) (Route, error) {
	t, err := ParseTarget(target)
	if err != nil {
		return Route{}, err
	}
	if !t.Pinned() {
		return Route{Model: t.Raw, Shape: ShapeCompletion}, nil
	}

	supported, err := lister.SupportedModels(ctx)
	if err != nil {
		return Route{}, err
	}
	for _, m := range supported {
		if m.Model != t.LLM {
			continue
		}
		route := Route{Model: t.Raw, Provider: m.Provider, Shape: ShapeCompletion}
		if strings.EqualFold(m.Provider, Anthropic) {
			route.Shape = ShapeMessages
		}
		return route, nil
	}
	return Route{}, clierr.Usage("Unsupported model: %s. Run \"deepself models supported\" to see available models.", t.LLM)
}
