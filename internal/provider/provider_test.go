package provider

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/apitest"
	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/session"
)

func newClient(srv *apitest.Server) *api.Client {
	return api.New("k", srv.URL, api.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func supported(srv *apitest.Server) {
	srv.Handle(http.MethodGet, api.PathModelsSupported, apitest.JSON(http.StatusOK, map[string]any{
		"models": []map[string]string{
			{"model": "claude-sonnet-4", "provider": "anthropic"},
			{"model": "gpt-4o-mini", "provider": "openai"},
		},
	}))
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{"deep-yoda", Target{Owner: "deep-yoda", Raw: "deep-yoda"}, false},
		{"deep-yoda@gpt-4o-mini", Target{Owner: "deep-yoda", LLM: "gpt-4o-mini", Raw: "deep-yoda@gpt-4o-mini"}, false},
		{"@gpt-4o-mini", Target{}, true},
		{"deep-yoda@", Target{}, true},
		{"  ", Target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantErr {
				assert.True(t, clierr.Is(err, clierr.KindUsage))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBareTargetSkipsLookup(t *testing.T) {
	srv := apitest.New(t)
	supported(srv)

	route, err := Resolve(context.Background(), newClient(srv), "deep-yoda")
	require.NoError(t, err)
	assert.Equal(t, Route{Model: "deep-yoda", Shape: ShapeCompletion}, route)
	assert.Zero(t, srv.Count())
}

func TestResolvePinnedTargets(t *testing.T) {
	srv := apitest.New(t)
	supported(srv)
	client := newClient(srv)

	route, err := Resolve(context.Background(), client, "deep-yoda@claude-sonnet-4")
	require.NoError(t, err)
	assert.Equal(t, ShapeMessages, route.Shape)
	assert.Equal(t, "deep-yoda@claude-sonnet-4", route.Model)
	assert.Equal(t, "anthropic", route.Provider)

	route, err = Resolve(context.Background(), client, "deep-yoda@gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, ShapeCompletion, route.Shape)
}

func TestResolveUnsupportedIsUsageError(t *testing.T) {
	srv := apitest.New(t)
	supported(srv)

	_, err := Resolve(context.Background(), newClient(srv), "deep-yoda@llama-9")
	assert.True(t, clierr.Is(err, clierr.KindUsage))
	assert.Equal(t, clierr.ExitUsage, clierr.ExitCode(err))
	assert.Contains(t, err.Error(), "llama-9")
	assert.Equal(t, 1, srv.Count())
}

func TestMessagesShape(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, api.PathMessages, apitest.JSON(http.StatusOK, map[string]any{
		"id":          "msg_1",
		"model":       "deep-yoda@claude-sonnet-4",
		"content":     []map[string]string{{"type": "text", "text": "Do or do not."}},
		"stop_reason": "end_turn",
		"usage":       map[string]int{"input_tokens": 12, "output_tokens": 5},
	}))

	r := NewResponder(newClient(srv), Route{Model: "deep-yoda@claude-sonnet-4", Shape: ShapeMessages}, WithMaxTokens(1024))
	reply, err := r.Respond(context.Background(), []session.Message{{Role: session.RoleUser, Content: "advice?"}})
	require.NoError(t, err)

	assert.Equal(t, session.Message{Role: session.RoleAssistant, Content: "Do or do not."}, reply.Message)
	assert.Equal(t, "end_turn", reply.FinishReason)
	require.NotNil(t, reply.Usage)
	assert.Equal(t, 12, reply.Usage.InputTokens)

	var body map[string]any
	srv.Last(t).Decode(t, &body)
	assert.Equal(t, "deep-yoda@claude-sonnet-4", body["model"])
	assert.Equal(t, float64(1024), body["max_tokens"])
	assert.NotContains(t, body, "room_id")
}

func TestMessagesShapeEmptyContent(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, api.PathMessages, apitest.JSON(http.StatusOK, map[string]any{"content": []any{}}))

	r := NewResponder(newClient(srv), Route{Model: "m", Shape: ShapeMessages})
	reply, err := r.Respond(context.Background(), []session.Message{{Role: session.RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Empty(t, reply.Message.Content)
	assert.Nil(t, reply.Usage)

	var body map[string]any
	srv.Last(t).Decode(t, &body)
	assert.Equal(t, float64(DefaultMaxTokens), body["max_tokens"])
}

func TestCompletionShape(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, api.PathChatCompletions, apitest.Envelope(map[string]any{
		"id":    "c1",
		"model": "deep-yoda",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": "Hmm."},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 3, "completion_tokens": 1, "total_tokens": 4},
	}))

	r := NewResponder(newClient(srv), Route{Model: "deep-yoda"})
	history := []session.Message{
		{Role: session.RoleUser, Content: "one"},
		{Role: session.RoleAssistant, Content: "two"},
		{Role: session.RoleUser, Content: "three"},
	}
	reply, err := r.Respond(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, "Hmm.", reply.Message.Content)
	assert.Equal(t, "stop", reply.FinishReason)
	require.NotNil(t, reply.Usage)
	assert.Equal(t, 1, reply.Usage.OutputTokens)

	assert.JSONEq(t, `{"model":"deep-yoda","messages":[
		{"role":"user","content":"one"},
		{"role":"assistant","content":"two"},
		{"role":"user","content":"three"}
	]}`, string(srv.Last(t).Body))
}

func TestCompletionWithRoom(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, api.PathChatCompletions, apitest.JSON(http.StatusOK, map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "Next?"}, "finish_reason": "stop"}},
	}))

	r := NewResponder(newClient(srv), Route{Model: "deep-yoda"}, WithRoom("room-9"))
	_, err := r.Respond(context.Background(), []session.Message{{Role: session.RoleUser, Content: "answer"}})
	require.NoError(t, err)

	var body map[string]any
	srv.Last(t).Decode(t, &body)
	assert.Equal(t, "room-9", body["room_id"])
}

func TestCompletionWithoutChoicesIsAPIError(t *testing.T) {
	srv := apitest.New(t)
	srv.Handle(http.MethodPost, api.PathChatCompletions, apitest.JSON(http.StatusOK, map[string]any{"choices": []any{}}))

	r := NewResponder(newClient(srv), Route{Model: "deep-yoda"})
	_, err := r.Respond(context.Background(), []session.Message{{Role: session.RoleUser, Content: "hi"}})
	assert.True(t, clierr.Is(err, clierr.KindAPI))
}
