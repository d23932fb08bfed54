package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/session"
)

func newPrinter(opts Options) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	opts.Color = "never"
	p := New(&out, &errOut, opts)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p, &out, &errOut
}

func TestResultJSONEnvelope(t *testing.T) {
	p, out, _ := newPrinter(Options{Format: JSON, Command: "models.list"})

	called := false
	err := p.Result(map[string]string{"id": "deep-bot"}, func() { called = true })
	require.NoError(t, err)
	assert.False(t, called)

	assert.JSONEq(t, `{
		"status": "ok",
		"command": "models.list",
		"data": {"id": "deep-bot"},
		"timestamp": "2026-03-01T12:00:00Z"
	}`, out.String())
}

func TestResultYAMLEnvelope(t *testing.T) {
	p, out, _ := newPrinter(Options{Format: YAML, Command: "billing.balance"})

	type balance struct {
		BalanceUSD float64 `json:"balance_usd"`
	}
	require.NoError(t, p.Result(balance{BalanceUSD: 12.5}, nil))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "ok", decoded["status"])
	assert.Equal(t, "billing.balance", decoded["command"])
	assert.Equal(t, map[string]any{"balance_usd": 12.5}, decoded["data"])
}

func TestResultHumanCallsRenderer(t *testing.T) {
	p, out, _ := newPrinter(Options{})

	require.NoError(t, p.Result("ignored", func() { p.Labeled("Model", "deep-bot") }))
	assert.Equal(t, "Model: deep-bot\n", out.String())
}

func TestResultQuietHuman(t *testing.T) {
	p, out, _ := newPrinter(Options{Quiet: true})

	require.NoError(t, p.Result("ignored", func() { p.Labeled("Model", "deep-bot") }))
	assert.Empty(t, out.String())
}

func TestErrorEnvelope(t *testing.T) {
	p, out, errOut := newPrinter(Options{Format: JSON, Command: "models.get"})

	p.Error(clierr.NotFound("Resource not found"))

	var env Envelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "models.get", env.Command)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Resource not found", env.Error.Message)
	assert.Nil(t, env.Data)
	assert.Empty(t, errOut.String())
}

func TestErrorEnvelopeUsesServerCode(t *testing.T) {
	p, out, _ := newPrinter(Options{Format: JSON})
	p.Error(clierr.API("quota exceeded", 402, "quota"))
	assert.Contains(t, out.String(), `"code": "quota"`)

	out.Reset()
	p.Error(errors.New("plain"))
	assert.Contains(t, out.String(), `"code": "ERROR"`)
}

func TestErrorHuman(t *testing.T) {
	p, out, errOut := newPrinter(Options{})

	p.Error(clierr.API("username taken", 422, "conflict"))
	assert.Empty(t, out.String())
	assert.Equal(t, "✗ API Error: username taken\n  Status: 422\n  Code: conflict\n", errOut.String())

	errOut.Reset()
	p.Error(clierr.Usage("--label is required"))
	assert.Equal(t, "✗ Usage Error: --label is required\n", errOut.String())
}

func TestQuietSuppressesMessages(t *testing.T) {
	p, out, errOut := newPrinter(Options{Quiet: true})

	p.Success("saved")
	p.Info("hint")
	p.Blank()
	p.Warn("careful")
	assert.Empty(t, out.String())
	assert.Equal(t, "⚠ careful\n", errOut.String())
}

func TestMachineModeKeepsStdoutClean(t *testing.T) {
	p, out, _ := newPrinter(Options{Format: JSON})
	p.Success("saved")
	p.Info("hint")
	assert.Empty(t, out.String())
}

func TestTable(t *testing.T) {
	p, out, _ := newPrinter(Options{})
	p.Table([]string{"ID", "Name"}, [][]string{{"deep-bot", "Bot"}, {"deep-yoda", "<none>"}})

	s := out.String()
	assert.Contains(t, s, "ID")
	assert.Contains(t, s, "deep-yoda")
	assert.Contains(t, s, "<none>")
	assert.NotContains(t, s, "\x1b[")
}

func TestPairsAlign(t *testing.T) {
	p, out, _ := newPrinter(Options{})
	p.Pairs([]Pair{{"ID", "deep-bot"}, {"Owner", "me"}})
	assert.Equal(t, "ID:    deep-bot\nOwner: me\n", out.String())
}

func TestMarkdownPlainWithoutColor(t *testing.T) {
	p, _, _ := newPrinter(Options{Markdown: true})
	assert.Equal(t, "**bold**", p.Markdown("**bold**"))
}

func TestConversationJSON(t *testing.T) {
	p, out, _ := newPrinter(Options{Format: JSON, Command: "chat"})
	p.Conversation().Assistant(session.Reply{
		Message:      session.Message{Role: session.RoleAssistant, Content: "hi"},
		FinishReason: "stop",
	})

	var env struct {
		Data session.Reply `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, "hi", env.Data.Message.Content)
}

func TestConversationHuman(t *testing.T) {
	p, out, _ := newPrinter(Options{})
	p.Conversation().Assistant(session.Reply{
		Message: session.Message{Role: session.RoleAssistant, Content: "hi"},
		Usage:   &session.Usage{InputTokens: 1200, OutputTokens: 3},
	})
	assert.Equal(t, "Assistant: hi\n  1,200 in / 3 out tokens\n", out.String())
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "2024-01-02 03:04", Date(time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC).Unix()))
	assert.Equal(t, None, Date(0))
	assert.Equal(t, "2024-01-02 03:04", DateString("2024-01-02T03:04:05Z"))
	assert.Equal(t, "soon", DateString("soon"))
	assert.Equal(t, "never", Ago(nil))
	assert.Equal(t, "1,234,567", Count(1234567))
	assert.Equal(t, "$1,234.50", USD(1234.5))
	assert.Equal(t, "-$2.00", USD(-2))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	_, err = ParseFormat("xml")
	assert.True(t, clierr.Is(err, clierr.KindUsage))
}
