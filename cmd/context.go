package cmd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/deepself/deepself-cli/internal/api"
	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/config"
	"github.com/deepself/deepself-cli/internal/credentials"
	"github.com/deepself/deepself-cli/internal/output"
	"github.com/deepself/deepself-cli/internal/prompt"
)

// Context carries what every command needs. Settings are resolved once before
// the command runs and never change afterwards.
type Context struct {
	context.Context

	Globals  Globals
	Out      *output.Printer
	Prompt   *prompt.Prompter
	Store    *credentials.Store
	Settings credentials.Settings
	Prefs    *config.Config

	PrefsPath   string
	HistoryPath string

	Stdin  io.Reader
	Getenv func(string) string
	Logger *slog.Logger

	httpClient *http.Client
	now        func() time.Time
}

// AuthClient returns a client for endpoints that need an API key
func (c *Context) AuthClient() (*api.Client, error) {
	if !c.Settings.Authenticated() {
		return nil, clierr.Auth("Not authenticated. Run: deepself login")
	}
	return c.ClientWithKey(c.Settings.APIKey), nil
}

// PublicClient returns a client that sends the key only when one is configured
func (c *Context) PublicClient() *api.Client {
	return c.ClientWithKey(c.Settings.APIKey)
}

// ClientWithKey returns a client bearing key, which may be a session token
func (c *Context) ClientWithKey(key string) *api.Client {
	return c.NewClient(key, c.Settings.BaseURL)
}

// NewClient returns a client for an explicit key and base URL
func (c *Context) NewClient(key, baseURL string) *api.Client {
	opts := []api.Option{api.WithLogger(c.Logger)}
	if c.httpClient != nil {
		opts = append(opts, api.WithHTTPClient(c.httpClient))
	}
	return api.New(key, baseURL, opts...)
}

// Now returns the current time
func (c *Context) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}
