package cmd

import (
	"strings"

	"github.com/deepself/deepself-cli/internal/clierr"
	"github.com/deepself/deepself-cli/internal/credentials"
	"github.com/deepself/deepself-cli/internal/output"
)

// LoginCmd verifies and saves an API key
type LoginCmd struct {
	APIKey  string `arg:"" optional:"" name:"api-key" help:"API key (prompted for when omitted)"`
	BaseURL string `name:"base-url" placeholder:"URL" help:"API base URL to save with the key"`
}

type loginResult struct {
	Success bool   `json:"success"`
	BaseURL string `json:"baseURL,omitempty"`
}

// Run executes the login command
func (c *LoginCmd) Run(ctx *Context) error {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		entered, err := ctx.Prompt.Password("Enter your Deepself API key:")
		if err != nil {
			return err
		}
		key = entered
	}
	if key == "" {
		return clierr.Auth("API key is required")
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = ctx.Getenv(credentials.EnvBaseURL)
	}
	verifyURL := baseURL
	if verifyURL == "" {
		verifyURL = ctx.Settings.BaseURL
	}

	// Any failure here means the key cannot be used
	if _, err := ctx.NewClient(key, verifyURL).ListModels(ctx); err != nil {
		ctx.Logger.Debug("key verification failed", "error", err)
		return clierr.Auth("Invalid API key. Please check your key and try again.")
	}

	if err := ctx.Store.Save(credentials.Credentials{APIKey: key, BaseURL: baseURL}); err != nil {
		return err
	}

	return ctx.Out.Result(loginResult{Success: true, BaseURL: baseURL}, func() {
		ctx.Out.Success("Successfully authenticated!")
		ctx.Out.Info("Your API key has been saved to %s", ctx.Store.Path)
	})
}

// LogoutCmd removes the saved credentials
type LogoutCmd struct{}

// Run executes the logout command
func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.Store.Delete(); err != nil {
		return err
	}

	return ctx.Out.Result(loginResult{Success: true}, func() {
		ctx.Out.Success("Successfully logged out")
		ctx.Out.Info("Your API key has been removed from %s", ctx.Store.Path)
		if ctx.Getenv(credentials.EnvAPIKey) != "" {
			ctx.Out.Warn("%s is still set in the environment", credentials.EnvAPIKey)
		}
	})
}

// ConfigCmd shows the resolved credentials
type ConfigCmd struct{}

type configResult struct {
	APIKey        string             `json:"apiKey,omitempty"`
	BaseURL       string             `json:"baseURL"`
	Authenticated bool               `json:"authenticated"`
	KeySource     credentials.Source `json:"apiKeySource"`
	URLSource     credentials.Source `json:"baseURLSource"`
}

// Run executes the config command
func (c *ConfigCmd) Run(ctx *Context) error {
	s := ctx.Settings
	result := configResult{
		BaseURL:       s.BaseURL,
		Authenticated: s.Authenticated(),
		KeySource:     s.KeySource,
		URLSource:     s.URLSource,
	}
	if s.Authenticated() {
		result.APIKey = credentials.MaskKey(s.APIKey)
	}
	if result.BaseURL == "" {
		result.BaseURL = "<using default>"
	}

	return ctx.Out.Result(result, func() {
		key := result.APIKey
		if key == "" {
			key = "<not set>"
		}
		yesNo := "No"
		if result.Authenticated {
			yesNo = "Yes"
		}
		ctx.Out.Pairs([]output.Pair{
			{Key: "API Key", Value: key + " (" + string(s.KeySource) + ")"},
			{Key: "Base URL", Value: result.BaseURL + " (" + string(s.URLSource) + ")"},
			{Key: "Authenticated", Value: yesNo},
		})
		if !result.Authenticated {
			ctx.Out.Blank()
			ctx.Out.Info("Run \"deepself login\" to authenticate")
		}
	})
}
