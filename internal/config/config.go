// Package config holds CLI preferences: how output is rendered and how
// interactive sessions behave. Credentials live in internal/credentials.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/deepself/deepself-cli/internal/credentials"
)

// Files inside the config directory
const (
	FileName    = "cli.toml"
	HistoryFile = "history"
)

// Output formats
const (
	OutputHuman = "human"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the CLI preferences
type Config struct {
	Version    int    `toml:"version" json:"version"`
	Output     string `toml:"output" json:"output"`
	Color      string `toml:"color" json:"color"`
	Markdown   bool   `toml:"markdown" json:"markdown"`
	MaxTokens  int    `toml:"max_tokens" json:"max_tokens"`
	UsageLimit int    `toml:"usage_limit" json:"usage_limit"`
	History    bool   `toml:"history" json:"history"`
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Version:    1,
		Output:     OutputHuman,
		Color:      ColorAuto,
		Markdown:   true,
		MaxTokens:  4096,
		UsageLimit: 20,
		History:    true,
	}
}

// LoadFile reads preferences from path. A missing file yields the defaults and
// is not created.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("failed to decode config: %w", err)
	}

	// Repair values a hand edit may have broken
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if !validOutput(cfg.Output) {
		cfg.Output = OutputHuman
	}
	if !validColor(cfg.Color) {
		cfg.Color = ColorAuto
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.UsageLimit < 1 || cfg.UsageLimit > 100 {
		cfg.UsageLimit = 20
	}

	return cfg, nil
}

// SaveFile writes preferences to path
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), credentials.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = ""
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the preferences file inside dir
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// HistoryPath returns the interactive input history inside dir
func HistoryPath(dir string) string {
	return filepath.Join(dir, HistoryFile)
}

// Keys lists the settable preference names in display order
func Keys() []string {
	return []string{"output", "color", "markdown", "max_tokens", "usage_limit", "history"}
}

// Get returns a preference as a string
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "output":
		return c.Output, nil
	case "color":
		return c.Color, nil
	case "markdown":
		return strconv.FormatBool(c.Markdown), nil
	case "max_tokens":
		return strconv.Itoa(c.MaxTokens), nil
	case "usage_limit":
		return strconv.Itoa(c.UsageLimit), nil
	case "history":
		return strconv.FormatBool(c.History), nil
	}
	return "", fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
}

// Set parses and validates value for key
func (c *Config) Set(key, value string) error {
	switch key {
	case "output":
		v := strings.ToLower(value)
		if !validOutput(v) {
			return fmt.Errorf("output must be human, json or yaml")
		}
		c.Output = v
	case "color":
		v := strings.ToLower(value)
		if !validColor(v) {
			return fmt.Errorf("color must be auto, always or never")
		}
		c.Color = v
	case "markdown":
		b, err := ParseSwitch(value)
		if err != nil {
			return err
		}
		c.Markdown = b
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("max_tokens must be a positive integer")
		}
		c.MaxTokens = n
	case "usage_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			return fmt.Errorf("usage_limit must be between 1 and 100")
		}
		c.UsageLimit = n
	case "history":
		b, err := ParseSwitch(value)
		if err != nil {
			return err
		}
		c.History = b
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// ParseSwitch accepts on/off style booleans
func ParseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q: use on/off or true/false", value)
}

func validOutput(s string) bool {
	return s == OutputHuman || s == OutputJSON || s == OutputYAML
}

func validColor(s string) bool {
	return s == ColorAuto || s == ColorAlways || s == ColorNever
}
