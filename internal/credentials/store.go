// Package credentials persists the API key and base URL and resolves them
// against environment overrides.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Environment variables that take precedence over the persisted file
const (
	EnvAPIKey    = "DEEPSELF_API_KEY"
	EnvBaseURL   = "DEEPSELF_API_BASE_URL"
	EnvConfigDir = "DEEPSELF_CONFIG_DIR"
)

// Permissions for the credential directory and file
const (
	DirMode  os.FileMode = 0o700
	FileMode os.FileMode = 0o600
)

// FileName is the credential file inside the config directory
const FileName = "config.json"

// Credentials is the persisted record. Empty fields are absent.
type Credentials struct {
	APIKey  string `json:"apiKey,omitempty"`
	BaseURL string `json:"baseURL,omitempty"`
}

// Store reads and writes the credential file
type Store struct {
	Path   string
	Getenv func(string) string
	Logger *slog.Logger
}

// NewStore creates a store for the credential file inside dir
func NewStore(dir string) *Store {
	return &Store{
		Path:   filepath.Join(dir, FileName),
		Getenv: os.Getenv,
		Logger: slog.Default(),
	}
}

// Dir returns the per-user config directory, ~/.deepself unless overridden
func Dir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".deepself")
}

// Load reads the persisted record. A missing or unreadable file yields an empty record.
func (s *Store) Load() Credentials {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger().Warn("could not read credential file", "path", s.Path, "error", err)
		}
		return Credentials{}
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		s.logger().Warn("could not parse credential file", "path", s.Path, "error", err)
		return Credentials{}
	}
	return creds
}

// APIKey returns the effective API key. The environment wins over the file.
func (s *Store) APIKey() string {
	if key := s.getenv(EnvAPIKey); key != "" {
		return key
	}
	return s.Load().APIKey
}

// BaseURL returns the effective base URL, or "" when the built-in default applies
func (s *Store) BaseURL() string {
	if url := s.getenv(EnvBaseURL); url != "" {
		return url
	}
	return s.Load().BaseURL
}

// IsAuthenticated reports whether an API key resolves
func (s *Store) IsAuthenticated() bool {
	return s.APIKey() != ""
}

// Save merges the non-empty fields of update into the persisted record
func (s *Store) Save(update Credentials) error {
	creds := s.Load()
	if update.APIKey != "" {
		creds.APIKey = update.APIKey
	}
	if update.BaseURL != "" {
		creds.BaseURL = update.BaseURL
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	data = append(data, '\n')

	if err := writeAtomic(s.Path, data, FileMode); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}

// Delete removes the persisted file. A missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	return nil
}

func (s *Store) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}

func (s *Store) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// writeAtomic replaces path as a whole so readers never see a partial file
func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, perm); err != nil {
		return err
	}
	// WriteFile keeps the mode of a leftover temp file
	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
