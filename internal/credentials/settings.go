package credentials

// Source records where a resolved value came from
type Source string

const (
	SourceEnv     Source = "environment"
	SourceFile    Source = "config file"
	SourceDefault Source = "default"
	SourceUnset   Source = "not set"
)

// Settings is the credential state resolved once at process start
type Settings struct {
	APIKey    string
	BaseURL   string // empty means the transport's built-in default
	KeySource Source
	URLSource Source
}

// Authenticated reports whether an API key was resolved
func (s Settings) Authenticated() bool {
	return s.APIKey != ""
}

// Resolve applies env > file > default precedence to both values
func (s *Store) Resolve() Settings {
	file := s.Load()
	settings := Settings{KeySource: SourceUnset, URLSource: SourceDefault}

	switch {
	case s.getenv(EnvAPIKey) != "":
		settings.APIKey = s.getenv(EnvAPIKey)
		settings.KeySource = SourceEnv
	case file.APIKey != "":
		settings.APIKey = file.APIKey
		settings.KeySource = SourceFile
	}

	switch {
	case s.getenv(EnvBaseURL) != "":
		settings.BaseURL = s.getenv(EnvBaseURL)
		settings.URLSource = SourceEnv
	case file.BaseURL != "":
		settings.BaseURL = file.BaseURL
		settings.URLSource = SourceFile
	}

	return settings
}

// MaskKey shows the first 8 and last 4 characters of a key
func MaskKey(key string) string {
	if len(key) < 12 {
		return "***"
	}
	return key[:8] + "..." + key[len(key)-4:]
}
