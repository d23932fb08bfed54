package cmd

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/deepself/deepself-cli/internal/clierr"
)

const (
	maxUsernameLength = 64
	maxModelIDLength  = 128
)

var usernamePattern = regexp.MustCompile(`^deep-[a-z0-9][a-z0-9-]*$`)

// validateUsername checks a new model's username before any request is made
func validateUsername(name string) error {
	if !strings.HasPrefix(name, "deep-") {
		return clierr.Usage("Username must start with \"deep-\" (got %q)", name)
	}
	if len(name) > maxUsernameLength {
		return clierr.Usage("Username must be at most %d characters", maxUsernameLength)
	}
	if !usernamePattern.MatchString(name) {
		return clierr.Usage("Invalid username %q: use lowercase letters, digits and hyphens after \"deep-\"", name)
	}
	return nil
}

// validateID checks an identifier that becomes a path segment
func validateID(kind, id string) error {
	if id == "" {
		return clierr.Usage("%s is required", kind)
	}
	if len(id) > maxModelIDLength {
		return clierr.Usage("%s must be at most %d characters", kind, maxModelIDLength)
	}
	if strings.ContainsRune(id, '/') || strings.IndexFunc(id, unicode.IsSpace) >= 0 {
		return clierr.Usage("Invalid %s %q: must not contain '/' or whitespace", strings.ToLower(kind), id)
	}
	return nil
}

// parseFacts turns repeated "key:value" flags into a map
func parseFacts(facts []string) (map[string]string, error) {
	if len(facts) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(facts))
	for _, f := range facts {
		key, value, found := strings.Cut(f, ":")
		if !found {
			return nil, clierr.Usage("Invalid fact format: %q. Expected format: \"key:value\"", f)
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" || value == "" {
			return nil, clierr.Usage("Invalid fact format: %q. Both key and value are required.", f)
		}
		out[key] = value
	}
	return out, nil
}

// usageError reclassifies a local validation failure
func usageError(err error) error {
	return clierr.Usage("%s", err.Error())
}
