package session

import (
	"fmt"
	"os"
	"strings"
)

// Transcript renders a conversation as markdown, one numbered section per
// message. Assistant replies are fenced so their own markdown survives.
func Transcript(title string, messages []Message) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n", title)
	}

	for i, m := range messages {
		switch m.Role {
		case RoleAssistant:
			fmt.Fprintf(&b, "\n## [%d] AI\n\n````markdown\n%s\n````\n", i+1, strings.TrimSpace(m.Content))
		case RoleSystem:
			fmt.Fprintf(&b, "\n## [%d] System\n\n%s\n", i+1, strings.TrimSpace(m.Content))
		default:
			fmt.Fprintf(&b, "\n## [%d] Human\n\n%s\n", i+1, strings.TrimSpace(m.Content))
		}
	}
	return b.String()
}

// WriteTranscript saves a conversation to path
func WriteTranscript(path, title string, messages []Message) error {
	if err := WriteAtomic(path, []byte(Transcript(title, messages))); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// WriteAtomic writes content to file atomically
func WriteAtomic(path string, content []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
