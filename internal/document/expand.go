package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/deepself/deepself-cli/internal/clierr"
)

// Include records one expanded reference
type Include struct {
	Path    string
	Tokens  int
	Skipped string // reason the file was left out, empty when included
}

var referencePattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// expandReferences replaces [[file]] with the file's text and [[dir/]] with
// every text file directly inside dir. Included text is not scanned again.
func expandReferences(content, baseDir string) (string, []Include, error) {
	matches := referencePattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil, nil
	}

	var b strings.Builder
	var includes []Include
	last := 0

	for _, m := range matches {
		b.WriteString(content[last:m[0]])
		last = m[1]

		ref := strings.TrimSpace(content[m[2]:m[3]])
		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		var (
			text string
			incs []Include
			err  error
		)
		if strings.HasSuffix(ref, "/") {
			text, incs, err = expandDirectory(path, ref)
		} else {
			var inc Include
			text, inc, err = expandFile(path, ref)
			incs = []Include{inc}
		}
		if err != nil {
			return "", nil, err
		}

		b.WriteString(text)
		includes = append(includes, incs...)
	}
	b.WriteString(content[last:])

	return b.String(), includes, nil
}

func expandFile(path, label string) (string, Include, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", Include{}, clierr.Usage("cannot find '%s' referenced in the document", label)
		}
		return "", Include{}, fmt.Errorf("failed to read '%s': %w", label, err)
	}
	if len(data) > MaxSize {
		return "", Include{Path: label, Skipped: "too large"}, nil
	}
	if enry.IsBinary(data) {
		return "", Include{Path: label, Skipped: "binary"}, nil
	}

	text := Normalize(string(data))
	return section(label, text), Include{Path: label, Tokens: estimateTokens(text)}, nil
}

func expandDirectory(dir, label string) (string, []Include, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, clierr.Usage("directory '%s' not found", label)
		}
		return "", nil, fmt.Errorf("failed to read directory '%s': %w", label, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var sections []string
	var includes []Include
	for _, name := range names {
		text, inc, err := expandFile(filepath.Join(dir, name), label+name)
		if err != nil {
			return "", nil, err
		}
		includes = append(includes, inc)
		if text != "" {
			sections = append(sections, text)
		}
	}

	if len(sections) == 0 {
		return "", nil, clierr.Usage("no text files in directory '%s'", label)
	}
	return strings.Join(sections, "\n\n"), includes, nil
}

// section fences code and data so the extractor keeps it verbatim; prose is
// inlined as-is
func section(label, text string) string {
	lang, fenced := languageHint(label)
	if !fenced {
		return text
	}
	return fmt.Sprintf("%s:\n```%s\n%s\n```", label, lang, text)
}

// Extensions that always hold prose and are inlined without a fence
var proseExtensions = map[string]bool{
	".txt":      true,
	".text":     true,
	".md":       true,
	".markdown": true,
	".mdx":      true,
	".rst":      true,
	".adoc":     true,
	".org":      true,
}

// languageHint names the fence language for a file and reports whether the
// file is code or data rather than prose or markup
func languageHint(path string) (string, bool) {
	if proseExtensions[strings.ToLower(filepath.Ext(path))] {
		return "", false
	}

	// Ambiguous matches (.txt is also "Adblock Filter List") are not trusted
	lang, safe := enry.GetLanguageByFilename(filepath.Base(path))
	if !safe {
		lang, safe = enry.GetLanguageByExtension(path)
	}
	if !safe || lang == "" {
		return "", false
	}

	switch enry.GetLanguageType(lang) {
	case enry.Programming, enry.Data:
	default:
		return "", false
	}

	hint := strings.ToLower(lang)
	switch hint {
	case "shell":
		hint = "bash"
	case "c++":
		hint = "cpp"
	case "c#":
		hint = "csharp"
	}
	return strings.ReplaceAll(hint, " ", ""), true
}
