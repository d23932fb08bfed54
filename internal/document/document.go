// Package document loads training text from a file or stdin. Binary input is
// rejected and [[path]] references are replaced with the referenced files.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/deepself/deepself-cli/internal/clierr"
)

// MaxSize caps a document and each included file
const MaxSize = 5 * 1024 * 1024

// Stdin names documents read from standard input
const Stdin = "<stdin>"

// Document is loaded training text
type Document struct {
	Source   string
	Text     string
	Includes []Include
}

// Tokens is a rough token estimate for the whole text
func (d *Document) Tokens() int {
	return estimateTokens(d.Text)
}

// Options controls loading
type Options struct {
	// Expand replaces [[path]] references
	Expand bool
	// BaseDir resolves relative references; defaults to the document's directory
	BaseDir string
}

// FromFile loads a document from path
func FromFile(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierr.Usage("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open '%s': %w", path, err)
	}
	defer f.Close()

	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}
	return FromReader(f, path, opts)
}

// FromReader loads a document from r. name labels it in errors.
func FromReader(r io.Reader, name string, opts Options) (*Document, error) {
	data, err := readLimited(r, name)
	if err != nil {
		return nil, err
	}
	if enry.IsBinary(data) {
		return nil, clierr.Usage("%s looks like a binary file; training needs text", name)
	}

	doc := &Document{Source: name, Text: Normalize(string(data))}
	if opts.Expand {
		if opts.BaseDir == "" {
			opts.BaseDir = "."
		}
		text, includes, err := expandReferences(doc.Text, opts.BaseDir)
		if err != nil {
			return nil, err
		}
		doc.Text = Normalize(text)
		doc.Includes = includes
	}

	if doc.Text == "" {
		return nil, clierr.Usage("No text provided for training")
	}
	return doc, nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Normalize unifies line endings, collapses runs of blank lines and trims
// trailing whitespace from each line
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")

	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > MaxSize {
		return nil, clierr.Usage("%s is larger than %d MB", name, MaxSize/(1024*1024))
	}
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), nil
}

// Rough approximation, four characters per token
func estimateTokens(s string) int {
	return len(s) / 4
}
