// Package source resolves where the prompt prose comes from.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PromptSource yields the raw prose for a render run.
type PromptSource interface {
	Text() (string, error)
	Close() error
}

// Resolve picks an implementation for the given input: "-" reads stdin,
// *.pdf extracts text through MuPDF, anything else is read as plain text.
func Resolve(input string) (PromptSource, error) {
	switch {
	case input == "-":
		return &StdinSource{}, nil
	case strings.HasSuffix(strings.ToLower(input), ".pdf"):
		return NewPDFSource(input)
	default:
		return &FileSource{path: input}, nil
	}
}

// InlineSource wraps prose passed directly on the command line.
type InlineSource struct {
	text string
}

func NewInline(text string) *InlineSource {
	return &InlineSource{text: text}
}

func (s *InlineSource) Text() (string, error) { return s.text, nil }
func (s *InlineSource) Close() error          { return nil }

// FileSource reads a plain text or markdown file.
type FileSource struct {
	path string
}

func (s *FileSource) Text() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", s.path, err)
	}
	return string(data), nil
}

func (s *FileSource) Close() error { return nil }

// StdinSource reads the whole of standard input.
type StdinSource struct{}

func (s *StdinSource) Text() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func (s *StdinSource) Close() error { return nil }
