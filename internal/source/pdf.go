package source

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDFSource extracts prompt prose from a PDF via MuPDF. Pages are joined
// with newlines, so each page's sentences segment into scenes naturally.
type PDFSource struct {
	doc  *fitz.Document
	path string
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDFSource{doc: doc, path: path}, nil
}

func (s *PDFSource) Text() (string, error) {
	var pages []string
	for i := 0; i < s.doc.NumPage(); i++ {
		text, err := s.doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("extract text from page %d of %s: %w", i+1, s.path, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
