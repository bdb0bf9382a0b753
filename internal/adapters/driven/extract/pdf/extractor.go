// Package pdf extracts text from PDF documents.
package pdf

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/reliefkit/kbcat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// maxPages bounds how deep extraction reads. Title, publisher and
// scope information live in the front matter; reading further only
// slows large documents down.
const maxPages = 5

// Extractor pulls text from PDF files.
type Extractor struct{}

// New creates a PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions handled.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract returns at most limit characters of text from the first
// pages of the PDF.
func (e *Extractor) Extract(ctx context.Context, path string, limit int) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := reader.NumPage()
	if pages > maxPages {
		pages = maxPages
	}

	var text string
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single damaged page should not discard the rest.
			continue
		}
		text += content
		if limit > 0 && len(text) >= limit {
			break
		}
	}

	if limit > 0 {
		// Rune-counted so the cut never splits a multi-byte character.
		if runes := []rune(text); len(runes) > limit {
			text = string(runes[:limit])
		}
	}
	return text, nil
}
