// Package docx extracts text from DOCX documents.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/reliefkit/kbcat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// maxParagraphs bounds how deep extraction reads; the metadata of
// interest sits in the opening pages.
const maxParagraphs = 20

// Extractor pulls text from DOCX files. A DOCX is a ZIP archive whose
// visible text lives in word/document.xml.
type Extractor struct{}

// New creates a DOCX text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions handled.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract returns at most limit characters of text from the first
// paragraphs of the document.
func (e *Extractor) Extract(ctx context.Context, path string, limit int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer reader.Close()

	content, err := documentXMLBytes(&reader.Reader)
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", nil
	}

	text := parseDocumentXML(content)
	if limit > 0 {
		// Rune-counted so the cut never splits a multi-byte character.
		if runes := []rune(text); len(runes) > limit {
			text = string(runes[:limit])
		}
	}
	return text, nil
}

// documentXMLBytes reads word/document.xml from the archive.
// Returns nil without error when the part is absent.
func documentXMLBytes(reader *zip.Reader) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open document part: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read document part: %w", err)
		}
		return content, nil
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML,
// limited to the leading paragraphs.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i >= maxParagraphs {
			break
		}
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				result.WriteString(t.Content)
			}
		}
	}
	return strings.TrimSpace(result.String())
}
