package docx

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocx builds a minimal DOCX file containing the given paragraphs.
func writeDocx(t *testing.T, paragraphs ...string) string {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	part, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = part.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return path
}

func TestExtractor_Extract(t *testing.T) {
	ctx := context.Background()
	e := New()

	t.Run("reads paragraph text", func(t *testing.T) {
		path := writeDocx(t, "The Sphere Handbook", "Minimum standards in humanitarian response")

		text, err := e.Extract(ctx, path, 0)

		require.NoError(t, err)
		assert.Equal(t, "The Sphere Handbook\nMinimum standards in humanitarian response", text)
	})

	t.Run("stops after the leading paragraphs", func(t *testing.T) {
		paragraphs := make([]string, 30)
		for i := range paragraphs {
			paragraphs[i] = fmt.Sprintf("paragraph %d", i)
		}
		path := writeDocx(t, paragraphs...)

		text, err := e.Extract(ctx, path, 0)

		require.NoError(t, err)
		assert.Contains(t, text, "paragraph 19")
		assert.NotContains(t, text, "paragraph 20")
	})

	t.Run("respects the character limit", func(t *testing.T) {
		path := writeDocx(t, strings.Repeat("a", 200))

		text, err := e.Extract(ctx, path, 50)

		require.NoError(t, err)
		assert.Len(t, text, 50)
	})

	t.Run("limit counts runes, not bytes", func(t *testing.T) {
		path := writeDocx(t, strings.Repeat("é", 200))

		text, err := e.Extract(ctx, path, 50)

		require.NoError(t, err)
		assert.True(t, utf8.ValidString(text))
		assert.Equal(t, 50, utf8.RuneCountInString(text))
	})

	t.Run("missing document part yields empty text", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.docx")
		f, err := os.Create(path)
		require.NoError(t, err)
		zw := zip.NewWriter(f)
		require.NoError(t, zw.Close())
		require.NoError(t, f.Close())

		text, err := e.Extract(ctx, path, 0)

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("non-zip file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.docx")
		require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

		_, err := e.Extract(ctx, path, 0)

		assert.Error(t, err)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Extract(cancelled, writeDocx(t, "text"), 0)

		assert.Error(t, err)
	})
}

func TestExtractor_Extensions(t *testing.T) {
	assert.Equal(t, []string{".docx"}, New().Extensions())
}
