package driven

import "context"

// TextExtractor pulls a bounded prefix of visible text out of one
// document container format (PDF, DOCX, ...).
type TextExtractor interface {
	// Extensions returns the lowercased file extensions handled,
	// including the leading dot.
	Extensions() []string

	// Extract returns at most limit characters of text from the file.
	// An empty string with a nil error means the file was readable but
	// yielded no text.
	Extract(ctx context.Context, path string, limit int) (string, error)
}

// Extractor dispatches to a TextExtractor by file extension.
// Returns domain.ErrUnsupportedFormat for unregistered extensions.
type Extractor interface {
	// Extract returns at most limit characters of text from the file.
	Extract(ctx context.Context, path string, limit int) (string, error)

	// Supported reports whether a registered extractor handles the path.
	Supported(path string) bool
}
