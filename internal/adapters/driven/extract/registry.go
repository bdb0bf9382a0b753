// Package extract dispatches document text extraction by file extension.
// Format-specific extractors live in subpackages (pdf, docx).
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/reliefkit/kbcat/internal/core/domain"
	"github.com/reliefkit/kbcat/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.Extractor = (*Registry)(nil)

// Registry routes extraction requests to the extractor registered for
// the file's extension.
type Registry struct {
	byExt map[string]driven.TextExtractor
}

// NewRegistry creates a registry over the given extractors.
// Later registrations win on extension conflicts.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	byExt := make(map[string]driven.TextExtractor)
	for _, ex := range extractors {
		for _, ext := range ex.Extensions() {
			byExt[strings.ToLower(ext)] = ex
		}
	}
	return &Registry{byExt: byExt}
}

// Extract returns at most limit characters of text from the file.
func (r *Registry) Extract(ctx context.Context, path string, limit int) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := r.byExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
	return extractor.Extract(ctx, path, limit)
}

// Supported reports whether a registered extractor handles the path.
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}
