package services

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

// DefaultExtensions lists the document container formats eligible for
// cataloging.
var DefaultExtensions = []string{".pdf", ".docx"}

// ChangeDetector diffs the on-disk document set against the catalog.
type ChangeDetector struct {
	root       string
	extensions map[string]bool
	exclude    map[string]bool
}

// NewChangeDetector creates a detector rooted at the knowledge base.
// extensions is the eligible-extension whitelist (DefaultExtensions
// when empty); excludePaths are root-relative slash paths that are
// never eligible (typically the catalog file itself).
func NewChangeDetector(root string, extensions []string, excludePaths ...string) *ChangeDetector {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[strings.ToLower(e)] = true
	}
	exclude := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		exclude[filepath.ToSlash(p)] = true
	}
	return &ChangeDetector{root: root, extensions: extSet, exclude: exclude}
}

// CurrentPaths walks the knowledge base and returns the sorted set of
// eligible document paths, slash-separated and relative to the root.
// Hidden files and directories are skipped.
func (d *ChangeDetector) CurrentPaths() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if path != d.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !d.extensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.exclude[rel] {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk knowledge base: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Detect computes the set difference between the current filesystem
// state and the cataloged paths. Files present in both sets are not
// reported: change-within-path detection is the synchroniser's job,
// via checksum comparison during per-document processing.
func (d *ChangeDetector) Detect(cataloged []string) (domain.ChangeSet, error) {
	current, err := d.CurrentPaths()
	if err != nil {
		return domain.ChangeSet{}, err
	}

	currentSet := make(map[string]bool, len(current))
	for _, p := range current {
		currentSet[p] = true
	}
	catalogedSet := make(map[string]bool, len(cataloged))
	for _, p := range cataloged {
		catalogedSet[p] = true
	}

	var changes domain.ChangeSet
	for _, p := range current {
		if !catalogedSet[p] {
			changes.New = append(changes.New, p)
		}
	}
	for _, p := range cataloged {
		if !currentSet[p] {
			changes.Deleted = append(changes.Deleted, p)
		}
	}
	sort.Strings(changes.Deleted)
	return changes, nil
}
