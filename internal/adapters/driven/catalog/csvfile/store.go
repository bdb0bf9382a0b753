// Package csvfile persists the catalog as a CSV table with a fixed,
// ordered column schema. The column order is a compatibility contract
// shared with downstream tooling and must never change.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/reliefkit/kbcat/internal/core/domain"
	"github.com/reliefkit/kbcat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CatalogStore = (*Store)(nil)

// columns is the persisted column order. Appending a column is a
// schema migration for every catalog consumer; do not reorder.
var columns = []string{
	"doc_id", "title", "short_title", "sector", "doc_type", "doc_source",
	"publisher", "year", "version", "language", "country_scope",
	"license", "license_url", "redistributable", "url", "file_name",
	"file_path", "checksum_sha256", "evidence_level", "last_reviewed",
	"next_review_due", "supersedes_doc_id", "notes", "indicators_covered",
	"page_anchors", "embedding_status", "embedding_model", "chunk_count",
	"vector_index_id",
}

// Store reads and writes the catalog CSV.
type Store struct {
	path string
}

// New creates a catalog store at the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads all entries in file order. A missing catalog file yields
// an empty slice: first runs start from nothing.
func (s *Store) Load(_ context.Context) ([]domain.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	// Columns are located by name so a catalog written by an older
	// schema still loads; missing columns read as empty.
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var entries []domain.Entry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		entries = append(entries, fromRecord(record, index))
	}
	return entries, nil
}

// Save atomically replaces the catalog: the table is written to a
// temporary file in the same directory and renamed over the target, so
// a crash mid-write never leaves a partially written catalog.
func (s *Store) Save(_ context.Context, entries []domain.Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".kb_catalog-*.csv")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write catalog header: %w", err)
	}
	for i := range entries {
		if err := writer.Write(toRecord(&entries[i])); err != nil {
			tmp.Close()
			return fmt.Errorf("write catalog row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp catalog: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// toRecord serialises an entry in column order.
func toRecord(e *domain.Entry) []string {
	return []string{
		e.DocID, e.Title, e.ShortTitle, e.Sector, e.DocType, e.DocSource,
		e.Publisher, e.Year, e.Version, e.Language, e.CountryScope,
		e.License, e.LicenseURL, e.Redistributable, e.URL, e.FileName,
		e.FilePath, e.Checksum, e.EvidenceLevel, e.LastReviewed,
		e.NextReviewDue, e.SupersedesDocID, e.Notes, e.IndicatorsCovered,
		e.PageAnchors, e.EmbeddingStatus, e.EmbeddingModel, e.ChunkCount,
		e.VectorIndexID,
	}
}

// fromRecord deserialises a row using the header index.
func fromRecord(record []string, index map[string]int) domain.Entry {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return domain.Entry{
		DocID:             field("doc_id"),
		Title:             field("title"),
		ShortTitle:        field("short_title"),
		Sector:            field("sector"),
		DocType:           field("doc_type"),
		DocSource:         field("doc_source"),
		Publisher:         field("publisher"),
		Year:              field("year"),
		Version:           field("version"),
		Language:          field("language"),
		CountryScope:      field("country_scope"),
		License:           field("license"),
		LicenseURL:        field("license_url"),
		Redistributable:   field("redistributable"),
		URL:               field("url"),
		FileName:          field("file_name"),
		FilePath:          field("file_path"),
		Checksum:          field("checksum_sha256"),
		EvidenceLevel:     field("evidence_level"),
		LastReviewed:      field("last_reviewed"),
		NextReviewDue:     field("next_review_due"),
		SupersedesDocID:   field("supersedes_doc_id"),
		Notes:             field("notes"),
		IndicatorsCovered: field("indicators_covered"),
		PageAnchors:       field("page_anchors"),
		EmbeddingStatus:   field("embedding_status"),
		EmbeddingModel:    field("embedding_model"),
		ChunkCount:        field("chunk_count"),
		VectorIndexID:     field("vector_index_id"),
	}
}
