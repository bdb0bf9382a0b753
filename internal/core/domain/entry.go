package domain

// Entry represents one row of the knowledge-base catalog.
// All fields are strings: the catalog is persisted as a flat CSV table and
// rows loaded from disk must survive a copy-forward without reformatting,
// including manually maintained columns such as the licence fields.
type Entry struct {
	// DocID is the deterministic, human-readable document identifier.
	// It is unique per (sector, type, publisher, year) plus version; true
	// collisions are disambiguated manually through Version.
	DocID string

	// Title is the full document title.
	Title string

	// ShortTitle is an abbreviated title, at most 50 characters.
	ShortTitle string

	// Sector is the subject classification inferred from directory placement.
	Sector string

	// DocType is the document-type classification (standard, guideline, ...).
	DocType string

	// DocSource is "internal" or "external" depending on tree placement.
	DocSource string

	// Publisher is the issuing organisation.
	Publisher string

	// Year is the publication year as carried in the source metadata.
	Year string

	// Version disambiguates re-publications sharing a DocID stem.
	Version string

	// Language is the document language code (EN/FR/ES/AR).
	Language string

	// CountryScope is "Global", a region, or a specific country.
	CountryScope string

	// License, LicenseURL and Redistributable are maintained manually and
	// must be preserved verbatim across syncs.
	License         string
	LicenseURL      string
	Redistributable string

	// URL is an optional upstream location, maintained manually.
	URL string

	// FileName is the base name of the document on disk.
	FileName string

	// FilePath is the slash-separated path relative to the knowledge-base
	// root. It is the natural key matching catalog rows to documents.
	FilePath string

	// Checksum is the hex-encoded SHA-256 of the document bytes.
	Checksum string

	// EvidenceLevel qualifies the authority of the content
	// ("normative" when asserted by the model, "unknown" from heuristics).
	EvidenceLevel string

	// LastReviewed and NextReviewDue are bookkeeping dates (MM/DD/YY).
	LastReviewed  string
	NextReviewDue string

	// SupersedesDocID links to a replaced document, maintained manually.
	SupersedesDocID string

	// Notes carries the one-sentence summary of the document.
	Notes string

	// IndicatorsCovered lists key standards or metrics mentioned.
	IndicatorsCovered string

	// PageAnchors is reserved for manual page references.
	PageAnchors string

	// Embedding-pipeline placeholders, populated by a downstream stage.
	EmbeddingStatus string
	EmbeddingModel  string
	ChunkCount      string
	VectorIndexID   string
}

// Metadata holds the nine descriptive fields resolved for a document,
// either by the inference oracle or by filename heuristics. A resolver
// must never return a Metadata with an empty field.
type Metadata struct {
	Title             string `json:"title"`
	ShortTitle        string `json:"short_title"`
	Publisher         string `json:"publisher"`
	Year              string `json:"year"`
	Language          string `json:"language"`
	CountryScope      string `json:"country_scope"`
	Summary           string `json:"summary"`
	IndicatorsCovered string `json:"indicators_covered"`
	EvidenceLevel     string `json:"evidence_level"`
}

// Complete reports whether every descriptive field is populated.
func (m Metadata) Complete() bool {
	fields := []string{
		m.Title, m.ShortTitle, m.Publisher, m.Year, m.Language,
		m.CountryScope, m.Summary, m.IndicatorsCovered, m.EvidenceLevel,
	}
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}
