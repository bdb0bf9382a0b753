package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a document container format with no
	// registered text extractor.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrOracleUnavailable indicates the inference service cannot be
	// reached. Detected at startup as a precondition, never raised
	// per document.
	ErrOracleUnavailable = errors.New("inference service unavailable")

	// ErrCatalogWrite indicates the catalog could not be persisted.
	// The catalog is the sole durable state, so the run is failed.
	ErrCatalogWrite = errors.New("catalog write failed")
)
