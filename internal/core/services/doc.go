// Package services implements the catalog engine: checksumming, change
// detection, metadata resolution (oracle-backed with a deterministic
// heuristic fallback), classification, identifier generation and the
// synchroniser that merges per-document results into the catalog.
package services
