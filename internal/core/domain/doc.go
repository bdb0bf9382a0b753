// Package domain defines the core business entities for kbcat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entry: One catalog row describing a knowledge-base document
//   - Metadata: The nine descriptive fields resolved per document
//   - ChangeSet: New and deleted paths relative to the catalog
//   - SyncRun: The durable record of one synchronisation run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
