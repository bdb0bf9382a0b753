// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the inference oracle, text extraction,
// catalog persistence, run journalling, configuration and prompts.
//
// Services in internal/core/services depend on these interfaces only;
// concrete implementations live under internal/adapters/driven.
package driven
