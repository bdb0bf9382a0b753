package driven

import "context"

// LLMService is the inference oracle used for metadata extraction.
// A single completion call is the whole contract: retries, parsing and
// fallback policy are the resolver's concern, not the adapter's.
//
// Implementations may include:
//   - Ollama (local models)
//   - any endpoint speaking the Ollama generate API
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	// Used at startup to verify connectivity before any document work.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
// The resolver requests deterministic decoding (low temperature).
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// TopP is the nucleus sampling cutoff.
	TopP float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
