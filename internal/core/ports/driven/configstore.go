package driven

// ConfigStore persists user configuration as key-value pairs.
// Keys are dotted strings ("ollama.url", "sync.max_retries").
type ConfigStore interface {
	// Get retrieves a raw value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, empty if absent or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value, zero if absent or mistyped.
	GetInt(key string) int

	// GetBool retrieves a boolean value, false if absent or mistyped.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice value, nil if absent.
	GetStringSlice(key string) []string

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Load re-reads configuration from the backing store.
	Load() error
}
