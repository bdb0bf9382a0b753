package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reliefkit/kbcat/internal/core/ports/driven"
	"github.com/reliefkit/kbcat/internal/core/services"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk,
// falling back to embedded defaults.
//
// The store uses lazy initialisation - files are only created when
// first accessed, not in the constructor. This makes testing easier
// and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts. These are used when
// user files don't exist and as the initial content for new files.
var defaultPrompts = map[string]string{
	driven.PromptExtractMetadata: services.DefaultExtractPrompt,
}

// NewPromptStore creates a file-based prompt store.
// If promptDir is empty, defaults to ~/.kbcat/prompts/.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".kbcat", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt with the given name, reading the user file
// if present and seeding it with the default otherwise.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.init)
	if s.initErr != nil {
		return "", s.initErr
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	def, ok := defaultPrompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt: %s", name)
	}

	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt %s: %w", name, err)
		}
		// Seed the file so users can find and edit it.
		if err := os.WriteFile(path, []byte(def), 0o600); err != nil {
			return "", fmt.Errorf("seed prompt %s: %w", name, err)
		}
		data = []byte(def)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		prompt = def
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// init creates the prompt directory on first access.
func (s *PromptStore) init() {
	if err := os.MkdirAll(s.promptDir, 0o700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
	}
}
