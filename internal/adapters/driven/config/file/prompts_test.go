package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reliefkit/kbcat/internal/core/ports/driven"
	"github.com/reliefkit/kbcat/internal/core/services"
)

func TestPromptStore(t *testing.T) {
	t.Run("first load seeds the default file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "prompts")
		store, err := NewPromptStore(dir)
		require.NoError(t, err)

		prompt, err := store.Load(driven.PromptExtractMetadata)

		require.NoError(t, err)
		assert.Equal(t, services.DefaultExtractPrompt, prompt)

		seeded, err := os.ReadFile(filepath.Join(dir, driven.PromptExtractMetadata+".txt"))
		require.NoError(t, err)
		assert.Equal(t, services.DefaultExtractPrompt, string(seeded))
	})

	t.Run("user edits take precedence", func(t *testing.T) {
		dir := t.TempDir()
		custom := "Extract metadata as JSON from:\n%s"
		path := filepath.Join(dir, driven.PromptExtractMetadata+".txt")
		require.NoError(t, os.WriteFile(path, []byte(custom+"\n"), 0o600))

		store, err := NewPromptStore(dir)
		require.NoError(t, err)

		prompt, err := store.Load(driven.PromptExtractMetadata)

		require.NoError(t, err)
		assert.Equal(t, custom, prompt, "trailing whitespace is trimmed")
	})

	t.Run("blank user file falls back to the default", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, driven.PromptExtractMetadata+".txt")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

		store, err := NewPromptStore(dir)
		require.NoError(t, err)

		prompt, err := store.Load(driven.PromptExtractMetadata)

		require.NoError(t, err)
		assert.Equal(t, services.DefaultExtractPrompt, prompt)
	})

	t.Run("unknown prompt name fails", func(t *testing.T) {
		store, err := NewPromptStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Load("summarise_everything")

		assert.Error(t, err)
	})

	t.Run("loads are cached", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewPromptStore(dir)
		require.NoError(t, err)

		first, err := store.Load(driven.PromptExtractMetadata)
		require.NoError(t, err)

		// A later file edit is not observed until a new store is built.
		path := filepath.Join(dir, driven.PromptExtractMetadata+".txt")
		require.NoError(t, os.WriteFile(path, []byte("changed"), 0o600))

		second, err := store.Load(driven.PromptExtractMetadata)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
