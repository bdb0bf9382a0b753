package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	return store
}

func TestConfigStore(t *testing.T) {
	t.Run("missing file starts empty", func(t *testing.T) {
		store := newTestConfig(t)

		_, ok := store.Get(KeyKBRoot)
		assert.False(t, ok)
		assert.Empty(t, store.GetString(KeyKBRoot))
	})

	t.Run("set persists and reloads", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		store, err := NewConfigStore(path)
		require.NoError(t, err)

		require.NoError(t, store.Set(KeyKBRoot, "/srv/kb"))
		require.NoError(t, store.Set(KeyMaxRetries, 5))

		reloaded, err := NewConfigStore(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/kb", reloaded.GetString(KeyKBRoot))
		assert.Equal(t, 5, reloaded.GetInt(KeyMaxRetries))
	})

	t.Run("typed getters return zero values on mismatch", func(t *testing.T) {
		store := newTestConfig(t)
		require.NoError(t, store.Set(KeyOllamaURL, 42))

		assert.Empty(t, store.GetString(KeyOllamaURL))
		assert.False(t, store.GetBool(KeyOllamaURL))
		assert.Nil(t, store.GetStringSlice(KeyOllamaURL))
	})

	t.Run("string slices survive a reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		store, err := NewConfigStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyExtensions, []string{".pdf", ".docx"}))

		reloaded, err := NewConfigStore(path)
		require.NoError(t, err)
		assert.Equal(t, []string{".pdf", ".docx"}, reloaded.GetStringSlice(KeyExtensions))
	})

	t.Run("bool round trip", func(t *testing.T) {
		store := newTestConfig(t)
		require.NoError(t, store.Set("sync.rename", true))
		assert.True(t, store.GetBool("sync.rename"))
	})

	t.Run("config file has restricted permissions", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		store, err := NewConfigStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyOllamaURL, "http://localhost:11434"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deep", "config.toml")
		store, err := NewConfigStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Set(KeyKBRoot, "/srv/kb"))

		_, err = os.Stat(path)
		assert.NoError(t, err)
	})
}
