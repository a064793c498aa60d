package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".chatweb", "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("chat.model", "gpt-4o"))
	require.NoError(t, store.Set("retrieval.limit", 50))
	require.NoError(t, store.Set("chat.temperature", 0.25))
	require.NoError(t, store.Set("watch", true))

	assert.Equal(t, "gpt-4o", store.GetString("chat.model"))
	assert.Equal(t, 50, store.GetInt("retrieval.limit"))
	assert.InDelta(t, 0.25, store.GetFloat("chat.temperature"), 1e-9)
	assert.True(t, store.GetBool("watch"))

	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("chat.model"))
	assert.Zero(t, store.GetFloat("chat.model"))
	assert.False(t, store.GetBool("chat.model"))
}

func TestConfigStore_Persistence_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("language", "English"))
	require.NoError(t, store.Set("chat.model", "gpt-4"))
	require.NoError(t, store.Set("chat.temperature", 0.1))
	require.NoError(t, store.Set("retrieval.limit", 100))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[chat]")
	assert.Contains(t, string(raw), "[retrieval]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "English", reloaded.GetString("language"))
	assert.Equal(t, "gpt-4", reloaded.GetString("chat.model"))
	assert.InDelta(t, 0.1, reloaded.GetFloat("chat.temperature"), 1e-9)
	assert.Equal(t, 100, reloaded.GetInt("retrieval.limit"))
}

func TestConfigStore_GetFloat_WidensTOMLIntegers(t *testing.T) {
	tmpDir := t.TempDir()
	content := "[chat]\ntemperature = 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, store.GetFloat("chat.temperature"), 1e-9)
}

func TestConfigStore_HandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `language = "Deutsch"

[embedding]
provider = "ollama"
model = "nomic-embed-text"
dimensions = 768

[storage]
backend = "memory"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "Deutsch", store.GetString("language"))
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, 768, store.GetInt("embedding.dimensions"))
	assert.Equal(t, "memory", store.GetString("storage.backend"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("chat.api_key", "sk-secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)

	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_LeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("language", "English"))
	require.NoError(t, store.Save())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestConfigStore_Save_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("chat", "gpt-4"))

	err = store.Set("chat.model", "gpt-4")

	assert.Error(t, err)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Load_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("retrieval.limit", 10)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.limit")
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, store.GetInt("retrieval.limit"))
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{
		"language":      "English",
		"chat.model":    "gpt-4",
		"chat.base_url": "",
		"a.b.c":         int64(1),
	})
	require.NoError(t, err)

	assert.Equal(t, "English", nested["language"])
	assert.Equal(t, map[string]any{"model": "gpt-4", "base_url": ""}, nested["chat"])
	assert.Equal(t, map[string]any{"b": map[string]any{"c": int64(1)}}, nested["a"])
	assert.Equal(t, map[string]any{"language": "English", "chat.model": "gpt-4", "chat.base_url": "", "a.b.c": int64(1)},
		flattenMap(nested, ""))
}
