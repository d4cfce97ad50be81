package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablesite/internal/core/domain"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ConfigFileName), store.Path())
	assert.NoFileExists(t, store.Path())
}

func TestNewConfigStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestConfigStore_SetPersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("backend.url", "http://api:4000"))
	require.NoError(t, store.Set("backend.rate_limit", 2.5))
	require.NoError(t, store.Set("restaurant.id", "spice-route"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[backend]")
	assert.Contains(t, content, "[restaurant]")
	assert.NotContains(t, content, "'backend.url'")
	assert.NotContains(t, content, `"backend.url"`)
}

func TestConfigStore_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("backend.url", "http://api:4000"))
	require.NoError(t, store.Set("backend.rate_limit", 2.5))
	require.NoError(t, store.Set("backend.retries", 3))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://api:4000", reopened.GetString("backend.url"))
	assert.InDelta(t, 2.5, reopened.GetFloat("backend.rate_limit"), 0.0001)
	assert.InDelta(t, 3.0, reopened.GetFloat("backend.retries"), 0.0001)
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[restaurant]
id = "r7"

[storage]
driver = "redis"
redis_addr = "cache:6379"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "r7", store.GetString("restaurant.id"))
	assert.Equal(t, "redis", store.GetString("storage.driver"))
	assert.Equal(t, "cache:6379", store.GetString("storage.redis_addr"))
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("[broken"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_TypedGetters_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("server.addr", ":4000"))

	assert.Zero(t, store.GetFloat("server.addr"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_Set_EmptyKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Set("", "x"), domain.ErrInvalidInput)
}

func TestConfigStore_Set_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("backend.url", "x"))

	err = store.Set("backend", "flat")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, exists := store.Get("backend")
	assert.False(t, exists)
	assert.Equal(t, "x", store.GetString("backend.url"))
}

func TestConfigStore_Update_SingleWrite(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Update(map[string]any{
		"restaurant.id":  "spice-route",
		"server.addr":    ":9000",
		"storage.driver": "memory",
	}))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "spice-route", reopened.GetString("restaurant.id"))
	assert.Equal(t, ":9000", reopened.GetString("server.addr"))
	assert.Equal(t, "memory", reopened.GetString("storage.driver"))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestConfigStore_Update_RejectsEmptyKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	err = store.Update(map[string]any{"server.addr": ":1", "": "x"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.GetString("server.addr"))
	assert.NoFileExists(t, store.Path())
}

func TestConfigStore_Unset(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("server.addr", ":9000"))
	require.NoError(t, store.Set("restaurant.id", "r1"))

	require.NoError(t, store.Unset("server.addr"))
	require.NoError(t, store.Unset("never.set"))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	_, exists := reopened.Get("server.addr")
	assert.False(t, exists)
	assert.Equal(t, "r1", reopened.GetString("restaurant.id"))
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{
		"a.b.c": 1,
		"a.b.d": 2,
		"e":     "x",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 1, "d": 2}},
		"e": "x",
	}, nested)
	assert.Equal(t, map[string]any{"a.b.c": 1, "a.b.d": 2, "e": "x"}, flattenMap(nested, ""))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("server.addr", ":4000"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
