package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))
}

func TestNewConfigStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cfg")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), store.Path())
	_, ok := store.Get("github.tokens")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "github = [unterminated")

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_LoadsNestedTables(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[github]
tokens = ["tok-a", "tok-b"]
per_page = 50
requests_per_second = 1.5

[crawl]
state = "closed"

[rotation]
max_elapsed = "2h"
initial_interval = 30
`)

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"tok-a", "tok-b"}, store.GetStringSlice("github.tokens"))
	assert.Equal(t, 50, store.GetInt("github.per_page"))
	assert.InDelta(t, 1.5, store.GetFloat("github.requests_per_second"), 0.0001)
	assert.Equal(t, "closed", store.GetString("crawl.state"))
	assert.Equal(t, 2*time.Hour, store.GetDuration("rotation.max_elapsed"))
	assert.Equal(t, 30*time.Second, store.GetDuration("rotation.initial_interval"))
}

func TestConfigStore_Getters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("s", "text"))
	require.NoError(t, store.Set("i", 42))
	require.NoError(t, store.Set("b", true))
	require.NoError(t, store.Set("one", "single-token"))
	require.NoError(t, store.Set("bad_duration", "soon"))

	t.Run("wrong types return zero values", func(t *testing.T) {
		assert.Equal(t, "", store.GetString("i"))
		assert.Equal(t, 0, store.GetInt("b"))
		assert.False(t, store.GetBool("s"))
		assert.Nil(t, store.GetStringSlice("b"))
		assert.Zero(t, store.GetDuration("bad_duration"))
	})

	t.Run("missing keys return zero values", func(t *testing.T) {
		assert.Equal(t, "", store.GetString("missing"))
		assert.Equal(t, 0, store.GetInt("missing"))
		assert.Zero(t, store.GetFloat("missing"))
		assert.Nil(t, store.GetStringSlice("missing"))
	})

	t.Run("conversions", func(t *testing.T) {
		assert.InDelta(t, 42.0, store.GetFloat("i"), 0.0001)
		assert.True(t, store.GetBool("b"))
		assert.Equal(t, []string{"single-token"}, store.GetStringSlice("one"))
	})
}

func TestConfigStore_SetPersistsNested(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("github.tokens", []string{"tok-a"}))
	require.NoError(t, store.Set("storage.backend", "sqlite"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[github]")
	assert.Contains(t, string(raw), "[storage]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-a"}, reloaded.GetStringSlice("github.tokens"))
	assert.Equal(t, "sqlite", reloaded.GetString("storage.backend"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("github.tokens", []string{"secret"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNestKeys(t *testing.T) {
	nested := nestKeys(map[string]any{
		"a.b":   1,
		"a.c":   2,
		"x":     "scalar",
		"x.sub": 3,
		"top":   true,
	})

	assert.Equal(t, map[string]any{"b": 1, "c": 2}, nested["a"])
	assert.Equal(t, true, nested["top"])
	assert.Equal(t, "scalar", nested["x"])
	assert.Contains(t, []any{3, nil}, nested["x.sub"])
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"github": map[string]any{"per_page": int64(10)},
		"debug":  false,
	}, "")

	assert.Equal(t, map[string]any{"github.per_page": int64(10), "debug": false}, flat)
}
