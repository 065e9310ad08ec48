package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("export.csv", []byte("v1"))
	require.NoError(t, err)
	_, err = store.Save("export.csv", []byte("v2"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "export.csv"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestLocalStoragePruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	names := []string{"a.csv", "b.csv", "c.csv"}
	base := time.Now().Add(-time.Hour)
	for i, name := range names {
		_, err := store.Save(name, []byte(name))
		require.NoError(t, err)
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(dir, name), mod, mod))
	}

	require.NoError(t, store.Prune(1))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "c.csv", entries[0].Name())
}

func TestLocalStoragePruneNoopUnderLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("a.csv", []byte("a"))
	require.NoError(t, err)

	require.NoError(t, store.Prune(10))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
