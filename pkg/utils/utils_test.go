package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("3f2b8c1e-9d4a-4e6b-8f0c-1a2b3c4d5e6f"))
	assert.False(t, IsUUID("mediaItemPlaylist-root"))
	assert.False(t, IsUUID(""))
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "reports", "2026", "all.csv")

	require.NoError(t, EnsureParentDir(target))

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, EnsureParentDir("relative.csv"))
}

func TestRegularFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MediaLibrary.db")
	require.NoError(t, os.WriteFile(path, []byte("SQLite format 3\x00"), 0o644))

	size, err := RegularFileSize(path)
	require.NoError(t, err)
	assert.EqualValues(t, 16, size)

	_, err = RegularFileSize(dir)
	assert.Error(t, err)

	_, err = RegularFileSize(filepath.Join(dir, "missing.db"))
	assert.True(t, os.IsNotExist(err))
}
