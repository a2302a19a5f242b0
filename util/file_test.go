package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLinesCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "stats.csv")
	require.NoError(t, WriteLines(path, "a", "b", "c"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(data))
}

func TestAppendLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, AppendLines(path, "first"))
	require.NoError(t, AppendLines(path, "second", "third"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\nthird\n", string(data))
}

func TestEnsureDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "x", "y")
	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))
	assert.NoError(t, EnsureDir(""))
	assert.NoError(t, EnsureDir("."))
}
