package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcopilot/resume-tracker/internal/common"
)

func TestSaveKeepsExtensionNotName(t *testing.T) {
	root := t.TempDir()
	store, err := New(root, nil)
	require.NoError(t, err)

	path, size, err := store.Save("Jane Doe Résumé.pdf", strings.NewReader("%PDF content"), 1024)
	require.NoError(t, err)

	assert.Equal(t, int64(12), size)
	assert.Equal(t, ".pdf", filepath.Ext(path))
	assert.NotContains(t, filepath.Base(path), "Jane", "original name must not leak into the stored path")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF content", string(data))
}

func TestSaveEnforcesSizeCap(t *testing.T) {
	root := t.TempDir()
	store, err := New(root, nil)
	require.NoError(t, err)

	_, _, err = store.Save("big.pdf", strings.NewReader(strings.Repeat("x", 101)), 100)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// The partial file must not survive a rejected upload.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveExactlyAtCap(t *testing.T) {
	store, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	_, size, err := store.Save("ok.pdf", strings.NewReader(strings.Repeat("x", 100)), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)
}

func TestRemoveMissingFileIsFine(t *testing.T) {
	store, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	assert.NoError(t, store.Remove(filepath.Join(t.TempDir(), "gone.pdf")))
}
