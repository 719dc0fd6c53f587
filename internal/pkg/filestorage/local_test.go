package filestorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveBytesWithPathRoundTrip(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	stored, err := ls.SaveBytesWithPath([]byte("jpeg bytes"), ".jpg", "evidence")
	require.NoError(t, err)
	assert.Equal(t, "uploads", filepath.ToSlash(stored)[:7])
	assert.Contains(t, filepath.ToSlash(stored), "evidence/")

	// The stored path must resolve back to the file on disk, subdirectory
	// included.
	full := ls.GetFullPath(stored)
	require.NotEmpty(t, full)

	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestDeleteFileRemovesStoredFile(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	stored, err := ls.SaveBytesWithPath([]byte("x"), ".jpg", "evidence")
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile(stored))

	_, err = os.Stat(ls.GetFullPath(stored))
	assert.True(t, os.IsNotExist(err))
}

func TestGetFullPathRejectsEscapes(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, ls.GetFullPath("uploads/../../etc/passwd"))
	assert.Empty(t, ls.GetFullPath(""))
	assert.Empty(t, ls.GetFullPath("uploads"))
}
